package newsletter

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/solsticehq/solstice-api/internal/models"
	"gorm.io/gorm"
)

// emailPattern accepts the local@domain.tld shape and nothing fancier.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims whitespace and lowercases the address so that every
// variant of the same mailbox maps to one ledger row.
func NormalizeEmail(email string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(norm) {
		return "", ErrInvalidEmail
	}
	return norm, nil
}

// subscriberStore is the slice of Store the lifecycle machine needs.
type subscriberStore interface {
	Insert(rec *models.SubscriberModel) error
	FindByEmail(email string) (*models.SubscriberModel, error)
	UpdateStatus(email string, status models.SubscriberStatus, source *string) error
}

// Service drives the subscriber lifecycle: none -> active -> unsubscribed
// -> active. Every transition is keyed on the normalized email.
type Service struct {
	store         subscriberStore
	defaultSource string
}

func NewService(db *gorm.DB, defaultSource string) *Service {
	return newServiceWithStore(NewStore(db), defaultSource)
}

func newServiceWithStore(store subscriberStore, defaultSource string) *Service {
	if defaultSource == "" {
		defaultSource = "footer"
	}
	return &Service{store: store, defaultSource: defaultSource}
}

// Subscribe records an email, idempotently. A brand-new address is inserted
// as active with SubscribedAt set now; an already-active address is a no-op
// success with Created false; an unsubscribed address is reactivated, keeping
// its original SubscribedAt and overwriting Source.
func (s *Service) Subscribe(email string, meta SubscribeMeta) (*SubscribeResult, error) {
	norm, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	source := meta.Source
	if source == "" {
		source = s.defaultSource
	}

	existing, err := s.store.FindByEmail(norm)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		rec := &models.SubscriberModel{
			Email:        norm,
			Status:       models.SubscriberActive,
			Source:       source,
			SubscribedAt: time.Now(),
		}
		err := s.store.Insert(rec)
		if errors.Is(err, ErrDuplicateEmail) {
			// Lost a concurrent insert for the same address. The unique
			// constraint arbitrated; re-read and report the winner.
			winner, readErr := s.store.FindByEmail(norm)
			if readErr != nil {
				return nil, readErr
			}
			if winner == nil {
				return nil, err
			}
			return &SubscribeResult{
				Success:    true,
				Created:    false,
				Message:    "already subscribed",
				Subscriber: winner,
			}, nil
		}
		if err != nil {
			return nil, err
		}
		return &SubscribeResult{
			Success:    true,
			Created:    true,
			Message:    "subscribed",
			Subscriber: rec,
		}, nil
	}

	if existing.IsActive() {
		return &SubscribeResult{
			Success:    true,
			Created:    false,
			Message:    "already subscribed",
			Subscriber: existing,
		}, nil
	}

	if err := s.store.UpdateStatus(norm, models.SubscriberActive, &source); err != nil {
		return nil, err
	}
	existing.Status = models.SubscriberActive
	existing.Source = source
	return &SubscribeResult{
		Success:      true,
		Created:      false,
		Resubscribed: true,
		Message:      "resubscribed",
		Subscriber:   existing,
	}, nil
}

// Unsubscribe marks an email as unsubscribed. The record stays in the ledger
// so stats and re-subscription keep working. Unsubscribing an address that is
// already unsubscribed is reported in the result, not raised as an error;
// an unknown address is ErrNotFound.
func (s *Service) Unsubscribe(email string) (*UnsubscribeResult, error) {
	norm, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindByEmail(norm)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if existing.Status == models.SubscriberUnsubscribed {
		return &UnsubscribeResult{Success: false, Message: "already unsubscribed"}, nil
	}

	if err := s.store.UpdateStatus(norm, models.SubscriberUnsubscribed, nil); err != nil {
		return nil, err
	}
	return &UnsubscribeResult{Success: true, Message: "unsubscribed"}, nil
}
