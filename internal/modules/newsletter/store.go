package newsletter

import (
	"errors"
	"fmt"

	"github.com/solsticehq/solstice-api/internal/models"
	"gorm.io/gorm"
)

// Store persists subscriber records. Uniqueness on the normalized email is
// enforced by the column constraint, not application-level locking; Insert
// reports a constraint conflict as ErrDuplicateEmail.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

// Insert creates a new subscriber row.
func (s *Store) Insert(rec *models.SubscriberModel) error {
	if err := s.db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// FindByEmail returns the record for a normalized email, or (nil, nil).
func (s *Store) FindByEmail(email string) (*models.SubscriberModel, error) {
	var rec models.SubscriberModel
	if err := s.db.Where("email = ?", email).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return &rec, nil
}

// UpdateStatus flips a subscriber's status. When source is non-nil it is
// overwritten too; SubscribedAt is never touched.
func (s *Store) UpdateStatus(email string, status models.SubscriberStatus, source *string) error {
	updates := map[string]interface{}{"status": status}
	if source != nil {
		updates["source"] = *source
	}
	result := s.db.Model(&models.SubscriberModel{}).
		Where("email = ?", email).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update subscriber status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus counts subscribers in one lifecycle state.
func (s *Store) CountByStatus(status models.SubscriberStatus) (int64, error) {
	var n int64
	err := s.db.Model(&models.SubscriberModel{}).
		Where("status = ?", status).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}

// ActiveEmails returns the addresses of every active subscriber, oldest
// subscription first.
func (s *Store) ActiveEmails() ([]string, error) {
	var emails []string
	err := s.db.Model(&models.SubscriberModel{}).
		Where("status = ?", models.SubscriberActive).
		Order("subscribed_at ASC").
		Pluck("email", &emails).Error
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	return emails, nil
}
