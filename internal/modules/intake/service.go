package intake

import (
	"errors"
	"strings"
	"time"

	"github.com/solsticehq/solstice-api/internal/models"
	"github.com/solsticehq/solstice-api/internal/modules/newsletter"
	"github.com/solsticehq/solstice-api/internal/pkg/mail"
	"github.com/solsticehq/solstice-api/internal/pkg/pagination"
	"github.com/solsticehq/solstice-api/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an inquiry ID does not exist.
var ErrNotFound = errors.New("inquiry not found")

// ownerNotifier is the slice of mail.Sender the service needs; tests
// substitute fakes.
type ownerNotifier interface {
	SendInquiryNotify(to string, data mail.InquiryNotifyData) error
}

// Options wires the owner notification side channel.
type Options struct {
	SiteName      string
	NotifyOwner   bool
	OwnerEmail    string
	RetentionDays int
}

// Service stores intake submissions and notifies the site owner. Submissions
// outlive the notification: a mail failure never loses the record.
type Service struct {
	db       *gorm.DB
	notifier ownerNotifier
	logger   *zap.Logger
	opts     Options
}

func NewService(db *gorm.DB, notifier ownerNotifier, opts Options) *Service {
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = 180
	}
	return &Service{db: db, notifier: notifier, logger: zap.NewNop(), opts: opts}
}

func (s *Service) SetLogger(l *zap.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Submit validates and stores one form submission, then notifies the owner
// best effort.
func (s *Service) Submit(kind models.InquiryKind, dto *SubmitDTO) (*models.InquiryModel, error) {
	email, err := newsletter.NormalizeEmail(dto.Email)
	if err != nil {
		return nil, err
	}

	rec := &models.InquiryModel{
		Kind:    kind,
		Name:    strings.TrimSpace(dto.Name),
		Email:   email,
		Subject: strings.TrimSpace(dto.Subject),
		Message: strings.TrimSpace(dto.Message),
		Link:    strings.TrimSpace(dto.Link),
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, err
	}

	if s.opts.NotifyOwner && s.notifier != nil && s.opts.OwnerEmail != "" {
		go s.notifyOwner(rec)
	}
	return rec, nil
}

func (s *Service) notifyOwner(rec *models.InquiryModel) {
	err := s.notifier.SendInquiryNotify(s.opts.OwnerEmail, mail.InquiryNotifyData{
		SiteName: s.opts.SiteName,
		Kind:     string(rec.Kind),
		Name:     rec.Name,
		Email:    rec.Email,
		Subject:  rec.Subject,
		Message:  rec.Message,
		Link:     rec.Link,
	})
	if err != nil {
		s.logger.Warn("inquiry owner notification failed",
			zap.String("kind", string(rec.Kind)),
			zap.Error(err))
	}
}

// List returns a page of the admin inbox, newest first.
func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.InquiryModel, response.Pagination, error) {
	tx := s.db.Model(&models.InquiryModel{}).Order("created_at DESC")
	if lq.Kind != "" {
		tx = tx.Where("kind = ?", lq.Kind)
	}
	if lq.Unread {
		tx = tx.Where("read = ?", false)
	}

	var items []models.InquiryModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

// MarkRead flips one inquiry to read.
func (s *Service) MarkRead(id string) error {
	result := s.db.Model(&models.InquiryModel{}).Where("id = ?", id).Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one inquiry.
func (s *Service) Delete(id string) error {
	result := s.db.Delete(&models.InquiryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeExpired hard-deletes inquiries older than the retention window.
// Returns the number of rows removed; wired to the daily cron job.
func (s *Service) PurgeExpired() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.opts.RetentionDays)
	result := s.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.InquiryModel{})
	return result.RowsAffected, result.Error
}
