package intake

import (
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/solsticehq/solstice-api/internal/database"
	"github.com/solsticehq/solstice-api/internal/models"
	"github.com/solsticehq/solstice-api/internal/modules/newsletter"
	"github.com/solsticehq/solstice-api/internal/pkg/mail"
	"github.com/solsticehq/solstice-api/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls []mail.InquiryNotifyData
}

func (f *fakeNotifier) SendInquiryNotify(to string, data mail.InquiryNotifyData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, data)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSubmitStoresNormalizedSubmission(t *testing.T) {
	svc := NewService(newTestDB(t), nil, Options{})

	rec, err := svc.Submit(models.InquiryContact, &SubmitDTO{
		Name:    "  Ada  ",
		Email:   " Ada@Example.com ",
		Message: "Hello there",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.Name)
	assert.Equal(t, "ada@example.com", rec.Email)
	assert.Equal(t, models.InquiryContact, rec.Kind)
	assert.False(t, rec.Read)
}

func TestSubmitRejectsInvalidEmail(t *testing.T) {
	svc := NewService(newTestDB(t), nil, Options{})

	_, err := svc.Submit(models.InquiryContact, &SubmitDTO{
		Name: "Ada", Email: "not-an-email", Message: "Hello",
	})
	assert.ErrorIs(t, err, newsletter.ErrInvalidEmail)
}

func TestSubmitNotifiesOwner(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(newTestDB(t), notifier, Options{
		SiteName:    "Solstice",
		NotifyOwner: true,
		OwnerEmail:  "owner@solstice.example",
	})

	_, err := svc.Submit(models.InquiryMedia, &SubmitDTO{
		Name: "Reporter", Email: "press@example.com", Message: "Interview?",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return notifier.count() == 1 },
		time.Second, 10*time.Millisecond)
	assert.Equal(t, "media", notifier.calls[0].Kind)
}

func TestSubmitSkipsNotificationWhenDisabled(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewService(newTestDB(t), notifier, Options{
		NotifyOwner: false,
		OwnerEmail:  "owner@solstice.example",
	})

	_, err := svc.Submit(models.InquiryContact, &SubmitDTO{
		Name: "Ada", Email: "ada@example.com", Message: "Hello",
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, notifier.count())
}

func TestListFiltersByKindAndUnread(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil, Options{})

	for _, kind := range []models.InquiryKind{
		models.InquiryContact, models.InquiryContact, models.InquiryCareers,
	} {
		_, err := svc.Submit(kind, &SubmitDTO{
			Name: "Ada", Email: "ada@example.com", Message: "Hello",
		})
		require.NoError(t, err)
	}

	q := pagination.Query{Page: 1, Size: 10}

	contact, pag, err := svc.List(q, ListQuery{Kind: "contact"})
	require.NoError(t, err)
	assert.Len(t, contact, 2)
	assert.Equal(t, int64(2), pag.Total)

	require.NoError(t, svc.MarkRead(contact[0].ID))
	unread, _, err := svc.List(q, ListQuery{Unread: true})
	require.NoError(t, err)
	assert.Len(t, unread, 2)
}

func TestMarkReadUnknownID(t *testing.T) {
	svc := NewService(newTestDB(t), nil, Options{})
	assert.ErrorIs(t, svc.MarkRead("missing"), ErrNotFound)
}

func TestPurgeExpiredRemovesOldRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, nil, Options{RetentionDays: 30})

	fresh, err := svc.Submit(models.InquiryContact, &SubmitDTO{
		Name: "Ada", Email: "ada@example.com", Message: "recent",
	})
	require.NoError(t, err)
	stale, err := svc.Submit(models.InquiryContact, &SubmitDTO{
		Name: "Ada", Email: "ada@example.com", Message: "old",
	})
	require.NoError(t, err)

	old := time.Now().AddDate(0, 0, -60)
	require.NoError(t, db.Model(&models.InquiryModel{}).
		Where("id = ?", stale.ID).
		UpdateColumn("created_at", old).Error)

	removed, err := svc.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var count int64
	require.NoError(t, db.Model(&models.InquiryModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var kept models.InquiryModel
	require.NoError(t, db.First(&kept, "id = ?", fresh.ID).Error)
}
