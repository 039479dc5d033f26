package newsletter

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/solsticehq/solstice-api/internal/database"
	"github.com/solsticehq/solstice-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// In-memory sqlite is per connection; keep the pool at one so every
	// query sees the migrated schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "user@example.com", "user@example.com", false},
		{"mixed case and padding", "  A@Example.com ", "a@example.com", false},
		{"missing at", "userexample.com", "", true},
		{"missing tld", "user@example", "", true},
		{"embedded space", "us er@example.com", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEmail(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEmail)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubscribeCreatesActiveRecord(t *testing.T) {
	svc := NewService(newTestDB(t), "footer")

	res, err := svc.Subscribe("reader@example.com", SubscribeMeta{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.True(t, res.Created)
	require.NotNil(t, res.Subscriber)
	assert.Equal(t, models.SubscriberActive, res.Subscriber.Status)
	assert.Equal(t, "footer", res.Subscriber.Source)
	assert.False(t, res.Subscriber.SubscribedAt.IsZero())
}

func TestSubscribeIsIdempotent(t *testing.T) {
	svc := NewService(newTestDB(t), "footer")

	first, err := svc.Subscribe("reader@example.com", SubscribeMeta{})
	require.NoError(t, err)
	assert.True(t, first.Created)

	// Same mailbox, different surface form.
	second, err := svc.Subscribe("  Reader@Example.COM ", SubscribeMeta{})
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.False(t, second.Created)
	assert.Equal(t, "already subscribed", second.Message)
}

func TestSubscribeUnsubscribeCycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, "footer")

	created, err := svc.Subscribe("reader@example.com", SubscribeMeta{Source: "footer"})
	require.NoError(t, err)
	originalSubscribedAt := created.Subscriber.SubscribedAt

	unres, err := svc.Unsubscribe("reader@example.com")
	require.NoError(t, err)
	assert.True(t, unres.Success)

	res, err := svc.Subscribe("reader@example.com", SubscribeMeta{Source: "popup"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Created)
	assert.True(t, res.Resubscribed)

	var rec models.SubscriberModel
	require.NoError(t, db.Where("email = ?", "reader@example.com").First(&rec).Error)
	assert.Equal(t, models.SubscriberActive, rec.Status)
	assert.Equal(t, "popup", rec.Source)
	assert.WithinDuration(t, originalSubscribedAt, rec.SubscribedAt, time.Second)
}

func TestUnsubscribeUnknownEmail(t *testing.T) {
	svc := NewService(newTestDB(t), "footer")

	_, err := svc.Unsubscribe("ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnsubscribeTwiceIsReportedNotFatal(t *testing.T) {
	svc := NewService(newTestDB(t), "footer")

	_, err := svc.Subscribe("reader@example.com", SubscribeMeta{})
	require.NoError(t, err)

	first, err := svc.Unsubscribe("reader@example.com")
	require.NoError(t, err)
	assert.True(t, first.Success)

	second, err := svc.Unsubscribe("reader@example.com")
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, "already unsubscribed", second.Message)
}

func TestStoreRejectsDuplicateEmail(t *testing.T) {
	store := NewStore(newTestDB(t))

	require.NoError(t, store.Insert(&models.SubscriberModel{
		Email:  "reader@example.com",
		Status: models.SubscriberActive,
	}))
	err := store.Insert(&models.SubscriberModel{
		Email:  "reader@example.com",
		Status: models.SubscriberActive,
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

// racingStore simulates losing an insert race: the first read sees nothing,
// the insert hits the unique constraint, the re-read sees the winner.
type racingStore struct {
	*Store
	mu    sync.Mutex
	reads int
}

func (r *racingStore) FindByEmail(email string) (*models.SubscriberModel, error) {
	r.mu.Lock()
	first := r.reads == 0
	r.reads++
	r.mu.Unlock()
	if first {
		return nil, nil
	}
	return r.Store.FindByEmail(email)
}

func (r *racingStore) Insert(rec *models.SubscriberModel) error {
	return ErrDuplicateEmail
}

func TestSubscribeLostRaceIsIdempotentSuccess(t *testing.T) {
	db := newTestDB(t)
	inner := NewStore(db)
	require.NoError(t, inner.Insert(&models.SubscriberModel{
		Email:  "reader@example.com",
		Status: models.SubscriberActive,
	}))

	svc := newServiceWithStore(&racingStore{Store: inner}, "footer")
	res, err := svc.Subscribe("reader@example.com", SubscribeMeta{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Created)
}

func TestConcurrentSubscribesKeepOneRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, "footer")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Subscribe("reader@example.com", SubscribeMeta{})
		}()
	}
	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&models.SubscriberModel{}).
		Where("email = ?", "reader@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func seedSubscribers(t *testing.T, db *gorm.DB, active, unsubscribed int) {
	t.Helper()
	store := NewStore(db)
	for i := 0; i < active; i++ {
		require.NoError(t, store.Insert(&models.SubscriberModel{
			Email:  fmt.Sprintf("active%02d@example.com", i),
			Status: models.SubscriberActive,
		}))
	}
	for i := 0; i < unsubscribed; i++ {
		require.NoError(t, store.Insert(&models.SubscriberModel{
			Email:  fmt.Sprintf("gone%02d@example.com", i),
			Status: models.SubscriberUnsubscribed,
		}))
	}
}
