package dispatchlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	redisc "github.com/solsticehq/solstice-api/internal/pkg/redis"
)

// Status is the lifecycle state of a recorded newsletter dispatch.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record is one newsletter fan-out stored in Redis for the admin dashboard.
type Record struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug,omitempty"`
	Status     Status    `json:"status"`
	Recipients int       `json:"recipients"`
	Batches    int       `json:"batches"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	keyPrefix = "solstice:dispatch:"
	keyIndex  = "solstice:dispatches:index" // sorted set: score=created_at ms, member=id
	recordTTL = 30 * 24 * time.Hour
)

// Service keeps the Redis-backed dispatch journal. Every write is
// best-effort: the newsletter dispatcher never lets a journal failure
// affect the dispatch outcome.
type Service struct {
	rc *redisc.Client
}

func NewService(rc *redisc.Client) *Service {
	return &Service{rc: rc}
}

func (s *Service) key(id string) string { return keyPrefix + id }

// Begin stores a running record for a dispatch that is about to happen.
func (s *Service) Begin(ctx context.Context, title, slug string) (*Record, error) {
	rec := &Record{
		ID:        uuid.New().String(),
		Title:     title,
		Slug:      slug,
		Status:    StatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.write(ctx, rec, true); err != nil {
		return nil, err
	}
	return rec, nil
}

// Finish marks a record completed or failed with the fan-out counters.
func (s *Service) Finish(ctx context.Context, id string, recipients, batches int, dispatchErr error) error {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("dispatch record not found")
	}
	rec.Recipients = recipients
	rec.Batches = batches
	rec.UpdatedAt = time.Now()
	if dispatchErr != nil {
		rec.Status = StatusFailed
		rec.Error = dispatchErr.Error()
	} else {
		rec.Status = StatusCompleted
	}
	return s.write(ctx, rec, false)
}

func (s *Service) write(ctx context.Context, rec *Record, index bool) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	pipe := s.rc.Raw().TxPipeline()
	pipe.Set(ctx, s.key(rec.ID), data, recordTTL)
	if index {
		pipe.ZAdd(ctx, keyIndex, redis.Z{
			Score:  float64(rec.CreatedAt.UnixMilli()),
			Member: rec.ID,
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

// GetByID retrieves a record by its ID. Returns (nil, nil) when missing.
func (s *Service) GetByID(ctx context.Context, id string) (*Record, error) {
	data, err := s.rc.Raw().Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec Record
	return &rec, json.Unmarshal(data, &rec)
}

// List returns records ordered by creation time descending.
func (s *Service) List(ctx context.Context, page, size int) ([]*Record, int64, error) {
	ids, err := s.rc.Raw().ZRevRange(ctx, keyIndex, 0, -1).Result()
	if err != nil {
		return nil, 0, err
	}

	var records []*Record
	for _, id := range ids {
		rec, err := s.GetByID(ctx, id)
		if err != nil || rec == nil {
			continue
		}
		records = append(records, rec)
	}

	total := int64(len(records))
	start := (page - 1) * size
	end := start + size
	if start >= len(records) {
		return []*Record{}, total, nil
	}
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], total, nil
}

// DeleteFinishedBefore removes completed/failed records older than cutoff.
func (s *Service) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) error {
	ids, _ := s.rc.Raw().ZRange(ctx, keyIndex, 0, -1).Result()
	pipe := s.rc.Raw().TxPipeline()
	for _, id := range ids {
		rec, err := s.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if rec == nil {
			// value expired, drop the dangling index entry
			pipe.ZRem(ctx, keyIndex, id)
			continue
		}
		if rec.Status == StatusRunning || rec.CreatedAt.After(cutoff) {
			continue
		}
		pipe.Del(ctx, s.key(id))
		pipe.ZRem(ctx, keyIndex, id)
	}
	_, err := pipe.Exec(ctx)
	return err
}
