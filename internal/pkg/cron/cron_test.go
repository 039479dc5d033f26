package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesJob(t *testing.T) {
	s := New()
	var ran atomic.Int32
	s.Register(Job{
		Name:     "touch",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		},
	})

	require.NoError(t, s.Run(context.Background(), "touch"))
	assert.Eventually(t, func() bool { return ran.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRunUnknownJob(t *testing.T) {
	s := New()
	assert.Error(t, s.Run(context.Background(), "nope"))
}

func TestListReportsFailure(t *testing.T) {
	s := New()
	s.Register(Job{
		Name:     "boom",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			return errors.New("db down")
		},
	})

	require.NoError(t, s.Run(context.Background(), "boom"))
	assert.Eventually(t, func() bool {
		items := s.List()
		return len(items) == 1 && items[0].Status == StatusReject && items[0].Message == "db down"
	}, time.Second, 10*time.Millisecond)
}
