package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"innerai_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) SweepExpired(db *gorm.DB) (int64, int64, error) {
	s.calls.Add(1)
	return 2, 1, s.err
}

func TestTokenSweepWorker_RunsUntilCancelled(t *testing.T) {
	db := testutil.NewTestDB(t)
	sweeper := &countingSweeper{}
	w := NewTokenSweepWorker(db, sweeper, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := w.Start(ctx)

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestTokenSweepWorker_Disabled(t *testing.T) {
	db := testutil.NewTestDB(t)
	sweeper := &countingSweeper{}
	w := NewTokenSweepWorker(db, sweeper, 0)

	done := w.Start(context.Background())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled worker should return immediately")
	}
	assert.Zero(t, sweeper.calls.Load())
}

func TestTokenSweepWorker_SweepOnceSurvivesErrors(t *testing.T) {
	db := testutil.NewTestDB(t)
	sweeper := &countingSweeper{err: errors.New("db down")}
	w := NewTokenSweepWorker(db, sweeper, time.Hour)

	assert.NotPanics(t, func() { w.SweepOnce(context.Background()) })
	assert.EqualValues(t, 1, sweeper.calls.Load())
}
