package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/dailyguessr/internal/scheduler"
	"anoa.com/dailyguessr/pkg/apperror"
)

type fakeJob struct {
	name     string
	schedule string
	err      error
	runs     atomic.Int32
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Execute(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestRegister(t *testing.T) {
	s := scheduler.NewScheduler(time.UTC)

	require.NoError(t, s.Register(&fakeJob{name: "daily-link", schedule: "0 12 * * *"}))
	require.NoError(t, s.Register(&fakeJob{name: "manual"}))

	assert.Equal(t, []string{"daily-link", "manual"}, s.Jobs())
}

func TestRegister_Rejects(t *testing.T) {
	s := scheduler.NewScheduler(time.UTC)
	require.NoError(t, s.Register(&fakeJob{name: "daily-link", schedule: "0 12 * * *"}))

	assert.Error(t, s.Register(&fakeJob{name: "daily-link", schedule: "0 13 * * *"}))
	assert.Error(t, s.Register(&fakeJob{name: "broken", schedule: "every day at noon"}))
	assert.Equal(t, []string{"daily-link"}, s.Jobs())
}

func TestRunJobByName(t *testing.T) {
	s := scheduler.NewScheduler(time.UTC)
	ok := &fakeJob{name: "ok", schedule: "0 12 * * *"}
	failing := &fakeJob{name: "failing", err: errors.New("channel unavailable")}
	require.NoError(t, s.Register(ok))
	require.NoError(t, s.Register(failing))

	require.NoError(t, s.RunJobByName(context.Background(), "ok"))
	assert.Equal(t, int32(1), ok.runs.Load())

	assert.EqualError(t, s.RunJobByName(context.Background(), "failing"), "channel unavailable")
	assert.Equal(t, int32(1), failing.runs.Load())

	assert.ErrorIs(t, s.RunJobByName(context.Background(), "missing"), apperror.ErrNotFound)
}

func TestNextRun_KnownAfterStart(t *testing.T) {
	s := scheduler.NewScheduler(time.UTC)
	require.NoError(t, s.Register(&fakeJob{name: "daily-link", schedule: "0 12 * * *"}))

	_, known := s.NextRun("daily-link")
	assert.False(t, known)

	s.Start()
	defer s.Stop(context.Background())

	next, known := s.NextRun("daily-link")
	require.True(t, known)
	assert.Equal(t, 12, next.UTC().Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))

	_, known = s.NextRun("missing")
	assert.False(t, known)
}
