package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antagata/campaign-winners/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	runs     int
	err      error
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.NewNop())
	job := &fakeJob{name: "refresh", schedule: "0 0 7 * * *"}

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job), "duplicate job names must be rejected")
}

func TestScheduler_AddJobRejectsBadSpec(t *testing.T) {
	s := New(logger.NewNop())
	err := s.AddJob(&fakeJob{name: "broken", schedule: "not a cron spec"})
	require.Error(t, err)
}

func TestScheduler_RunJob(t *testing.T) {
	s := New(logger.NewNop())
	job := &fakeJob{name: "refresh", schedule: "0 0 7 * * *"}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("refresh"))
	assert.Equal(t, 1, job.runs)

	h, ok := s.History("refresh")
	require.True(t, ok)
	assert.Equal(t, 1, h.RunCount)
	assert.Equal(t, 0, h.FailCount)
	assert.Empty(t, h.LastError)
	assert.False(t, h.LastSuccess.IsZero())
}

func TestScheduler_RunJobRecordsFailure(t *testing.T) {
	s := New(logger.NewNop())
	job := &fakeJob{name: "refresh", schedule: "0 0 7 * * *", err: errors.New("load snapshots: boom")}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunJob("refresh"))

	h, ok := s.History("refresh")
	require.True(t, ok)
	assert.Equal(t, 1, h.FailCount)
	assert.Equal(t, "load snapshots: boom", h.LastError)
	assert.True(t, h.LastSuccess.IsZero())
}

func TestScheduler_RunJobUnknownName(t *testing.T) {
	s := New(logger.NewNop())
	require.Error(t, s.RunJob("missing"))

	_, ok := s.History("missing")
	assert.False(t, ok)
}
