package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulens/edulens/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	err      error
	runs     int
}

func (j *fakeJob) Name() string                  { return j.name }
func (j *fakeJob) Schedule() string              { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error { j.runs++; return j.err }

func TestAddJobRejectsDuplicateName(t *testing.T) {
	s := New(logger.NewNop())

	require.NoError(t, s.AddJob(&fakeJob{name: "pipeline", schedule: "@hourly"}))
	err := s.AddJob(&fakeJob{name: "pipeline", schedule: "@daily"})
	require.Error(t, err)
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())
	err := s.AddJob(&fakeJob{name: "pipeline", schedule: "not a cron expr"})
	require.Error(t, err)
}

func TestRunJobUnknownName(t *testing.T) {
	s := New(logger.NewNop())
	require.Error(t, s.RunJob("nope"))
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(logger.NewNop())
	job := &fakeJob{name: "pipeline", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	h, err := s.History("pipeline")
	require.NoError(t, err)
	require.Len(t, h.Results, 1)
	assert.True(t, h.Results[0].Success)
	assert.Equal(t, 1, job.runs)
	assert.Equal(t, 1.0, h.SuccessRate())
}

func TestFailingJobRetries(t *testing.T) {
	s := New(logger.NewNop())
	s.maxRetries = 2
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "pipeline", schedule: "@hourly", err: errors.New("boom")}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	assert.Equal(t, 3, job.runs) // initial attempt + 2 retries

	h, err := s.History("pipeline")
	require.NoError(t, err)
	require.Len(t, h.Results, 1)
	assert.False(t, h.Results[0].Success)
	assert.Equal(t, "boom", h.Results[0].Error)
}

func TestJobHistoryCapped(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: fmt.Sprintf("r%d", i), Success: true})
	}
	assert.Len(t, h.Results, historyLimit)
	assert.Equal(t, fmt.Sprintf("r%d", historyLimit+19), h.Results[len(h.Results)-1].JobName)
}
