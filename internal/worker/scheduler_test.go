package worker

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/levelkeeper/internal/logger"
	"github.com/dtroode/levelkeeper/internal/mocks"
	"github.com/dtroode/levelkeeper/internal/model"
	"github.com/dtroode/levelkeeper/internal/testutil"
)

type upgraderFunc func(ctx context.Context) (model.UpgradeResult, error)

func (f upgraderFunc) UpgradeLevels(ctx context.Context) (model.UpgradeResult, error) {
	return f(ctx)
}

func committedResult() model.UpgradeResult {
	start := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	return model.UpgradeResult{
		RunID:      uuid.MustParse("7f1c2a8e-5d1b-4a3c-9e2f-0b6d8c4a1e35"),
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
		Scanned:    5,
		Upgraded:   []model.User{testutil.UserByID("joytouch")},
	}
}

func TestNewScheduler(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "five field spec", schedule: "0 3 * * *"},
		{name: "descriptor", schedule: "@hourly"},
		{name: "every", schedule: "@every 30m"},
		{name: "garbage", schedule: "not a schedule", wantErr: true},
		{name: "seconds field rejected", schedule: "0 0 3 * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(upgraderFunc(nil), nil, tt.schedule, testutil.MakeNoopLogger())
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestScheduler_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("committed run is archived", func(t *testing.T) {
		want := committedResult()
		archive := mocks.NewReportArchive(t)
		archive.On("Save", mock.Anything, model.NewRunReport(want)).Return(nil).Once()

		s, err := NewScheduler(upgraderFunc(func(context.Context) (model.UpgradeResult, error) {
			return want, nil
		}), archive, "@hourly", testutil.MakeNoopLogger())
		require.NoError(t, err)

		got, err := s.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("failed run is not archived", func(t *testing.T) {
		archive := mocks.NewReportArchive(t)
		boom := errors.New("boom")

		s, err := NewScheduler(upgraderFunc(func(context.Context) (model.UpgradeResult, error) {
			return model.UpgradeResult{}, boom
		}), archive, "@hourly", testutil.MakeNoopLogger())
		require.NoError(t, err)

		_, err = s.RunOnce(ctx)
		assert.ErrorIs(t, err, boom)
		archive.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("archive failure is logged only", func(t *testing.T) {
		var buf bytes.Buffer
		archive := mocks.NewReportArchive(t)
		archive.On("Save", mock.Anything, mock.Anything).Return(errors.New("bucket gone")).Once()

		s, err := NewScheduler(upgraderFunc(func(context.Context) (model.UpgradeResult, error) {
			return committedResult(), nil
		}), archive, "@hourly", logger.NewWithWriter(&buf, 0, "text"))
		require.NoError(t, err)

		_, err = s.RunOnce(ctx)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "failed to archive run report")
		assert.Contains(t, buf.String(), "bucket gone")
	})

	t.Run("no archive configured", func(t *testing.T) {
		s, err := NewScheduler(upgraderFunc(func(context.Context) (model.UpgradeResult, error) {
			return committedResult(), nil
		}), nil, "@hourly", testutil.MakeNoopLogger())
		require.NoError(t, err)

		_, err = s.RunOnce(ctx)
		assert.NoError(t, err)
	})

	t.Run("cancelled context skips the batch", func(t *testing.T) {
		var calls atomic.Int32
		s, err := NewScheduler(upgraderFunc(func(context.Context) (model.UpgradeResult, error) {
			calls.Add(1)
			return committedResult(), nil
		}), nil, "@hourly", testutil.MakeNoopLogger())
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err = s.RunOnce(cctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls.Load())
	})
}

func TestScheduler_Start(t *testing.T) {
	var calls atomic.Int32
	s, err := NewScheduler(upgraderFunc(func(context.Context) (model.UpgradeResult, error) {
		calls.Add(1)
		return committedResult(), nil
	}), nil, "@every 1s", testutil.MakeNoopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestCronLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{logger: logger.NewWithWriter(&buf, 0, "text")}

	l.Error(errors.New("panic: boom"), "panic", "stack", "...")

	assert.Contains(t, buf.String(), "cron: panic")
	assert.Contains(t, buf.String(), "panic: boom")
}
