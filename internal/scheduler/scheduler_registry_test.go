package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	schedulererrors "github.com/Muhannad-Khaled/Ailigent/internal/scheduler/errors"
)

func noopRun(ctx context.Context) error { return nil }

func TestRegistry_Register(t *testing.T) {
	t.Run("success lists jobs in registration order", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop())
		require.NoError(t, reg.Register("overdue_monitor", "Overdue task monitor", "*/15 * * * *", noopRun))
		require.NoError(t, reg.Register("daily_report", "Daily report", "0 6 * * *", noopRun))

		jobs := reg.Jobs()
		require.Len(t, jobs, 2)
		assert.Equal(t, "overdue_monitor", jobs[0].ID)
		assert.Equal(t, "*/15 * * * *", jobs[0].Spec)
		assert.Equal(t, "daily_report", jobs[1].ID)
		assert.False(t, jobs[0].Paused)
		assert.Nil(t, jobs[0].LastRun)
	})

	t.Run("negative duplicate id", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop())
		require.NoError(t, reg.Register("daily_report", "Daily report", "0 6 * * *", noopRun))

		err := reg.Register("daily_report", "Daily report", "0 6 * * *", noopRun)
		assert.ErrorContains(t, err, "already registered")
	})

	t.Run("negative invalid spec", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop())
		err := reg.Register("broken", "Broken", "not a cron spec", noopRun)
		assert.Error(t, err)
	})

	t.Run("next run appears once started", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop())
		require.NoError(t, reg.Register("daily_report", "Daily report", "0 6 * * *", noopRun))

		reg.Start()
		defer reg.Stop()

		jobs := reg.Jobs()
		require.NotNil(t, jobs[0].NextRun)
		assert.True(t, jobs[0].NextRun.After(time.Now()))
	})
}

func TestRegistry_Trigger(t *testing.T) {
	t.Run("success runs asynchronously and records last run", func(t *testing.T) {
		ran := make(chan struct{})
		reg := NewRegistry(zap.NewNop())
		require.NoError(t, reg.Register("daily_report", "Daily report", "0 6 * * *", func(ctx context.Context) error {
			close(ran)
			return nil
		}))

		require.NoError(t, reg.Trigger("daily_report"))

		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
		assert.Eventually(t, func() bool {
			j := reg.Jobs()[0]
			return j.LastRun != nil && !j.Running
		}, 2*time.Second, 10*time.Millisecond)
		assert.Empty(t, reg.Jobs()[0].LastError)
	})

	t.Run("negative unknown job", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop())
		err := reg.Trigger("nope")
		assert.ErrorIs(t, err, schedulererrors.ErrJobNotFound)
	})

	t.Run("negative already running", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		reg := NewRegistry(zap.NewNop())
		require.NoError(t, reg.Register("daily_report", "Daily report", "0 6 * * *", func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		}))

		require.NoError(t, reg.Trigger("daily_report"))
		<-started

		err := reg.Trigger("daily_report")
		assert.ErrorIs(t, err, schedulererrors.ErrJobRunning)

		close(release)
		assert.Eventually(t, func() bool {
			return !reg.Jobs()[0].Running
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("failure lands in last_error", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop())
		require.NoError(t, reg.Register("daily_report", "Daily report", "0 6 * * *", func(ctx context.Context) error {
			return errors.New("odoo unreachable")
		}))

		require.NoError(t, reg.Trigger("daily_report"))

		assert.Eventually(t, func() bool {
			return reg.Jobs()[0].LastError == "odoo unreachable"
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestRegistry_PauseResume(t *testing.T) {
	t.Run("pause keeps registration and allows trigger", func(t *testing.T) {
		ran := make(chan struct{}, 1)
		reg := NewRegistry(zap.NewNop())
		require.NoError(t, reg.Register("daily_report", "Daily report", "0 6 * * *", func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		}))
		reg.Start()
		defer reg.Stop()

		require.NoError(t, reg.Pause("daily_report"))

		jobs := reg.Jobs()
		assert.True(t, jobs[0].Paused)
		assert.Nil(t, jobs[0].NextRun)

		require.NoError(t, reg.Trigger("daily_report"))
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("paused job was not triggerable")
		}

		require.NoError(t, reg.Resume("daily_report"))
		assert.False(t, reg.Jobs()[0].Paused)
		assert.Eventually(t, func() bool {
			return reg.Jobs()[0].NextRun != nil
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("pause twice is a no-op", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop())
		require.NoError(t, reg.Register("daily_report", "Daily report", "0 6 * * *", noopRun))

		require.NoError(t, reg.Pause("daily_report"))
		require.NoError(t, reg.Pause("daily_report"))
		assert.True(t, reg.Jobs()[0].Paused)
	})

	t.Run("negative unknown job", func(t *testing.T) {
		reg := NewRegistry(zap.NewNop())
		assert.ErrorIs(t, reg.Pause("nope"), schedulererrors.ErrJobNotFound)
		assert.ErrorIs(t, reg.Resume("nope"), schedulererrors.ErrJobNotFound)
	})
}
