package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/repository"
	"github.com/pkoziel/dayflow/internal/testutil"
)

// svcNow pins service tests to a Tuesday afternoon.
var svcNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

type serviceFixture struct {
	db        *sql.DB
	tasks     *repository.SQLiteTaskRepo
	profiles  *repository.SQLiteProfileRepo
	proposals *repository.SQLiteProposalRepo
}

func newFixture(t *testing.T) serviceFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return serviceFixture{
		db:        database,
		tasks:     repository.NewSQLiteTaskRepo(database),
		profiles:  repository.NewSQLiteProfileRepo(database),
		proposals: repository.NewSQLiteProposalRepo(database),
	}
}

func (f serviceFixture) taskService(t *testing.T, dayBudgetMin int) *taskService {
	t.Helper()
	svc := NewTaskService(f.tasks, f.profiles, f.proposals, testutil.NewTestUoW(f.db), dayBudgetMin).(*taskService)
	svc.now = func() time.Time { return svcNow }
	return svc
}

func TestTaskServiceAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("persists with stamped timestamps", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 0)

		task := testutil.NewTestTask("write report")
		task.CreatedAt = time.Time{}
		task.UpdatedAt = time.Time{}

		proposal, err := svc.Add(ctx, task)
		require.NoError(t, err)
		assert.Nil(t, proposal)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "write report", stored.Title)
		assert.Equal(t, svcNow, stored.CreatedAt)
		assert.Equal(t, svcNow, stored.UpdatedAt)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 0)

		_, err := svc.Add(ctx, testutil.NewTestTask("   "))
		require.Error(t, err)
	})

	t.Run("overloaded day yields a rebalance proposal", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 60)

		filler := testutil.NewTestTask("filler",
			testutil.WithPriority(4),
			testutil.WithEstimate(40),
			testutil.WithDueDate(svcNow),
		)
		require.NoError(t, f.tasks.Create(ctx, filler))

		urgent := testutil.NewTestTask("urgent",
			testutil.WithPriority(1),
			testutil.WithEstimate(30),
			testutil.WithDueDate(svcNow),
		)
		proposal, err := svc.Add(ctx, urgent)
		require.NoError(t, err)
		require.NotNil(t, proposal)

		assert.Equal(t, domain.ActionMoveTask, proposal.Primary.Type)
		assert.Equal(t, filler.ID, proposal.Primary.TaskID)

		stored, err := f.proposals.GetByID(ctx, proposal.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalPending, stored.Status)
	})

	t.Run("under budget stays quiet", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 60)

		task := testutil.NewTestTask("small",
			testutil.WithEstimate(20),
			testutil.WithDueDate(svcNow),
		)
		proposal, err := svc.Add(ctx, task)
		require.NoError(t, err)
		assert.Nil(t, proposal)
	})

	t.Run("unscheduled task never overloads today", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 1)

		proposal, err := svc.Add(ctx, testutil.NewTestTask("someday", testutil.WithEstimate(200)))
		require.NoError(t, err)
		assert.Nil(t, proposal)
	})
}

func TestTaskServiceListForDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.taskService(t, 0)

	due := testutil.NewTestTask("due today", testutil.WithDueDate(svcNow))
	require.NoError(t, f.tasks.Create(ctx, due))
	require.NoError(t, f.tasks.Create(ctx, testutil.NewTestTask("unscheduled")))

	found, err := svc.ListForDate(ctx, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID, found[0].ID)

	for _, bad := range []string{"not-a-date", "2026-13-99", "10/03/2026"} {
		got, err := svc.ListForDate(ctx, bad)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestTaskServiceComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps the task and updates the profile", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 0)

		task := testutil.NewTestTask("deep work")
		require.NoError(t, f.tasks.Create(ctx, task))

		err := svc.Complete(ctx, task.ID, CompleteInput{Energy: 4, Focus: 4, ActualMin: 90})
		require.NoError(t, err)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, stored.Completed)
		require.NotNil(t, stored.CompletedAt)
		assert.Equal(t, svcNow, *stored.CompletedAt)
		assert.Equal(t, 90, stored.ActualMin)

		profile, err := f.profiles.Get(ctx, DefaultUserID)
		require.NoError(t, err)
		// 30 preferred blended toward a 90-minute actual.
		assert.Equal(t, 39, profile.PreferredDurationMin)

		pattern, ok := profile.PatternForHour(14)
		require.True(t, ok)
		assert.InDelta(t, 4.0, pattern.AvgEnergy, 0.001)
		assert.Equal(t, 1, pattern.Samples)

		require.Len(t, profile.Streaks, 1)
		assert.Equal(t, "2026-03-10", profile.Streaks[0].Date)
		assert.Equal(t, 1, profile.Streaks[0].Completed)
	})

	t.Run("already completed tasks are rejected", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 0)

		task := testutil.NewTestTask("done", testutil.WithCompleted(svcNow.Add(-time.Hour), 25))
		require.NoError(t, f.tasks.Create(ctx, task))

		err := svc.Complete(ctx, task.ID, CompleteInput{Energy: 3, Focus: 3})
		require.Error(t, err)
	})

	t.Run("unknown task", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 0)

		err := svc.Complete(ctx, "missing", CompleteInput{Energy: 3, Focus: 3})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("profile write failure rolls back the task", func(t *testing.T) {
		f := newFixture(t)
		boom := errors.New("disk full")
		svc := NewTaskService(f.tasks, f.profiles, f.proposals,
			&testutil.FailOnNthExecUoW{DB: f.db, FailOn: 2, Err: boom}, 0).(*taskService)
		svc.now = func() time.Time { return svcNow }

		task := testutil.NewTestTask("fragile")
		require.NoError(t, f.tasks.Create(ctx, task))

		err := svc.Complete(ctx, task.ID, CompleteInput{Energy: 3, Focus: 3, ActualMin: 20})
		require.ErrorIs(t, err, boom)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.False(t, stored.Completed)
	})
}

func TestTaskServicePostpone(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the task to tomorrow and records the pattern", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 0)

		task := testutil.NewTestTask("dreaded", testutil.WithDueDate(svcNow))
		require.NoError(t, f.tasks.Create(ctx, task))

		proposal, err := svc.Postpone(ctx, task.ID, "too tired")
		require.NoError(t, err)
		assert.Nil(t, proposal)

		stored, err := f.tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.PostponeCount)
		require.NotNil(t, stored.DueDate)
		assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), *stored.DueDate)

		profile, err := f.profiles.Get(ctx, DefaultUserID)
		require.NoError(t, err)
		stats := profile.PostponePatterns["cognitive_3"]
		assert.Equal(t, 1, stats.Count)
		assert.Equal(t, []string{"too tired"}, stats.Reasons)
	})

	t.Run("escalation returns a morning reservation", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 0)

		task := testutil.NewTestTask("avoided", testutil.WithPostpones(2))
		require.NoError(t, f.tasks.Create(ctx, task))

		proposal, err := svc.Postpone(ctx, task.ID, "")
		require.NoError(t, err)
		require.NotNil(t, proposal)
		assert.Equal(t, domain.RecReserveMorning, proposal.Type)
		assert.Equal(t, domain.ActionReserveMorning, proposal.Primary.Type)
		assert.Equal(t, "08:00", proposal.Primary.Params["time"])

		stored, err := f.proposals.GetByID(ctx, proposal.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalPending, stored.Status)
	})

	t.Run("completed tasks cannot be postponed", func(t *testing.T) {
		f := newFixture(t)
		svc := f.taskService(t, 0)

		task := testutil.NewTestTask("done", testutil.WithCompleted(svcNow, 10))
		require.NoError(t, f.tasks.Create(ctx, task))

		_, err := svc.Postpone(ctx, task.ID, "")
		require.Error(t, err)
	})
}
