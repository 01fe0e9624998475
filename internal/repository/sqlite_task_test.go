package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziel/dayflow/internal/testutil"
)

func TestTaskRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	due := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	task := testutil.NewTestTask("Write quarterly report",
		testutil.WithPriority(1),
		testutil.WithMust(),
		testutil.WithEstimate(90),
		testutil.WithLoad(4),
		testutil.WithContext("deep_work"),
		testutil.WithDueDate(due),
		testutil.WithPostpones(2),
		testutil.WithSubtasks("outline", "draft"),
	)
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, 1, got.Priority)
	assert.True(t, got.IsMust)
	assert.Equal(t, 90, got.EstimateMin)
	assert.Equal(t, 4, got.CognitiveLoad)
	assert.Equal(t, "deep_work", got.ContextType)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due, *got.DueDate)
	assert.Equal(t, 2, got.PostponeCount)
	assert.Equal(t, []string{"outline", "draft"}, got.Subtasks)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepo_List_ExcludesCompletedByDefault(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	doneAt := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("open")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("done", testutil.WithCompleted(doneAt, 25))))

	open, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "open", open[0].Title)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTaskRepo_ListDueOn(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("today", testutil.WithDueDate(day))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("later", testutil.WithDueDate(day.AddDate(0, 0, 3)))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("never")))

	tasks, err := repo.ListDueOn(ctx, day)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "today", tasks[0].Title)
}

func TestTaskRepo_ListCompletedOn(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("morning",
		testutil.WithCompleted(day.Add(9*time.Hour), 30))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("yesterday",
		testutil.WithCompleted(day.Add(-5*time.Hour), 20))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask("pending")))

	tasks, err := repo.ListCompletedOn(ctx, day)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "morning", tasks[0].Title)
	assert.Equal(t, 30, tasks[0].ActualMin)
}

func TestTaskRepo_ListRecentCompleted_OldestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third", "fourth"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestTask(title,
			testutil.WithCompleted(base.Add(time.Duration(i)*time.Hour), 20))))
	}

	tasks, err := repo.ListRecentCompleted(ctx, 3)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "second", tasks[0].Title, "oldest of the window comes first")
	assert.Equal(t, "fourth", tasks[2].Title)
}

func TestTaskRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("rename me")
	require.NoError(t, repo.Create(ctx, task))

	task.Title = "renamed"
	task.PostponeCount = 3
	doneAt := time.Now().UTC().Truncate(time.Second)
	task.Completed = true
	task.CompletedAt = &doneAt
	task.ActualMin = 42
	task.UpdatedAt = doneAt
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, 3, got.PostponeCount)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, doneAt, got.CompletedAt.UTC())
	assert.Equal(t, 42, got.ActualMin)

	t.Run("missing task reports not found", func(t *testing.T) {
		missing := testutil.NewTestTask("ghost")
		err := repo.Update(ctx, missing)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTaskRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTaskRepo(db)
	ctx := context.Background()

	task := testutil.NewTestTask("doomed")
	require.NoError(t, repo.Create(ctx, task))
	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err := repo.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
