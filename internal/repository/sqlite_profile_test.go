package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/testutil"
)

func TestProfileRepo_Get_NotFoundBeforeFirstSave(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProfileRepo(db)

	_, err := repo.Get(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileRepo_UpsertRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProfileRepo(db)
	ctx := context.Background()

	profile := testutil.NewTestProfile("user-1",
		testutil.WithPeakHours(10, 14),
		testutil.WithPreferredDuration(45),
		testutil.WithSwitchSensitivity(0.8),
		testutil.WithEnergyPattern(10, 4.2, 3.8, 5),
		testutil.WithEnergyPattern(14, 2.1, 2.4, 3),
		testutil.WithStreak("2026-03-09", 4, 1),
	)
	profile.PostponePatterns["cognitive_4"] = domain.PostponeStats{
		Count: 3, AvgPostpone: 2.5, Reasons: []string{"too tired"},
	}
	require.NoError(t, repo.Upsert(ctx, profile))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.PeakStartHour)
	assert.Equal(t, 14, got.PeakEndHour)
	assert.Equal(t, 45, got.PreferredDurationMin)
	assert.Equal(t, 0.8, got.SwitchSensitivity)
	require.Len(t, got.EnergyPatterns, 2)
	assert.Equal(t, 4.2, got.EnergyPatterns[0].AvgEnergy)
	require.Len(t, got.Streaks, 1)
	assert.Equal(t, "2026-03-09", got.Streaks[0].Date)
	assert.Equal(t, 4, got.Streaks[0].Completed)
	require.Contains(t, got.PostponePatterns, "cognitive_4")
	assert.Equal(t, []string{"too tired"}, got.PostponePatterns["cognitive_4"].Reasons)
}

func TestProfileRepo_UpsertReplacesExisting(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProfileRepo(db)
	ctx := context.Background()

	first := testutil.NewTestProfile("user-1", testutil.WithPreferredDuration(30))
	require.NoError(t, repo.Upsert(ctx, first))

	second := testutil.NewTestProfile("user-1", testutil.WithPreferredDuration(55))
	second.UpdatedAt = time.Now().UTC().Add(time.Minute)
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 55, got.PreferredDurationMin, "last write wins")
}

func TestProfileRepo_IsolatedPerUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProfileRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestProfile("alpha", testutil.WithPreferredDuration(20))))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestProfile("beta", testutil.WithPreferredDuration(60))))

	alpha, err := repo.Get(ctx, "alpha")
	require.NoError(t, err)
	beta, err := repo.Get(ctx, "beta")
	require.NoError(t, err)
	assert.Equal(t, 20, alpha.PreferredDurationMin)
	assert.Equal(t, 60, beta.PreferredDurationMin)
}
