package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/testutil"
)

func newTestProposal(now time.Time) *domain.Proposal {
	tomorrow := now.AddDate(0, 0, 1)
	return &domain.Proposal{
		ID:     uuid.New().String(),
		Type:   domain.RecDefer,
		Reason: "today is overloaded",
		Primary: domain.ProposalAction{
			Type:   domain.ActionMoveTask,
			TaskID: "task-1",
			ToDate: &tomorrow,
		},
		Alternatives: []domain.ProposalAction{{
			Type:   domain.ActionDecomposeTask,
			TaskID: "task-1",
			Params: map[string]string{"target_duration": "25"},
		}},
		Status:    domain.ProposalPending,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.DefaultProposalTTL),
	}
}

func TestProposalRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProposalRepo(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	proposal := newTestProposal(now)
	require.NoError(t, repo.Create(ctx, proposal))

	got, err := repo.GetByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RecDefer, got.Type)
	assert.Equal(t, "today is overloaded", got.Reason)
	assert.Equal(t, domain.ActionMoveTask, got.Primary.Type)
	assert.Equal(t, "task-1", got.Primary.TaskID)
	require.NotNil(t, got.Primary.ToDate)
	require.Len(t, got.Alternatives, 1)
	assert.Equal(t, "25", got.Alternatives[0].Params["target_duration"])
	assert.Equal(t, domain.ProposalPending, got.Status)
	assert.Equal(t, now.Add(domain.DefaultProposalTTL), got.ExpiresAt)
}

func TestProposalRepo_ListPending_HidesExpired(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProposalRepo(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	fresh := newTestProposal(now)
	stale := newTestProposal(now.Add(-48 * time.Hour))
	accepted := newTestProposal(now)
	accepted.Status = domain.ProposalAccepted

	require.NoError(t, repo.Create(ctx, fresh))
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, accepted))

	pending, err := repo.ListPending(ctx, now)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, fresh.ID, pending[0].ID)
}

func TestProposalRepo_UpdateStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProposalRepo(db)
	ctx := context.Background()

	proposal := newTestProposal(time.Now().UTC())
	require.NoError(t, repo.Create(ctx, proposal))
	require.NoError(t, repo.UpdateStatus(ctx, proposal.ID, domain.ProposalAccepted))

	got, err := repo.GetByID(ctx, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalAccepted, got.Status)

	err = repo.UpdateStatus(ctx, "missing", domain.ProposalRejected)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProposalRepo_ExpireStale(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProposalRepo(db)
	ctx := context.Background()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	stale := newTestProposal(now.Add(-48 * time.Hour))
	fresh := newTestProposal(now)
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, fresh))

	n, err := repo.ExpireStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalExpired, got.Status)

	got, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalPending, got.Status)
}
