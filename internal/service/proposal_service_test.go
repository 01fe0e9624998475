package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/repository"
	"github.com/pkoziel/dayflow/internal/testutil"
)

func (f serviceFixture) proposalService(t *testing.T) *proposalService {
	t.Helper()
	svc := NewProposalService(f.proposals).(*proposalService)
	svc.now = func() time.Time { return svcNow }
	return svc
}

func storeProposal(t *testing.T, f serviceFixture, mutate func(*domain.Proposal)) *domain.Proposal {
	t.Helper()
	tomorrow := domain.Tomorrow(domain.DateOf(svcNow))
	p := &domain.Proposal{
		ID:     uuid.New().String(),
		Type:   domain.RecDefer,
		Reason: "day is overloaded",
		Primary: domain.ProposalAction{
			Type:   domain.ActionMoveTask,
			TaskID: uuid.New().String(),
			ToDate: &tomorrow,
		},
		Status:    domain.ProposalPending,
		CreatedAt: svcNow,
		ExpiresAt: svcNow.Add(domain.DefaultProposalTTL),
	}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, f.proposals.Create(context.Background(), p))
	return p
}

func TestProposalServiceAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("pending proposal", func(t *testing.T) {
		f := newFixture(t)
		svc := f.proposalService(t)
		p := storeProposal(t, f, nil)

		accepted, err := svc.Accept(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalAccepted, accepted.Status)
		assert.Equal(t, p.Primary.TaskID, accepted.Primary.TaskID)

		stored, err := f.proposals.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalAccepted, stored.Status)
	})

	t.Run("already rejected", func(t *testing.T) {
		f := newFixture(t)
		svc := f.proposalService(t)
		p := storeProposal(t, f, func(p *domain.Proposal) { p.Status = domain.ProposalRejected })

		_, err := svc.Accept(ctx, p.ID)
		var stateErr *StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, domain.ProposalRejected, stateErr.Status)
	})

	t.Run("expired on accept", func(t *testing.T) {
		f := newFixture(t)
		svc := f.proposalService(t)
		p := storeProposal(t, f, func(p *domain.Proposal) {
			p.ExpiresAt = svcNow.Add(-time.Minute)
		})

		_, err := svc.Accept(ctx, p.ID)
		var stateErr *StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, domain.ProposalExpired, stateErr.Status)

		stored, err := f.proposals.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ProposalExpired, stored.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		svc := f.proposalService(t)

		_, err := svc.Accept(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestProposalServiceReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.proposalService(t)
	p := storeProposal(t, f, nil)

	require.NoError(t, svc.Reject(ctx, p.ID))

	stored, err := f.proposals.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalRejected, stored.Status)

	err = svc.Reject(ctx, p.ID)
	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
}

func TestProposalServiceListPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.proposalService(t)

	fresh := storeProposal(t, f, nil)
	stale := storeProposal(t, f, func(p *domain.Proposal) {
		p.CreatedAt = svcNow.Add(-48 * time.Hour)
		p.ExpiresAt = svcNow.Add(-24 * time.Hour)
	})

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, fresh.ID, pending[0].ID)

	// The sweep marked the stale one expired rather than leaving it pending.
	swept, err := f.proposals.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalExpired, swept.Status)
}

func TestProfileServiceGet(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults before any behavior is observed", func(t *testing.T) {
		f := newFixture(t)
		svc := NewProfileService(f.profiles)

		profile, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultUserID, profile.UserID)
		assert.Equal(t, 30, profile.PreferredDurationMin)
		assert.Equal(t, 9, profile.PeakStartHour)
	})

	t.Run("returns the stored profile", func(t *testing.T) {
		f := newFixture(t)
		svc := NewProfileService(f.profiles)

		require.NoError(t, f.profiles.Upsert(ctx, testutil.NewTestProfile(DefaultUserID,
			testutil.WithPreferredDuration(45))))

		profile, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 45, profile.PreferredDurationMin)
	})
}
