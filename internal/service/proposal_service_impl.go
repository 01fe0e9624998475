package service

import (
	"context"
	"time"

	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/repository"
)

type proposalService struct {
	proposals repository.ProposalRepo
	now       func() time.Time
}

// NewProposalService wires proposal review over the given repository.
func NewProposalService(proposals repository.ProposalRepo) ProposalService {
	return &proposalService{
		proposals: proposals,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *proposalService) ListPending(ctx context.Context) ([]*domain.Proposal, error) {
	now := s.now()
	// Sweep expired proposals first so the pending list never shows stale
	// suggestions.
	if _, err := s.proposals.ExpireStale(ctx, now); err != nil {
		return nil, err
	}
	return s.proposals.ListPending(ctx, now)
}

func (s *proposalService) Accept(ctx context.Context, id string) (*domain.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.Status != domain.ProposalPending {
		return nil, &StateError{ID: id, Status: proposal.Status}
	}
	if s.now().After(proposal.ExpiresAt) {
		if err := s.proposals.UpdateStatus(ctx, id, domain.ProposalExpired); err != nil {
			return nil, err
		}
		proposal.Status = domain.ProposalExpired
		return nil, &StateError{ID: id, Status: domain.ProposalExpired}
	}
	if err := s.proposals.UpdateStatus(ctx, id, domain.ProposalAccepted); err != nil {
		return nil, err
	}
	proposal.Status = domain.ProposalAccepted
	return proposal, nil
}

func (s *proposalService) Reject(ctx context.Context, id string) error {
	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if proposal.Status != domain.ProposalPending {
		return &StateError{ID: id, Status: proposal.Status}
	}
	return s.proposals.UpdateStatus(ctx, id, domain.ProposalRejected)
}

// StateError reports an operation attempted on a proposal that already
// left the pending state.
type StateError struct {
	ID     string
	Status domain.ProposalStatus
}

func (e *StateError) Error() string {
	return "proposal " + e.ID + " is " + string(e.Status) + ", not pending"
}
