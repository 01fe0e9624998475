package service

import (
	"context"
	"errors"

	"github.com/pkoziel/dayflow/internal/domain"
	"github.com/pkoziel/dayflow/internal/repository"
)

type profileService struct {
	profiles repository.ProfileRepo
}

// NewProfileService wires read access to the behavior profile.
func NewProfileService(profiles repository.ProfileRepo) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Get(ctx context.Context) (*domain.BehaviorProfile, error) {
	profile, err := s.profiles.Get(ctx, DefaultUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultProfile(DefaultUserID), nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}
