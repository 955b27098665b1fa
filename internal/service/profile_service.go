package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/repository"
	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

// ProfileService reads and edits the caller's own user record.
type ProfileService struct {
	users repository.UserRepository
}

// NewProfileService constructs the service.
func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Get returns the subject's profile.
func (s *ProfileService) Get(ctx context.Context, subject auth.SubjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, int64(subject))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("User")
	}
	return user, err
}

// Update changes name and/or avatar on the subject's profile.
func (s *ProfileService) Update(ctx context.Context, subject auth.SubjectID, update domain.ProfileUpdate) (*domain.User, error) {
	if update.Empty() {
		return nil, apperrors.NewValidationError("No data to update", nil)
	}
	user, err := s.users.UpdateProfile(ctx, int64(subject), update)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("User")
	}
	return user, err
}
