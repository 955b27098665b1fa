package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/repository"
	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

// BillingService implements the billing endpoints.
type BillingService struct {
	billings repository.BillingRepository
}

// NewBillingService constructs the service.
func NewBillingService(billings repository.BillingRepository) *BillingService {
	return &BillingService{billings: billings}
}

// BillingCreateInput describes a new billing.
type BillingCreateInput struct {
	Name     string
	Amount   *float64
	Category *string
	Note     *string
	DueDate  *time.Time
	Paid     bool
}

// List returns the subject's billings ordered by due date.
func (s *BillingService) List(ctx context.Context, subject auth.SubjectID) ([]domain.Billing, error) {
	return s.billings.ListByOwner(ctx, int64(subject))
}

// Get returns one of the subject's billings.
func (s *BillingService) Get(ctx context.Context, subject auth.SubjectID, id int64) (*domain.Billing, error) {
	billing, err := s.billings.GetByOwner(ctx, int64(subject), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("Billing")
	}
	return billing, err
}

// Create records a billing owned by subject.
func (s *BillingService) Create(ctx context.Context, subject auth.SubjectID, input BillingCreateInput) (*domain.Billing, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Amount == nil || input.DueDate == nil {
		return nil, apperrors.NewValidationError("Missing required fields: name, amount, dueDate", nil)
	}
	if *input.Amount < 0 {
		return nil, apperrors.NewValidationError("Amount must not be negative", nil)
	}

	billing := &domain.Billing{
		UserID:   int64(subject),
		Name:     name,
		Amount:   domain.RoundAmount(*input.Amount),
		Category: input.Category,
		Note:     input.Note,
		DueDate:  *input.DueDate,
		Paid:     input.Paid,
	}
	if err := s.billings.Create(ctx, billing); err != nil {
		return nil, err
	}
	return billing, nil
}

// Update applies patch after confirming subject owns the billing.
func (s *BillingService) Update(ctx context.Context, subject auth.SubjectID, id int64, patch domain.BillingPatch) (*domain.Billing, error) {
	billing, err := s.Get(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperrors.NewValidationError("Name must not be empty", nil)
	}
	if patch.Amount != nil && *patch.Amount < 0 {
		return nil, apperrors.NewValidationError("Amount must not be negative", nil)
	}

	patch.Apply(billing)
	billing.Amount = domain.RoundAmount(billing.Amount)
	if err := s.billings.Update(ctx, billing); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Billing")
		}
		return nil, err
	}
	return billing, nil
}

// Delete removes a billing after confirming subject owns it.
func (s *BillingService) Delete(ctx context.Context, subject auth.SubjectID, id int64) error {
	if _, err := s.Get(ctx, subject, id); err != nil {
		return err
	}
	if err := s.billings.Delete(ctx, int64(subject), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Billing")
		}
		return err
	}
	return nil
}
