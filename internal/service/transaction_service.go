package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/repository"
	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

// TransactionService implements the transaction endpoints for one subject at a time.
type TransactionService struct {
	transactions repository.TransactionRepository
	now          func() time.Time
}

// NewTransactionService constructs the service.
func NewTransactionService(transactions repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactions: transactions, now: time.Now}
}

// TransactionCreateInput describes a new transaction.
type TransactionCreateInput struct {
	Amount      *float64
	Type        *domain.TransactionType
	Category    *string
	Description *string
	Date        *time.Time
}

// List returns the subject's transactions, newest first.
func (s *TransactionService) List(ctx context.Context, subject auth.SubjectID) ([]domain.Transaction, error) {
	return s.transactions.ListByOwner(ctx, int64(subject))
}

// Get returns one of the subject's transactions.
func (s *TransactionService) Get(ctx context.Context, subject auth.SubjectID, id int64) (*domain.Transaction, error) {
	tx, err := s.transactions.GetByOwner(ctx, int64(subject), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("Transaction")
	}
	return tx, err
}

// Create records a transaction owned by subject.
func (s *TransactionService) Create(ctx context.Context, subject auth.SubjectID, input TransactionCreateInput) (*domain.Transaction, error) {
	if input.Amount == nil || input.Type == nil {
		return nil, apperrors.NewValidationError("Missing required fields: amount, type", nil)
	}
	if !input.Type.Valid() {
		return nil, apperrors.NewValidationError("Type must be 'income' or 'expense'", nil)
	}

	tx := &domain.Transaction{
		UserID:      int64(subject),
		Amount:      domain.RoundAmount(*input.Amount),
		Type:        *input.Type,
		Category:    input.Category,
		Description: input.Description,
		Date:        s.now(),
	}
	if input.Date != nil {
		tx.Date = *input.Date
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Update applies patch to a transaction after confirming subject owns it.
func (s *TransactionService) Update(ctx context.Context, subject auth.SubjectID, id int64, patch domain.TransactionPatch) (*domain.Transaction, error) {
	tx, err := s.Get(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, apperrors.NewValidationError("Type must be 'income' or 'expense'", nil)
	}

	patch.Apply(tx)
	tx.Amount = domain.RoundAmount(tx.Amount)
	if err := s.transactions.Update(ctx, tx); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Transaction")
		}
		return nil, err
	}
	return tx, nil
}

// Delete removes a transaction after confirming subject owns it.
func (s *TransactionService) Delete(ctx context.Context, subject auth.SubjectID, id int64) error {
	if _, err := s.Get(ctx, subject, id); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, int64(subject), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Transaction")
		}
		return err
	}
	return nil
}
