package service

import (
	"context"
	"strings"

	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/repository"
	apperrors "github.com/finledger/finance-api/pkg/util/errorutil"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchService looks through the subject's own records only.
type SearchService struct {
	transactions repository.TransactionRepository
	billings     repository.BillingRepository
}

// NewSearchService constructs the service.
func NewSearchService(transactions repository.TransactionRepository, billings repository.BillingRepository) *SearchService {
	return &SearchService{transactions: transactions, billings: billings}
}

// Search matches term against transactions and billings owned by subject.
func (s *SearchService) Search(ctx context.Context, subject auth.SubjectID, term string, limit int) (*domain.SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewValidationError("Query parameter 'q' is required", nil)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	txs, err := s.transactions.Search(ctx, int64(subject), term, limit)
	if err != nil {
		return nil, err
	}
	billings, err := s.billings.Search(ctx, int64(subject), term, limit)
	if err != nil {
		return nil, err
	}
	return &domain.SearchResult{Transactions: txs, Billings: billings}, nil
}
