// Package repotest provides in-memory repositories with the same owner-scoping
// behavior as the Postgres implementations, for use in tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/repository"
)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.User
}

// NewUsers returns an empty store.
func NewUsers() *Users {
	return &Users{rows: map[int64]domain.User{}}
}

func (u *Users) Create(_ context.Context, user *domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.rows {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	u.nextID++
	now := time.Now()
	user.ID, user.CreatedAt, user.UpdatedAt = u.nextID, now, now
	u.rows[user.ID] = *user
	return nil
}

func (u *Users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.rows {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (u *Users) UpdateProfile(_ context.Context, id int64, update domain.ProfileUpdate) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Name != nil {
		user.Name = update.Name
	}
	if update.Avatar != nil {
		user.Avatar = update.Avatar
	}
	user.UpdatedAt = time.Now()
	u.rows[id] = user
	return &user, nil
}

// Transactions is an in-memory repository.TransactionRepository.
type Transactions struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Transaction
}

// NewTransactions returns an empty store.
func NewTransactions() *Transactions {
	return &Transactions{rows: map[int64]domain.Transaction{}}
}

func (s *Transactions) Create(_ context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now()
	tx.ID, tx.CreatedAt, tx.UpdatedAt = s.nextID, now, now
	s.rows[tx.ID] = *tx
	return nil
}

func (s *Transactions) Update(_ context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rows[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return pgx.ErrNoRows
	}
	tx.UpdatedAt = time.Now()
	s.rows[tx.ID] = *tx
	return nil
}

func (s *Transactions) Delete(_ context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rows[id]
	if !ok || existing.UserID != ownerID {
		return pgx.ErrNoRows
	}
	delete(s.rows, id)
	return nil
}

func (s *Transactions) GetByOwner(_ context.Context, ownerID, id int64) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.rows[id]
	if !ok || tx.UserID != ownerID {
		return nil, pgx.ErrNoRows
	}
	return &tx, nil
}

func (s *Transactions) ListByOwner(_ context.Context, ownerID int64) ([]domain.Transaction, error) {
	return s.filter(ownerID, func(domain.Transaction) bool { return true }, 0), nil
}

func (s *Transactions) Search(_ context.Context, ownerID int64, term string, limit int) ([]domain.Transaction, error) {
	return s.filter(ownerID, func(tx domain.Transaction) bool {
		return contains(tx.Category, term) || contains(tx.Description, term)
	}, limit), nil
}

func (s *Transactions) filter(ownerID int64, keep func(domain.Transaction) bool, limit int) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Transaction{}
	for _, tx := range s.rows {
		if tx.UserID == ownerID && keep(tx) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Billings is an in-memory repository.BillingRepository.
type Billings struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Billing
}

// NewBillings returns an empty store.
func NewBillings() *Billings {
	return &Billings{rows: map[int64]domain.Billing{}}
}

func (s *Billings) Create(_ context.Context, billing *domain.Billing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now()
	billing.ID, billing.CreatedAt, billing.UpdatedAt = s.nextID, now, now
	s.rows[billing.ID] = *billing
	return nil
}

func (s *Billings) Update(_ context.Context, billing *domain.Billing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rows[billing.ID]
	if !ok || existing.UserID != billing.UserID {
		return pgx.ErrNoRows
	}
	billing.UpdatedAt = time.Now()
	s.rows[billing.ID] = *billing
	return nil
}

func (s *Billings) Delete(_ context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rows[id]
	if !ok || existing.UserID != ownerID {
		return pgx.ErrNoRows
	}
	delete(s.rows, id)
	return nil
}

func (s *Billings) GetByOwner(_ context.Context, ownerID, id int64) (*domain.Billing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	billing, ok := s.rows[id]
	if !ok || billing.UserID != ownerID {
		return nil, pgx.ErrNoRows
	}
	return &billing, nil
}

func (s *Billings) ListByOwner(_ context.Context, ownerID int64) ([]domain.Billing, error) {
	return s.filter(ownerID, func(domain.Billing) bool { return true }, 0), nil
}

func (s *Billings) Search(_ context.Context, ownerID int64, term string, limit int) ([]domain.Billing, error) {
	return s.filter(ownerID, func(b domain.Billing) bool {
		return contains(&b.Name, term) || contains(b.Category, term) || contains(b.Note, term)
	}, limit), nil
}

func (s *Billings) filter(ownerID int64, keep func(domain.Billing) bool, limit int) []domain.Billing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Billing{}
	for _, billing := range s.rows {
		if billing.UserID == ownerID && keep(billing) {
			out = append(out, billing)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func contains(field *string, term string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), strings.ToLower(strings.TrimSpace(term)))
}

var (
	_ repository.UserRepository        = (*Users)(nil)
	_ repository.TransactionRepository = (*Transactions)(nil)
	_ repository.BillingRepository     = (*Billings)(nil)
)
