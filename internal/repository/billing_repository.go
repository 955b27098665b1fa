package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/finance-api/internal/domain"
)

// BillingRepository encapsulates billing persistence, scoped by owner.
type BillingRepository interface {
	Create(ctx context.Context, billing *domain.Billing) error
	Update(ctx context.Context, billing *domain.Billing) error
	Delete(ctx context.Context, ownerID, id int64) error
	GetByOwner(ctx context.Context, ownerID, id int64) (*domain.Billing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Billing, error)
	Search(ctx context.Context, ownerID int64, term string, limit int) ([]domain.Billing, error)
}

type billingRepository struct {
	pool *pgxpool.Pool
}

// NewBillingRepository instantiates repository.
func NewBillingRepository(pool *pgxpool.Pool) BillingRepository {
	return &billingRepository{pool: pool}
}

const billingColumns = `id, user_id, name, amount, category, note, due_date, paid, created_at, updated_at`

func (r *billingRepository) Create(ctx context.Context, billing *domain.Billing) error {
	const query = `
        INSERT INTO billings (user_id, name, amount, category, note, due_date, paid)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, amount, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		billing.UserID,
		billing.Name,
		billing.Amount,
		billing.Category,
		billing.Note,
		billing.DueDate,
		billing.Paid,
	).Scan(&billing.ID, &billing.Amount, &billing.CreatedAt, &billing.UpdatedAt)
}

func (r *billingRepository) Update(ctx context.Context, billing *domain.Billing) error {
	const query = `
        UPDATE billings SET name=$1, amount=$2, category=$3, note=$4, due_date=$5, paid=$6, updated_at=NOW()
        WHERE id=$7 AND user_id=$8
        RETURNING amount, updated_at`
	return r.pool.QueryRow(ctx, query,
		billing.Name,
		billing.Amount,
		billing.Category,
		billing.Note,
		billing.DueDate,
		billing.Paid,
		billing.ID,
		billing.UserID,
	).Scan(&billing.Amount, &billing.UpdatedAt)
}

func (r *billingRepository) Delete(ctx context.Context, ownerID, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM billings WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *billingRepository) GetByOwner(ctx context.Context, ownerID, id int64) (*domain.Billing, error) {
	query := `SELECT ` + billingColumns + ` FROM billings WHERE id=$1 AND user_id=$2`
	rows, err := r.pool.Query(ctx, query, id, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	billings, err := scanBillings(rows)
	if err != nil {
		return nil, err
	}
	if len(billings) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &billings[0], nil
}

func (r *billingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Billing, error) {
	query := `SELECT ` + billingColumns + ` FROM billings WHERE user_id=$1 ORDER BY due_date ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillings(rows)
}

func (r *billingRepository) Search(ctx context.Context, ownerID int64, term string, limit int) ([]domain.Billing, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + billingColumns + ` FROM billings
        WHERE user_id=$1 AND (name ILIKE $2 OR category ILIKE $2 OR note ILIKE $2)
        ORDER BY due_date ASC LIMIT $3`
	rows, err := r.pool.Query(ctx, query, ownerID, likePattern(term), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillings(rows)
}

func scanBillings(rows pgx.Rows) ([]domain.Billing, error) {
	result := []domain.Billing{}
	for rows.Next() {
		var billing domain.Billing
		if err := rows.Scan(
			&billing.ID,
			&billing.UserID,
			&billing.Name,
			&billing.Amount,
			&billing.Category,
			&billing.Note,
			&billing.DueDate,
			&billing.Paid,
			&billing.CreatedAt,
			&billing.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, billing)
	}
	return result, rows.Err()
}
