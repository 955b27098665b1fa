package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/finance-api/internal/domain"
)

// TransactionRepository encapsulates transaction persistence. Every method is
// scoped to an owner; a row owned by someone else behaves as if absent.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, ownerID, id int64) error
	GetByOwner(ctx context.Context, ownerID, id int64) (*domain.Transaction, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Transaction, error)
	Search(ctx context.Context, ownerID int64, term string, limit int) ([]domain.Transaction, error)
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository instantiates repository.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, amount, type, category, description, date, created_at, updated_at`

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	const query = `
        INSERT INTO transactions (user_id, amount, type, category, description, date)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, amount, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		tx.UserID,
		tx.Amount,
		tx.Type,
		tx.Category,
		tx.Description,
		tx.Date,
	).Scan(&tx.ID, &tx.Amount, &tx.CreatedAt, &tx.UpdatedAt)
}

func (r *transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	const query = `
        UPDATE transactions SET amount=$1, type=$2, category=$3, description=$4, date=$5, updated_at=NOW()
        WHERE id=$6 AND user_id=$7
        RETURNING amount, updated_at`
	return r.pool.QueryRow(ctx, query,
		tx.Amount,
		tx.Type,
		tx.Category,
		tx.Description,
		tx.Date,
		tx.ID,
		tx.UserID,
	).Scan(&tx.Amount, &tx.UpdatedAt)
}

func (r *transactionRepository) Delete(ctx context.Context, ownerID, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *transactionRepository) GetByOwner(ctx context.Context, ownerID, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id=$1 AND user_id=$2`
	rows, err := r.pool.Query(ctx, query, id, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &txs[0], nil
}

func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id=$1 ORDER BY date DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *transactionRepository) Search(ctx context.Context, ownerID int64, term string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions
        WHERE user_id=$1 AND (category ILIKE $2 OR description ILIKE $2)
        ORDER BY date DESC LIMIT $3`
	rows, err := r.pool.Query(ctx, query, ownerID, likePattern(term), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	result := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Amount,
			&tx.Type,
			&tx.Category,
			&tx.Description,
			&tx.Date,
			&tx.CreatedAt,
			&tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tx)
	}
	return result, rows.Err()
}

// likePattern escapes LIKE metacharacters and wraps term for substring matching.
func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(term)) + "%"
}
