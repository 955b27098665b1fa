package dto

import (
	"time"

	"github.com/finledger/finance-api/internal/domain"
)

// TransactionRequest is used for both create and partial update. Any userId in
// the body is ignored; ownership comes from the authenticated subject. A null
// category or description clears it on update.
type TransactionRequest struct {
	Amount      *float64         `json:"amount"`
	Type        *string          `json:"type"`
	Category    Optional[string] `json:"category"`
	Description Optional[string] `json:"description"`
	Date        *string          `json:"date"`
}

// TransactionResponse is the public view of a transaction.
type TransactionResponse struct {
	ID          int64                  `json:"id"`
	UserID      int64                  `json:"userId"`
	Amount      float64                `json:"amount"`
	Type        domain.TransactionType `json:"type"`
	Category    *string                `json:"category"`
	Description *string                `json:"description"`
	Date        time.Time              `json:"date"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// NewTransactionResponse maps a transaction.
func NewTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

// NewTransactionResponses maps a list, never returning nil.
func NewTransactionResponses(txs []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, NewTransactionResponse(&txs[i]))
	}
	return out
}
