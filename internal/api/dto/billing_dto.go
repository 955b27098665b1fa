package dto

import (
	"time"

	"github.com/finledger/finance-api/internal/domain"
)

// BillingRequest is used for both create and partial update. A null category or
// note clears it on update.
type BillingRequest struct {
	Name     *string          `json:"name"`
	Amount   *float64         `json:"amount"`
	Category Optional[string] `json:"category"`
	Note     Optional[string] `json:"note"`
	DueDate  *string          `json:"dueDate"`
	Paid     *bool            `json:"paid"`
}

// BillingResponse is the public view of a billing.
type BillingResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Category  *string   `json:"category"`
	Note      *string   `json:"note"`
	DueDate   time.Time `json:"dueDate"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBillingResponse maps a billing.
func NewBillingResponse(b *domain.Billing) BillingResponse {
	return BillingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		Name:      b.Name,
		Amount:    b.Amount,
		Category:  b.Category,
		Note:      b.Note,
		DueDate:   b.DueDate,
		Paid:      b.Paid,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// NewBillingResponses maps a list, never returning nil.
func NewBillingResponses(billings []domain.Billing) []BillingResponse {
	out := make([]BillingResponse, 0, len(billings))
	for i := range billings {
		out = append(out, NewBillingResponse(&billings[i]))
	}
	return out
}

// SearchResponse groups matches by resource.
type SearchResponse struct {
	Query        string                `json:"query"`
	Transactions []TransactionResponse `json:"transactions"`
	Billings     []BillingResponse     `json:"billings"`
}
