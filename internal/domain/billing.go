package domain

import "time"

// Billing is a bill or recurring payment a user tracks.
type Billing struct {
	ID        int64
	UserID    int64
	Name      string
	Amount    float64
	Category  *string
	Note      *string
	DueDate   time.Time
	Paid      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BillingPatch lists the fields to change on an existing billing.
type BillingPatch struct {
	Name     *string
	Amount   *float64
	Category Field[string]
	Note     Field[string]
	DueDate  *time.Time
	Paid     *bool
}

// Apply copies the set fields onto b.
func (p BillingPatch) Apply(b *Billing) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Amount != nil {
		b.Amount = *p.Amount
	}
	p.Category.applyTo(&b.Category)
	p.Note.applyTo(&b.Note)
	if p.DueDate != nil {
		b.DueDate = *p.DueDate
	}
	if p.Paid != nil {
		b.Paid = *p.Paid
	}
}

// SearchResult groups a user's matches across resources.
type SearchResult struct {
	Transactions []Transaction
	Billings     []Billing
}
