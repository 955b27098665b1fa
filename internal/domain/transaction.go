package domain

import "time"

// TransactionType separates money in from money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is a known type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense entry owned by a user.
type Transaction struct {
	ID          int64
	UserID      int64
	Amount      float64
	Type        TransactionType
	Category    *string
	Description *string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TransactionPatch lists the fields to change on an existing transaction.
type TransactionPatch struct {
	Amount      *float64
	Type        *TransactionType
	Category    Field[string]
	Description Field[string]
	Date        *time.Time
}

// Apply copies the set fields onto t.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	p.Category.applyTo(&t.Category)
	p.Description.applyTo(&t.Description)
	if p.Date != nil {
		t.Date = *p.Date
	}
}
