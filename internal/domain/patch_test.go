package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionPatchFields(t *testing.T) {
	category := "Rent"
	tx := Transaction{Category: &category, Description: &category}

	TransactionPatch{}.Apply(&tx)
	assert.Equal(t, "Rent", *tx.Category)

	TransactionPatch{Category: Null[string](), Description: Some("June")}.Apply(&tx)
	assert.Nil(t, tx.Category)
	assert.Equal(t, "June", *tx.Description)
}

func TestRoundAmount(t *testing.T) {
	assert.Equal(t, 1.23, RoundAmount(1.234))
	assert.Equal(t, 1.24, RoundAmount(1.236))
	assert.Equal(t, -4.5, RoundAmount(-4.499))
	assert.Equal(t, 10.0, RoundAmount(10))
}
