package dto

import (
	"encoding/json"

	"github.com/finledger/finance-api/internal/domain"
)

// Optional decodes a nullable request field and remembers whether it was present,
// so an explicit null can be told apart from an omitted key.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler. It is only called for keys present in
// the payload, including those set to null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Field converts to the domain patch representation.
func (o Optional[T]) Field() domain.Field[T] {
	return domain.Field[T]{Set: o.Set, Value: o.Value}
}
