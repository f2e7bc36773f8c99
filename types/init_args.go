package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// InitArgs describes the arguments a proxy's initialization entry point
// expects: a parallel pair of ABI type names and values. The pair is consumed
// only by the raw ABI encoder; values are never interpreted here.
type InitArgs struct {
	Types  []string `json:"types" validate:"omitempty,dive,required"`
	Values []any    `json:"values"`
}

// NewInitArgs pairs ABI type names with their values.
func NewInitArgs(typeNames []string, values []any) InitArgs {
	return InitArgs{Types: typeNames, Values: values}
}

// Validate checks the type/value sequences line up. Whether each value is
// encodable under its declared type is left to the encoder.
func (a InitArgs) Validate() error {
	var validate = validator.New()
	if err := validate.Struct(a); err != nil {
		return err
	}

	if len(a.Types) != len(a.Values) {
		return fmt.Errorf("init args mismatch: %d types, %d values", len(a.Types), len(a.Values))
	}

	return nil
}
