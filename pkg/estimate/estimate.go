// Package estimate holds the error taxonomy and rounding rules shared by the
// CoD, FPA and PERT calculators.
package estimate

import (
	"errors"
	"fmt"
	"math"
)

// Error types.
var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateItem = errors.New("duplicate item")
)

// ValidationError reports an attribute outside its allowed range.
// The item carrying it is not registered.
type ValidationError struct {
	Value any
	Field string
	Min   int
	Max   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be an integer in range %d..%d (got %v)", e.Field, e.Min, e.Max, e.Value)
}

// Is makes errors.Is(err, ErrValidation) match.
func (*ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new validation error.
func NewValidationError(field string, minValue, maxValue int, value any) error {
	return &ValidationError{
		Field: field,
		Min:   minValue,
		Max:   maxValue,
		Value: value,
	}
}

// DuplicateItemError reports a registration under a name that is already taken.
// The existing item is left unchanged.
type DuplicateItemError struct {
	Name string
}

func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("an attempt to add a duplicate item %q", e.Name)
}

// Is makes errors.Is(err, ErrDuplicateItem) match.
func (*DuplicateItemError) Is(target error) bool {
	return target == ErrDuplicateItem
}

// NewDuplicateItemError creates a new duplicate item error.
func NewDuplicateItemError(name string) error {
	return &DuplicateItemError{Name: name}
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsDuplicateItemError checks if an error is a duplicate item error.
func IsDuplicateItemError(err error) bool {
	return errors.Is(err, ErrDuplicateItem)
}

// Round rounds x to the given number of decimal places, halves away from zero.
func Round(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}

// Round2 rounds x to two decimal places.
func Round2(x float64) float64 {
	return Round(x, 2)
}
