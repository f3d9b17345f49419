package fpa

import (
	"fmt"
	"strings"
)

// Type is an FPA function type.
type Type string

// Function types. ILF and EIF are data functions, EI, EO and EQ are transactions.
const (
	ILF Type = "ILF" // Internal Logical File
	EIF Type = "EIF" // External Interface File
	EI  Type = "EI"  // External Input
	EO  Type = "EO"  // External Output
	EQ  Type = "EQ"  // External Query
)

// AllTypes returns all function types in canonical order.
func AllTypes() []Type {
	return []Type{ILF, EIF, EI, EO, EQ}
}

// ParseType parses a function type, case-insensitive.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid function type: %q", s)
	}
	return t, nil
}

// IsValid reports whether t is one of the five function types.
func (t Type) IsValid() bool {
	switch t {
	case ILF, EIF, EI, EO, EQ:
		return true
	default:
		return false
	}
}

// IsData reports whether t is a data function, sized by RET rather than FTR.
func (t Type) IsData() bool {
	return t == ILF || t == EIF
}

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// Complexity is the tier a function falls into.
type Complexity int

// Complexity tiers.
const (
	Low Complexity = iota
	Avg
	High
)

// String returns LOW, AVG or HIGH.
func (c Complexity) String() string {
	switch c {
	case Low:
		return "LOW"
	case Avg:
		return "AVG"
	case High:
		return "HIGH"
	default:
		return fmt.Sprintf("Complexity(%d)", int(c))
	}
}

// MarshalText encodes the complexity as its name.
func (c Complexity) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// weights holds unadjusted function points per type, indexed by Complexity.
var weights = map[Type][3]int{
	ILF: {7, 10, 15},
	EIF: {5, 7, 10},
	EI:  {3, 4, 6},
	EO:  {4, 5, 7},
	EQ:  {3, 4, 6},
}

// Weight returns the unadjusted function points awarded for a function of
// type t at complexity c. Unknown types and tiers weigh nothing.
func Weight(t Type, c Complexity) int {
	w, ok := weights[t]
	if !ok || c < Low || c > High {
		return 0
	}
	return w[c]
}

// Characteristics lists the 14 general system characteristics.
// The names are informational: only the degrees of influence are summed.
var Characteristics = []string{
	"data_communications",
	"distributed_data_processing",
	"performance",
	"heavily_used_configuration",
	"transaction_rate",
	"online_data_entry",
	"enduser_efficiency",
	"online_update",
	"complex_processing",
	"reusability",
	"installation_ease",
	"operational_ease",
	"multiple_sites",
	"facilitate_change",
}
