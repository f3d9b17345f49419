// Package report renders session reports as styled text, JSON, or spreadsheets.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/codeGROOVE-dev/estcalc/internal/session"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatHuman, FormatJSON, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s (must be human, json or xlsx)", s)
	}
}

// Write renders r to w in the given format.
func Write(w io.Writer, r session.Report, format Format) error {
	switch format {
	case FormatHuman:
		return Human(w, r)
	case FormatJSON:
		return JSON(w, r)
	case FormatXLSX:
		return XLSX(w, r)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// JSON writes r as indented JSON.
func JSON(w io.Writer, r session.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
