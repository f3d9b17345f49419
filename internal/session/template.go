package session

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/codeGROOVE-dev/estcalc/pkg/fpa"
)

// Template returns a starter document for kind.
func Template(kind Kind) (*Document, error) {
	doc := &Document{Kind: kind}
	switch kind {
	case KindCoD:
		doc.Items = []CoDItem{
			{Title: "Feature A", Effort: 4, User: 4, Time: 9, Risk: 8},
			{Title: "Feature B", Effort: 6, User: 8, Time: 4, Risk: 3},
			{Title: "Feature C", Effort: 5, User: 6, Time: 6, Risk: 6},
		}
	case KindFPA:
		doc.Functions = []FPAFunction{
			{Name: "customer", Type: "ILF", DET: 20, RET: 2},
			{Name: "customer.create", Type: "EI", DET: 20, FTR: 2},
			{Name: "customer.select", Type: "EO", DET: 20, FTR: 1},
		}
		doc.Characteristics = make(map[string]int, len(fpa.Characteristics))
		for _, name := range fpa.Characteristics {
			doc.Characteristics[name] = 0
		}
	case KindPERT:
		doc.Tasks = []PERTTask{
			{Name: "design", Optimistic: 3, MostLikely: 5, Pessimistic: 10},
			{Name: "build", Optimistic: 10, MostLikely: 12, Pessimistic: 20},
		}
	default:
		return nil, fmt.Errorf("unknown session kind %q", kind)
	}
	return doc, nil
}

// WriteTemplate writes a starter document for kind as YAML.
func WriteTemplate(w io.Writer, kind Kind) error {
	doc, err := Template(kind)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	return enc.Close()
}
