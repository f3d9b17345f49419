// Package session decodes estimation session documents and runs them through
// the CoD, FPA and PERT calculators. It is the shared code path used by both
// the CLI and the server.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names a calculator.
type Kind string

// Supported session kinds.
const (
	KindCoD  Kind = "cod"
	KindFPA  Kind = "fpa"
	KindPERT Kind = "pert"
)

// ParseKind parses a kind, case-insensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindCoD, KindFPA, KindPERT:
		return k, nil
	default:
		return "", fmt.Errorf("unknown session kind %q (must be cod, fpa or pert)", s)
	}
}

var errNoKind = errors.New("session document has no kind")

// Document is a session file. Only the fields belonging to Kind are used.
//
//nolint:govet // fieldalignment: struct field order mirrors the file layout
type Document struct {
	Kind        Kind `yaml:"kind" json:"kind"`
	CoDSession  `yaml:",inline"`
	FPASession  `yaml:",inline"`
	PERTSession `yaml:",inline"`
}

// Report is the outcome of running a session.
type Report interface {
	Kind() Kind
}

// Decode reads a YAML (or JSON) session document.
func Decode(r io.Reader) (*Document, error) {
	doc, err := decode(r)
	if err != nil {
		return nil, err
	}
	if doc.Kind == "" {
		return nil, errNoKind
	}
	kind, err := ParseKind(string(doc.Kind))
	if err != nil {
		return nil, err
	}
	doc.Kind = kind
	if err := doc.checkSections(); err != nil {
		return nil, err
	}
	return doc, nil
}

// DecodeAs reads a session document that must be of the given kind. The
// document's kind field may be omitted.
func DecodeAs(r io.Reader, kind Kind) (*Document, error) {
	doc, err := decode(r)
	if err != nil {
		return nil, err
	}
	if doc.Kind != "" {
		got, err := ParseKind(string(doc.Kind))
		if err != nil {
			return nil, err
		}
		if got != kind {
			return nil, fmt.Errorf("session kind %q does not match %q", got, kind)
		}
	}
	doc.Kind = kind
	if err := doc.checkSections(); err != nil {
		return nil, err
	}
	return doc, nil
}

// checkSections rejects fields that belong to a different kind. The decoder
// leaves a section nil only when the document does not mention it.
func (d *Document) checkSections() error {
	var foreign []string
	if d.Kind != KindCoD && d.CoDSession.Items != nil {
		foreign = append(foreign, "items")
	}
	if d.Kind != KindFPA {
		if d.FPASession.Functions != nil {
			foreign = append(foreign, "functions")
		}
		if d.FPASession.Characteristics != nil {
			foreign = append(foreign, "characteristics")
		}
	}
	if d.Kind != KindPERT && d.PERTSession.Tasks != nil {
		foreign = append(foreign, "tasks")
	}
	if len(foreign) > 0 {
		return fmt.Errorf("%s session does not accept field(s): %s", d.Kind, strings.Join(foreign, ", "))
	}
	return nil
}

func decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty session document")
		}
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &doc, nil
}

// Load reads a session document from a file.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Run runs the document through the calculator selected by its kind.
func (d *Document) Run(opts Options) (Report, error) {
	switch d.Kind {
	case KindCoD:
		return d.CoDSession.Run(opts)
	case KindFPA:
		return d.FPASession.Run(opts)
	case KindPERT:
		return d.PERTSession.Run(opts)
	case "":
		return nil, errNoKind
	default:
		return nil, fmt.Errorf("unknown session kind %q", d.Kind)
	}
}

// FileResult pairs a session file with its report.
type FileResult struct {
	Report Report
	Path   string
}

// RunFiles loads and runs each file in order. It stops at the first failure
// or when ctx is cancelled.
func RunFiles(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	logger := opts.logger()
	results := make([]FileResult, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		doc, err := Load(path)
		if err != nil {
			return results, err
		}
		report, err := doc.Run(opts)
		if err != nil {
			return results, fmt.Errorf("%s: %w", path, err)
		}
		logger.DebugContext(ctx, "session complete",
			"path", path, "kind", doc.Kind, "progress", fmt.Sprintf("%d/%d", i+1, len(paths)))
		results = append(results, FileResult{Path: path, Report: report})
	}
	return results, nil
}
