package session

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeGROOVE-dev/estcalc/pkg/cocomo"
	"github.com/codeGROOVE-dev/estcalc/pkg/cost"
	"github.com/codeGROOVE-dev/estcalc/pkg/estimate"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"cod": KindCoD, " FPA ": KindFPA, "Pert": KindPERT} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("wbs")
	assert.Error(t, err)
}

func TestLoadCoD(t *testing.T) {
	doc, err := Load("testdata/cod.yaml")
	require.NoError(t, err)
	assert.Equal(t, KindCoD, doc.Kind)
	require.Len(t, doc.CoDSession.Items, 6)

	report, err := doc.Run(Options{})
	require.NoError(t, err)
	codReport, ok := report.(CoDReport)
	require.True(t, ok, "expected CoDReport, got %T", report)

	var titles []string
	for _, it := range codReport.Items {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"Feature A", "Feature C", "Feature B", "Feature F", "Feature E", "Feature D"}, titles)
}

func TestLoadFPA(t *testing.T) {
	doc, err := Load("testdata/fpa.yaml")
	require.NoError(t, err)

	cfg := cocomo.DefaultConfig()
	costCfg := cost.DefaultConfig()
	report, err := doc.Run(Options{COCOMO: &cfg, Cost: &costCfg})
	require.NoError(t, err)

	fpaReport, ok := report.(FPAReport)
	require.True(t, ok, "expected FPAReport, got %T", report)
	assert.Equal(t, 44, fpaReport.Result.UFP)
	assert.Equal(t, 0.83, fpaReport.Result.VAF)
	assert.Equal(t, 36.52, fpaReport.Result.FP)
	assert.Len(t, fpaReport.Items, 6)
	assert.Len(t, fpaReport.Characteristics, 14)

	require.NotNil(t, fpaReport.Effort)
	assert.InDelta(t, 36.52*53, fpaReport.Effort.LOC, 1e-6)
	assert.InDelta(t, 924, fpaReport.Effort.Hours, 10)
	require.NotNil(t, fpaReport.Effort.Cost)
	assert.InDelta(t, fpaReport.Effort.Hours*156.25, fpaReport.Effort.Cost.TotalCost, 0.01)
}

func TestLoadPERTFromJSON(t *testing.T) {
	doc, err := Load("testdata/pert.json")
	require.NoError(t, err)
	assert.Equal(t, KindPERT, doc.Kind)

	costCfg := cost.DefaultConfig()
	report, err := doc.Run(Options{Cost: &costCfg})
	require.NoError(t, err)

	pertReport, ok := report.(PERTReport)
	require.True(t, ok, "expected PERTReport, got %T", report)
	assert.InDelta(t, 38.67, pertReport.Result.Effort, 1e-9)
	assert.Equal(t, 3.09, pertReport.Result.Error)
	assert.InDelta(t, 44.85, pertReport.Result.E95, 1e-9)
	assert.Equal(t, "B", pertReport.Grade)

	require.NotNil(t, pertReport.Cost)
	assert.InDelta(t, 38.67*8, pertReport.Cost.Expected.Hours, 1e-6)
	assert.InDelta(t, 44.85*8, pertReport.Cost.E95.Hours, 1e-6)
}

func TestRunWithoutEnrichment(t *testing.T) {
	doc, err := Load("testdata/fpa.yaml")
	require.NoError(t, err)
	report, err := doc.Run(Options{})
	require.NoError(t, err)
	assert.Nil(t, report.(FPAReport).Effort)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing kind", "items: []\n"},
		{"unknown kind", "kind: wbs\n"},
		{"unknown field", "kind: cod\nfeatures: []\n"},
		{"malformed", "kind: [cod\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestRunPropagatesEngineErrors(t *testing.T) {
	t.Run("cod validation", func(t *testing.T) {
		s := CoDSession{Items: []CoDItem{{Title: "x", Effort: 1, User: 0, Time: 1, Risk: 1}}}
		_, err := s.Run(Options{})
		require.Error(t, err)
		assert.True(t, estimate.IsValidationError(err))
		assert.Contains(t, err.Error(), "User value")
	})

	t.Run("cod non-positive effort", func(t *testing.T) {
		for _, effort := range []float64{0, -2} {
			s := CoDSession{Items: []CoDItem{{Title: "x", Effort: effort, User: 1, Time: 1, Risk: 1}}}
			_, err := s.Run(Options{})
			require.Error(t, err)
			assert.True(t, estimate.IsValidationError(err))
			assert.Contains(t, err.Error(), "effort must be positive")
		}
	})

	t.Run("cod non-finite effort", func(t *testing.T) {
		for _, effort := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			s := CoDSession{Items: []CoDItem{{Title: "x", Effort: effort, User: 1, Time: 1, Risk: 1}}}
			_, err := s.Run(Options{})
			require.Error(t, err)
			assert.True(t, estimate.IsValidationError(err))
			assert.Contains(t, err.Error(), "effort must be a finite number")
		}
	})

	t.Run("pert non-finite estimate", func(t *testing.T) {
		tasks := []PERTTask{
			{Name: "a", Optimistic: math.NaN(), MostLikely: 2, Pessimistic: 3},
			{Name: "b", Optimistic: 1, MostLikely: math.Inf(1), Pessimistic: 3},
			{Name: "c", Optimistic: 1, MostLikely: 2, Pessimistic: math.Inf(-1)},
		}
		for _, task := range tasks {
			s := PERTSession{Tasks: []PERTTask{task}}
			_, err := s.Run(Options{})
			require.Error(t, err, task.Name)
			assert.True(t, estimate.IsValidationError(err))
			assert.Contains(t, err.Error(), "must be a finite number")
		}
	})

	t.Run("fpa duplicate", func(t *testing.T) {
		s := FPASession{Functions: []FPAFunction{
			{Name: "customer", Type: "ILF", DET: 20, RET: 2},
			{Name: "customer", Type: "EQ", DET: 3, FTR: 1},
		}}
		_, err := s.Run(Options{})
		require.Error(t, err)
		assert.True(t, estimate.IsDuplicateItemError(err))
	})

	t.Run("fpa bad type", func(t *testing.T) {
		s := FPASession{Functions: []FPAFunction{{Name: "x", Type: "XX"}}}
		_, err := s.Run(Options{})
		assert.Error(t, err)
	})

	t.Run("pert duplicate", func(t *testing.T) {
		s := PERTSession{Tasks: []PERTTask{{Name: "a"}, {Name: "a"}}}
		_, err := s.Run(Options{})
		require.Error(t, err)
		assert.True(t, estimate.IsDuplicateItemError(err))
	})
}

func TestFPAUsesRETOrFTRByType(t *testing.T) {
	s := FPASession{Functions: []FPAFunction{
		{Name: "file", Type: "eif", DET: 25, RET: 6, FTR: 0},
		{Name: "input", Type: "EI", DET: 5, RET: 9, FTR: 3},
	}}
	report, err := s.Run(Options{})
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	assert.Equal(t, 6, report.Items[0].RET)
	assert.Equal(t, 10, report.Items[0].UFP) // EIF HIGH
	assert.Equal(t, 3, report.Items[1].FTR)
	assert.Equal(t, 6, report.Items[1].UFP) // EI HIGH
}

func TestRunFiles(t *testing.T) {
	results, err := RunFiles(context.Background(),
		[]string{"testdata/cod.yaml", "testdata/fpa.yaml", "testdata/pert.json"}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, KindCoD, results[0].Report.Kind())
	assert.Equal(t, KindFPA, results[1].Report.Kind())
	assert.Equal(t, KindPERT, results[2].Report.Kind())
	assert.Equal(t, "testdata/pert.json", results[2].Path)
}

func TestRunFilesStopsOnError(t *testing.T) {
	results, err := RunFiles(context.Background(),
		[]string{"testdata/cod.yaml", "testdata/missing.yaml", "testdata/pert.json"}, Options{})
	require.Error(t, err)
	assert.Len(t, results, 1)
}

func TestRunFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := RunFiles(ctx, []string{"testdata/cod.yaml"}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestTemplateRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindCoD, KindFPA, KindPERT} {
		t.Run(string(kind), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteTemplate(&buf, kind))

			doc, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, kind, doc.Kind)

			_, err = doc.Run(Options{})
			assert.NoError(t, err)
		})
	}

	_, err := Template(Kind("wbs"))
	assert.Error(t, err)
}

func TestDocumentJSON(t *testing.T) {
	var doc Document
	body := `{"kind":"cod","items":[{"title":"A","effort":2,"user":3,"time":4,"risk":5}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, KindCoD, doc.Kind)
	require.Len(t, doc.CoDSession.Items, 1)
	assert.Equal(t, 5, doc.CoDSession.Items[0].Risk)
}

func TestDecodeAs(t *testing.T) {
	doc, err := DecodeAs(strings.NewReader(`{"tasks":[{"name":"a","o":1,"m":2,"p":3}]}`), KindPERT)
	require.NoError(t, err)
	assert.Equal(t, KindPERT, doc.Kind)
	require.Len(t, doc.PERTSession.Tasks, 1)

	doc, err = DecodeAs(strings.NewReader(`{"kind":"COD","items":[]}`), KindCoD)
	require.NoError(t, err)
	assert.Equal(t, KindCoD, doc.Kind)

	_, err = DecodeAs(strings.NewReader(`{"kind":"fpa"}`), KindCoD)
	assert.ErrorContains(t, err, "does not match")

	_, err = DecodeAs(strings.NewReader(``), KindCoD)
	assert.Error(t, err)
}

func TestDecodeRejectsOtherKindSections(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		body string
		want string
	}{
		{"tasks posted as cod", KindCoD, `{"tasks":[{"name":"a","o":1,"m":2,"p":3}]}`, "tasks"},
		{"empty tasks list", KindCoD, `{"items":[],"tasks":[]}`, "tasks"},
		{"items posted as pert", KindPERT, `{"items":[{"title":"a","effort":1,"user":1,"time":1,"risk":1}]}`, "items"},
		{"characteristics posted as cod", KindCoD, `{"characteristics":{}}`, "characteristics"},
		{"functions posted as pert", KindPERT, `{"kind":"pert","functions":[]}`, "functions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAs(strings.NewReader(tt.body), tt.kind)
			require.Error(t, err)
			assert.ErrorContains(t, err, "does not accept")
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := Decode(strings.NewReader("kind: cod\nitems: []\ntasks:\n  - {name: a, o: 1, m: 2, p: 3}\n"))
	assert.ErrorContains(t, err, "cod session does not accept field(s): tasks")
}

func TestDecodeNonFiniteValues(t *testing.T) {
	doc, err := DecodeAs(strings.NewReader(`{"items":[{"title":"a","effort":.nan,"user":1,"time":1,"risk":1}]}`), KindCoD)
	require.NoError(t, err)
	_, err = doc.Run(Options{})
	assert.True(t, estimate.IsValidationError(err))

	doc, err = DecodeAs(strings.NewReader(`{"tasks":[{"name":"a","o":1,"m":.inf,"p":3}]}`), KindPERT)
	require.NoError(t, err)
	_, err = doc.Run(Options{})
	assert.True(t, estimate.IsValidationError(err))
}

func TestEmptyCoDReportJSON(t *testing.T) {
	report, err := CoDSession{}.Run(Options{})
	require.NoError(t, err)
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))
}
