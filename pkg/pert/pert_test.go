package pert

import (
	"errors"
	"math"
	"testing"

	"github.com/codeGROOVE-dev/estcalc/pkg/estimate"
)

const tolerance = 1e-9

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func sampleEstimator(t *testing.T) *Estimator {
	t.Helper()
	e := New()
	for _, task := range []struct {
		name    string
		o, m, p float64
	}{
		{"o.1", 10, 12, 20},
		{"o.2", 10, 10, 20},
		{"o.3", 12, 12, 24},
	} {
		if err := e.Add(task.name, task.o, task.m, task.p); err != nil {
			t.Fatalf("Add(%s) unexpected error: %v", task.name, err)
		}
	}
	return e
}

func TestTask(t *testing.T) {
	tests := []struct {
		name       string
		o, m, p    float64
		wantEffort float64
		wantError  float64
	}{
		{"single task", 10, 12, 20, 13.0, 1.67},
		{"rounded effort", 10, 10, 20, 11.67, 1.67},
		{"symmetric", 12, 12, 24, 14.0, 2.0},
		{"certain", 5, 5, 5, 5.0, 0},
		{"unordered inputs", 20, 5, 10, 8.33, -1.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effort, stdErr := Task(tt.o, tt.m, tt.p)
			if effort != tt.wantEffort {
				t.Errorf("effort = %v, want %v", effort, tt.wantEffort)
			}
			if stdErr != tt.wantError {
				t.Errorf("error = %v, want %v", stdErr, tt.wantError)
			}
		})
	}
}

func TestAddStoresDerivedValues(t *testing.T) {
	e := sampleEstimator(t)
	it, ok := e.Item("o.1")
	if !ok {
		t.Fatal("Item(o.1) not found")
	}
	if it.Effort != 13.0 || it.Error != 1.67 {
		t.Errorf("o.1 effort/error = %v/%v, want 13/1.67", it.Effort, it.Error)
	}
	if it.Optimistic != 10 || it.MostLikely != 12 || it.Pessimistic != 20 {
		t.Errorf("o.1 inputs not preserved: %+v", it)
	}
}

func TestCalculateSample(t *testing.T) {
	e := sampleEstimator(t)
	got := e.Calculate()

	if !closeTo(got.Effort, 38.67) {
		t.Errorf("Effort = %v, want 38.67", got.Effort)
	}
	if got.Error != 3.09 {
		t.Errorf("Error = %v, want 3.09", got.Error)
	}
	if !closeTo(got.E95, 44.85) {
		t.Errorf("E95 = %v, want 44.85", got.E95)
	}
}

func TestCalculateAggregation(t *testing.T) {
	e := sampleEstimator(t)
	got := e.Calculate()

	var sum, squares float64
	for _, it := range e.Items() {
		sum += it.Effort
		squares += it.Error * it.Error
	}
	if got.Effort != sum {
		t.Errorf("Effort = %v, want exact sum %v", got.Effort, sum)
	}
	if want := estimate.Round2(math.Sqrt(squares)); got.Error != want {
		t.Errorf("Error = %v, want %v", got.Error, want)
	}
	if got.E95 != got.Effort+2*got.Error {
		t.Errorf("E95 = %v, want %v", got.E95, got.Effort+2*got.Error)
	}
	if again := e.Calculate(); again != got {
		t.Errorf("Calculate() not idempotent: %+v then %+v", got, again)
	}
}

func TestCalculateEmpty(t *testing.T) {
	if got := New().Calculate(); got != (Result{}) {
		t.Errorf("Calculate() on empty estimator = %+v, want zero", got)
	}
}

func TestDuplicateTask(t *testing.T) {
	e := sampleEstimator(t)
	err := e.Add("o.1", 1, 1, 1)
	if err == nil {
		t.Fatal("Expected duplicate item error, got nil")
	}
	var dErr *estimate.DuplicateItemError
	if !errors.As(err, &dErr) {
		t.Fatalf("Expected *estimate.DuplicateItemError, got %T", err)
	}

	it, _ := e.Item("o.1")
	if it.Effort != 13.0 {
		t.Errorf("First registration changed: %+v", it)
	}
	if e.Len() != 3 {
		t.Errorf("Len() = %d, want 3", e.Len())
	}
}

func TestItemsOrder(t *testing.T) {
	e := sampleEstimator(t)
	items := e.Items()
	for i, want := range []string{"o.1", "o.2", "o.3"} {
		if items[i].Name != want {
			t.Errorf("Items()[%d] = %s, want %s", i, items[i].Name, want)
		}
	}
}

func TestConfidenceGrade(t *testing.T) {
	tests := []struct {
		name      string
		result    Result
		wantGrade string
	}{
		{"no effort", Result{}, "N/A"},
		{"tight", Result{Effort: 100, Error: 4}, "A"},
		{"sample", Result{Effort: 38.67, Error: 3.09}, "B"},
		{"wide", Result{Effort: 100, Error: 15}, "C"},
		{"very wide", Result{Effort: 100, Error: 30}, "D"},
		{"unbounded", Result{Effort: 10, Error: 9}, "F"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grade, msg := ConfidenceGrade(tt.result)
			if grade != tt.wantGrade {
				t.Errorf("ConfidenceGrade() grade = %s, want %s", grade, tt.wantGrade)
			}
			if msg == "" {
				t.Error("Expected non-empty message")
			}
		})
	}
}
