package fpa

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		typ  Type
		det  int
		refs int
		want Complexity
	}{
		// Data functions by RET.
		{ILF, 50, 1, Low},
		{ILF, 51, 1, Avg},
		{ILF, 19, 2, Low},
		{ILF, 20, 3, Avg},
		{ILF, 50, 5, Avg},
		{ILF, 51, 5, High},
		{ILF, 19, 6, Avg},
		{ILF, 20, 6, High},
		{EIF, 51, 1, Avg},
		{EIF, 10, 0, Avg},
		{EIF, 25, 0, High},

		// External inputs by FTR.
		{EI, 15, 0, Low},
		{EI, 16, 1, Avg},
		{EI, 4, 2, Low},
		{EI, 5, 2, Avg},
		{EI, 15, 2, Avg},
		{EI, 20, 2, High},
		{EI, 4, 3, Avg},
		{EI, 5, 3, High},

		// External outputs and queries by FTR.
		{EO, 19, 1, Low},
		{EO, 20, 1, Avg},
		{EO, 5, 2, Low},
		{EO, 6, 3, Avg},
		{EO, 20, 3, High},
		{EO, 5, 4, Avg},
		{EO, 6, 4, High},
		{EQ, 20, 2, High},
		{EQ, 19, 0, Low},
		{EQ, 6, 2, Avg},
	}

	for _, tt := range tests {
		if got := Classify(tt.typ, tt.det, tt.refs); got != tt.want {
			t.Errorf("Classify(%s, det=%d, refs=%d) = %s, want %s", tt.typ, tt.det, tt.refs, got, tt.want)
		}
	}
}

func TestWeight(t *testing.T) {
	want := map[Type][3]int{
		ILF: {7, 10, 15},
		EIF: {5, 7, 10},
		EI:  {3, 4, 6},
		EO:  {4, 5, 7},
		EQ:  {3, 4, 6},
	}
	for typ, row := range want {
		for c, w := range row {
			if got := Weight(typ, Complexity(c)); got != w {
				t.Errorf("Weight(%s, %s) = %d, want %d", typ, Complexity(c), got, w)
			}
		}
	}
	if got := Weight(Type("XYZ"), Low); got != 0 {
		t.Errorf("Weight(unknown) = %d, want 0", got)
	}
	if got := Weight(ILF, Complexity(7)); got != 0 {
		t.Errorf("Weight(ILF, out of range) = %d, want 0", got)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"ILF", ILF, false},
		{"eif", EIF, false},
		{" Ei ", EI, false},
		{"eo", EO, false},
		{"EQ", EQ, false},
		{"", "", true},
		{"query", "", true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestComplexityString(t *testing.T) {
	if Low.String() != "LOW" || Avg.String() != "AVG" || High.String() != "HIGH" {
		t.Errorf("Unexpected names: %s %s %s", Low, Avg, High)
	}
	text, err := High.MarshalText()
	if err != nil || string(text) != "HIGH" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
	if len(Characteristics) != 14 {
		t.Errorf("Expected 14 characteristics, got %d", len(Characteristics))
	}
}
