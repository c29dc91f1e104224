package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/divdata/internal/errors"
)

var testColumns = []string{
	"year", "month", "date", "hour", "minute", "second",
	"jdate", "c", "det", "clat", "clon", "radiance", "tb",
}

// sample mimics pprint titles=0 output: a leading blank column, then 13 fields.
const sample = `   2010 10  4 12  0  0.128 2455473.000001  3  5 -12.5 145.25 0.0123 85.1
   2010 10  4 12  0 13.000 2455473.000151  3  5 -12.4 145.26 0.0125 85.4

   2010 10  4 12  1  2.500 2455473.000723  3  5 -12.3 145.27 0.0131 86.0
`

func TestParse_DropsLeadingColumn(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sample), testColumns, ParseOptions{Name: "sample"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tbl.Len())
	}
	if len(tbl.Columns) != 13 {
		t.Fatalf("columns = %d, want 13", len(tbl.Columns))
	}
	if tbl.Columns[0].Name != "year" {
		t.Errorf("first column = %q, want year", tbl.Columns[0].Name)
	}
	year, _ := tbl.Column("year")
	if year[0] != 2010 {
		t.Errorf("year[0] = %v, want 2010", year[0])
	}
	tb, _ := tbl.Column("tb")
	if tb[2] != 86.0 {
		t.Errorf("tb[2] = %v, want 86.0", tb[2])
	}
}

func TestParse_NonEmptyLeadingColumnDroppedSilently(t *testing.T) {
	line := "x 2010 10 4 12 0 0 2455473.0 3 5 -12.5 145.25 0.0123 85.1\n"

	tbl, err := Parse(strings.NewReader(line), testColumns, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	year, _ := tbl.Column("year")
	if year[0] != 2010 {
		t.Errorf("year[0] = %v, want 2010", year[0])
	}
}

func TestParse_StrictRejectsNonEmptyLeadingColumn(t *testing.T) {
	line := "x 2010 10 4 12 0 0 2455473.0 3 5 -12.5 145.25 0.0123 85.1\n"

	_, err := Parse(strings.NewReader(line), testColumns, ParseOptions{Strict: true})
	if !errors.Is(err, errors.ErrParseFailed) {
		t.Fatalf("Parse() error = %v, want PARSE_FAILED", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few fields", "  2010 10 4\n"},
		{"missing leading column", "2010 10 4 12 0 0 2455473.0 3 5 -12.5 145.25 0.0123 85.1\n"},
		{"not a number", "  2010 10 4 12 0 0 2455473.0 3 5 -12.5 145.25 abc 85.1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), testColumns, ParseOptions{Name: "in"})
			if !errors.Is(err, errors.ErrParseFailed) {
				t.Errorf("Parse() error = %v, want PARSE_FAILED", err)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	tbl, err := Parse(strings.NewReader("\n\n"), testColumns, ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2010100412_divdata.csv")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tbl, err := ParseFile(path, testColumns, false)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tbl.Len())
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"  a b", []string{"", "a", "b"}},
		{"\ta\t\tb", []string{"", "a", "b"}},
		{"a  b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := splitFields(tt.line)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("splitFields(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
