package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/hpungsan/divdata/internal/errors"
)

// ParseOptions controls Parse.
type ParseOptions struct {
	// Name labels parse errors, usually the file path.
	Name string

	// Strict rejects rows whose leading column is not empty.
	Strict bool
}

// ParseFile parses the text file at path. See Parse.
func ParseFile(path string, columns []string, strict bool) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to open %s: %w", path, err))
	}
	defer f.Close()

	return Parse(f, columns, ParseOptions{Name: path, Strict: strict})
}

// Parse reads whitespace-delimited pprint output. Every non-blank line must
// carry one leading column followed by one value per entry of columns. The
// leading column is pprint formatting (normally empty, from the line's leading
// whitespace) and is discarded.
func Parse(r io.Reader, columns []string, opt ParseOptions) (*Table, error) {
	t := New(columns)
	want := len(columns) + 1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitFields(line)
		if len(fields) != want {
			return nil, errors.NewParseFailed(opt.Name, lineNo,
				fmt.Sprintf("expected %d fields, got %d", want, len(fields)))
		}
		if opt.Strict && fields[0] != "" {
			return nil, errors.NewParseFailed(opt.Name, lineNo,
				fmt.Sprintf("leading column is not empty: %q", fields[0]))
		}

		row := make([]float64, len(columns))
		for i, s := range fields[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errors.NewParseFailed(opt.Name, lineNo,
					fmt.Sprintf("column %s: invalid number %q", columns[i], s))
			}
			row[i] = v
		}
		if err := t.AppendRow(row); err != nil {
			return nil, errors.NewInternal(err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewParseFailed(opt.Name, lineNo, err.Error())
	}

	return t, nil
}

// splitFields splits on runs of whitespace. Unlike strings.Fields, a line that
// starts with whitespace yields an empty first field.
func splitFields(line string) []string {
	fields := strings.Fields(line)
	if len(line) > 0 && unicode.IsSpace(rune(line[0])) {
		fields = append([]string{""}, fields...)
	}
	return fields
}
