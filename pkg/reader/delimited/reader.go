// Package delimited provides a streaming reader for header-mapped, tab or
// comma separated text tables
package delimited

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Maximum line length accepted by the scanner
const maxLineSize = 1024 * 1024

// ErrMissingColumn is returned when a required header column is absent
var ErrMissingColumn = errors.New("missing column")

// ParseError reports a malformed value with its line and column
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid %s value '%s': %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader provides streaming access to the rows of a table
type Reader struct {
	scanner   *bufio.Scanner
	lineNum   int
	delimiter string
	columns   map[string]int
	fields    []string
	err       error
}

// NewReader reads the header row and checks that every required column is present.
// The header may be separated by tabs or commas; rows use the same separator.
func NewReader(r io.Reader, required ...string) (*Reader, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	reader := &Reader{scanner: scanner, delimiter: "\t"}

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("line 1: missing header row")
	}
	reader.lineNum++

	header := strings.TrimRight(scanner.Text(), "\r")
	if !strings.Contains(header, "\t") && strings.Contains(header, ",") {
		reader.delimiter = ","
	}

	reader.columns = make(map[string]int)
	for i, name := range strings.Split(header, reader.delimiter) {
		name = strings.TrimSpace(name)
		if _, dup := reader.columns[name]; !dup {
			reader.columns[name] = i
		}
	}

	var missing []string
	for _, name := range required {
		if !reader.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("line 1: %w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return reader, nil
}

// Next advances to the next non-empty row. Returns false at end of input or on error.
func (r *Reader) Next() bool {
	r.fields = nil
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.fields = strings.Split(line, r.delimiter)
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("line %d: %w", r.lineNum+1, err)
	}
	return false
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// Line returns the 1-based line number of the current row
func (r *Reader) Line() int {
	return r.lineNum
}

// Has reports whether the header contains column name
func (r *Reader) Has(name string) bool {
	_, ok := r.columns[name]
	return ok
}

// String returns the raw value of column name in the current row
func (r *Reader) String(name string) (string, error) {
	i, ok := r.columns[name]
	if !ok {
		return "", fmt.Errorf("line %d: %w: %s", r.lineNum, ErrMissingColumn, name)
	}
	if i >= len(r.fields) {
		return "", &ParseError{Line: r.lineNum, Column: name, Err: errors.New("row has too few fields")}
	}
	return strings.TrimSpace(r.fields[i]), nil
}

// Int parses column name of the current row as an integer
func (r *Reader) Int(name string) (int, error) {
	value, err := r.String(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ParseError{Line: r.lineNum, Column: name, Value: value, Err: err}
	}
	return n, nil
}

// Float parses column name of the current row as a float
func (r *Reader) Float(name string) (float64, error) {
	value, err := r.String(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &ParseError{Line: r.lineNum, Column: name, Value: value, Err: err}
	}
	return f, nil
}

// OptionalInt is Int for a column that may be absent from the header; absent columns read as 0
func (r *Reader) OptionalInt(name string) (int, error) {
	if !r.Has(name) {
		return 0, nil
	}
	return r.Int(name)
}

// OptionalFloat is Float for a column that may be absent from the header; absent columns read as 0
func (r *Reader) OptionalFloat(name string) (float64, error) {
	if !r.Has(name) {
		return 0, nil
	}
	return r.Float(name)
}
