// Package fasta provides a streaming reader for FASTA protein databases
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

// Maximum line length accepted by the scanner
const maxLineSize = 16 * 1024 * 1024

// Reader provides streaming access to FASTA records
type Reader struct {
	scanner *bufio.Scanner
	lineNum int
	header  string // Pending header of the next record
	current *core.Protein
	err     error
}

// NewReader creates a new FASTA reader
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Next advances to the next protein. Returns false when no more proteins or error.
func (r *Reader) Next() bool {
	r.current = nil
	if r.err != nil {
		return false
	}

	protein, err := r.readProtein()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = protein
	return true
}

// Protein returns the current protein
func (r *Reader) Protein() *core.Protein {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readProtein reads lines up to the next header. The protein id is the first
// word of the header; sequence lines are upper-cased and a trailing '*' is dropped.
func (r *Reader) readProtein() (*core.Protein, error) {
	var seq strings.Builder
	headerLine := r.lineNum

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, ">") {
			if r.header != "" {
				protein, err := r.finish(r.header, seq.String(), headerLine)
				r.header = line
				return protein, err
			}
			r.header = line
			headerLine = r.lineNum
			continue
		}

		if r.header == "" {
			return nil, fmt.Errorf("line %d: sequence before first header", r.lineNum)
		}
		seq.WriteString(strings.ToUpper(strings.Join(strings.Fields(line), "")))
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if r.header != "" {
		header := r.header
		r.header = ""
		return r.finish(header, seq.String(), headerLine)
	}

	return nil, io.EOF
}

func (r *Reader) finish(header, sequence string, line int) (*core.Protein, error) {
	fields := strings.Fields(strings.TrimPrefix(header, ">"))
	if len(fields) == 0 {
		return nil, fmt.Errorf("line %d: empty FASTA header", line)
	}

	sequence = strings.TrimSuffix(sequence, "*")
	if err := core.ValidateSequence(sequence); err != nil {
		return nil, fmt.Errorf("line %d: protein %s: %w", line, fields[0], err)
	}

	return &core.Protein{ID: fields[0], Sequence: sequence}, nil
}

// ReadAll reads every protein from r
func ReadAll(r io.Reader) ([]core.Protein, error) {
	reader := NewReader(r)

	var proteins []core.Protein
	for reader.Next() {
		proteins = append(proteins, *reader.Protein())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return proteins, nil
}

// ReadFile reads every protein from the file at path
func ReadFile(path string) ([]core.Protein, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA file: %w", err)
	}
	defer f.Close()

	proteins, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return proteins, nil
}
