// Package peak provides a streaming reader for isotopic peak tables
package peak

import (
	"fmt"
	"io"
	"os"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
	"github.com/ChrisMcGann/XLinkIMS/pkg/reader/delimited"
)

// Column headers of a peak table
const (
	ColumnFrame     = "frame_num"
	ColumnScan      = "scan_num"
	ColumnMz        = "mz"
	ColumnIntensity = "intensity"
)

// Reader provides streaming access to peak tables
type Reader struct {
	table   *delimited.Reader
	current core.IsotopicPeak
	err     error
}

// NewReader reads the header of a peak table; all four columns are required
func NewReader(r io.Reader) (*Reader, error) {
	table, err := delimited.NewReader(r, ColumnFrame, ColumnScan, ColumnMz, ColumnIntensity)
	if err != nil {
		return nil, fmt.Errorf("peak table: %w", err)
	}
	return &Reader{table: table}, nil
}

// Next advances to the next peak. Returns false when no more peaks or error.
func (r *Reader) Next() bool {
	r.current = core.IsotopicPeak{}
	if r.err != nil || !r.table.Next() {
		return false
	}

	p, err := r.parsePeak()
	if err != nil {
		r.err = err
		return false
	}

	r.current = p
	return true
}

// Peak returns the current peak
func (r *Reader) Peak() core.IsotopicPeak {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.table.Err()
}

// parsePeak maps the frame number to the LC scan and the scan number to the IMS scan
func (r *Reader) parsePeak() (core.IsotopicPeak, error) {
	var p core.IsotopicPeak
	var err error

	if p.ScanLc, err = r.table.Int(ColumnFrame); err != nil {
		return p, err
	}
	if p.ScanIms, err = r.table.Int(ColumnScan); err != nil {
		return p, err
	}
	if p.Mz, err = r.table.Float(ColumnMz); err != nil {
		return p, err
	}
	if p.Intensity, err = r.table.Float(ColumnIntensity); err != nil {
		return p, err
	}

	return p, nil
}

// ReadAll reads every peak from r
func ReadAll(r io.Reader) ([]core.IsotopicPeak, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	var peaks []core.IsotopicPeak
	for reader.Next() {
		peaks = append(peaks, reader.Peak())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return peaks, nil
}

// ReadFile reads every peak from the file at path
func ReadFile(path string) ([]core.IsotopicPeak, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open peak file: %w", err)
	}
	defer f.Close()

	peaks, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return peaks, nil
}
