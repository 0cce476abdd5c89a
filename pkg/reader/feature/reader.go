// Package feature provides a streaming reader for LC-IMS-MS feature tables
package feature

import (
	"fmt"
	"io"
	"os"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
	"github.com/ChrisMcGann/XLinkIMS/pkg/reader/delimited"
)

// Column headers of a feature table
const (
	ColumnFeatureIndex = "Feature_Index"
	ColumnMass         = "Monoisotopic_Mass"
	ColumnScanStart    = "Scan_Start"
	ColumnScanEnd      = "Scan_End"
	ColumnScanRep      = "Scan"
	ColumnImsScan      = "IMS_Scan"
	ColumnCharge       = "Class_Rep_Charge"
	ColumnDriftTime    = "Drift_Time"
	ColumnAbundance    = "Abundance"
)

// Reader provides streaming access to feature tables
type Reader struct {
	table   *delimited.Reader
	current *core.Feature
	err     error
}

// NewReader reads the header of a feature table. Feature index, mass and
// charge columns are required; other columns read as 0 when absent.
func NewReader(r io.Reader) (*Reader, error) {
	table, err := delimited.NewReader(r, ColumnFeatureIndex, ColumnMass, ColumnCharge)
	if err != nil {
		return nil, fmt.Errorf("feature table: %w", err)
	}
	return &Reader{table: table}, nil
}

// Next advances to the next feature. Returns false when no more features or error.
func (r *Reader) Next() bool {
	r.current = nil
	if r.err != nil || !r.table.Next() {
		return false
	}

	f, err := r.parseFeature()
	if err != nil {
		r.err = err
		return false
	}

	r.current = f
	return true
}

// Feature returns the current feature
func (r *Reader) Feature() *core.Feature {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.table.Err()
}

func (r *Reader) parseFeature() (*core.Feature, error) {
	f := &core.Feature{}
	var err error

	ints := []struct {
		column string
		dst    *int
	}{
		{ColumnFeatureIndex, &f.ID},
		{ColumnCharge, &f.Charge},
		{ColumnScanStart, &f.ScanLcStart},
		{ColumnScanEnd, &f.ScanLcEnd},
		{ColumnScanRep, &f.ScanLcRep},
		{ColumnImsScan, &f.ScanImsRep},
	}
	for _, field := range ints {
		if *field.dst, err = r.table.OptionalInt(field.column); err != nil {
			return nil, err
		}
	}

	floats := []struct {
		column string
		dst    *float64
	}{
		{ColumnMass, &f.MassMonoisotopic},
		{ColumnDriftTime, &f.DriftTime},
		{ColumnAbundance, &f.Abundance},
	}
	for _, field := range floats {
		if *field.dst, err = r.table.OptionalFloat(field.column); err != nil {
			return nil, err
		}
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("line %d: %w", r.table.Line(), err)
	}

	return f, nil
}

// ReadAll reads every feature from r
func ReadAll(r io.Reader) ([]*core.Feature, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	var features []*core.Feature
	for reader.Next() {
		features = append(features, reader.Feature())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}
	return features, nil
}

// ReadFile reads every feature from the file at path
func ReadFile(path string) ([]*core.Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature file: %w", err)
	}
	defer f.Close()

	features, err := ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return features, nil
}
