package core

import (
	"cmp"
	"fmt"
	"math"
	"strings"
)

// Feature is a charge-resolved LC-IMS-MS feature.
type Feature struct {
	ID               int
	Charge           int
	ScanLcStart      int
	ScanLcEnd        int
	ScanLcRep        int
	ScanImsRep       int
	MassMonoisotopic float64
	DriftTime        float64
	Abundance        float64
}

// MzMonoisotopic returns mass/charge + proton, or 0 when the charge is not positive.
func (f *Feature) MzMonoisotopic() float64 {
	if f.Charge <= 0 {
		return 0
	}
	return MassToMZ(f.MassMonoisotopic, f.Charge)
}

// Validate checks that a feature can take part in a search.
func (f *Feature) Validate() error {
	var errs []string

	if f.Charge <= 0 {
		errs = append(errs, "charge must be positive")
	}
	if math.IsNaN(f.MassMonoisotopic) || math.IsInf(f.MassMonoisotopic, 0) {
		errs = append(errs, "monoisotopic mass is not finite")
	}
	if f.ScanLcEnd < f.ScanLcStart {
		errs = append(errs, fmt.Sprintf("LC scan end %d before start %d", f.ScanLcEnd, f.ScanLcStart))
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   fmt.Sprintf("Feature %d", f.ID),
			Message: strings.Join(errs, "; "),
		}
	}
	return nil
}

// IsotopicPeak is one observed m/z, intensity pair at an LC and IMS scan.
type IsotopicPeak struct {
	ScanLc    int
	ScanIms   int
	Mz        float64
	Intensity float64
}

// ComparePeaks orders peaks by LC scan, IMS scan, then m/z.
func ComparePeaks(a, b IsotopicPeak) int {
	if c := cmp.Compare(a.ScanLc, b.ScanLc); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ScanIms, b.ScanIms); c != 0 {
		return c
	}
	return cmp.Compare(a.Mz, b.Mz)
}

// CompareFeatures orders features by monoisotopic mass, ties by id.
func CompareFeatures(a, b *Feature) int {
	if c := cmp.Compare(a.MassMonoisotopic, b.MassMonoisotopic); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
