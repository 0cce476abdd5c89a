package core

// MassShift is the outcome of searching for one shifted mass.
type MassShift struct {
	Mass    float64 // Feature mass plus the labeling shift
	Found   bool
	Retried bool // Found only after shifting the envelope left by one isotope
}

// MassShiftResult holds the shifted masses searched for one CrossLinkResult,
// in search order.
type MassShiftResult struct {
	Shifts []MassShift
}

// Add records the outcome for a shifted mass.
func (r *MassShiftResult) Add(mass float64, found, retried bool) {
	r.Shifts = append(r.Shifts, MassShift{Mass: mass, Found: found, Retried: retried})
}

// FoundCount returns how many shifted masses were found in the data.
func (r *MassShiftResult) FoundCount() int {
	n := 0
	for _, s := range r.Shifts {
		if s.Found {
			n++
		}
	}
	return n
}

// Equal reports whether both results searched the same masses with the same outcomes.
func (r *MassShiftResult) Equal(other *MassShiftResult) bool {
	if len(r.Shifts) != len(other.Shifts) {
		return false
	}
	for i, s := range r.Shifts {
		if s.Mass != other.Shifts[i].Mass || s.Found != other.Shifts[i].Found {
			return false
		}
	}
	return true
}

// CrossLinkResult is the search outcome of a CrossLink against one feature at one LC scan.
type CrossLinkResult struct {
	CrossLink  *CrossLink
	Feature    *Feature
	ScanLc     int
	MassShifts MassShiftResult
}

// NewCrossLinkResult creates a result with an empty mass-shift list.
func NewCrossLinkResult(crossLink *CrossLink, feature *Feature, scanLc int) *CrossLinkResult {
	return &CrossLinkResult{
		CrossLink: crossLink,
		Feature:   feature,
		ScanLc:    scanLc,
	}
}

// PPMError returns the ppm error between the theoretical and feature masses.
func (r *CrossLinkResult) PPMError() float64 {
	return PPMError(r.CrossLink.Mass, r.Feature.MassMonoisotopic)
}

// ShiftedMz converts a shifted mass to m/z at the feature charge.
func (r *CrossLinkResult) ShiftedMz(mass float64) float64 {
	return MassToMZ(mass, r.Feature.Charge)
}
