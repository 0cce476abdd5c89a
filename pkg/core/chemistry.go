// Package core provides the chemistry tables and data model shared by the
// cross-link enumeration and search packages.
package core

import (
	"errors"
	"fmt"
	"math"
)

// Atomic masses (monoisotopic)
const (
	MassH  = 1.0078250321
	MassC  = 12.0000000000
	MassN  = 14.0030740052
	MassO  = 15.9949146221
	MassS  = 31.9720706900
	MassP  = 30.9737615100
	MassFe = 55.9349375000

	// Proton mass used for every m/z conversion in the search
	ProtonMass = 1.00727649
)

// Isotope masses used for labeling mass shifts
const (
	Carbon12 = 12.0
	Carbon13 = 13.00335484

	Nitrogen14 = 14.00307401
	Nitrogen15 = 15.00010897
)

// Cross-linker chemistry, in daltons
const (
	// LinkerMass is a linker connected on both ends.
	LinkerMass = 138.068070650101
	// DeadEndMass is a linker connected on one end and hydrolysed on the other.
	DeadEndMass = 156.078630924225
	// HemeMass is the mass of the heme group carried by the 'J' residue.
	HemeMass = 615.169432626017
)

const (
	// PPMDivisor converts a mass to parts per million.
	PPMDivisor = 1000000

	// IsotopeSpacing is the mass difference between neighbouring isotope peaks.
	IsotopeSpacing = 1.003
)

// ErrUnknownResidue is matched by every UnknownResidueError.
var ErrUnknownResidue = errors.New("unknown amino acid residue")

// UnknownResidueError reports a residue code outside the supported alphabet.
type UnknownResidueError struct {
	Residue  rune
	Position int // 0-based
	Sequence string
}

func (e *UnknownResidueError) Error() string {
	return fmt.Sprintf("unknown amino acid residue %q at position %d in %s", e.Residue, e.Position+1, e.Sequence)
}

func (e *UnknownResidueError) Unwrap() error {
	return ErrUnknownResidue
}

// AminoAcidComposition stores elemental composition
type AminoAcidComposition struct {
	C, H, N, O, S, Fe int
}

// Add accumulates other into c.
func (c *AminoAcidComposition) Add(other AminoAcidComposition) {
	c.C += other.C
	c.H += other.H
	c.N += other.N
	c.O += other.O
	c.S += other.S
	c.Fe += other.Fe
}

// MonoisotopicMass returns the summed monoisotopic mass of the composition.
func (c AminoAcidComposition) MonoisotopicMass() float64 {
	return float64(c.C)*MassC +
		float64(c.H)*MassH +
		float64(c.N)*MassN +
		float64(c.O)*MassO +
		float64(c.S)*MassS +
		float64(c.Fe)*MassFe
}

// AminoAcidCompositions maps amino acid one-letter codes to residue composition.
// 'J' is the heme-carrying cysteine of cytochrome-like proteins.
var AminoAcidCompositions = map[rune]AminoAcidComposition{
	'A': {C: 3, H: 5, N: 1, O: 1},
	'C': {C: 3, H: 5, N: 1, O: 1, S: 1},
	'D': {C: 4, H: 5, N: 1, O: 3},
	'E': {C: 5, H: 7, N: 1, O: 3},
	'F': {C: 9, H: 9, N: 1, O: 1},
	'G': {C: 2, H: 3, N: 1, O: 1},
	'H': {C: 6, H: 7, N: 3, O: 1},
	'I': {C: 6, H: 11, N: 1, O: 1},
	'J': {C: 37, H: 36, N: 5, O: 5, S: 1, Fe: 1},
	'K': {C: 6, H: 12, N: 2, O: 1},
	'L': {C: 6, H: 11, N: 1, O: 1},
	'M': {C: 5, H: 9, N: 1, O: 1, S: 1},
	'N': {C: 4, H: 6, N: 2, O: 2},
	'P': {C: 5, H: 7, N: 1, O: 1},
	'Q': {C: 5, H: 8, N: 2, O: 2},
	'R': {C: 6, H: 12, N: 4, O: 1},
	'S': {C: 3, H: 5, N: 1, O: 2},
	'T': {C: 4, H: 7, N: 1, O: 2},
	'V': {C: 5, H: 9, N: 1, O: 1},
	'W': {C: 11, H: 10, N: 2, O: 1},
	'Y': {C: 9, H: 9, N: 1, O: 2},
}

// SequenceComposition sums the residue compositions of a sequence.
func SequenceComposition(sequence string) (AminoAcidComposition, error) {
	var comp AminoAcidComposition
	for i, aa := range sequence {
		aaComp, ok := AminoAcidCompositions[aa]
		if !ok {
			return AminoAcidComposition{}, &UnknownResidueError{Residue: aa, Position: i, Sequence: sequence}
		}
		comp.Add(aaComp)
	}
	return comp, nil
}

// ValidateSequence checks that every residue of sequence is in the composition table.
func ValidateSequence(sequence string) error {
	_, err := SequenceComposition(sequence)
	return err
}

// CalculateNeutralMass computes the neutral monoisotopic mass of a peptide,
// residues plus one water.
func CalculateNeutralMass(sequence string) (float64, error) {
	comp, err := SequenceComposition(sequence)
	if err != nil {
		return 0, err
	}
	comp.Add(AminoAcidComposition{H: 2, O: 1})
	return comp.MonoisotopicMass(), nil
}

// MassToMZ converts a neutral mass to m/z for the given charge.
func MassToMZ(mass float64, charge int) float64 {
	return mass/float64(charge) + ProtonMass
}

// PPMTolerance returns the absolute tolerance for ppm at mass.
func PPMTolerance(ppm, mass float64) float64 {
	return ppm * mass / PPMDivisor
}

// PPMError returns |theoretical - observed| in ppm of theoretical.
func PPMError(theoretical, observed float64) float64 {
	return math.Abs(theoretical-observed) / (theoretical / PPMDivisor)
}

// Labeling selects the isotope labels applied when computing mass shifts.
type Labeling struct {
	UseC13          bool
	UseN15          bool
	StaticDeltaMass float64
}

// DefaultLabeling is 13C and 15N labeling without a static shift.
func DefaultLabeling() Labeling {
	return Labeling{UseC13: true, UseN15: true}
}

// CalculateMassShift returns the labeling mass shift of sequence in daltons.
func CalculateMassShift(sequence string, labeling Labeling) (float64, error) {
	comp, err := SequenceComposition(sequence)
	if err != nil {
		return 0, err
	}

	delta := 0.0
	if labeling.UseC13 {
		delta += float64(comp.C) * (Carbon13 - Carbon12)
	}
	if labeling.UseN15 {
		delta += float64(comp.N) * (Nitrogen15 - Nitrogen14)
	}
	if math.Abs(labeling.StaticDeltaMass) > math.SmallestNonzeroFloat32 {
		delta += labeling.StaticDeltaMass
	}

	return delta, nil
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
