package core

import "fmt"

// Peptide is a digestion product of a protein.
type Peptide struct {
	Sequence        string  // One-letter residue codes
	Mass            float64 // Monoisotopic neutral mass
	ProteinID       string
	Start           int // 0-based offset of the first residue in the protein
	MissedCleavages int
}

// ModType classifies the linker chemistry of a cross-link.
type ModType int

const (
	// ModNone is an unmodified peptide.
	ModNone ModType = iota
	// ModZero is one or more dead-end linkers.
	ModZero
	// ModOne is one or more intra-peptide linker loops.
	ModOne
	// ModTwo is a single inter-peptide linker.
	ModTwo
	// ModZeroOne mixes dead-ends and intra-peptide loops.
	ModZeroOne
	// ModZeroTwo mixes dead-ends and an inter-peptide link.
	ModZeroTwo
)

var modTypeNames = [...]string{"None", "Zero", "One", "Two", "ZeroOne", "ZeroTwo"}

func (m ModType) String() string {
	if m < 0 || int(m) >= len(modTypeNames) {
		return fmt.Sprintf("ModType(%d)", int(m))
	}
	return modTypeNames[m]
}

// ParseModType is the inverse of ModType.String.
func ParseModType(s string) (ModType, error) {
	for i, name := range modTypeNames {
		if name == s {
			return ModType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mod type %q", s)
}

// CrossLink is a theoretical cross-linked species of one or two peptides.
type CrossLink struct {
	ProteinID  string
	PeptideOne Peptide
	PeptideTwo *Peptide // nil for self-links and unmodified peptides
	Mass       float64  // Monoisotopic mass of the unshifted species
	ModType    ModType

	// MassShiftList holds one labeling shift per peptide, in peptide order.
	MassShiftList []float64
}

// CrossLinkKey is the identity of a CrossLink; cross-links with equal keys
// are duplicates.
type CrossLinkKey struct {
	ProteinID string
	Mass      float64
	ModType   ModType
}

// Key returns the identity of c.
func (c *CrossLink) Key() CrossLinkKey {
	return CrossLinkKey{ProteinID: c.ProteinID, Mass: c.Mass, ModType: c.ModType}
}

// PeptideCount returns 1 for self-links and 2 for peptide pairs.
func (c *CrossLink) PeptideCount() int {
	if c.PeptideTwo == nil {
		return 1
	}
	return 2
}

// PeptideTwoSequence returns the second sequence, or "" when there is none.
func (c *CrossLink) PeptideTwoSequence() string {
	if c.PeptideTwo == nil {
		return ""
	}
	return c.PeptideTwo.Sequence
}

// String returns the cross-link in format "Pep1-Pep2/ModType@mass"
func (c *CrossLink) String() string {
	pep2 := "null"
	if c.PeptideTwo != nil {
		pep2 = c.PeptideTwo.Sequence
	}
	return fmt.Sprintf("%s-%s/%s@%.6f", c.PeptideOne.Sequence, pep2, c.ModType, c.Mass)
}

// Protein is a named protein sequence.
type Protein struct {
	ID       string
	Sequence string
}
