// Package crosslink enumerates theoretical cross-linked peptide masses.
package crosslink

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

// shiftCacheSize bounds the per-sequence mass-shift cache
const shiftCacheSize = 4096

// crossLinkResidues can carry a linker end.
const crossLinkResidues = "KSTY"

// trailingResidue is dropped before counting sites; it is the cleavage residue
// of the peptide and cannot link within the same peptide.
const trailingResidue = 'K'

// Enumerator generates theoretical cross-links for a fixed labeling.
type Enumerator struct {
	labeling core.Labeling
	shifts   *lru.Cache[string, float64]
}

// NewEnumerator creates an enumerator for the given labeling.
func NewEnumerator(labeling core.Labeling) (*Enumerator, error) {
	cache, err := lru.New[string, float64](shiftCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create mass shift cache: %w", err)
	}
	return &Enumerator{labeling: labeling, shifts: cache}, nil
}

// Labeling returns the labeling used for mass shifts.
func (e *Enumerator) Labeling() core.Labeling {
	return e.labeling
}

// set keeps the first cross-link for each identity, in insertion order.
type set struct {
	seen  map[core.CrossLinkKey]bool
	items []*core.CrossLink
}

func newSet() *set {
	return &set{seen: make(map[core.CrossLinkKey]bool)}
}

func (s *set) add(c *core.CrossLink) {
	key := c.Key()
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.items = append(s.items, c)
}

// Generate returns the deduplicated cross-links of peptides, sorted ascending by mass.
// Every peptide is linked with nothing, with itself and with every other peptide.
func (e *Enumerator) Generate(peptides []core.Peptide, proteinSequence, proteinID string) ([]*core.CrossLink, error) {
	for _, p := range peptides {
		if err := core.ValidateSequence(p.Sequence); err != nil {
			return nil, fmt.Errorf("peptide %s: %w", p.Sequence, err)
		}
	}

	crossLinks := newSet()
	if err := e.generate(crossLinks, peptides, proteinSequence, proteinID); err != nil {
		return nil, err
	}

	SortByMass(crossLinks.items)
	return crossLinks.items, nil
}

// GenerateAll enumerates the peptides of each protein, keyed by protein id, and
// merges the cross-links into one mass-sorted list.
func (e *Enumerator) GenerateAll(proteins []core.Protein, peptides map[string][]core.Peptide) ([]*core.CrossLink, error) {
	crossLinks := newSet()
	for _, protein := range proteins {
		if err := e.generate(crossLinks, peptides[protein.ID], protein.Sequence, protein.ID); err != nil {
			return nil, fmt.Errorf("protein %s: %w", protein.ID, err)
		}
	}

	SortByMass(crossLinks.items)
	return crossLinks.items, nil
}

func (e *Enumerator) generate(crossLinks *set, peptides []core.Peptide, proteinSequence, proteinID string) error {
	for i := range peptides {
		first := peptides[i]

		found, err := e.selfLinks(proteinID, first, proteinSequence)
		if err != nil {
			return err
		}
		for _, c := range found {
			crossLinks.add(c)
		}

		for j := range peptides {
			second := peptides[j]
			found, err := e.pairLinks(proteinID, first, &second, proteinSequence)
			if err != nil {
				return err
			}
			for _, c := range found {
				crossLinks.add(c)
			}
		}
	}
	return nil
}

// SortByMass orders cross-links ascending by mass, keeping the existing order of ties.
func SortByMass(crossLinks []*core.CrossLink) {
	sort.SliceStable(crossLinks, func(i, j int) bool {
		return crossLinks[i].Mass < crossLinks[j].Mass
	})
}

// CountSites returns the linkable sites of a peptide: K, S, T and Y residues
// excluding a trailing K, plus one for the free N-terminus of the protein's
// first peptide.
func CountSites(peptide, proteinSequence string) int {
	trimmed := strings.TrimSuffix(peptide, string(trailingResidue))

	n := 0
	for _, aa := range trimmed {
		if strings.ContainsRune(crossLinkResidues, aa) {
			n++
		}
	}

	if peptide != "" && strings.HasPrefix(proteinSequence, peptide) {
		n++
	}
	return n
}

func (e *Enumerator) selfLinks(proteinID string, peptide core.Peptide, proteinSequence string) ([]*core.CrossLink, error) {
	newLink := func(mass float64, modType core.ModType) (*core.CrossLink, error) {
		return e.newCrossLink(proteinID, peptide, nil, mass, modType)
	}

	unmodified, err := newLink(peptide.Mass, core.ModNone)
	if err != nil {
		return nil, err
	}
	links := []*core.CrossLink{unmodified}

	sites := CountSites(peptide.Sequence, proteinSequence)
	if sites == 0 {
		return links, nil
	}

	var masses []float64
	var modTypes []core.ModType

	// Dead-ends
	for i := 1; i <= sites; i++ {
		masses = append(masses, peptide.Mass+float64(i)*core.DeadEndMass)
		modTypes = append(modTypes, core.ModZero)
	}

	// Intra-peptide loops
	if sites >= 2 {
		for i := 1; i <= sites-1; i++ {
			masses = append(masses, peptide.Mass+float64(i)*core.LinkerMass)
			modTypes = append(modTypes, core.ModOne)
		}
	}

	// Loops mixed with dead-ends
	if sites >= 3 {
		for i := 1; i <= sites/2; i++ {
			left := sites - 2*i
			for j := 1; j <= left; j++ {
				masses = append(masses, peptide.Mass+float64(i)*core.LinkerMass+float64(j)*core.DeadEndMass)
				modTypes = append(modTypes, core.ModZeroOne)
			}
		}
	}

	for k, mass := range masses {
		c, err := newLink(mass, modTypes[k])
		if err != nil {
			return nil, err
		}
		links = append(links, c)
	}
	return links, nil
}

func (e *Enumerator) pairLinks(proteinID string, first core.Peptide, second *core.Peptide, proteinSequence string) ([]*core.CrossLink, error) {
	firstSites := CountSites(first.Sequence, proteinSequence)
	secondSites := CountSites(second.Sequence, proteinSequence)
	if firstSites == 0 || secondSites == 0 {
		return nil, nil
	}

	total := firstSites + secondSites
	var links []*core.CrossLink
	for i := 1; i <= total/2; i++ {
		left := total - 2*i
		for j := 0; j <= left; j++ {
			mass := first.Mass + second.Mass + float64(i)*core.LinkerMass + float64(j)*core.DeadEndMass

			modType := core.ModZeroTwo
			if j == 0 {
				modType = core.ModTwo
			}

			c, err := e.newCrossLink(proteinID, first, second, mass, modType)
			if err != nil {
				return nil, err
			}
			links = append(links, c)
		}
	}
	return links, nil
}

func (e *Enumerator) newCrossLink(proteinID string, first core.Peptide, second *core.Peptide, mass float64, modType core.ModType) (*core.CrossLink, error) {
	c := &core.CrossLink{
		ProteinID:  proteinID,
		PeptideOne: first,
		PeptideTwo: second,
		Mass:       mass,
		ModType:    modType,
	}

	shift, err := e.MassShift(first.Sequence)
	if err != nil {
		return nil, err
	}
	c.MassShiftList = append(c.MassShiftList, shift)

	if second != nil {
		shift, err := e.MassShift(second.Sequence)
		if err != nil {
			return nil, err
		}
		c.MassShiftList = append(c.MassShiftList, shift)
	}

	return c, nil
}

// MassShift returns the labeling shift of sequence, memoized per sequence.
func (e *Enumerator) MassShift(sequence string) (float64, error) {
	if shift, ok := e.shifts.Get(sequence); ok {
		return shift, nil
	}
	shift, err := core.CalculateMassShift(sequence, e.labeling)
	if err != nil {
		return 0, err
	}
	e.shifts.Add(sequence, shift)
	return shift, nil
}
