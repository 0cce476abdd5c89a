// Package digest provides in-silico protein digestion
package digest

import (
	"fmt"
	"sort"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

// Default fragment limits applied to every rule
const (
	DefaultMinResidues = 4
	DefaultMaxMass     = 6000.0
)

// Digester turns a protein into peptides.
type Digester interface {
	Digest(protein core.Protein) ([]core.Peptide, error)
}

// Trypsin cleaves C-terminal to K and R unless the next residue is P.
type Trypsin struct {
	Rule               core.DigestRule
	MaxMissedCleavages int
	MinResidues        int     // Shorter fragments are dropped
	MaxResidues        int     // 0 = no limit
	MaxMass            float64 // 0 = no limit
}

// NewTrypsin creates a trypsin digester with the default fragment limits
func NewTrypsin(rule core.DigestRule, maxMissedCleavages int) *Trypsin {
	return &Trypsin{
		Rule:               rule,
		MaxMissedCleavages: maxMissedCleavages,
		MinResidues:        DefaultMinResidues,
		MaxMass:            DefaultMaxMass,
	}
}

type span struct {
	start, end int
}

// Digest returns the peptides of protein ordered by start position, then length.
func (t *Trypsin) Digest(protein core.Protein) ([]core.Peptide, error) {
	seq := protein.Sequence
	if err := core.ValidateSequence(seq); err != nil {
		return nil, fmt.Errorf("protein %s: %w", protein.ID, err)
	}
	if len(seq) == 0 {
		return nil, nil
	}

	sites := cleavageSites(seq)

	var spans []span
	switch t.Rule {
	case core.DigestFull, "":
		spans = t.fullSpans(sites)
	case core.DigestPartial:
		spans = t.partialSpans(sites)
	case core.DigestNone:
		spans = t.allSpans(len(seq))
	default:
		return nil, fmt.Errorf("unsupported digestion rule '%s'", t.Rule)
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})

	var peptides []core.Peptide
	for _, s := range spans {
		length := s.end - s.start
		if length < t.MinResidues || (t.MaxResidues > 0 && length > t.MaxResidues) {
			continue
		}

		sequence := seq[s.start:s.end]
		mass, err := core.CalculateNeutralMass(sequence)
		if err != nil {
			return nil, fmt.Errorf("protein %s: %w", protein.ID, err)
		}
		if t.MaxMass > 0 && mass > t.MaxMass {
			continue
		}

		peptides = append(peptides, core.Peptide{
			Sequence:        sequence,
			Mass:            mass,
			ProteinID:       protein.ID,
			Start:           s.start,
			MissedCleavages: missedCleavages(sites, s),
		})
	}

	return peptides, nil
}

// cleavageSites returns every tryptic boundary including both protein termini.
func cleavageSites(seq string) []int {
	sites := []int{0}
	for i := 0; i < len(seq)-1; i++ {
		if (seq[i] == 'K' || seq[i] == 'R') && seq[i+1] != 'P' {
			sites = append(sites, i+1)
		}
	}
	return append(sites, len(seq))
}

func (t *Trypsin) fullSpans(sites []int) []span {
	var spans []span
	for a := 0; a < len(sites)-1; a++ {
		for m := 0; m <= t.MaxMissedCleavages; m++ {
			c := a + m + 1
			if c >= len(sites) {
				break
			}
			spans = append(spans, span{sites[a], sites[c]})
		}
	}
	return spans
}

// partialSpans adds every fragment of a fully tryptic span that keeps one tryptic end.
func (t *Trypsin) partialSpans(sites []int) []span {
	seen := make(map[span]bool)
	var spans []span
	add := func(s span) {
		if s.end > s.start && !seen[s] {
			seen[s] = true
			spans = append(spans, s)
		}
	}

	for _, full := range t.fullSpans(sites) {
		add(full)
		for end := full.start + 1; end < full.end; end++ {
			add(span{full.start, end})
		}
		for start := full.start + 1; start < full.end; start++ {
			add(span{start, full.end})
		}
	}
	return spans
}

// allSpans ignores residue rules; the fragment length limits bound the output.
func (t *Trypsin) allSpans(n int) []span {
	maxLen := n
	if t.MaxResidues > 0 && t.MaxResidues < maxLen {
		maxLen = t.MaxResidues
	}

	var spans []span
	for start := 0; start < n; start++ {
		for end := start + 1; end <= n && end-start <= maxLen; end++ {
			spans = append(spans, span{start, end})
		}
	}
	return spans
}

func missedCleavages(sites []int, s span) int {
	n := 0
	for _, site := range sites {
		if site > s.start && site < s.end {
			n++
		}
	}
	return n
}
