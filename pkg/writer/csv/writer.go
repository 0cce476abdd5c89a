// Package csv writes cross-link search results and cross-link lists as CSV
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

// ResultHeader is the header row of a result file
var ResultHeader = []string{
	"Index", "Protein", "Pep1", "Pep2", "ModType", "TheoreticalMass", "FeatureMass", "PPMError",
	"FeatureMz", "ShiftedMassPep1", "ShiftedMzPep1", "ShiftedMassPep2", "ShiftedMzPep2",
	"ShiftedMassBoth", "ShiftedMzBoth", "ChargeState", "LCScans", "IMSScan", "DriftTime",
	"Abundance", "FeatureIndex",
}

// CrossLinkHeader is the header row of a cross-link list file
var CrossLinkHeader = []string{"Index", "Protein", "Pep1", "Pep2", "ModType", "TheoreticalMass"}

// PeptideHeader is the header row of a digestion file
var PeptideHeader = []string{"Protein", "Sequence", "Start", "MissedCleavages", "Mass"}

const (
	missingPeptide = "null"
	notApplicable  = "N/A"
	notFound       = "0"

	// Shifted mass and m/z columns per row
	shiftColumns = 6
)

// Group is the results of one cross-link and feature with identical mass-shift
// outcomes, ordered by LC scan.
type Group []*core.CrossLinkResult

// Scans returns the LC scans of the group joined as "a;b;c;"
func (g Group) Scans() string {
	var sb strings.Builder
	for _, r := range g {
		sb.WriteString(strconv.Itoa(r.ScanLc))
		sb.WriteString(";")
	}
	return sb.String()
}

type groupKey struct {
	crossLink core.CrossLinkKey
	featureID int
}

// GroupResults groups results by cross-link, feature id and mass-shift
// outcomes. Groups are in order of first appearance.
func GroupResults(results []*core.CrossLinkResult) []Group {
	var groups []Group
	byKey := make(map[groupKey][]int)

	for _, r := range results {
		key := groupKey{crossLink: r.CrossLink.Key(), featureID: r.Feature.ID}

		matched := false
		for _, gi := range byKey[key] {
			if groups[gi][0].MassShifts.Equal(&r.MassShifts) {
				groups[gi] = append(groups[gi], r)
				matched = true
				break
			}
		}
		if !matched {
			byKey[key] = append(byKey[key], len(groups))
			groups = append(groups, Group{r})
		}
	}

	for _, g := range groups {
		slices.SortStableFunc(g, func(a, b *core.CrossLinkResult) int {
			return a.ScanLc - b.ScanLc
		})
	}
	return groups
}

// WriteResults writes one row per result group
func WriteResults(w io.Writer, results []*core.CrossLinkResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, g := range GroupResults(results) {
		if err := cw.Write(resultRecord(i, g)); err != nil {
			return fmt.Errorf("failed to write result %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func resultRecord(index int, g Group) []string {
	first := g[0]
	c := first.CrossLink
	f := first.Feature

	record := []string{
		strconv.Itoa(index),
		c.ProteinID,
		c.PeptideOne.Sequence,
		peptideTwo(c),
		c.ModType.String(),
		formatFloat(c.Mass),
		formatFloat(f.MassMonoisotopic),
		formatFloat(first.PPMError()),
		formatFloat(f.MzMonoisotopic()),
	}

	shifts := make([]string, 0, shiftColumns)
	for _, s := range first.MassShifts.Shifts {
		if s.Found {
			shifts = append(shifts, formatFloat(s.Mass), formatFloat(first.ShiftedMz(s.Mass)))
		} else {
			shifts = append(shifts, notFound, notFound)
		}
	}
	for len(shifts) < shiftColumns {
		shifts = append(shifts, notApplicable)
	}
	record = append(record, shifts[:shiftColumns]...)

	return append(record,
		strconv.Itoa(f.Charge),
		g.Scans(),
		strconv.Itoa(f.ScanImsRep),
		formatFloat(f.DriftTime),
		formatFloat(f.Abundance),
		strconv.Itoa(f.ID),
	)
}

// WriteCrossLinks writes the theoretical cross-link list
func WriteCrossLinks(w io.Writer, crossLinks []*core.CrossLink) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CrossLinkHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, c := range crossLinks {
		record := []string{
			strconv.Itoa(i),
			c.ProteinID,
			c.PeptideOne.Sequence,
			peptideTwo(c),
			c.ModType.String(),
			formatFloat(c.Mass),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write cross-link %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePeptides writes digestion products, one row per peptide
func WritePeptides(w io.Writer, peptides []core.Peptide) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PeptideHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range peptides {
		record := []string{
			p.ProteinID,
			p.Sequence,
			strconv.Itoa(p.Start),
			strconv.Itoa(p.MissedCleavages),
			formatFloat(p.Mass),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write peptide %s: %w", p.Sequence, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteResultsFile writes results to a new file at path
func WriteResultsFile(path string, results []*core.CrossLinkResult) error {
	return writeFile(path, func(w io.Writer) error { return WriteResults(w, results) })
}

// WriteCrossLinksFile writes the cross-link list to a new file at path
func WriteCrossLinksFile(path string, crossLinks []*core.CrossLink) error {
	return writeFile(path, func(w io.Writer) error { return WriteCrossLinks(w, crossLinks) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func peptideTwo(c *core.CrossLink) string {
	if c.PeptideTwo == nil {
		return missingPeptide
	}
	return c.PeptideTwo.Sequence
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
