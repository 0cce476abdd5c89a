package csv

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
	"github.com/google/go-cmp/cmp"
)

func newResult(c *core.CrossLink, f *core.Feature, scan int, found ...bool) *core.CrossLinkResult {
	r := core.NewCrossLinkResult(c, f, scan)
	for i, ok := range found {
		r.MassShifts.Add(f.MassMonoisotopic+float64(10*(i+1)), ok, false)
	}
	return r
}

func TestWriteResultsGrouping(t *testing.T) {
	single := &core.CrossLink{ProteinID: "xlinkProt", PeptideOne: core.Peptide{Sequence: "AEQVSK"}, Mass: 1000, ModType: core.ModZero}
	feature := &core.Feature{ID: 42, Charge: 2, ScanImsRep: 150, MassMonoisotopic: 1000, DriftTime: 20.5, Abundance: 1000}

	results := []*core.CrossLinkResult{
		newResult(single, feature, 12, false),
		newResult(single, feature, 10, false),
		newResult(single, feature, 11, true),
	}

	var buf bytes.Buffer
	if err := WriteResults(&buf, results); err != nil {
		t.Fatalf("WriteResults() error = %v", err)
	}

	want := strings.Join([]string{
		strings.Join(ResultHeader, ","),
		"0,xlinkProt,AEQVSK,null,Zero,1000,1000,0,501.00727649,0,0,N/A,N/A,N/A,N/A,2,10;12;,150,20.5,1000,42",
		"1,xlinkProt,AEQVSK,null,Zero,1000,1000,0,501.00727649,1010,506.00727649,N/A,N/A,N/A,N/A,2,11;,150,20.5,1000,42",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteResults() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteResultsPair(t *testing.T) {
	pep2 := core.Peptide{Sequence: "GGKYYHIIAAR"}
	pair := &core.CrossLink{ProteinID: "p", PeptideOne: core.Peptide{Sequence: "LSELADAK"}, PeptideTwo: &pep2, Mass: 2000, ModType: core.ModTwo}
	feature := &core.Feature{ID: 1, Charge: 1, MassMonoisotopic: 2000.02}

	var buf bytes.Buffer
	if err := WriteResults(&buf, []*core.CrossLinkResult{newResult(pair, feature, 5, true, false, true)}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header and 1 row, got %d lines", len(lines))
	}
	fields := strings.Split(lines[1], ",")
	if len(fields) != len(ResultHeader) {
		t.Fatalf("Expected %d fields, got %d", len(ResultHeader), len(fields))
	}

	if fields[3] != "GGKYYHIIAAR" || fields[4] != "Two" {
		t.Errorf("Unexpected peptide columns %v", fields[2:5])
	}
	if ppm, err := strconv.ParseFloat(fields[7], 64); err != nil || math.Abs(ppm-10) > 1e-6 {
		t.Errorf("PPMError = %s, want 10", fields[7])
	}
	if fields[11] != "0" || fields[12] != "0" {
		t.Errorf("Expected not-found second shift, got %s,%s", fields[11], fields[12])
	}
	if fields[13] != "2030.02" {
		t.Errorf("ShiftedMassBoth = %s, want 2030.02", fields[13])
	}
}

func TestGroupResultsSeparatesFeatures(t *testing.T) {
	c := &core.CrossLink{ProteinID: "p", PeptideOne: core.Peptide{Sequence: "AAK"}, Mass: 500}
	f1 := &core.Feature{ID: 1, Charge: 1, MassMonoisotopic: 500}
	f2 := &core.Feature{ID: 2, Charge: 1, MassMonoisotopic: 500}

	groups := GroupResults([]*core.CrossLinkResult{
		newResult(c, f2, 3, true),
		newResult(c, f1, 3, true),
		newResult(c, f2, 1, true),
	})

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0][0].Feature.ID != 2 || groups[0].Scans() != "1;3;" {
		t.Errorf("Unexpected first group: feature %d scans %s", groups[0][0].Feature.ID, groups[0].Scans())
	}
	if groups[1].Scans() != "3;" {
		t.Errorf("Unexpected second group scans %s", groups[1].Scans())
	}
}

func TestWriteCrossLinks(t *testing.T) {
	pep2 := core.Peptide{Sequence: "YYHIIAAR"}
	crossLinks := []*core.CrossLink{
		{ProteinID: "xlinkProt", PeptideOne: core.Peptide{Sequence: "AEQVSK"}, Mass: 660.3493, ModType: core.ModNone},
		{ProteinID: "xlinkProt", PeptideOne: core.Peptide{Sequence: "AEQVSK"}, PeptideTwo: &pep2, Mass: 1800.5, ModType: core.ModZeroTwo},
	}

	var buf bytes.Buffer
	if err := WriteCrossLinks(&buf, crossLinks); err != nil {
		t.Fatal(err)
	}

	want := "Index,Protein,Pep1,Pep2,ModType,TheoreticalMass\n" +
		"0,xlinkProt,AEQVSK,null,None,660.3493\n" +
		"1,xlinkProt,AEQVSK,YYHIIAAR,ZeroTwo,1800.5\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteCrossLinks() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crosslinks.csv")

	if err := WriteCrossLinksFile(path, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != strings.Join(CrossLinkHeader, ",")+"\n" {
		t.Errorf("Unexpected file content %q", data)
	}

	if err := WriteResultsFile(filepath.Join(dir, "missing", "out.csv"), nil); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestWritePeptides(t *testing.T) {
	peptides := []core.Peptide{
		{ProteinID: "xlinkProt", Sequence: "AEQVSK", Start: 0, MissedCleavages: 0, Mass: 660.5},
		{ProteinID: "xlinkProt", Sequence: "AEQVSKQEISHFK", Start: 0, MissedCleavages: 1, Mass: 1544.25},
	}

	var buf bytes.Buffer
	if err := WritePeptides(&buf, peptides); err != nil {
		t.Fatal(err)
	}

	want := "Protein,Sequence,Start,MissedCleavages,Mass\n" +
		"xlinkProt,AEQVSK,0,0,660.5\n" +
		"xlinkProt,AEQVSKQEISHFK,0,1,1544.25\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WritePeptides() mismatch (-want +got):\n%s", diff)
	}
}
