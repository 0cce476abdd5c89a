package digest

import (
	"errors"
	"math"
	"testing"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
	"github.com/google/go-cmp/cmp"
)

const referenceProtein = "AEQVSKQEISHFKLVKVGTINVSQSGGQISSPSDLREKLSELADAKGGKYYHIIAAREHGPNFEAVAEVYNDATKLEHHHHHH"

func sequences(peptides []core.Peptide) []string {
	var out []string
	for _, p := range peptides {
		out = append(out, p.Sequence)
	}
	return out
}

func TestDigestFullyTryptic(t *testing.T) {
	trypsin := NewTrypsin(core.DigestFull, 1)
	peptides, err := trypsin.Digest(core.Protein{ID: "xlinkProt", Sequence: referenceProtein})
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}

	want := []string{
		"AEQVSK",
		"AEQVSKQEISHFK",
		"QEISHFK",
		"QEISHFKLVK",
		"LVKVGTINVSQSGGQISSPSDLR",
		"VGTINVSQSGGQISSPSDLR",
		"VGTINVSQSGGQISSPSDLREK",
		"EKLSELADAK",
		"LSELADAK",
		"LSELADAKGGK",
		"GGKYYHIIAAR",
		"YYHIIAAR",
		"YYHIIAAREHGPNFEAVAEVYNDATK",
		"EHGPNFEAVAEVYNDATK",
		"EHGPNFEAVAEVYNDATKLEHHHHHH",
		"LEHHHHHH",
	}
	if diff := cmp.Diff(want, sequences(peptides)); diff != "" {
		t.Errorf("Digest() sequences mismatch (-want +got):\n%s", diff)
	}

	first := peptides[0]
	if first.Start != 0 || first.MissedCleavages != 0 || first.ProteinID != "xlinkProt" {
		t.Errorf("Unexpected first peptide %+v", first)
	}
	if peptides[1].MissedCleavages != 1 {
		t.Errorf("Expected 1 missed cleavage for %s, got %d", peptides[1].Sequence, peptides[1].MissedCleavages)
	}

	for _, p := range peptides {
		want, _ := core.CalculateNeutralMass(p.Sequence)
		if math.Abs(p.Mass-want) > 1e-9 {
			t.Errorf("Peptide %s mass = %f, want %f", p.Sequence, p.Mass, want)
		}
	}
}

func TestDigestProlineRule(t *testing.T) {
	trypsin := NewTrypsin(core.DigestFull, 0)
	trypsin.MinResidues = 1

	peptides, err := trypsin.Digest(core.Protein{ID: "p", Sequence: "AKPGRAAK"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"AKPGR", "AAK"}
	if diff := cmp.Diff(want, sequences(peptides)); diff != "" {
		t.Errorf("Digest() mismatch (-want +got):\n%s", diff)
	}
}

func TestDigestPartial(t *testing.T) {
	trypsin := NewTrypsin(core.DigestPartial, 0)
	trypsin.MinResidues = 1

	peptides, err := trypsin.Digest(core.Protein{ID: "p", Sequence: "AAAKGGGR"})
	if err != nil {
		t.Fatal(err)
	}
	if len(peptides) != 14 {
		t.Errorf("Expected 14 partially tryptic peptides, got %d: %v", len(peptides), sequences(peptides))
	}

	full := NewTrypsin(core.DigestFull, 0)
	full.MinResidues = 1
	fullPeptides, _ := full.Digest(core.Protein{ID: "p", Sequence: "AAAKGGGR"})
	if len(fullPeptides) != 2 {
		t.Errorf("Expected 2 fully tryptic peptides, got %d", len(fullPeptides))
	}
}

func TestDigestNoRule(t *testing.T) {
	trypsin := NewTrypsin(core.DigestNone, 0)
	trypsin.MinResidues = 2
	trypsin.MaxResidues = 3

	peptides, err := trypsin.Digest(core.Protein{ID: "p", Sequence: "ACDEF"})
	if err != nil {
		t.Fatal(err)
	}
	// 4 of length 2, 3 of length 3
	if len(peptides) != 7 {
		t.Errorf("Expected 7 peptides, got %d: %v", len(peptides), sequences(peptides))
	}
}

func TestDigestUnknownResidue(t *testing.T) {
	_, err := NewTrypsin(core.DigestFull, 1).Digest(core.Protein{ID: "bad", Sequence: "PEPTIDEXK"})
	if !errors.Is(err, core.ErrUnknownResidue) {
		t.Errorf("Expected ErrUnknownResidue, got %v", err)
	}
}

func TestDigestEmpty(t *testing.T) {
	peptides, err := NewTrypsin(core.DigestFull, 1).Digest(core.Protein{ID: "empty"})
	if err != nil || len(peptides) != 0 {
		t.Errorf("Expected no peptides and no error, got %v, %v", peptides, err)
	}
}
