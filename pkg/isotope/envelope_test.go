package isotope

import (
	"math"
	"testing"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

func TestBuildEnvelope(t *testing.T) {
	mass := 1000.0
	charge := 2
	env := BuildEnvelope(mass, charge)

	if len(env.Peaks) != 7 {
		t.Fatalf("Expected 7 peaks, got %d", len(env.Peaks))
	}

	mono := mass/2 + core.ProtonMass
	if math.Abs(env.MonoMz-mono) > 1e-9 {
		t.Errorf("MonoMz = %f, want %f", env.MonoMz, mono)
	}

	spacing := core.IsotopeSpacing / 2
	wantHeights := []float64{0.25, 0.5, 0.75, 1, 0.75, 0.5, 0.25}
	for i, p := range env.Peaks {
		wantMz := mono + float64(i-3)*spacing
		if math.Abs(p.Mz-wantMz) > 1e-9 {
			t.Errorf("Peaks[%d].Mz = %f, want %f", i, p.Mz, wantMz)
		}
		if p.Height != wantHeights[i] {
			t.Errorf("Peaks[%d].Height = %f, want %f", i, p.Height, wantHeights[i])
		}
		if i > 0 && env.Peaks[i-1].Mz >= p.Mz {
			t.Errorf("Peaks not ascending at %d", i)
		}
	}

	if got := env.MostAbundant(); got != 3 {
		t.Errorf("MostAbundant() = %d, want 3", got)
	}
}

func TestShiftLeft(t *testing.T) {
	env := BuildEnvelope(1500, 3)
	shifted := env.ShiftLeft()
	spacing := core.IsotopeSpacing / 3

	if math.Abs(env.MonoMass-shifted.MonoMass-core.IsotopeSpacing) > 1e-9 {
		t.Errorf("MonoMass shifted by %f, want %f", env.MonoMass-shifted.MonoMass, core.IsotopeSpacing)
	}
	if math.Abs(env.MonoMz-shifted.MonoMz-spacing) > 1e-9 {
		t.Errorf("MonoMz shifted by %f, want %f", env.MonoMz-shifted.MonoMz, spacing)
	}
	for i := range env.Peaks {
		if math.Abs(env.Peaks[i].Mz-shifted.Peaks[i].Mz-spacing) > 1e-9 {
			t.Errorf("Peaks[%d] shifted by %f, want %f", i, env.Peaks[i].Mz-shifted.Peaks[i].Mz, spacing)
		}
		if env.Peaks[i].Height != shifted.Peaks[i].Height {
			t.Errorf("Peaks[%d] height changed", i)
		}
	}

	if env.Peaks[0].Mz == shifted.Peaks[0].Mz {
		t.Error("ShiftLeft modified the original envelope")
	}
}

func TestMostAbundantEmpty(t *testing.T) {
	if got := (Envelope{}).MostAbundant(); got != -1 {
		t.Errorf("MostAbundant() = %d, want -1", got)
	}
}
