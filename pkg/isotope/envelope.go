// Package isotope builds theoretical isotope envelopes and searches for them
// among observed peaks.
package isotope

import (
	"fmt"
	"sort"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

// SatellitePeaks is the number of peaks on each side of the monoisotopic peak.
const SatellitePeaks = 3

// Peak is an observed m/z, intensity pair.
type Peak struct {
	Mz        float64
	Intensity float64
}

// Candidates converts isotopic peaks of one scan into detector input.
func Candidates(peaks []core.IsotopicPeak) []Peak {
	out := make([]Peak, len(peaks))
	for i, p := range peaks {
		out[i] = Peak{Mz: p.Mz, Intensity: p.Intensity}
	}
	return out
}

// TheoreticalPeak is one peak of an Envelope with its relative height.
type TheoreticalPeak struct {
	Mz     float64
	Height float64
}

// Envelope is a theoretical isotope distribution at a fixed charge.
type Envelope struct {
	MonoMass float64
	MonoMz   float64
	Charge   int
	Peaks    []TheoreticalPeak // Ascending by m/z
}

// BuildEnvelope returns the seven-peak envelope of mass at charge: the
// monoisotopic peak at height 1 plus k = 1..3 peaks on each side spaced by
// k*1.003/charge with height 1 - k/4.
func BuildEnvelope(mass float64, charge int) Envelope {
	mz := core.MassToMZ(mass, charge)
	spacing := core.IsotopeSpacing / float64(charge)

	peaks := []TheoreticalPeak{{Mz: mz, Height: 1}}
	for k := 1; k <= SatellitePeaks; k++ {
		height := 1 - float64(k)/4
		peaks = append(peaks,
			TheoreticalPeak{Mz: mz + float64(k)*spacing, Height: height},
			TheoreticalPeak{Mz: mz - float64(k)*spacing, Height: height},
		)
	}
	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Mz < peaks[j].Mz })

	return Envelope{MonoMass: mass, MonoMz: mz, Charge: charge, Peaks: peaks}
}

// ShiftLeft returns a copy of e moved down by one isotope spacing.
func (e Envelope) ShiftLeft() Envelope {
	spacing := core.IsotopeSpacing / float64(e.Charge)

	peaks := make([]TheoreticalPeak, len(e.Peaks))
	for i, p := range e.Peaks {
		peaks[i] = TheoreticalPeak{Mz: p.Mz - spacing, Height: p.Height}
	}

	return Envelope{
		MonoMass: e.MonoMass - core.IsotopeSpacing,
		MonoMz:   e.MonoMz - spacing,
		Charge:   e.Charge,
		Peaks:    peaks,
	}
}

// MostAbundant returns the index of the highest theoretical peak, the lowest
// m/z on ties, or -1 for an empty envelope.
func (e Envelope) MostAbundant() int {
	best := -1
	for i, p := range e.Peaks {
		if best < 0 || p.Height > e.Peaks[best].Height {
			best = i
		}
	}
	return best
}

func (e Envelope) String() string {
	return fmt.Sprintf("%.4f Da @ %.4f m/z (%d+)", e.MonoMass, e.MonoMz, e.Charge)
}
