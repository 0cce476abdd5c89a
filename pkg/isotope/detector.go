package isotope

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

// BasicDetector matches each theoretical peak to the most intense candidate
// within the ppm tolerance. A profile is found only when the most abundant
// theoretical peak is matched. Candidates must be sorted by m/z.
type BasicDetector struct{}

// FindProfile implements Detector.
func (BasicDetector) FindProfile(candidates []Peak, theoretical Envelope, tolerancePPM float64) (*Profile, bool) {
	if len(candidates) == 0 || len(theoretical.Peaks) == 0 {
		return nil, false
	}

	anchor := theoretical.MostAbundant()
	anchorPeak, ok := mostIntense(candidates, theoretical.Peaks[anchor].Mz, tolerancePPM)
	if !ok {
		return nil, false
	}

	profile := &Profile{
		Envelope: theoretical,
		Matched:  make([]Peak, len(theoretical.Peaks)),
	}
	var intensities []float64
	for i, tp := range theoretical.Peaks {
		peak := anchorPeak
		if i != anchor {
			if peak, ok = mostIntense(candidates, tp.Mz, tolerancePPM); !ok {
				continue
			}
		}
		profile.Matched[i] = peak
		profile.MatchedCount++
		intensities = append(intensities, peak.Intensity)
		if tp.Mz == theoretical.MonoMz {
			profile.MonoMz = peak.Mz
		}
	}
	profile.Intensity = floats.Sum(intensities)

	return profile, true
}

// mostIntense returns the highest candidate within ppm of mz.
func mostIntense(candidates []Peak, mz, tolerancePPM float64) (Peak, bool) {
	tol := core.PPMTolerance(tolerancePPM, mz)
	start := sort.Search(len(candidates), func(i int) bool { return candidates[i].Mz >= mz-tol })
	end := sort.Search(len(candidates), func(i int) bool { return candidates[i].Mz > mz+tol })
	if start >= end {
		return Peak{}, false
	}

	window := candidates[start:end]
	intensities := make([]float64, len(window))
	for i, p := range window {
		intensities[i] = p.Intensity
	}
	return window[floats.MaxIdx(intensities)], true
}
