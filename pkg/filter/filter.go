// Package filter provides peak and result filtering functions
package filter

import (
	"fmt"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	IntensityCutoff float64  // Keep only peaks above this % of their scan's base peak (0 = no cutoff)
	MinShiftsFound  int      // Keep only results with at least this many shifted masses found (0 = all)
	MaxPPMError     float64  // Keep only results within this ppm of the theoretical mass (0 = no limit)
	ModTypes        []string // Keep only specified mod types (nil = all)
}

// Apply applies all configured result filters, keeping the input order
func (c *Config) Apply(results []*core.CrossLinkResult) ([]*core.CrossLinkResult, error) {
	allowed, err := c.modTypeSet()
	if err != nil {
		return nil, err
	}

	var filtered []*core.CrossLinkResult
	for _, r := range results {
		if allowed != nil && !allowed[r.CrossLink.ModType] {
			continue
		}
		if c.MinShiftsFound > 0 && r.MassShifts.FoundCount() < c.MinShiftsFound {
			continue
		}
		if c.MaxPPMError > 0 && r.PPMError() > c.MaxPPMError {
			continue
		}
		filtered = append(filtered, r)
	}

	return filtered, nil
}

// modTypeSet parses the configured mod type names, nil when unrestricted
func (c *Config) modTypeSet() (map[core.ModType]bool, error) {
	if len(c.ModTypes) == 0 {
		return nil, nil
	}

	set := make(map[core.ModType]bool)
	for _, name := range c.ModTypes {
		modType, err := core.ParseModType(name)
		if err != nil {
			return nil, fmt.Errorf("invalid mod type filter: %w", err)
		}
		set[modType] = true
	}
	return set, nil
}

// ApplyPeaks removes empty peaks and applies the intensity cutoff per LC and IMS scan.
// Peak order is kept.
func (c *Config) ApplyPeaks(peaks []core.IsotopicPeak) []core.IsotopicPeak {
	peaks = RemoveZeroIntensityPeaks(peaks)
	if c.IntensityCutoff <= 0 {
		return peaks
	}
	return filterByIntensity(peaks, c.IntensityCutoff)
}

type scanKey struct {
	lc, ims int
}

// filterByIntensity removes peaks below the cutoff percentage of their scan's base peak
func filterByIntensity(peaks []core.IsotopicPeak, cutoff float64) []core.IsotopicPeak {
	// Find base peak per scan
	basePeaks := make(map[scanKey]float64)
	for _, peak := range peaks {
		key := scanKey{peak.ScanLc, peak.ScanIms}
		if peak.Intensity > basePeaks[key] {
			basePeaks[key] = peak.Intensity
		}
	}

	var filtered []core.IsotopicPeak
	for _, peak := range peaks {
		threshold := (cutoff / 100.0) * basePeaks[scanKey{peak.ScanLc, peak.ScanIms}]
		if peak.Intensity >= threshold {
			filtered = append(filtered, peak)
		}
	}
	return filtered
}

// RemoveZeroIntensityPeaks removes peaks with zero or negative intensity
func RemoveZeroIntensityPeaks(peaks []core.IsotopicPeak) []core.IsotopicPeak {
	var filtered []core.IsotopicPeak
	for _, peak := range peaks {
		if peak.Intensity > 0 {
			filtered = append(filtered, peak)
		}
	}
	return filtered
}
