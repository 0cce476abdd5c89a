// Package index locates rows of mass- and scan-sorted tables with lower and
// upper bound searches.
package index

import (
	"cmp"
	"slices"
	"sort"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
)

// LowerBound returns the first i in [0, n) with compare(i) >= 0, or n.
// compare(i) compares row i with the target and must be non-decreasing in i.
func LowerBound(n int, compare func(i int) int) int {
	return sort.Search(n, func(i int) bool { return compare(i) >= 0 })
}

// UpperBound returns the first i in [0, n) with compare(i) > 0, or n.
func UpperBound(n int, compare func(i int) int) int {
	return sort.Search(n, func(i int) bool { return compare(i) > 0 })
}

// Range returns [start, end) covering every item whose key lies in [low, high].
// items must be sorted ascending by key. An empty window has start == end.
func Range[T, K any](items []T, key func(T) K, compare func(a, b K) int, low, high K) (start, end int) {
	if compare(low, high) > 0 {
		return 0, 0
	}
	start = LowerBound(len(items), func(i int) int { return compare(key(items[i]), low) })
	end = UpperBound(len(items), func(i int) int { return compare(key(items[i]), high) })
	if end < start {
		end = start
	}
	return start, end
}

func featureMass(f *core.Feature) float64 { return f.MassMonoisotopic }

// FeatureWindow returns the features whose monoisotopic mass is within ppm of
// mass, inclusive at both ends. features must be sorted with SortFeatures.
func FeatureWindow(features []*core.Feature, mass, ppm float64) []*core.Feature {
	tol := core.PPMTolerance(ppm, mass)
	start, end := Range(features, featureMass, cmp.Compare[float64], mass-tol, mass+tol)
	return features[start:end]
}

// PeakWindow returns the peaks of one LC and IMS scan with m/z >= minMz.
// peaks must be sorted with SortPeaks.
func PeakWindow(peaks []core.IsotopicPeak, scanLc, scanIms int, minMz float64) []core.IsotopicPeak {
	low := core.IsotopicPeak{ScanLc: scanLc, ScanIms: scanIms, Mz: minMz}
	high := core.IsotopicPeak{ScanLc: scanLc, ScanIms: scanIms + 1}

	start := LowerBound(len(peaks), func(i int) int { return core.ComparePeaks(peaks[i], low) })
	end := LowerBound(len(peaks), func(i int) int { return core.ComparePeaks(peaks[i], high) })
	if end < start {
		end = start
	}
	return peaks[start:end]
}

// SortFeatures orders features by monoisotopic mass, ties by id.
func SortFeatures(features []*core.Feature) {
	slices.SortStableFunc(features, core.CompareFeatures)
}

// SortPeaks orders peaks by LC scan, IMS scan, then m/z.
func SortPeaks(peaks []core.IsotopicPeak) {
	slices.SortStableFunc(peaks, core.ComparePeaks)
}

// FeaturesSorted reports whether features are in SortFeatures order.
func FeaturesSorted(features []*core.Feature) bool {
	return slices.IsSortedFunc(features, core.CompareFeatures)
}

// PeaksSorted reports whether peaks are in SortPeaks order.
func PeaksSorted(peaks []core.IsotopicPeak) bool {
	return slices.IsSortedFunc(peaks, core.ComparePeaks)
}
