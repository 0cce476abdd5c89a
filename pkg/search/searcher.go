// Package search matches theoretical cross-links against LC-IMS-MS features
// and their isotopic peaks.
package search

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
	"github.com/ChrisMcGann/XLinkIMS/pkg/crosslink"
	"github.com/ChrisMcGann/XLinkIMS/pkg/index"
	"github.com/ChrisMcGann/XLinkIMS/pkg/isotope"
)

// Searcher runs the cross-link search.
type Searcher struct {
	Settings core.Settings
	Detector isotope.Detector
	Workers  int         // 0 uses Settings.Workers
	Logger   *log.Logger // nil discards progress output
}

// New creates a searcher using the basic isotope detector.
func New(settings core.Settings, logger *log.Logger) *Searcher {
	return &Searcher{
		Settings: settings,
		Detector: isotope.BasicDetector{},
		Logger:   logger,
	}
}

// ShiftedMasses returns the labeled masses to look for next to a feature:
// one per peptide shift, plus the sum of both shifts for peptide pairs.
func ShiftedMasses(featureMass float64, shifts []float64) []float64 {
	switch len(shifts) {
	case 0:
		return nil
	case 1:
		return []float64{featureMass + shifts[0]}
	default:
		return []float64{
			featureMass + shifts[0],
			featureMass + shifts[1],
			featureMass + shifts[0] + shifts[1],
		}
	}
}

// Run searches every cross-link, in ascending mass order, against features
// and peaks. A result is returned for every feature and LC scan in a
// cross-link's mass window, found or not. Unsorted inputs are sorted on a copy.
func (s *Searcher) Run(ctx context.Context, crossLinks []*core.CrossLink, features []*core.Feature, peaks []core.IsotopicPeak) ([]*core.CrossLinkResult, error) {
	if s.Detector == nil {
		return nil, fmt.Errorf("no isotope detector configured")
	}
	logger := s.logger()

	if !slices.IsSortedFunc(crossLinks, compareCrossLinks) {
		crossLinks = slices.Clone(crossLinks)
		crosslink.SortByMass(crossLinks)
	}
	if !index.FeaturesSorted(features) {
		features = slices.Clone(features)
		index.SortFeatures(features)
	}
	if !index.PeaksSorted(peaks) {
		peaks = slices.Clone(peaks)
		index.SortPeaks(peaks)
	}

	shards := shard(len(crossLinks), s.workers())
	logger.Printf("Searching %d cross-links against %d features and %d peaks (%d shards)",
		len(crossLinks), len(features), len(peaks), len(shards))

	outputs := make([][]*core.CrossLinkResult, len(shards))
	g, ctx := errgroup.WithContext(ctx)
	for i, sh := range shards {
		i, sh := i, sh
		g.Go(func() error {
			results, err := s.searchShard(ctx, crossLinks[sh.start:sh.end], features, peaks)
			outputs[i] = results
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []*core.CrossLinkResult
	for _, out := range outputs {
		results = append(results, out...)
	}

	found := 0
	for _, r := range results {
		if r.MassShifts.FoundCount() > 0 {
			found++
		}
	}
	logger.Printf("Search complete: %d results, %d with a labeled partner", len(results), found)

	return results, nil
}

func (s *Searcher) searchShard(ctx context.Context, crossLinks []*core.CrossLink, features []*core.Feature, peaks []core.IsotopicPeak) ([]*core.CrossLinkResult, error) {
	var results []*core.CrossLinkResult
	for _, c := range crossLinks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.searchCrossLink(c, features, peaks)...)
	}
	return results, nil
}

func (s *Searcher) searchCrossLink(c *core.CrossLink, features []*core.Feature, peaks []core.IsotopicPeak) []*core.CrossLinkResult {
	var results []*core.CrossLinkResult

	for _, feature := range index.FeatureWindow(features, c.Mass, s.Settings.MassTolerancePPM) {
		if feature.Charge <= 0 {
			s.logger().Printf("Warning: skipping feature %d with charge %d", feature.ID, feature.Charge)
			continue
		}

		for scan := feature.ScanLcStart; scan <= feature.ScanLcEnd; scan++ {
			result := core.NewCrossLinkResult(c, feature, scan)

			window := index.PeakWindow(peaks, scan, feature.ScanImsRep, feature.MzMonoisotopic())
			candidates := isotope.Candidates(window)

			for _, mass := range ShiftedMasses(feature.MassMonoisotopic, c.MassShiftList) {
				outcome := isotope.Search(s.Detector, candidates, mass, feature.Charge, s.Settings.PeakTolerancePPM)
				result.MassShifts.Add(mass, outcome.Found(), outcome.Found() && outcome.Retried)
			}

			results = append(results, result)
		}
	}

	return results
}

func (s *Searcher) workers() int {
	n := s.Workers
	if n == 0 {
		n = s.Settings.Workers
	}
	return max(n, 1)
}

func (s *Searcher) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return s.Logger
}

func compareCrossLinks(a, b *core.CrossLink) int {
	return cmp.Compare(a.Mass, b.Mass)
}

type span struct {
	start, end int
}

// shard splits n items into at most workers contiguous spans of near-equal size.
func shard(n, workers int) []span {
	if n == 0 {
		return nil
	}
	workers = min(workers, n)

	size := (n + workers - 1) / workers
	var spans []span
	for start := 0; start < n; start += size {
		spans = append(spans, span{start, min(start+size, n)})
	}
	return spans
}
