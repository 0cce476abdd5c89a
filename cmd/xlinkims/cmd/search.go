package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/XLinkIMS/pkg/crosslink"
	"github.com/ChrisMcGann/XLinkIMS/pkg/filter"
	"github.com/ChrisMcGann/XLinkIMS/pkg/reader/feature"
	"github.com/ChrisMcGann/XLinkIMS/pkg/reader/peak"
	"github.com/ChrisMcGann/XLinkIMS/pkg/search"
	"github.com/ChrisMcGann/XLinkIMS/pkg/writer/csv"
	"github.com/ChrisMcGann/XLinkIMS/pkg/writer/sqlite"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search LC-IMS-MS data for cross-linked peptides",
	Long: `Enumerate the cross-links of a protein and search a feature file and an
isotopic peak file for them. One CSV row is written per cross-link, feature and
mass-shift outcome.

Examples:
  # Search a single protein with default settings
  xlinkims search --protein AEQVSKQEISHFK... --features features.tsv --peaks peaks.tsv --out results.csv

  # Partial digestion, 15N labeling only, results also in SQLite
  xlinkims search --fasta proteins.fasta --digest partial --c13=false \
    --features features.tsv --peaks peaks.tsv --out results.csv --sqlite results.db`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	settings, err := buildSettings()
	if err != nil {
		return err
	}

	// Validate input files exist
	for _, path := range []string{featureFile, peakFile} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", path)
		}
	}

	filterConfig := &filter.Config{
		IntensityCutoff: cutoffPercent,
		MinShiftsFound:  minShiftsFound,
		MaxPPMError:     maxPPMError,
	}
	if modTypes != "" {
		for _, name := range strings.Split(modTypes, ",") {
			filterConfig.ModTypes = append(filterConfig.ModTypes, strings.TrimSpace(name))
		}
	}

	logger := newLogger(cmd)

	proteins, err := loadProteins()
	if err != nil {
		return err
	}
	peptides, peptideCount, err := digestProteins(proteins, settings)
	if err != nil {
		return err
	}
	logger.Printf("Digested %d proteins into %d peptides (%s)", len(proteins), peptideCount, settings.DigestRule.Describe())

	enumerator, err := crosslink.NewEnumerator(settings.Labeling)
	if err != nil {
		return err
	}
	crossLinks, err := enumerator.GenerateAll(proteins, peptides)
	if err != nil {
		return fmt.Errorf("failed to enumerate cross-links: %w", err)
	}
	logger.Printf("Enumerated %d cross-links", len(crossLinks))

	features, err := feature.ReadFile(featureFile)
	if err != nil {
		return fmt.Errorf("error reading feature file: %w", err)
	}
	peaks, err := peak.ReadFile(peakFile)
	if err != nil {
		return fmt.Errorf("error reading peak file: %w", err)
	}
	read := len(peaks)
	peaks = filterConfig.ApplyPeaks(peaks)
	logger.Printf("Loaded %d features and %d peaks (%d removed by filters)", len(features), len(peaks), read-len(peaks))

	searcher := search.New(settings, logger)
	results, err := searcher.Run(cmd.Context(), crossLinks, features, peaks)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	results, err = filterConfig.Apply(results)
	if err != nil {
		return err
	}

	if err := csv.WriteResultsFile(outputFile, results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if sqliteFile != "" {
		writer, err := sqlite.NewWriter(sqliteFile, settings)
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		defer writer.Close()

		if err := writer.WriteResults(results); err != nil {
			return fmt.Errorf("failed to write database: %w", err)
		}
		if err := writer.Finalize(); err != nil {
			return fmt.Errorf("failed to finalize database: %w", err)
		}
	}

	if !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nSearch complete!\n")
		fmt.Fprintf(out, "Results: %d (%d rows)\n", len(results), len(csv.GroupResults(results)))
		fmt.Fprintf(out, "Output: %s\n", outputFile)
		if sqliteFile != "" {
			fmt.Fprintf(out, "Database: %s\n", sqliteFile)
		}
	}

	return nil
}
