// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
	"github.com/ChrisMcGann/XLinkIMS/pkg/digest"
	"github.com/ChrisMcGann/XLinkIMS/pkg/reader/fasta"
)

// DefaultProteinID names a protein given directly on the command line
const DefaultProteinID = "xlinkProt"

var (
	// Shared flags
	proteinSeq      string
	fastaFile       string
	digestRule      string
	missedCleavages int
	useC13          bool
	useN15          bool
	staticDelta     float64
	quiet           bool

	// Flags for search command
	featureFile    string
	peakFile       string
	outputFile     string
	sqliteFile     string
	ppmTolerance   float64
	peakTolerance  float64
	workers        int
	minShiftsFound int
	maxPPMError    float64
	cutoffPercent  float64
	modTypes       string

	// Flags for enumerate and digest commands
	listOutputFile string
)

var rootCmd = &cobra.Command{
	Use:   "xlinkims",
	Short: "XLinkIMS - Cross-link search for LC-IMS-MS data",
	Long: `XLinkIMS enumerates the theoretical cross-linked peptides of a protein and
searches LC-IMS-MS features and isotopic peaks for them.

Every cross-link mass is matched against feature masses within a ppm tolerance,
and each match is checked for the isotope-labeled partner envelope:
- Dead-end, loop and inter-peptide linker combinations
- 13C / 15N labeling and static mass shifts
- Full, partial or unspecific tryptic digestion

Flag defaults can be set with XLINKIMS_* environment variables or a .env file.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	_ = godotenv.Load()

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(enumerateCmd)
	rootCmd.AddCommand(digestCmd)

	// Shared flags
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&proteinSeq, "protein", "p", "", "Protein sequence (id "+DefaultProteinID+")")
	flags.StringVar(&fastaFile, "fasta", "", "FASTA file of proteins (overrides --protein)")
	flags.StringVar(&digestRule, "digest", envString(envDigest, string(core.DigestFull)), "Digestion rule: full, partial, or none")
	flags.IntVar(&missedCleavages, "missed-cleavages", envInt(envMissedCleavages, 1), "Maximum missed cleavages")
	flags.BoolVar(&useC13, "c13", envBool(envC13, true), "Apply 13C labeling to mass shifts")
	flags.BoolVar(&useN15, "n15", envBool(envN15, true), "Apply 15N labeling to mass shifts")
	flags.Float64Var(&staticDelta, "static-delta", envFloat(envStaticDelta, 0), "Static mass shift in Da")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")

	// Search command flags
	searchCmd.Flags().StringVarP(&featureFile, "features", "f", "", "LC-IMS-MS feature file (required)")
	searchCmd.Flags().StringVar(&peakFile, "peaks", "", "Isotopic peak file (required)")
	searchCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output CSV file (required)")
	searchCmd.Flags().StringVar(&sqliteFile, "sqlite", "", "Also write results to this SQLite database")
	searchCmd.Flags().Float64Var(&ppmTolerance, "ppm", envFloat(envPPM, 20), "Feature mass tolerance in ppm")
	searchCmd.Flags().Float64Var(&peakTolerance, "peak-ppm", envFloat(envPeakPPM, 20), "Isotopic profile tolerance in ppm")
	searchCmd.Flags().IntVar(&workers, "workers", envInt(envWorkers, 1), "Number of search workers")
	searchCmd.Flags().IntVar(&minShiftsFound, "min-found", 0, "Keep only results with at least this many shifted masses found")
	searchCmd.Flags().Float64Var(&maxPPMError, "max-ppm-error", 0, "Keep only results within this ppm error (0 = no limit)")
	searchCmd.Flags().Float64Var(&cutoffPercent, "cutoff", 0, "Peak intensity cutoff as % of scan base peak (0 = no cutoff)")
	searchCmd.Flags().StringVar(&modTypes, "mod-types", "", "Comma-separated mod types to keep (e.g., 'Two,ZeroTwo')")

	searchCmd.MarkFlagRequired("features")
	searchCmd.MarkFlagRequired("peaks")
	searchCmd.MarkFlagRequired("out")

	// Enumerate and digest command flags
	enumerateCmd.Flags().StringVarP(&listOutputFile, "out", "o", "", "Output CSV file (required)")
	enumerateCmd.MarkFlagRequired("out")
	digestCmd.Flags().StringVarP(&listOutputFile, "out", "o", "", "Output CSV file (default stdout)")
}

// buildSettings collects the search settings from flags and validates them
func buildSettings() (core.Settings, error) {
	rule, err := core.ParseDigestRule(digestRule)
	if err != nil {
		return core.Settings{}, err
	}

	settings := core.Settings{
		MassTolerancePPM:   ppmTolerance,
		PeakTolerancePPM:   peakTolerance,
		MaxMissedCleavages: missedCleavages,
		DigestRule:         rule,
		Labeling: core.Labeling{
			UseC13:          useC13,
			UseN15:          useN15,
			StaticDeltaMass: staticDelta,
		},
		Workers: workers,
	}

	if err := settings.Validate(); err != nil {
		return core.Settings{}, err
	}
	return settings, nil
}

// loadProteins reads the FASTA file or wraps the sequence given on the command line
func loadProteins() ([]core.Protein, error) {
	if fastaFile != "" {
		proteins, err := fasta.ReadFile(fastaFile)
		if err != nil {
			return nil, err
		}
		if len(proteins) == 0 {
			return nil, fmt.Errorf("no proteins in %s", fastaFile)
		}
		return proteins, nil
	}

	seq := strings.ToUpper(strings.TrimSpace(proteinSeq))
	if seq == "" {
		return nil, fmt.Errorf("either --fasta or --protein is required")
	}
	if err := core.ValidateSequence(seq); err != nil {
		return nil, fmt.Errorf("protein: %w", err)
	}
	return []core.Protein{{ID: DefaultProteinID, Sequence: seq}}, nil
}

// digestProteins digests every protein, keyed by protein id
func digestProteins(proteins []core.Protein, settings core.Settings) (map[string][]core.Peptide, int, error) {
	trypsin := digest.NewTrypsin(settings.DigestRule, settings.MaxMissedCleavages)

	peptides := make(map[string][]core.Peptide, len(proteins))
	total := 0
	for _, protein := range proteins {
		digested, err := trypsin.Digest(protein)
		if err != nil {
			return nil, 0, err
		}
		peptides[protein.ID] = append(peptides[protein.ID], digested...)
		total += len(digested)
	}
	return peptides, total, nil
}

// newLogger writes progress to the command's error stream unless --quiet is set
func newLogger(cmd *cobra.Command) *log.Logger {
	if quiet {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
}
