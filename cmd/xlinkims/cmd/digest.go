package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/XLinkIMS/pkg/core"
	"github.com/ChrisMcGann/XLinkIMS/pkg/writer/csv"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Write the tryptic peptides of a protein",
	Long: `Digest the protein with the configured rule and write one CSV row per peptide.

Example:
  xlinkims digest --fasta proteins.fasta --digest partial --missed-cleavages 2`,
	RunE: runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	settings, err := buildSettings()
	if err != nil {
		return err
	}

	proteins, err := loadProteins()
	if err != nil {
		return err
	}
	byProtein, _, err := digestProteins(proteins, settings)
	if err != nil {
		return err
	}

	var peptides []core.Peptide
	for _, protein := range proteins {
		peptides = append(peptides, byProtein[protein.ID]...)
	}

	if listOutputFile == "" {
		return csv.WritePeptides(cmd.OutOrStdout(), peptides)
	}

	f, err := os.Create(listOutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := csv.WritePeptides(f, peptides); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
