package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/XLinkIMS/pkg/crosslink"
	"github.com/ChrisMcGann/XLinkIMS/pkg/writer/csv"
)

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "Write the theoretical cross-links of a protein",
	Long: `Digest the protein and write every theoretical cross-link, sorted by mass, as CSV.

Example:
  xlinkims enumerate --protein AEQVSKQEISHFK... --missed-cleavages 1 --out crosslinks.csv`,
	RunE: runEnumerate,
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	settings, err := buildSettings()
	if err != nil {
		return err
	}

	proteins, err := loadProteins()
	if err != nil {
		return err
	}
	peptides, _, err := digestProteins(proteins, settings)
	if err != nil {
		return err
	}

	enumerator, err := crosslink.NewEnumerator(settings.Labeling)
	if err != nil {
		return err
	}
	crossLinks, err := enumerator.GenerateAll(proteins, peptides)
	if err != nil {
		return fmt.Errorf("failed to enumerate cross-links: %w", err)
	}

	if err := csv.WriteCrossLinksFile(listOutputFile, crossLinks); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cross-links to %s\n", len(crossLinks), listOutputFile)
	}
	return nil
}
