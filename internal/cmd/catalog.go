package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/strrl/style-dna/internal/config"
	"github.com/strrl/style-dna/internal/db"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List outfit candidates from the configured source",
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	bindCatalogFlags(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	skip, err := applyCatalogFlags(cmd)
	if err != nil {
		return err
	}

	// Only file catalogs are read through DuckDB, and they need no swipe
	// store, so an in-memory database is enough.
	var database *sql.DB
	if cfg.Catalog.Source == config.SourceFile {
		database, err = db.Open("")
		if err != nil {
			return err
		}
		defer database.Close()
	}

	fetcher, err := newFetcher(database)
	if err != nil {
		return err
	}

	filter := cfg.Catalog.Filter()
	filter.Skip = skip

	candidates, err := fetcher.FetchCandidates(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to fetch candidates: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTYLE\tGENDER\tNAME\tTAGS")
	for _, c := range candidates {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.StyleCategory, c.Gender, c.Name, strings.Join(c.Tags, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d outfits\n", len(candidates))
	return nil
}
