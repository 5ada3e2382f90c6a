package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/heroes"
	"github.com/pable/go-dota-metrics/internal/report"
)

var heroesCmd = &cobra.Command{
	Use:   "heroes",
	Short: "Manage the hero id -> name table",
}

var heroesFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the hero table from OpenDota",
	Args:  cobra.NoArgs,
	RunE:  runHeroesFetch,
}

var heroesImportCmd = &cobra.Command{
	Use:   "import <heroes.json>",
	Short: "Load heroes from a heroes_dict.json object or an OpenDota /heroes array",
	Args:  cobra.ExactArgs(1),
	RunE:  runHeroesImport,
}

var heroesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored heroes",
	Args:  cobra.NoArgs,
	RunE:  runHeroesList,
}

func init() {
	heroesCmd.AddCommand(heroesFetchCmd)
	heroesCmd.AddCommand(heroesImportCmd)
	heroesCmd.AddCommand(heroesListCmd)
}

func runHeroesFetch(cmd *cobra.Command, args []string) error {
	entries, err := newClient().GetHeroes(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch heroes: %w", err)
	}
	return storeHeroes(entries)
}

func runHeroesImport(cmd *cobra.Command, args []string) error {
	lookup, err := heroes.LoadFile(args[0])
	if err != nil {
		return err
	}
	return storeHeroes(lookup.Entries())
}

func storeHeroes(entries []heroes.Entry) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.UpsertHeroes(entries); err != nil {
		return fmt.Errorf("store heroes: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Stored %d heroes.\n", len(entries))
	return nil
}

func runHeroesList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	lookup, err := db.HeroLookup()
	if err != nil {
		return err
	}
	if lookup.Len() == 0 {
		fmt.Fprintln(os.Stdout, "No heroes stored yet. Run 'dotametrics heroes fetch'.")
		return nil
	}
	report.PrintHeroes(os.Stdout, lookup.Entries())
	return nil
}
