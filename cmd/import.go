package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/importer"
	"github.com/pable/go-dota-metrics/internal/model"
)

var importRoot bool

var importCmd = &cobra.Command{
	Use:   "import <player_dir> [<player_dir>...]",
	Short: "Import players saved as player_info.json / player_matches.json",
	Long: `Import player directories named <name>_<account_id>, each holding the
OpenDota player_info.json and player_matches.json payloads.

With --root, every argument is a directory of player directories.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <out_dir> [<id|name>...]",
	Short: "Write stored players as <name>_<account_id> directories",
	Long:  "Write the stored history of the given players (default: all) in the layout read by 'import'.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	importCmd.Flags().BoolVar(&importRoot, "root", false, "treat arguments as directories of player directories")
}

func runImport(cmd *cobra.Command, args []string) error {
	var all []*model.Competitor
	for _, dir := range args {
		if importRoot {
			list, err := importer.ScanRoot(dir)
			if err != nil {
				return err
			}
			all = append(all, list...)
			continue
		}
		c, err := importer.LoadDir(dir)
		if err != nil {
			return err
		}
		all = append(all, c)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, c := range all {
		if err := db.SaveCompetitor(c); err != nil {
			return fmt.Errorf("store %s: %w", c.Label(), err)
		}
		fmt.Fprintf(os.Stdout, "Imported %s (%d): %d matches\n", c.Label(), c.ID, len(c.Matches))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	var list []*model.Competitor
	if len(args) > 1 {
		list, err = loadCompetitors(db, args[1:])
	} else {
		list, err = db.LoadCompetitors()
	}
	if err != nil {
		return err
	}

	for _, c := range list {
		dir, err := importer.WriteDir(args[0], c)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", dir)
	}
	return nil
}
