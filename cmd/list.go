package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored players",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var removeCmd = &cobra.Command{
	Use:   "remove <id|name>",
	Short: "Delete a stored player and their matches",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return listCompetitors(os.Stdout, db)
}

func listCompetitors(w io.Writer, db *storage.DB) error {
	list, err := db.ListCompetitors()
	if err != nil {
		return fmt.Errorf("list competitors: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "No players stored yet. Run 'dotametrics fetch <account_id>' to add one.")
		return nil
	}
	report.PrintCompetitorList(w, list)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := db.FindCompetitor(args[0])
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("no stored competitor matches %q", args[0])
	}
	if _, err := db.DeleteCompetitor(s.ID); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Removed %s (%d), %d matches.\n", s.Name, s.ID, s.Matches)
	return nil
}
