package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/refresh"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch every stored player from OpenDota",
	Long: `Re-download the match history of every stored competitor in the background,
printing progress as a percentage. Failures for individual players are reported
at the end and do not stop the run. Ctrl-C stops after the current player.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return refreshAll(ctx, os.Stdout, db)
}

// refreshAll refreshes every stored competitor and reports progress to w.
func refreshAll(ctx context.Context, w io.Writer, db *storage.DB) error {
	list, err := db.ListCompetitors()
	if err != nil {
		return fmt.Errorf("list competitors: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(w, "No players stored yet. Run 'dotametrics fetch <account_id>' to add one.")
		return nil
	}

	targets := make([]refresh.Target, len(list))
	for i, c := range list {
		targets[i] = refresh.Target{AccountID: c.ID, Name: c.Name}
	}

	r := refresh.New(newClient(), db)
	done := refresh.Wait(r.Start(ctx, targets), func(ev refresh.Event) {
		fmt.Fprintf(w, "\rRefreshing... %3d%%", ev.Percent)
	})
	fmt.Fprintf(w, "\rRefreshed %d/%d players.\n", done.Refreshed, len(targets))
	if done.Err != nil {
		return fmt.Errorf("refresh: %w", done.Err)
	}
	return nil
}
