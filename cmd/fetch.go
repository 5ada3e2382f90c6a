package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/refresh"
)

var fetchName string

// fetchCmd registers a competitor, or refreshes one already stored.
var fetchCmd = &cobra.Command{
	Use:   "fetch <account_id>",
	Short: "Fetch a player's match history from OpenDota",
	Long: `Download the profile and full match history of a Dota 2 account from
OpenDota and store it, replacing any previously stored history.

An API key is optional. It is read from OPENDOTA_API_KEY (also from a .env file),
the [opendota] api_key config setting, or ~/.dotametrics/opendota_api_key.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchName, "name", "", "display name (default: OpenDota persona name)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	id, err := parseAccountID(args[0])
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Fetching account %d from OpenDota...\n", id)
	r := refresh.New(newClient(), db)
	c, err := r.RefreshOne(cmd.Context(), refresh.Target{AccountID: id, Name: fetchName})
	if err != nil {
		return err
	}

	wins, losses, err := aggregator.WinrateCounts(c, analysisOptions())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Stored %s (%d): %d matches, %d-%d (%.1f%%)\n",
		c.Label(), c.ID, len(c.Matches), wins, losses, model.Percent(wins, wins+losses))
	return nil
}
