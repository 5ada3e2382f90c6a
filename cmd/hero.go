package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var heroCmd = &cobra.Command{
	Use:   "hero <id|name> <hero>",
	Short: "How a player fares on one hero alongside or against each stored player",
	Long: `For every other stored player, count the matches they shared with the
subject in which the subject played <hero>, and the subject's win rate in them.
<hero> may be a hero id or a name in any case ("anti mage", "Anti-Mage").`,
	Args: cobra.ExactArgs(2),
	RunE: runHero,
}

func runHero(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return showHero(os.Stdout, db, args[0], args[1])
}

func showHero(w io.Writer, db *storage.DB, subjectRef, hero string) error {
	lookup, err := loadHeroes(db)
	if err != nil {
		return err
	}
	subject, err := loadCompetitor(db, subjectRef)
	if err != nil {
		return err
	}
	pool, err := db.LoadCompetitors()
	if err != nil {
		return fmt.Errorf("load pool: %w", err)
	}

	rows, err := aggregator.CompareHero(subject, hero, pool, lookup, analysisOptions())
	if errors.Is(err, aggregator.ErrEmptyHistory) {
		fmt.Fprintf(w, "%s has no stored matches.\n", subject.Label())
		return nil
	}
	if err != nil {
		return err
	}

	heroLabel := hero
	if id, err := strconv.Atoi(lookup.ResolveID(hero)); err == nil {
		heroLabel = lookup.Resolve(id)
	}
	if len(rows) == 0 {
		fmt.Fprintf(w, "No shared matches with %s on %s.\n", subject.Label(), heroLabel)
		return nil
	}
	report.PrintHeroComparison(w, subject.Label(), heroLabel, rows)
	return nil
}
