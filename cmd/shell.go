package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// session is the state of one shell: the open store and the roster being
// assembled with 'roster add' / 'roster rm'.
type session struct {
	db     *storage.DB
	out    io.Writer
	roster *aggregator.Roster
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newSession(db, os.Stdout)
	if err != nil {
		return err
	}

	cGreeting.Println("dotametrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("dotametrics")
		if n := s.roster.Len(); n > 0 {
			cMuted.Printf("[%d]", n)
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !s.exec(cmd, line) {
			return nil
		}
	}
	return nil
}

func newSession(db *storage.DB, out io.Writer) (*session, error) {
	lookup, err := db.HeroLookup()
	if err != nil {
		return nil, fmt.Errorf("load heroes: %w", err)
	}
	roster, err := aggregator.NewRoster(lookup, analysisOptions())
	if err != nil {
		return nil, err
	}
	return &session{db: db, out: out, roster: roster}, nil
}

// exec runs one shell line. It returns false when the session should end.
func (s *session) exec(cmd *cobra.Command, line string) bool {
	tokens := strings.Fields(line)
	name, args := tokens[0], tokens[1:]

	var err error
	switch name {
	case "exit", "quit":
		return false
	case "help":
		shellHelp(s.out)
	case "list":
		err = listCompetitors(s.out, s.db)
	case "player":
		if len(args) == 0 {
			cError.Fprintln(os.Stderr, "usage: player <id|name> [...]")
			return true
		}
		err = showPlayers(s.out, s.db, args, 10, "")
	case "team":
		if len(args) == 0 {
			cError.Fprintln(os.Stderr, "usage: team <id|name> [...]")
			return true
		}
		err = showTeam(s.out, s.db, args, 5)
	case "hero":
		if len(args) < 2 {
			cError.Fprintln(os.Stderr, "usage: hero <id|name> <hero>")
			return true
		}
		err = showHero(s.out, s.db, args[0], strings.Join(args[1:], " "))
	case "trend":
		refs, month := splitMonthFlag(args)
		if len(refs) == 0 {
			cError.Fprintln(os.Stderr, "usage: trend <id|name> [...] [--month YYYY-MM]")
			return true
		}
		err = showTrend(s.out, s.db, refs, month, "")
	case "roster":
		err = s.rosterCmd(args)
	case "refresh":
		err = refreshAll(cmd.Context(), s.out, s.db)
	case "sql":
		var cols []string
		var rows [][]string
		cols, rows, err = s.db.QueryRaw(strings.TrimSpace(strings.TrimPrefix(line, name)))
		if err == nil {
			report.PrintQueryResult(s.out, cols, rows)
		}
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
	}
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return true
}

// rosterCmd edits the session roster and prints its joint statistics.
func (s *session) rosterCmd(args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "add":
		for _, ref := range args {
			c, err := loadCompetitor(s.db, ref)
			if err != nil {
				return err
			}
			if err := s.roster.AddMember(c); err != nil {
				return fmt.Errorf("add %s: %w", c.Label(), err)
			}
		}
	case "rm", "remove":
		if len(args) != 1 {
			return fmt.Errorf("usage: roster rm <position>")
		}
		pos, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[0])
		}
		if err := s.roster.RemoveMemberAt(pos - 1); err != nil {
			return err
		}
	case "clear":
		for s.roster.Len() > 0 {
			if err := s.roster.RemoveMemberAt(s.roster.Len() - 1); err != nil {
				return err
			}
		}
	case "show":
	default:
		return fmt.Errorf("unknown roster command %q", sub)
	}

	if s.roster.Len() == 0 {
		cMuted.Fprintln(s.out, "Roster is empty.")
		return nil
	}
	cHeader.Fprintln(s.out, "--- Roster ---")
	for i, m := range s.roster.Members() {
		fmt.Fprintf(s.out, "  %d. %s (%d)\n", i+1, m.Label(), m.ID)
	}
	report.PrintTeamSummary(s.out, s.roster.Aggregate())
	return nil
}

// splitMonthFlag extracts "--month YYYY-MM" from shell arguments.
func splitMonthFlag(args []string) (refs []string, month string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--month" && i+1 < len(args) {
			month = args[i+1]
			i++
			continue
		}
		refs = append(refs, args[i])
	}
	return refs, month
}

func shellHelp(w io.Writer) {
	fmt.Fprintln(w)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list stored players"},
		{"player <id|name> [...]", "win rate and most played heroes"},
		{"team <id|name> [...]", "joint matches and win rate of a roster"},
		{"hero <id|name> <hero>", "subject's results on a hero, per shared player"},
		{"trend <id|name> [...] [--month YYYY-MM]", "monthly win rate, optional drill-down"},
		{"roster add <id|name> [...]", "add players to the session roster (max 5)"},
		{"roster rm <position>", "remove a player from the session roster"},
		{"roster [show] / roster clear", "show or empty the session roster"},
		{"refresh", "re-fetch every stored player"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(w, "  ")
		cCmd.Fprintf(w, "%-42s", r.cmd)
		fmt.Fprintln(w, r.desc)
	}
	fmt.Fprintln(w)
}
