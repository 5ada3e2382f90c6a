// Package refresh re-fetches stored competitors in the background and reports
// progress over a channel.
package refresh

import (
	"context"
	"errors"
	"fmt"

	"github.com/pable/go-dota-metrics/internal/model"
)

// Fetcher retrieves a competitor's current profile and match history.
type Fetcher interface {
	FetchCompetitor(ctx context.Context, accountID int64, name string) (*model.Competitor, error)
}

// Store persists a fetched competitor.
type Store interface {
	SaveCompetitor(c *model.Competitor) error
}

// Target identifies one competitor to refresh. An empty Name keeps whatever
// name the fetcher reports.
type Target struct {
	AccountID int64
	Name      string
}

// Event is one progress notification. Exactly one event with Done set is sent
// last; its Err joins every per-competitor failure (and the context error if
// the run was cancelled).
type Event struct {
	Percent   int
	Refreshed int
	Done      bool
	Err       error
}

// Refresher fetches and stores competitors one at a time.
type Refresher struct {
	fetcher Fetcher
	store   Store
}

// New returns a Refresher reading from f and writing to s.
func New(f Fetcher, s Store) *Refresher {
	return &Refresher{fetcher: f, store: s}
}

// RefreshOne fetches and stores a single competitor.
func (r *Refresher) RefreshOne(ctx context.Context, t Target) (*model.Competitor, error) {
	c, err := r.fetcher.FetchCompetitor(ctx, t.AccountID, t.Name)
	if err != nil {
		return nil, fmt.Errorf("fetch %d: %w", t.AccountID, err)
	}
	if err := r.store.SaveCompetitor(c); err != nil {
		return nil, fmt.Errorf("save %d: %w", t.AccountID, err)
	}
	return c, nil
}

// Start refreshes targets on a single background goroutine. An event is sent
// whenever the integer percentage of processed targets increases, followed by
// a terminal Done event, after which the channel is closed. The channel has
// room for every event, so the worker never blocks on a slow reader.
func (r *Refresher) Start(ctx context.Context, targets []Target) <-chan Event {
	events := make(chan Event, 102)
	list := append([]Target(nil), targets...)

	go func() {
		defer close(events)

		var errs []error
		refreshed, lastPct := 0, 0
		for i, t := range list {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break
			}
			if _, err := r.RefreshOne(ctx, t); err != nil {
				errs = append(errs, err)
			} else {
				refreshed++
			}
			pct := (i + 1) * 100 / len(list)
			if pct > lastPct {
				lastPct = pct
				events <- Event{Percent: pct, Refreshed: refreshed}
			}
		}
		if len(list) == 0 {
			lastPct = 100
		}
		events <- Event{Percent: lastPct, Refreshed: refreshed, Done: true, Err: errors.Join(errs...)}
	}()
	return events
}

// Wait drains events, calling onProgress for each non-terminal event, and
// returns the terminal event.
func Wait(events <-chan Event, onProgress func(Event)) Event {
	var last Event
	for ev := range events {
		if ev.Done {
			last = ev
			continue
		}
		if onProgress != nil {
			onProgress(ev)
		}
	}
	return last
}
