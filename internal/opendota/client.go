// Package opendota provides a minimal, rate-limited client for the public
// OpenDota API.
package opendota

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/pable/go-dota-metrics/internal/heroes"
	"github.com/pable/go-dota-metrics/internal/model"
)

// DefaultBaseURL is the root endpoint for the OpenDota API.
const DefaultBaseURL = "https://api.opendota.com/api"

// DefaultRequestsPerMinute matches the free tier allowance.
const DefaultRequestsPerMinute = 60

// ErrNotFound is returned when the API has no data for the requested account.
var ErrNotFound = errors.New("opendota: not found")

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	APIKey            string
	RequestsPerMinute int
	Timeout           time.Duration
	HTTPClient        *http.Client
}

// Client is a minimal OpenDota API client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient returns a client configured by opts.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	every := time.Minute / time.Duration(opts.RequestsPerMinute)
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

// Profile holds the fields we need from /players/{account_id}.
type Profile struct {
	AccountID   int64  `json:"account_id"`
	PersonaName string `json:"personaname"`
	Name        string `json:"name"`
	Avatar      string `json:"avatarfull"`
}

// DisplayName prefers the pro name over the persona name.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.PersonaName
}

type playerResponse struct {
	Profile *Profile `json:"profile"`
}

// get performs a rate-limited GET request against the API and JSON-decodes
// the response body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}

	endpoint := c.baseURL + path
	if c.apiKey != "" {
		endpoint += "?" + url.Values{"api_key": {c.apiKey}}.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// GetPlayer returns the public profile of an account. Accounts without a
// public profile yield ErrNotFound.
func (c *Client) GetPlayer(ctx context.Context, accountID int64) (*Profile, error) {
	var resp playerResponse
	if err := c.get(ctx, "/players/"+strconv.FormatInt(accountID, 10), &resp); err != nil {
		return nil, err
	}
	if resp.Profile == nil {
		return nil, fmt.Errorf("player %d: %w", accountID, ErrNotFound)
	}
	return resp.Profile, nil
}

// GetMatches returns the full match history of an account in API order.
func (c *Client) GetMatches(ctx context.Context, accountID int64) ([]model.RawMatch, error) {
	var matches []model.RawMatch
	if err := c.get(ctx, "/players/"+strconv.FormatInt(accountID, 10)+"/matches", &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// GetHeroes returns the hero id -> display name table.
func (c *Client) GetHeroes(ctx context.Context) ([]heroes.Entry, error) {
	var list []struct {
		ID            int    `json:"id"`
		LocalizedName string `json:"localized_name"`
	}
	if err := c.get(ctx, "/heroes", &list); err != nil {
		return nil, err
	}
	out := make([]heroes.Entry, 0, len(list))
	for _, h := range list {
		out = append(out, heroes.Entry{ID: h.ID, Name: h.LocalizedName})
	}
	return out, nil
}

// FetchCompetitor fetches profile and history for an account. When name is
// empty the profile's display name is used.
func (c *Client) FetchCompetitor(ctx context.Context, accountID int64, name string) (*model.Competitor, error) {
	if name == "" {
		p, err := c.GetPlayer(ctx, accountID)
		if err != nil {
			return nil, err
		}
		name = p.DisplayName()
	}
	matches, err := c.GetMatches(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &model.Competitor{
		ID:          accountID,
		Name:        name,
		LastUpdated: time.Now().UTC(),
		Matches:     matches,
	}, nil
}
