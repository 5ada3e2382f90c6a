package opendota

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/players/1001", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"profile":{"account_id":1001,"personaname":"alice","name":null,"avatarfull":"a.png"},"rank_tier":55}`))
	})
	mux.HandleFunc("/players/2002", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"profile":null}`))
	})
	mux.HandleFunc("/players/1001/matches", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"match_id":3,"player_slot":130,"radiant_win":false,"duration":2100,"game_mode":22,"lobby_type":7,"hero_id":74,"start_time":1700000300,"kills":9,"deaths":1,"assists":12},
			{"match_id":1,"player_slot":2,"radiant_win":null,"game_mode":23,"hero_id":1,"start_time":1700000100,"kills":0,"deaths":5,"assists":2}
		]`))
	})
	mux.HandleFunc("/heroes", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(`[{"id":1,"name":"npc_dota_hero_antimage","localized_name":"Anti-Mage"},{"id":74,"localized_name":"Invoker"}]`))
	})
	mux.HandleFunc("/players/500/matches", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(srv *httptest.Server, apiKey string) *Client {
	return NewClient(Options{BaseURL: srv.URL, APIKey: apiKey, RequestsPerMinute: 60000})
}

func TestGetPlayer(t *testing.T) {
	srv := newTestServer(t)
	c := testClient(srv, "")

	p, err := c.GetPlayer(context.Background(), 1001)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), p.AccountID)
	assert.Equal(t, "alice", p.DisplayName())

	_, err = c.GetPlayer(context.Background(), 2002)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetPlayer(context.Background(), 3003)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMatches(t *testing.T) {
	srv := newTestServer(t)
	c := testClient(srv, "")

	matches, err := c.GetMatches(context.Background(), 1001)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, int64(3), matches[0].MatchID)
	assert.Equal(t, 130, matches[0].PlayerSlot)
	assert.Equal(t, 74, matches[0].HeroID)
	assert.Equal(t, 22, matches[0].GameMode)
	assert.Equal(t, 9, matches[0].Kills)
	assert.False(t, matches[1].RadiantWin, "null radiant_win decodes as false")

	_, err = c.GetMatches(context.Background(), 500)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestGetHeroesSendsAPIKey(t *testing.T) {
	srv := newTestServer(t)
	c := testClient(srv, "secret")

	list, err := c.GetHeroes(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Anti-Mage", list[0].Name)
	assert.Equal(t, 74, list[1].ID)
}

func TestAPIKeyIsQueryEscaped(t *testing.T) {
	const key = "a&b+c=d e"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, key, q.Get("api_key"))
		assert.Len(t, q, 1)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	list, err := testClient(srv, key).GetHeroes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFetchCompetitor(t *testing.T) {
	srv := newTestServer(t)
	c := testClient(srv, "")

	comp, err := c.FetchCompetitor(context.Background(), 1001, "")
	require.NoError(t, err)
	assert.Equal(t, "alice", comp.Name)
	assert.Len(t, comp.Matches, 2)
	assert.WithinDuration(t, time.Now(), comp.LastUpdated, time.Minute)

	named, err := c.FetchCompetitor(context.Background(), 1001, "captain")
	require.NoError(t, err)
	assert.Equal(t, "captain", named.Name)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(Options{BaseURL: srv.URL, RequestsPerMinute: 1})

	_, err := c.GetPlayer(context.Background(), 1001)
	require.NoError(t, err, "first request uses the burst token")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.GetPlayer(ctx, 1001)
	assert.Error(t, err)
}
