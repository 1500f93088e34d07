package roster

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Twenty2Eleven78/matchtrack/go/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mux := http.NewServeMux()
	NewService(NewApp(NewRepository(db))).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func listPlayers(t *testing.T, url string) []Player {
	t.Helper()
	resp, err := http.Get(url + "/api/roster")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var players []Player
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&players))
	return players
}

func TestRosterEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/roster", "application/json", strings.NewReader(`{"name":"Alice"}`))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var added Player
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&added))
	assert.Equal(t, "Alice", added.Name)

	players := listPlayers(t, srv.URL)
	require.Len(t, players, 1)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/roster/"+added.ID.String(), nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	assert.Empty(t, listPlayers(t, srv.URL))
}

func TestRosterResetEndpoint(t *testing.T) {
	srv := newTestServer(t)

	for _, name := range []string{"Alice", "Bob"} {
		resp, err := http.Post(srv.URL+"/api/roster", "application/json", strings.NewReader(`{"name":"`+name+`"}`))
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	require.Len(t, listPlayers(t, srv.URL), 2)

	resp, err := http.Post(srv.URL+"/api/roster/reset", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Empty(t, listPlayers(t, srv.URL))
}
