package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
	"github.com/thefirstspine/arena-server-go/internal/game"
	"github.com/thefirstspine/arena-server-go/internal/notify"
	"github.com/thefirstspine/arena-server-go/internal/wizard"
)

func newTestServer(t *testing.T) (*httptest.Server, *game.Manager) {
	t.Helper()
	log := zaptest.NewLogger(t)
	store := wizard.NewMemStore()
	s := &game.Services{
		Log:             log,
		Notify:          notify.NopNotifier{},
		Catalog:         catalog.Static(catalog.DefaultCards(), catalog.DefaultGameTypes()),
		Quests:          wizard.NewService(store, nil, log),
		Accounts:        store,
		ActionTimeout:   30 * time.Second,
		ConfrontsWindow: 50,
	}
	s.Hooks = game.NewDispatcher(log)
	s.Workers = game.NewRegistry()
	game.RegisterDefaults(s)

	manager := game.NewManager(s)
	srv := httptest.NewServer(NewHandler(manager, log).Router())
	t.Cleanup(srv.Close)
	return srv, manager
}

func doJSON(t *testing.T, method, url string, user int, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if user > 0 {
		req.Header.Set(userHeader, jsonInt(user))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func jsonInt(v int) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func createTestGame(t *testing.T, srv *httptest.Server) gameInfo {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/games", 0, createGameRequest{
		GameTypeID: "standard",
		Users: []game.User{
			{User: 201, Destiny: "hunter"},
			{User: 202, Destiny: "conjurer"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var info gameInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	return info
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateAndFetchGame(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createTestGame(t, srv)
	assert.Equal(t, game.StatusActive, info.Status)

	resp := doJSON(t, http.MethodGet, srv.URL+"/games/"+jsonInt(info.ID), 0, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched gameInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, info.ID, fetched.ID)
	assert.Len(t, fetched.Users, 2)
}

func TestFetchUnknownGame(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/games/42", 0, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetActionsRequiresUser(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createTestGame(t, srv)
	resp := doJSON(t, http.MethodGet, srv.URL+"/games/"+jsonInt(info.ID)+"/actions", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetActionsShowsTurnOpener(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createTestGame(t, srv)

	resp := doJSON(t, http.MethodGet, srv.URL+"/games/"+jsonInt(info.ID)+"/actions", 201, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var actions []game.Action
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&actions))
	require.Len(t, actions, 1)
	assert.Equal(t, game.ActionThrowCards, actions[0].Type)

	// The other seat has nothing to play yet.
	resp = doJSON(t, http.MethodGet, srv.URL+"/games/"+jsonInt(info.ID)+"/actions", 202, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	actions = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&actions))
	assert.Empty(t, actions)
}

func TestRespondToThrowCards(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createTestGame(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/games/"+jsonInt(info.ID)+"/actions/"+game.ActionThrowCards, 201, actionRequest{
		Response: json.RawMessage(`{"handIndexes":[]}`),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/games/"+jsonInt(info.ID)+"/actions", 201, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var actions []game.Action
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&actions))
	types := make([]string, len(actions))
	for i, a := range actions {
		types[i] = a.Type
	}
	assert.Contains(t, types, game.ActionPass)
	assert.Contains(t, types, game.ActionPlaceCard)
}

func TestRespondToMaskedActionFails(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createTestGame(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/games/"+jsonInt(info.ID)+"/actions/"+game.ActionPass, 201, actionRequest{
		Response: json.RawMessage(`{}`),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCardsEndpointHidesOpponentHandAndDecks(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createTestGame(t, srv)

	resp := doJSON(t, http.MethodGet, srv.URL+"/games/"+jsonInt(info.ID)+"/cards", 201, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cards []game.Card
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cards))

	require.NotEmpty(t, cards)
	for _, c := range cards {
		assert.NotEqual(t, game.LocationDeck, c.Location)
		if c.Location == game.LocationHand {
			assert.Equal(t, 201, c.User)
		}
	}
}

func TestConcedeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	info := createTestGame(t, srv)

	resp := doJSON(t, http.MethodPost, srv.URL+"/games/"+jsonInt(info.ID)+"/concede", 201, map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fetched := doJSON(t, http.MethodGet, srv.URL+"/games/"+jsonInt(info.ID), 0, nil)
	var out gameInfo
	require.NoError(t, json.NewDecoder(fetched.Body).Decode(&out))
	assert.Equal(t, game.StatusEnded, out.Status)
	assert.Len(t, out.Result, 2)
}
