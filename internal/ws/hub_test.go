package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"example.com/galactic_wars/internal/lobby"
)

func newTestServer(t *testing.T, limit rate.Limit, burst int) (*Hub, *lobby.Directory, *httptest.Server) {
	t.Helper()
	dir := lobby.NewDirectory(nil, nil)
	hub := NewHub(dir, []string{"http://good.example"}, limit, burst)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws/lobby/{lobbyId}", hub.ServeWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, dir, srv
}

func dial(t *testing.T, srv *httptest.Server, lobbyID string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/lobby/" + lobbyID
	c, _, err := websocket.Dial(ctx, u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(websocket.StatusNormalClosure, "") })

	m := read(t, c)
	require.Contains(t, m.Message, "Welcome to Galactic Wars")
	assert.False(t, m.Broadcast)
	return c
}

func read(t *testing.T, c *websocket.Conn) Msg {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	var m Msg
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func write(t *testing.T, c *websocket.Conn, text string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte(text)))
}

func TestBroadcastAndUnicast(t *testing.T) {
	hub, dir, srv := newTestServer(t, rate.Inf, 1)
	lb := dir.Create()
	a := dial(t, srv, lb.ID)
	b := dial(t, srv, lb.ID)
	require.Eventually(t, func() bool { return hub.Viewers(lb.ID) == 2 }, time.Second, 10*time.Millisecond)

	write(t, a, "joinGame Alice")
	for _, c := range []*websocket.Conn{a, b} {
		m := read(t, c)
		assert.True(t, m.Broadcast)
		assert.Equal(t, "Player Alice joined the game!", m.Message)
	}

	write(t, a, "startGame")
	m := read(t, a)
	assert.Contains(t, m.Error, "Need at least 2 players")

	// b never saw the error: its next frame is its own help reply.
	write(t, b, "help")
	m = read(t, b)
	assert.Empty(t, m.Error)
	assert.False(t, m.Broadcast)
	assert.Contains(t, m.Message, "Available Commands")

	write(t, b, "joinGame Bob")
	assert.Equal(t, "Player Bob joined the game!", read(t, a).Message)
	assert.Equal(t, "Player Bob joined the game!", read(t, b).Message)

	write(t, b, "STARTGAME")
	assert.Equal(t, "Game started. Player 1 goes first!", read(t, a).Message)
	assert.Equal(t, "Game started. Player 1 goes first!", read(t, b).Message)

	write(t, a, "teleport 1")
	assert.Equal(t, "Unrecognized command: teleport", read(t, a).Error)
}

func TestBroadcastStaysInLobby(t *testing.T) {
	hub, dir, srv := newTestServer(t, rate.Inf, 1)
	one, two := dir.Create(), dir.Create()
	a := dial(t, srv, one.ID)
	b := dial(t, srv, two.ID)
	require.Eventually(t, func() bool { return hub.Viewers(one.ID) == 1 && hub.Viewers(two.ID) == 1 }, time.Second, 10*time.Millisecond)

	write(t, a, "joinGame Alice")
	assert.Equal(t, "Player Alice joined the game!", read(t, a).Message)

	write(t, b, "joinGame Bob")
	assert.Equal(t, "Player Bob joined the game!", read(t, b).Message)

	hub.Broadcast(two.ID, "hello two")
	assert.Equal(t, "hello two", read(t, b).Message)
}

func TestRateLimit(t *testing.T) {
	_, dir, srv := newTestServer(t, 0, 1)
	lb := dir.Create()
	c := dial(t, srv, lb.ID)

	write(t, c, "help")
	assert.Contains(t, read(t, c).Message, "Available Commands")
	write(t, c, "help")
	assert.Equal(t, "Rate limit exceeded", read(t, c).Error)
}

func TestServeWSRejections(t *testing.T) {
	_, dir, srv := newTestServer(t, rate.Inf, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/lobby/"

	_, resp, err := websocket.Dial(ctx, u+"missing", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	lb := dir.Create()
	_, resp, err = websocket.Dial(ctx, u+lb.ID, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://evil.example"}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	c, _, err := websocket.Dial(ctx, u+lb.ID, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://good.example"}},
	})
	require.NoError(t, err)
	_ = c.Close(websocket.StatusNormalClosure, "")
}

func TestDisconnectRemovesViewer(t *testing.T) {
	hub, dir, srv := newTestServer(t, rate.Inf, 1)
	lb := dir.Create()
	c := dial(t, srv, lb.ID)
	require.Eventually(t, func() bool { return hub.Viewers(lb.ID) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close(websocket.StatusNormalClosure, ""))
	require.Eventually(t, func() bool { return hub.Viewers(lb.ID) == 0 }, 2*time.Second, 10*time.Millisecond)
}
