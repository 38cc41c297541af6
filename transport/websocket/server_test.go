package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velha-games/velha-backend/internal/entity"
	"github.com/velha-games/velha-backend/internal/registry"
	"github.com/velha-games/velha-backend/internal/repository"
	"github.com/velha-games/velha-backend/internal/service"
)

const readWait = 2 * time.Second

type noopStats struct{}

func (noopStats) RecordResult(context.Context, []*entity.Player, string) error {
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	connRegistry := registry.New()
	hub := NewHub(logger, connRegistry)
	gamePlayService := service.NewGamePlayService(logger, repository.NewRoomRepository(), connRegistry, noopStats{}, hub)

	wsServer := New(logger, gamePlayService, hub)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wsServer.upgradeToWebSocket(context.Background(), w, r)
	}))
	t.Cleanup(srv.Close)

	return srv
}

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, srv *httptest.Server) *wsClient {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return &wsClient{t: t, conn: conn}
}

func (that *wsClient) send(action string, payload any) {
	that.t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(that.t, err)

	require.NoError(that.t, that.conn.WriteJSON(Message{Action: action, Payload: body}))
}

// expect reads the next frame and requires it to carry the given event,
// decoding its payload into out when out is non-nil.
func (that *wsClient) expect(event string, out any) {
	that.t.Helper()

	require.NoError(that.t, that.conn.SetReadDeadline(time.Now().Add(readWait)))

	var message Message
	require.NoError(that.t, that.conn.ReadJSON(&message))
	require.Equal(that.t, event, message.Action)

	if out != nil {
		require.NoError(that.t, json.Unmarshal(message.Payload, out))
	}
}

func pairUp(t *testing.T, srv *httptest.Server) (alice, bob *wsClient, roomCode string) {
	t.Helper()

	alice = dial(t, srv)
	alice.send("create-room", "Alice")

	var created service.RoomCreatedPayload
	alice.expect(service.EventRoomCreated, &created)
	require.Len(t, created.Code, 6)

	bob = dial(t, srv)
	bob.send("join-room", JoinRoomPayload{RoomCode: created.Code, PlayerName: "Bob"})

	var joined service.PlayerJoinedPayload
	alice.expect(service.EventPlayerJoined, &joined)
	bob.expect(service.EventPlayerJoined, nil)
	require.Equal(t, entity.PhaseRolling, joined.GameState)

	return alice, bob, created.Code
}

func TestServer_FullMatch(t *testing.T) {
	srv := newTestServer(t)
	alice, bob, _ := pairUp(t, srv)

	// When: either player triggers the roll
	bob.send("roll-dice", nil)

	var rolled service.DiceRolledPayload
	alice.expect(service.EventDiceRolled, &rolled)
	bob.expect(service.EventDiceRolled, nil)

	require.Equal(t, entity.PhasePlaying, rolled.GameState)
	require.Contains(t, []string{"Alice", "Bob"}, rolled.Starter)

	// The roll decides who moves first; the starter claims the top row while
	// the other player fills the middle one.
	starter, other := alice, bob
	if rolled.Starter == "Bob" {
		starter, other = bob, alice
	}

	for _, move := range []struct {
		client *wsClient
		cell   int
	}{{starter, 0}, {other, 3}, {starter, 1}, {other, 4}} {
		move.client.send("make-move", MakeMovePayload{Position: move.cell})

		var updated service.BoardUpdatedPayload
		alice.expect(service.EventBoardUpdated, &updated)
		bob.expect(service.EventBoardUpdated, nil)
		assert.NotEmpty(t, updated.Board[move.cell])
	}

	// When: the starter completes the top row
	starter.send("make-move", MakeMovePayload{Position: 2})

	var finished service.GameFinishedPayload
	alice.expect(service.EventGameFinished, &finished)
	bob.expect(service.EventGameFinished, nil)

	// Then: the starter won and both can ask for a rematch
	assert.Equal(t, rolled.Starter, finished.Winner)
	assert.Equal(t, entity.PhaseFinished, finished.GameState)

	other.send("play-again", nil)

	var reset service.GameResetPayload
	alice.expect(service.EventGameReset, &reset)
	bob.expect(service.EventGameReset, nil)
	assert.Equal(t, [9]string{}, reset.Board)
	assert.Equal(t, entity.PhaseRolling, reset.GameState)
}

func TestServer_JoinErrors(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Unknown room code", func(t *testing.T) {
		client := dial(t, srv)

		// When: joining a code nobody allocated
		client.send("join-room", JoinRoomPayload{RoomCode: "ZZZZ99", PlayerName: "Bob"})

		// Then: only the requester hears about it
		var errPayload ErrorPayload
		client.expect(EventError, &errPayload)
		assert.Equal(t, "room not found", errPayload.Message)
	})

	t.Run("Full room", func(t *testing.T) {
		_, _, roomCode := pairUp(t, srv)

		// When: a third connection tries the same code
		carol := dial(t, srv)
		carol.send("join-room", JoinRoomPayload{RoomCode: roomCode, PlayerName: "Carol"})

		// Then: the third connection is refused
		var errPayload ErrorPayload
		carol.expect(EventError, &errPayload)
		assert.Equal(t, "room is full", errPayload.Message)
	})
}

func TestServer_Departures(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Explicit leave notifies the survivor", func(t *testing.T) {
		alice, bob, _ := pairUp(t, srv)

		// When: Alice leaves on purpose
		alice.send("leave-room", nil)

		// Then: Bob learns who left
		var left service.PlayerLeftPayload
		bob.expect(service.EventPlayerLeft, &left)
		assert.Equal(t, "Alice", left.PlayerName)
	})

	t.Run("Disconnect behaves like a leave", func(t *testing.T) {
		alice, bob, _ := pairUp(t, srv)

		// When: Alice's connection drops
		require.NoError(t, alice.conn.Close())

		// Then: Bob learns who left
		var left service.PlayerLeftPayload
		bob.expect(service.EventPlayerLeft, &left)
		assert.Equal(t, "Alice", left.PlayerName)
	})
}
