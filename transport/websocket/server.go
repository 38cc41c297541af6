package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/velha-games/velha-backend/internal/entity"
)

type gamePlay interface {
	CreateRoom(ctx context.Context, connID, displayName string) (*entity.Room, error)
	JoinRoom(ctx context.Context, connID, roomCode, displayName string) error
	RollDice(ctx context.Context, connID string) error
	MakeMove(ctx context.Context, connID string, cell int) error
	PlayAgain(ctx context.Context, connID string) error
	LeaveRoom(ctx context.Context, connID string) error
}

type Server struct {
	logger   *slog.Logger
	gamePlay gamePlay
	hub      *Hub
	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, connID string, message *Message) error
}

func New(logger *slog.Logger, gamePlay gamePlay, hub *Hub) *Server {
	server := &Server{
		logger:   logger,
		gamePlay: gamePlay,
		hub:      hub,
		upgrader: websocket.Upgrader{
			// The game is served from static hosting, so browser origins vary.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, string, *Message) error),
	}

	server.handlers["create-room"] = server.handleCreateRoom
	server.handlers["join-room"] = server.handleJoinRoom
	server.handlers["roll-dice"] = server.handleRollDice
	server.handlers["make-move"] = server.handleMakeMove
	server.handlers["play-again"] = server.handlePlayAgain
	server.handlers["leave-room"] = server.handleLeaveRoom

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and runs its read loop. Each
// connection gets a fresh ID for its whole lifetime; the player record in the
// room carries the same ID.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connID := uuid.NewString()

	that.hub.Register(connID, conn)

	defer func() {
		if err = that.gamePlay.LeaveRoom(ctx, connID); err != nil {
			log.Error("failed to leave room on disconnect", "connID", connID, "error", err)
		}

		that.hub.Unregister(connID)
		_ = conn.Close()
	}()

	log.Info("connection established", "connID", connID)

	that.handleMessages(ctx, connID, conn)

	log.Info("connection closed", "connID", connID)
}

// handleMessages - processes messages from the client until the connection
// drops. Unknown actions and malformed frames are logged and skipped.
func (that *Server) handleMessages(ctx context.Context, connID string, conn *websocket.Conn) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, reqBody, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "connID", connID, "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "connID", connID, "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "connID", connID, "action", message.Action)
			continue
		}

		if err = handler(ctx, connID, &message); err != nil {
			log.Error("error processing message", "connID", connID, "action", message.Action, "error", err)
		}
	}
}
