package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/velha-games/velha-backend/internal/entity"
)

const diceSides = 6

// broadcaster pushes named events to connections. ToRoom delivers to every
// connection currently associated with the room; ToConnection to exactly one.
type broadcaster interface {
	ToRoom(roomCode, event string, payload any)
	ToConnection(connID, event string, payload any)
}

type roomRepo interface {
	Create(creator *entity.Player) (*entity.Room, error)
	GetByCode(code string) (*entity.Room, error)
	RemoveIfEmpty(code string)
}

type connRegistry interface {
	Associate(connID, roomCode string)
	Lookup(connID string) (string, bool)
	Dissociate(connID string)
}

type statsRecorder interface {
	RecordResult(ctx context.Context, players []*entity.Player, winner string) error
}

type GamePlayService interface {
	CreateRoom(ctx context.Context, connID, displayName string) (*entity.Room, error)
	JoinRoom(ctx context.Context, connID, roomCode, displayName string) error
	RollDice(ctx context.Context, connID string) error
	MakeMove(ctx context.Context, connID string, cell int) error
	PlayAgain(ctx context.Context, connID string) error
	LeaveRoom(ctx context.Context, connID string) error
}

type gamePlayService struct {
	logger *slog.Logger

	roomRepo    roomRepo
	registry    connRegistry
	stats       statsRecorder
	broadcaster broadcaster

	rollDie func() int
}

func NewGamePlayService(logger *slog.Logger, roomRepo roomRepo, registry connRegistry, stats statsRecorder, broadcaster broadcaster) GamePlayService {
	return &gamePlayService{
		logger:      logger,
		roomRepo:    roomRepo,
		registry:    registry,
		stats:       stats,
		broadcaster: broadcaster,

		rollDie: func() int {
			return rand.Intn(diceSides) + 1 //nolint: gosec // it's ok
		},
	}
}

// CreateRoom - allocates a room with the requester as player 1 and tells the
// creator its code. A connection already in a room leaves it first, so the
// registry never maps one connection to two rooms.
func (that *gamePlayService) CreateRoom(ctx context.Context, connID, displayName string) (*entity.Room, error) {
	log := that.logger.With("method", "CreateRoom")

	if _, ok := that.registry.Lookup(connID); ok {
		if err := that.LeaveRoom(ctx, connID); err != nil {
			log.Error("failed to leave previous room", "error", err)
		}
	}

	creator := &entity.Player{ID: connID, Name: displayName}

	room, err := that.roomRepo.Create(creator)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	that.registry.Associate(connID, room.Code)

	that.broadcaster.ToConnection(connID, EventRoomCreated, RoomCreatedPayload{Code: room.Code})

	log.Info("room created", "roomCode", room.Code)

	return room, nil
}

// JoinRoom - admits the connection as player 2 and announces the pairing to
// the whole room. Returns ErrRoomNotFound or ErrRoomFull for the caller to
// report back to the requesting connection only.
func (that *gamePlayService) JoinRoom(_ context.Context, connID, roomCode, displayName string) error {
	log := that.logger.With("method", "JoinRoom")

	roomCode = strings.ToUpper(roomCode)

	room, err := that.roomRepo.GetByCode(roomCode)
	if err != nil {
		return fmt.Errorf("failed to get room by code: %w", err)
	}

	player := &entity.Player{ID: connID, Name: displayName}

	room.Lock()
	defer room.Unlock()

	if err = room.Join(player); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	that.registry.Associate(connID, room.Code)

	that.broadcaster.ToRoom(room.Code, EventPlayerJoined, PlayerJoinedPayload{
		Players:   room.Players,
		GameState: room.Phase,
	})

	log.Info("player joined room", "roomCode", room.Code)

	return nil
}

// RollDice - resolves turn order for the whole room. The first roll that
// arrives while the room is rolling decides everything; later rolls find the
// phase already advanced and are dropped.
func (that *gamePlayService) RollDice(_ context.Context, connID string) error {
	log := that.logger.With("method", "RollDice")

	room := that.currentRoom(connID)
	if room == nil {
		return nil
	}

	room.Lock()
	defer room.Unlock()

	if room.Phase != entity.PhaseRolling || !room.IsFull() {
		log.Debug("roll ignored", "roomCode", room.Code, "phase", room.Phase)
		return nil
	}

	creatorDice := that.rollDie()
	joinerDice := that.rollDie()

	starter := room.ResolveRoll(creatorDice, joinerDice)

	that.broadcaster.ToRoom(room.Code, EventDiceRolled, DiceRolledPayload{
		Player1Dice: creatorDice,
		Player2Dice: joinerDice,
		Starter:     starter.Name,
		Players:     room.Players,
		GameState:   room.Phase,
		CurrentTurn: room.Turn,
	})

	log.Info("dice resolved", "roomCode", room.Code, "starter", starter.Name)

	return nil
}

// MakeMove - applies the move and broadcasts the outcome. Protocol misuse
// (wrong phase, wrong turn, occupied or invalid cell) mutates nothing and
// emits nothing.
func (that *gamePlayService) MakeMove(ctx context.Context, connID string, cell int) error {
	log := that.logger.With("method", "MakeMove")

	room := that.currentRoom(connID)
	if room == nil {
		return nil
	}

	room.Lock()

	if err := room.ApplyMove(connID, cell); err != nil {
		room.Unlock()
		log.Debug("move ignored", "roomCode", room.Code, "cell", cell, "reason", err)
		return nil
	}

	if !room.IsFinished() {
		currentPlayer := room.PlayerByID(room.Turn)
		that.broadcaster.ToRoom(room.Code, EventBoardUpdated, BoardUpdatedPayload{
			Board:             room.Board,
			CurrentTurn:       room.Turn,
			CurrentPlayerName: currentPlayer.Name,
		})
		room.Unlock()

		return nil
	}

	that.broadcaster.ToRoom(room.Code, EventGameFinished, GameFinishedPayload{
		Winner:    room.Winner,
		Board:     room.Board,
		GameState: room.Phase,
	})

	winner := room.Winner
	players := append([]*entity.Player(nil), room.Players...)
	room.Unlock()

	log.Info("game finished", "roomCode", room.Code, "winner", winner)

	if err := that.stats.RecordResult(ctx, players, winner); err != nil {
		log.Error("failed to record result", "roomCode", room.Code, "error", err)
	}

	return nil
}

// PlayAgain - resets a finished room for a rematch and re-enters the dice
// roll. Requests outside the finished phase are dropped.
func (that *gamePlayService) PlayAgain(_ context.Context, connID string) error {
	log := that.logger.With("method", "PlayAgain")

	room := that.currentRoom(connID)
	if room == nil {
		return nil
	}

	room.Lock()
	defer room.Unlock()

	if !room.IsFinished() {
		log.Debug("rematch ignored", "roomCode", room.Code, "phase", room.Phase)
		return nil
	}

	room.Reset()

	that.broadcaster.ToRoom(room.Code, EventGameReset, GameResetPayload{
		Board:     room.Board,
		GameState: room.Phase,
	})

	log.Info("room reset for rematch", "roomCode", room.Code)

	return nil
}

// LeaveRoom - removes the connection's player and tears the room down: a
// departure ends the match for everyone. Survivors are notified before any
// connection is dissociated, then the disbanded room is deleted, so no
// survivor can keep moving on it and its code can never be rejoined.
// Disconnects funnel in here too; a connection that is not in a room is a
// no-op.
func (that *gamePlayService) LeaveRoom(_ context.Context, connID string) error {
	log := that.logger.With("method", "LeaveRoom")

	roomCode, ok := that.registry.Lookup(connID)
	if !ok {
		return nil
	}

	room, err := that.roomRepo.GetByCode(roomCode)
	if err != nil {
		that.registry.Dissociate(connID)
		return nil
	}

	room.Lock()

	player := room.RemovePlayer(connID)
	if player != nil {
		for _, survivor := range room.Players {
			that.broadcaster.ToConnection(survivor.ID, EventPlayerLeft, PlayerLeftPayload{PlayerName: player.Name})
			that.registry.Dissociate(survivor.ID)
		}
		room.Disband()
	}

	that.registry.Dissociate(connID)
	room.Unlock()

	that.roomRepo.RemoveIfEmpty(roomCode)

	log.Info("player left room", "roomCode", roomCode)

	return nil
}

// currentRoom resolves the connection's room, or nil when the connection is
// not in a room or the room is already gone. Both cases are treated as
// "nothing to do" rather than errors.
func (that *gamePlayService) currentRoom(connID string) *entity.Room {
	roomCode, ok := that.registry.Lookup(connID)
	if !ok {
		return nil
	}

	room, err := that.roomRepo.GetByCode(roomCode)
	if err != nil {
		return nil
	}

	return room
}
