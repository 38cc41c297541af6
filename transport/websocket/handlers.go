package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/velha-games/velha-backend/internal/apperror"
)

func (that *Server) handleCreateRoom(ctx context.Context, connID string, msg *Message) error {
	// The client sends the display name as a bare JSON string.
	var displayName string
	if err := json.Unmarshal(msg.Payload, &displayName); err != nil {
		return fmt.Errorf("failed to unmarshal display name: %w", err)
	}

	if _, err := that.gamePlay.CreateRoom(ctx, connID, displayName); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, connID string, msg *Message) error {
	var payload JoinRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal join payload: %w", err)
	}

	err := that.gamePlay.JoinRoom(ctx, connID, payload.RoomCode, payload.PlayerName)

	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		that.hub.ToConnection(connID, EventError, ErrorPayload{Message: "room not found"})
		return nil
	case errors.Is(err, apperror.ErrRoomFull):
		that.hub.ToConnection(connID, EventError, ErrorPayload{Message: "room is full"})
		return nil
	case err != nil:
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

func (that *Server) handleRollDice(ctx context.Context, connID string, _ *Message) error {
	if err := that.gamePlay.RollDice(ctx, connID); err != nil {
		return fmt.Errorf("failed to roll dice: %w", err)
	}

	return nil
}

func (that *Server) handleMakeMove(ctx context.Context, connID string, msg *Message) error {
	var payload MakeMovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal move payload: %w", err)
	}

	if err := that.gamePlay.MakeMove(ctx, connID, payload.Position); err != nil {
		return fmt.Errorf("failed to make move: %w", err)
	}

	return nil
}

func (that *Server) handlePlayAgain(ctx context.Context, connID string, _ *Message) error {
	if err := that.gamePlay.PlayAgain(ctx, connID); err != nil {
		return fmt.Errorf("failed to reset game: %w", err)
	}

	return nil
}

func (that *Server) handleLeaveRoom(ctx context.Context, connID string, _ *Message) error {
	if err := that.gamePlay.LeaveRoom(ctx, connID); err != nil {
		return fmt.Errorf("failed to leave room: %w", err)
	}

	return nil
}
