package service

import "github.com/velha-games/velha-backend/internal/entity"

// Outbound event names, as the web client consumes them.
const (
	EventRoomCreated  = "room-created"
	EventPlayerJoined = "player-joined"
	EventDiceRolled   = "dice-rolled"
	EventBoardUpdated = "board-updated"
	EventGameFinished = "game-finished"
	EventGameReset    = "game-reset"
	EventPlayerLeft   = "player-left"
)

type RoomCreatedPayload struct {
	Code string `json:"code"`
}

type PlayerJoinedPayload struct {
	Players   []*entity.Player `json:"players"`
	GameState string           `json:"gameState"`
}

type DiceRolledPayload struct {
	Player1Dice int              `json:"player1Dice"`
	Player2Dice int              `json:"player2Dice"`
	Starter     string           `json:"starter"`
	Players     []*entity.Player `json:"players"`
	GameState   string           `json:"gameState"`
	CurrentTurn string           `json:"currentTurn"`
}

type BoardUpdatedPayload struct {
	Board             [9]string `json:"board"`
	CurrentTurn       string    `json:"currentTurn"`
	CurrentPlayerName string    `json:"currentPlayerName"`
}

type GameFinishedPayload struct {
	Winner    string    `json:"winner"`
	Board     [9]string `json:"board"`
	GameState string    `json:"gameState"`
}

type GameResetPayload struct {
	Board     [9]string `json:"board"`
	GameState string    `json:"gameState"`
}

type PlayerLeftPayload struct {
	PlayerName string `json:"playerName"`
}
