package entity

import (
	"sync"

	"github.com/velha-games/velha-backend/internal/apperror"
)

const (
	PhaseWaiting  = "waiting"
	PhaseRolling  = "rolling"
	PhasePlaying  = "playing"
	PhaseFinished = "finished"

	MarkO = "O"
	MarkX = "X"

	AccentBlue = "blue"
	AccentRed  = "red"

	// WinnerDraw is the winner sentinel for a full board with no triple.
	WinnerDraw = "draw"

	EmptyCell = ""

	MaxPlayers = 2
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Room pairs up to two connections for one tic-tac-toe match.
//
// Players[0] is always the room creator; the order never changes and does
// not imply turn order. Turn holds the connection ID of the player allowed
// to move next.
type Room struct {
	Code    string
	Players []*Player
	Board   [9]string
	Turn    string
	Phase   string
	Winner  string

	mu sync.Mutex
}

// NewRoom - creates a waiting room with the creator as player 1.
// The first player always starts with the O/blue pairing.
func NewRoom(code string, creator *Player) *Room {
	creator.Mark = MarkO
	creator.Accent = AccentBlue

	return &Room{
		Code:    code,
		Players: []*Player{creator},
		Phase:   PhaseWaiting,
	}
}

// Lock serializes all mutations of this room. Callers hold the lock for the
// whole transition, including the broadcasts it produces, so every client
// observes transitions in the same order.
func (that *Room) Lock() {
	that.mu.Lock()
}

func (that *Room) Unlock() {
	that.mu.Unlock()
}

// Join - admits the second player and advances the room to the dice roll.
func (that *Room) Join(player *Player) error {
	if len(that.Players) >= MaxPlayers {
		return apperror.ErrRoomFull
	}

	player.Mark = MarkX
	player.Accent = AccentRed

	that.Players = append(that.Players, player)
	that.Phase = PhaseRolling

	return nil
}

// ResolveRoll - resolves turn order from the two dice values and starts play.
//
// The comparison is strictly creatorDice < joinerDice: only then do the two
// players swap mark/accent pairs and the joiner starts. A tie behaves exactly
// like a creator win, so the creator keeps O/blue and starts.
func (that *Room) ResolveRoll(creatorDice, joinerDice int) *Player {
	creator, joiner := that.Players[0], that.Players[1]

	starter := creator
	if joinerDice > creatorDice {
		creator.Mark, joiner.Mark = joiner.Mark, creator.Mark
		creator.Accent, joiner.Accent = joiner.Accent, creator.Accent
		starter = joiner
	}

	that.Turn = starter.ID
	that.Phase = PhasePlaying

	return starter
}

// ApplyMove - writes the sender's mark into the cell and evaluates the
// terminal conditions. The turn owner flips only on a non-terminal move.
func (that *Room) ApplyMove(playerID string, cell int) error {
	if that.Phase != PhasePlaying {
		return apperror.ErrWrongPhase
	}

	if that.Turn != playerID {
		return apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(that.Board) {
		return apperror.ErrInvalidCell
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	player := that.PlayerByID(playerID)
	that.Board[cell] = player.Mark

	switch winnerMark := that.determineResult(); winnerMark {
	case MarkO, MarkX:
		that.Winner = that.playerByMark(winnerMark).Name
		that.Phase = PhaseFinished
		that.Turn = ""
	case WinnerDraw:
		that.Winner = WinnerDraw
		that.Phase = PhaseFinished
		that.Turn = ""
	default:
		that.Turn = that.Opponent(playerID).ID
	}

	return nil
}

// determineResult - returns the winning mark, WinnerDraw on a full board,
// or an empty string while the game continues.
func (that *Room) determineResult() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for _, cell := range that.Board {
		if cell == EmptyCell {
			return ""
		}
	}

	return WinnerDraw
}

// Reset - prepares the room for a rematch. Marks and accents keep their
// previous assignment until the next roll re-resolves them.
func (that *Room) Reset() {
	that.Board = [9]string{}
	that.Winner = ""
	that.Turn = ""
	that.Phase = PhaseRolling
}

// RemovePlayer - removes the player owning the connection and returns it,
// or nil if the connection is not part of the room.
func (that *Room) RemovePlayer(playerID string) *Player {
	for i, player := range that.Players {
		if player.ID == playerID {
			that.Players = append(that.Players[:i], that.Players[i+1:]...)
			return player
		}
	}

	return nil
}

// Disband - ends the match after a departure. Departure is terminal for the
// room: there is no pause or resume, so the remaining players are dropped
// and the emptied room is left for the store to delete.
func (that *Room) Disband() {
	that.Players = nil
	that.Turn = ""
	that.Phase = PhaseFinished
}

func (that *Room) PlayerByID(playerID string) *Player {
	for _, player := range that.Players {
		if player.ID == playerID {
			return player
		}
	}

	return nil
}

func (that *Room) playerByMark(mark string) *Player {
	for _, player := range that.Players {
		if player.Mark == mark {
			return player
		}
	}

	return nil
}

// Opponent - returns the other player, or nil while the room has one player.
func (that *Room) Opponent(playerID string) *Player {
	for _, player := range that.Players {
		if player.ID != playerID {
			return player
		}
	}

	return nil
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

func (that *Room) IsFinished() bool {
	return that.Phase == PhaseFinished
}
