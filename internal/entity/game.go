package entity

import (
	"fmt"

	"github.com/gramtop961/tictactoe-rooms-backend/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	GameIDLength = 4
	BoardSize    = 9
)

// Game - one record per room code. The stored document mirrors the
// serialized form field for field; the room code is the lookup key.
type Game struct {
	ID      string            `json:"game_id" bson:"game_id"`
	Board   [BoardSize]string `json:"board" bson:"board"`
	XStarts bool              `json:"x_starts" bson:"x_starts"`
	XIsNext bool              `json:"x_is_next" bson:"x_is_next"`
	XPlayer string            `json:"x_player,omitempty" bson:"x_player,omitempty"`
	OPlayer string            `json:"o_player,omitempty" bson:"o_player,omitempty"`
	Winner  string            `json:"winner,omitempty" bson:"winner,omitempty"`
	Draw    bool              `json:"draw" bson:"draw"`
	ScoreX  int               `json:"score_x" bson:"score_x"`
	ScoreO  int               `json:"score_o" bson:"score_o"`
}

// NewGame - creates a fresh record for a room code, failing fast on a
// malformed code. X opens the first round.
func NewGame(id string) (*Game, error) {
	if !ValidGameID(id) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrMalformedGameID, id)
	}

	return &Game{
		ID:      id,
		XStarts: true,
		XIsNext: true,
	}, nil
}

// ValidGameID - a room code is exactly 4 ASCII digits.
func ValidGameID(id string) bool {
	if len(id) != GameIDLength {
		return false
	}

	for _, char := range id {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}

// Validate - re-checks the record invariants on a document loaded from
// storage, so a corrupt record fails the request instead of entering the
// engine.
func (that *Game) Validate() error {
	if !ValidGameID(that.ID) {
		return fmt.Errorf("%w: %q", apperror.ErrMalformedGameID, that.ID)
	}

	if that.ScoreX < 0 || that.ScoreO < 0 {
		return fmt.Errorf("negative score: x=%d o=%d", that.ScoreX, that.ScoreO)
	}

	return nil
}

// ValidRole - role must be one of the two playable marks.
func ValidRole(role string) bool {
	return role == PlayerX || role == PlayerO
}

// PlayerFor - the identifier bound to a role, empty if the seat is free.
func (that *Game) PlayerFor(role string) string {
	if role == PlayerX {
		return that.XPlayer
	}
	return that.OPlayer
}

// RoleOf - the role an identifier is bound to, if any.
func (that *Game) RoleOf(playerID string) (string, bool) {
	switch {
	case playerID != "" && that.XPlayer == playerID:
		return PlayerX, true
	case playerID != "" && that.OPlayer == playerID:
		return PlayerO, true
	default:
		return "", false
	}
}

// Bind - binds an identifier to a free seat. Bindings are write-once.
func (that *Game) Bind(role, playerID string) error {
	if that.PlayerFor(role) != "" {
		return fmt.Errorf("%w: seat %s is taken", apperror.ErrGameFull, role)
	}

	if role == PlayerX {
		that.XPlayer = playerID
	} else {
		that.OPlayer = playerID
	}

	return nil
}

// IsRoundOver - the round is decided once a winner is set or the board
// filled without one. At most one of the two flags holds.
func (that *Game) IsRoundOver() bool {
	return that.Winner != EmptyCell || that.Draw
}

// ClearBoard - empties all 9 cells.
func (that *Game) ClearBoard() {
	for i := range that.Board {
		that.Board[i] = EmptyCell
	}
}

// IsBoardFull - reports whether every cell is occupied.
func (that *Game) IsBoardFull() bool {
	for _, cell := range that.Board {
		if cell == EmptyCell {
			return false
		}
	}
	return true
}
