package tictactoe

import (
	"fmt"

	"github.com/gramtop961/tictactoe-rooms-backend/internal/apperror"
	"github.com/gramtop961/tictactoe-rooms-backend/internal/entity"
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

// AssignRole - seats a player on an existing record. Rejoining with an
// already bound identifier returns the same role; otherwise the X seat is
// filled first, then O, and a third identifier is rejected. The changed
// result tells the caller whether the record needs a write.
func AssignRole(game *entity.Game, playerID string) (role string, changed bool, err error) {
	if existing, ok := game.RoleOf(playerID); ok {
		return existing, false, nil
	}

	switch {
	case game.XPlayer == "":
		role = entity.PlayerX
	case game.OPlayer == "":
		role = entity.PlayerO
	default:
		return "", false, fmt.Errorf("%w: game id %s", apperror.ErrGameFull, game.ID)
	}

	if err = game.Bind(role, playerID); err != nil {
		return "", false, err
	}

	return role, true, nil
}

// MakeTurn - validates and applies one move. Validation fully precedes
// mutation: a rejected move leaves the record untouched.
func MakeTurn(game *entity.Game, role string, cell int, playerID string) error {
	if err := validateTurn(game, role, cell, playerID); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	game.Board[cell] = role

	switch winner := calculateWinner(game.Board); winner {
	case entity.PlayerX:
		game.Winner = winner
		game.ScoreX++
	case entity.PlayerO:
		game.Winner = winner
		game.ScoreO++
	default:
		if game.IsBoardFull() {
			game.Draw = true
		}
	}

	// The turn flag flips even on the closing move of a round; it is inert
	// until the next round reset.
	game.XIsNext = !game.XIsNext

	return nil
}

// ResetRound - clears the board and the round outcome, alternating which
// mark opens the new round. Scores and seat bindings survive.
func ResetRound(game *entity.Game) {
	game.ClearBoard()
	game.Winner = entity.EmptyCell
	game.Draw = false
	game.XStarts = !game.XStarts
	game.XIsNext = game.XStarts
}

// ResetScores - zeroes both scores and starts a fresh round without
// flipping who opens it.
func ResetScores(game *entity.Game) {
	game.ScoreX = 0
	game.ScoreO = 0
	game.ClearBoard()
	game.Winner = entity.EmptyCell
	game.Draw = false
	game.XIsNext = game.XStarts
}

// validateTurn - checks run in a fixed order; the first failing check wins.
func validateTurn(game *entity.Game, role string, cell int, playerID string) error {
	if !entity.ValidRole(role) {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidRole, role)
	}

	// an unbound seat can never move
	if bound := game.PlayerFor(role); bound == "" || bound != playerID {
		return fmt.Errorf("%w: %s", apperror.ErrNotAuthorized, role)
	}

	if game.IsRoundOver() {
		return apperror.ErrRoundFinished
	}

	if (role == entity.PlayerX) != game.XIsNext {
		return apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(game.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if game.Board[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// calculateWinner - evaluates the 8 winning lines; a line wins when all
// three cells are non-empty and equal.
func calculateWinner(board [entity.BoardSize]string) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}
