package apperror

import "errors"

var (
	ErrMalformedGameID = errors.New("game_id must be a 4-digit code")
	ErrGameNotFound    = errors.New("game not found")
	ErrGameFull        = errors.New("game already has two players")
	ErrInvalidRole     = errors.New("invalid role")
	ErrNotAuthorized   = errors.New("player is not authorized for this role")
	ErrRoundFinished   = errors.New("round already finished")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrCellOccupied    = errors.New("square already filled")
)
