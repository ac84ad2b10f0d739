package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gramtop961/tictactoe-rooms-backend/internal/apperror"
	"github.com/gramtop961/tictactoe-rooms-backend/internal/entity"
	"github.com/gramtop961/tictactoe-rooms-backend/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Ping(ctx context.Context) error
}

// GameManager - runs one read-modify-write cycle per operation against the
// injected repository. The engine never touches storage itself.
//
// There is no concurrency guard around the cycle: two simultaneous moves on
// the same room both read the pre-move record and the second write wins.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game-manager"),
		gameRepo: gameRepo,
	}
}

// JoinGame - seats a player in the room, creating the record on first join
// to an unused code. Returns the assigned role with the current state.
func (that *GameManager) JoinGame(ctx context.Context, gameID, playerID string) (string, *entity.Game, error) {
	if !entity.ValidGameID(gameID) {
		return "", nil, fmt.Errorf("%w: %q", apperror.ErrMalformedGameID, gameID)
	}

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		return that.createGame(ctx, gameID, playerID)
	}

	if err != nil {
		return "", nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	role, changed, err := tictactoe.AssignRole(game, playerID)
	if err != nil {
		return "", nil, err
	}

	// a rejoin binds nothing, so it never needs a write
	if changed {
		if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
			return "", nil, fmt.Errorf("failed to update game: %w", err)
		}
	}

	that.logger.Info("player joined", "game_id", gameID, "role", role)

	return role, game, nil
}

// GetGame - the full current state of a room, with no side effects.
func (that *GameManager) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	return that.getGameByID(ctx, gameID)
}

// MakeTurn - applies one validated move and persists the outcome.
func (that *GameManager) MakeTurn(ctx context.Context, gameID, role string, cell int, playerID string) (*entity.Game, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err = tictactoe.MakeTurn(game, role, cell, playerID); err != nil {
		return nil, err
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.logger.Debug("turn applied", "game_id", gameID, "role", role, "cell", cell)

	return game, nil
}

// ResetRound - starts a fresh round, alternating the opening mark. Scores
// and seat bindings survive.
func (that *GameManager) ResetRound(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	tictactoe.ResetRound(game)

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// ResetScores - zeroes the cumulative scores and starts a fresh round
// without changing who opens it.
func (that *GameManager) ResetScores(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	tictactoe.ResetScores(game)

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// StorageAlive - liveness of the backing store, for the diagnostic endpoint.
func (that *GameManager) StorageAlive(ctx context.Context) error {
	if err := that.gameRepo.Ping(ctx); err != nil {
		return fmt.Errorf("storage is not reachable: %w", err)
	}

	return nil
}

func (that *GameManager) createGame(ctx context.Context, gameID, playerID string) (string, *entity.Game, error) {
	game, err := entity.NewGame(gameID)
	if err != nil {
		return "", nil, err
	}

	game.XPlayer = playerID

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return "", nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "game_id", gameID)

	return entity.PlayerX, game, nil
}

func (that *GameManager) getGameByID(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, apperror.ErrGameNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = game.Validate(); err != nil {
		return nil, fmt.Errorf("stored game record is invalid: %w", err)
	}

	return game, nil
}
