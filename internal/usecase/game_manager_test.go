package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramtop961/tictactoe-rooms-backend/internal/apperror"
	"github.com/gramtop961/tictactoe-rooms-backend/internal/entity"
)

var errStorageDown = errors.New("storage down")

// fakeGameRepo - a map-backed repository that stores copies the way a real
// store would, and counts writes so tests can assert on persistence.
type fakeGameRepo struct {
	games  map[string]entity.Game
	writes int
	failed bool
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{games: make(map[string]entity.Game)}
}

func (that *fakeGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	if that.failed {
		return errStorageDown
	}

	that.games[game.ID] = *game
	that.writes++

	return nil
}

func (that *fakeGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	if that.failed {
		return nil, errStorageDown
	}

	game, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	return &game, nil
}

func (that *fakeGameRepo) Ping(_ context.Context) error {
	if that.failed {
		return errStorageDown
	}

	return nil
}

func newTestManager(repo *fakeGameRepo) *GameManager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGameManager(logger, repo)
}

func TestGameManager_JoinGame(t *testing.T) {
	ctx := context.Background()

	t.Run("First join to an unused code creates the game as X", func(t *testing.T) {
		// Given: an empty store
		repo := newFakeGameRepo()
		manager := newTestManager(repo)

		// When: a fresh identifier joins an unused code
		role, game, err := manager.JoinGame(ctx, "1234", "alice")

		// Then: the record is created with defaults and the player seated as X
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, role)
		assert.Equal(t, "alice", game.XPlayer)
		assert.True(t, game.XIsNext)
		assert.True(t, game.XStarts)

		stored, err := repo.GetByID(ctx, "1234")
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("Second identifier is seated as O", func(t *testing.T) {
		// Given: a game with one player
		repo := newFakeGameRepo()
		manager := newTestManager(repo)
		_, _, err := manager.JoinGame(ctx, "1234", "alice")
		require.NoError(t, err)

		// When: a second identifier joins the same code
		role, game, err := manager.JoinGame(ctx, "1234", "bob")

		// Then: the player is seated as O
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, role)
		assert.Equal(t, "bob", game.OPlayer)
	})

	t.Run("Rejoin returns the same role without a write", func(t *testing.T) {
		// Given: a game with both seats taken
		repo := newFakeGameRepo()
		manager := newTestManager(repo)
		_, _, err := manager.JoinGame(ctx, "1234", "alice")
		require.NoError(t, err)
		_, _, err = manager.JoinGame(ctx, "1234", "bob")
		require.NoError(t, err)

		writesBefore := repo.writes

		// When: a bound identifier joins again
		role, _, err := manager.JoinGame(ctx, "1234", "alice")

		// Then: the same role comes back and nothing was persisted
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, role)
		assert.Equal(t, writesBefore, repo.writes)
	})

	t.Run("Third identifier is rejected with a capacity error", func(t *testing.T) {
		// Given: a full game
		repo := newFakeGameRepo()
		manager := newTestManager(repo)
		_, _, err := manager.JoinGame(ctx, "1234", "alice")
		require.NoError(t, err)
		_, _, err = manager.JoinGame(ctx, "1234", "bob")
		require.NoError(t, err)

		// When: a third identifier joins
		_, _, err = manager.JoinGame(ctx, "1234", "carol")

		// Then: the join is rejected
		require.ErrorIs(t, err, apperror.ErrGameFull)
	})

	t.Run("Malformed code is rejected before touching the store", func(t *testing.T) {
		// Given: an empty store
		repo := newFakeGameRepo()
		manager := newTestManager(repo)

		// When: the code is not 4 digits
		_, _, err := manager.JoinGame(ctx, "12ab", "alice")

		// Then: the join fails with a malformed-code error and no record exists
		require.ErrorIs(t, err, apperror.ErrMalformedGameID)
		assert.Empty(t, repo.games)
	})
}

func TestGameManager_GetGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the persisted record", func(t *testing.T) {
		// Given: a stored game
		repo := newFakeGameRepo()
		manager := newTestManager(repo)
		_, created, err := manager.JoinGame(ctx, "1234", "alice")
		require.NoError(t, err)

		// When: the game is fetched
		game, err := manager.GetGame(ctx, "1234")

		// Then: the fetch returns exactly what was persisted
		require.NoError(t, err)
		assert.Equal(t, created, game)
	})

	t.Run("Unknown code is not found", func(t *testing.T) {
		repo := newFakeGameRepo()
		manager := newTestManager(repo)

		_, err := manager.GetGame(ctx, "9999")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	fullGame := func(t *testing.T) (*fakeGameRepo, *GameManager) {
		t.Helper()

		repo := newFakeGameRepo()
		manager := newTestManager(repo)
		_, _, err := manager.JoinGame(ctx, "1234", "alice")
		require.NoError(t, err)
		_, _, err = manager.JoinGame(ctx, "1234", "bob")
		require.NoError(t, err)

		return repo, manager
	}

	t.Run("A legal move is applied and persisted", func(t *testing.T) {
		// Given: a full game
		repo, manager := fullGame(t)

		// When: X plays cell 4
		game, err := manager.MakeTurn(ctx, "1234", entity.PlayerX, 4, "alice")

		// Then: the returned and stored records both carry the move
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Board[4])
		assert.False(t, game.XIsNext)

		stored, err := repo.GetByID(ctx, "1234")
		require.NoError(t, err)
		assert.Equal(t, game, stored)
	})

	t.Run("A rejected move leaves the stored record untouched", func(t *testing.T) {
		// Given: a full game with one move played
		repo, manager := fullGame(t)
		_, err := manager.MakeTurn(ctx, "1234", entity.PlayerX, 4, "alice")
		require.NoError(t, err)

		before, err := repo.GetByID(ctx, "1234")
		require.NoError(t, err)

		// When: O plays the occupied cell
		_, err = manager.MakeTurn(ctx, "1234", entity.PlayerO, 4, "bob")

		// Then: the move fails and the stored record is unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)

		after, err := repo.GetByID(ctx, "1234")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("Moving in an unknown game is not found", func(t *testing.T) {
		repo := newFakeGameRepo()
		manager := newTestManager(repo)

		_, err := manager.MakeTurn(ctx, "9999", entity.PlayerX, 0, "alice")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameManager_ResetRound(t *testing.T) {
	ctx := context.Background()

	t.Run("Resets the round and persists the result", func(t *testing.T) {
		// Given: a game with a decided round
		repo := newFakeGameRepo()
		manager := newTestManager(repo)
		_, _, err := manager.JoinGame(ctx, "1234", "alice")
		require.NoError(t, err)
		_, _, err = manager.JoinGame(ctx, "1234", "bob")
		require.NoError(t, err)

		stored := repo.games["1234"]
		stored.Winner = entity.PlayerX
		stored.ScoreX = 1
		repo.games["1234"] = stored

		// When: the round is reset
		game, err := manager.ResetRound(ctx, "1234")

		// Then: the round is fresh, the opener flipped, the score kept
		require.NoError(t, err)
		assert.Equal(t, entity.EmptyCell, game.Winner)
		assert.False(t, game.XStarts)
		assert.False(t, game.XIsNext)
		assert.Equal(t, 1, game.ScoreX)

		persisted, err := repo.GetByID(ctx, "1234")
		require.NoError(t, err)
		assert.Equal(t, game, persisted)
	})

	t.Run("Unknown code is not found", func(t *testing.T) {
		repo := newFakeGameRepo()
		manager := newTestManager(repo)

		_, err := manager.ResetRound(ctx, "9999")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameManager_ResetScores(t *testing.T) {
	ctx := context.Background()

	t.Run("Zeroes scores without flipping the opener", func(t *testing.T) {
		// Given: a game with scores and a flipped opener
		repo := newFakeGameRepo()
		manager := newTestManager(repo)
		_, _, err := manager.JoinGame(ctx, "1234", "alice")
		require.NoError(t, err)

		stored := repo.games["1234"]
		stored.XStarts = false
		stored.XIsNext = true
		stored.ScoreX = 4
		stored.ScoreO = 2
		repo.games["1234"] = stored

		// When: scores are reset
		game, err := manager.ResetScores(ctx, "1234")

		// Then: scores are zero, the opener is untouched, the round is fresh
		require.NoError(t, err)
		assert.Equal(t, 0, game.ScoreX)
		assert.Equal(t, 0, game.ScoreO)
		assert.False(t, game.XStarts)
		assert.False(t, game.XIsNext)
		assert.Equal(t, "alice", game.XPlayer)
	})

	t.Run("Unknown code is not found", func(t *testing.T) {
		repo := newFakeGameRepo()
		manager := newTestManager(repo)

		_, err := manager.ResetScores(ctx, "9999")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameManager_StorageAlive(t *testing.T) {
	ctx := context.Background()

	t.Run("Reports a healthy store", func(t *testing.T) {
		manager := newTestManager(newFakeGameRepo())

		require.NoError(t, manager.StorageAlive(ctx))
	})

	t.Run("Surfaces a store failure", func(t *testing.T) {
		repo := newFakeGameRepo()
		repo.failed = true
		manager := newTestManager(repo)

		err := manager.StorageAlive(ctx)

		require.ErrorIs(t, err, errStorageDown)
	})
}
