package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gramtop961/tictactoe-rooms-backend/internal/config"
	"github.com/gramtop961/tictactoe-rooms-backend/internal/repository"
	"github.com/gramtop961/tictactoe-rooms-backend/internal/repository/storage"
	"github.com/gramtop961/tictactoe-rooms-backend/internal/usecase"
	"github.com/gramtop961/tictactoe-rooms-backend/transport/rest"
)

var ErrUnknownStorage = errors.New("unknown storage backend")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gameRepo, closeStorage, err := openStorage(ctx, log, conf)
	if err != nil {
		return err
	}
	defer closeStorage()

	gameManager := usecase.NewGameManager(logger, gameRepo)
	server := rest.New(logger, gameManager)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage)

	if err = server.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

// openStorage - opens the configured storage backend and returns the game
// repository bound to it, along with a close func owned by the caller.
func openStorage(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.GameRepository, func(), error) {
	switch conf.Storage {
	case config.StorageRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeFn := func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		return repository.NewGameRepository(redisStorage.Connection), closeFn, nil

	case config.StorageMongo:
		mongoStorage, err := storage.NewMongoStorage(ctx, conf.Mongo.URI, conf.Mongo.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to mongo storage: %w", err)
		}

		closeFn := func() {
			if err := mongoStorage.Close(context.Background()); err != nil {
				log.Error("could not close mongo storage", "error", err)
			}
		}

		return repository.NewMongoGameRepository(mongoStorage.Database), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage)
	}
}
