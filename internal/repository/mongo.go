package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gramtop961/tictactoe-rooms-backend/internal/apperror"
	"github.com/gramtop961/tictactoe-rooms-backend/internal/entity"
)

const gameCollection = "game"

type mongoGameRepo struct {
	collection *mongo.Collection
}

// NewMongoGameRepository - game records as documents in the "game"
// collection, one per room code, upserted whole on write.
func NewMongoGameRepository(db *mongo.Database) GameRepository {
	return &mongoGameRepo{
		collection: db.Collection(gameCollection),
	}
}

func (that *mongoGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	filter := bson.M{"game_id": game.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := that.collection.ReplaceOne(ctx, filter, game, opts); err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

func (that *mongoGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	var existingGame entity.Game

	err := that.collection.FindOne(ctx, bson.M{"game_id": id}).Decode(&existingGame)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return &existingGame, nil
}

func (that *mongoGameRepo) Ping(ctx context.Context) error {
	if err := that.collection.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}

	return nil
}
