package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tilegame-go/internal/model"
	"github.com/mcoot/tilegame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance, retrying the initial ping with
// exponential backoff
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}
	err = retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Ping(ctx).Err()
		},
		retry.Attempts(attempts),
		retry.Delay(cfg.ConnectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGame(ctx context.Context, game *model.SavedGame) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL)
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.SavedGame, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.SavedGame
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gamesIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// ListGames returns stored game IDs, pruning index entries whose game has
// expired
func (s *Storage) ListGames(ctx context.Context) ([]model.GameID, error) {
	members, err := s.client.SMembers(ctx, gamesIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []model.GameID{}, nil
	}

	pipe := s.client.Pipeline()
	exists := make([]*redis.IntCmd, len(members))
	for i, m := range members {
		exists[i] = pipe.Exists(ctx, gameKey(model.GameID(m)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	ids := make([]model.GameID, 0, len(members))
	var stale []any
	for i, m := range members {
		if exists[i].Val() > 0 {
			ids = append(ids, model.GameID(m))
		} else {
			stale = append(stale, m)
		}
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, gamesIndexKey(), stale...).Err(); err != nil {
			return nil, err
		}
	}

	slices.Sort(ids)
	return ids, nil
}
