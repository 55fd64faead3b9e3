package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/steamgames/internal/model"
	"github.com/mcoot/steamgames/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Each game is a JSON string. Rank order lives in sorted sets scored by rank:
// one over all games and one per publisher and per tag.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
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

// Game operations

func (s *Storage) SaveGames(ctx context.Context, games []model.GameDetail) error {
	for _, g := range games {
		if err := s.saveGame(ctx, g); err != nil {
			return fmt.Errorf("save game %d: %w", g.ID, err)
		}
	}
	return nil
}

func (s *Storage) saveGame(ctx context.Context, game model.GameDetail) error {
	game.Normalize()
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	old, err := s.GetGame(ctx, game.ID)
	if err != nil && !errors.Is(err, model.ErrGameNotFound) {
		return err
	}

	rank, err := s.rank(ctx, game.ID)
	if err != nil {
		return err
	}

	member := gameMember(game.ID)
	entry := redis.Z{Score: rank, Member: member}

	// Use a transaction so the game and its indexes change together
	pipe := s.client.TxPipeline()
	if old != nil {
		for _, p := range old.Publishers {
			pipe.ZRem(ctx, publisherIndexKey(p), member)
		}
		for _, t := range old.Tags {
			pipe.ZRem(ctx, categoryIndexKey(t), member)
		}
	}
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	pipe.ZAdd(ctx, rankedGamesKey(), entry)
	for _, p := range game.Publishers {
		pipe.ZAdd(ctx, publisherIndexKey(p), entry)
	}
	for _, t := range game.Tags {
		pipe.ZAdd(ctx, categoryIndexKey(t), entry)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// rank returns the existing rank of a game or assigns the next one
func (s *Storage) rank(ctx context.Context, id int) (float64, error) {
	score, err := s.client.ZScore(ctx, rankedGamesKey(), gameMember(id)).Result()
	if err == nil {
		return score, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, err
	}

	next, err := s.client.Incr(ctx, rankCounterKey()).Result()
	if err != nil {
		return 0, err
	}
	return float64(next), nil
}

func (s *Storage) GetGame(ctx context.Context, id int) (*model.GameDetail, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.GameDetail
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	game.Normalize()
	return &game, nil
}

func (s *Storage) ListGames(ctx context.Context, limit int) ([]model.GameSummary, error) {
	return s.listIndex(ctx, rankedGamesKey(), limit)
}

func (s *Storage) ListGamesByPublisher(ctx context.Context, publisher string, limit int) ([]model.GameSummary, error) {
	return s.listIndex(ctx, publisherIndexKey(publisher), limit)
}

func (s *Storage) ListGamesByCategory(ctx context.Context, category string, limit int) ([]model.GameSummary, error) {
	return s.listIndex(ctx, categoryIndexKey(category), limit)
}

func (s *Storage) CountGames(ctx context.Context) (int, error) {
	n, err := s.client.ZCard(ctx, rankedGamesKey()).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// listIndex reads the first limit members of a rank index
func (s *Storage) listIndex(ctx context.Context, indexKey string, limit int) ([]model.GameSummary, error) {
	if limit <= 0 {
		return []model.GameSummary{}, nil
	}

	members, err := s.client.ZRange(ctx, indexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []model.GameSummary{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("bad index member %q: %w", m, err)
		}
		keys[i] = gameKey(id)
	}

	// Fetch all games in one round trip using MGET
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]model.GameSummary, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Index entry without a game
		}
		var game model.GameDetail
		if err := json.Unmarshal([]byte(str), &game); err != nil {
			continue // Skip invalid data
		}
		games = append(games, game.Summary())
	}
	return games, nil
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, userKey(user.Username), data, 0).Err()
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
