package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/velha-games/velha-backend/internal/apperror"
	"github.com/velha-games/velha-backend/internal/entity"
)

type StatsRepository interface {
	CreateOrUpdate(ctx context.Context, stats *entity.Stats) error
	GetByUsername(ctx context.Context, username string) (*entity.Stats, error)
}

type dbStats struct {
	client *redis.Client
}

func NewStatsRepository(client *redis.Client) StatsRepository {
	return &dbStats{
		client: client,
	}
}

func (that *dbStats) CreateOrUpdate(ctx context.Context, stats *entity.Stats) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("could not marshal stats: %w", err)
	}

	statsKey := "stats:" + stats.Username
	if err = that.client.Set(ctx, statsKey, statsJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set stats: %w", err)
	}

	return nil
}

func (that *dbStats) GetByUsername(ctx context.Context, username string) (*entity.Stats, error) {
	statsKey := "stats:" + username

	response, err := that.client.Get(ctx, statsKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Stats{}, apperror.ErrStatsNotFound
	}

	if err != nil {
		return &entity.Stats{}, fmt.Errorf("failed to get stats by username: %w", err)
	}

	var existingStats entity.Stats
	if err = json.Unmarshal([]byte(response), &existingStats); err != nil {
		return &entity.Stats{}, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return &existingStats, nil
}
