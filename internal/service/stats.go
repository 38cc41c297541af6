package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/velha-games/velha-backend/internal/apperror"
	"github.com/velha-games/velha-backend/internal/entity"
)

type StatsService interface {
	RecordResult(ctx context.Context, players []*entity.Player, winner string) error
	GetByUsername(ctx context.Context, username string) (*entity.Stats, error)
}

type statsRepo interface {
	CreateOrUpdate(ctx context.Context, stats *entity.Stats) error
	GetByUsername(ctx context.Context, username string) (*entity.Stats, error)
}

type statsService struct {
	logger    *slog.Logger
	statsRepo statsRepo
}

func NewStatsService(logger *slog.Logger, statsRepo statsRepo) StatsService {
	return &statsService{
		logger:    logger,
		statsRepo: statsRepo,
	}
}

// RecordResult - applies one finished game to every participant's counters.
// The winner is a display name, or the draw sentinel for a tie.
func (that *statsService) RecordResult(ctx context.Context, players []*entity.Player, winner string) error {
	for _, player := range players {
		stats, err := that.getOrCreate(ctx, player.Name)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		switch {
		case winner == entity.WinnerDraw:
			stats.AddTie()
		case winner == player.Name:
			stats.AddWin()
		default:
			stats.AddLoss()
		}

		if err = that.statsRepo.CreateOrUpdate(ctx, stats); err != nil {
			return fmt.Errorf("failed to update stats: %w", err)
		}
	}

	return nil
}

func (that *statsService) GetByUsername(ctx context.Context, username string) (*entity.Stats, error) {
	stats, err := that.statsRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats by username: %w", err)
	}

	return stats, nil
}

func (that *statsService) getOrCreate(ctx context.Context, username string) (*entity.Stats, error) {
	stats, err := that.statsRepo.GetByUsername(ctx, username)
	if errors.Is(err, apperror.ErrStatsNotFound) {
		return &entity.Stats{Username: username}, nil
	}

	if err != nil {
		return nil, err
	}

	return stats, nil
}
