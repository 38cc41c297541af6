package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velha-games/velha-backend/internal/apperror"
	"github.com/velha-games/velha-backend/internal/entity"
	"github.com/velha-games/velha-backend/testing/suite"
)

func TestStatsRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	statsRepo := NewStatsRepository(st.Storage)

	// Given: stats for a player
	stats := &entity.Stats{
		Username: "Alice",
		Wins:     3,
	}

	// When: CreateOrUpdate is called
	err := statsRepo.CreateOrUpdate(ctx, stats)

	// Then: no error should be returned, and stats are stored
	require.NoError(t, err)
}

func TestStatsRepository_GetByUsername(t *testing.T) {
	t.Run("GetByUsername_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		statsRepo := NewStatsRepository(st.Storage)

		// Given: stored stats
		stats := &entity.Stats{
			Username:         "Alice",
			Wins:             2,
			Losses:           1,
			TotalGamesPlayed: 3,
			CurrentStreak:    2,
			BestStreak:       2,
		}

		err := statsRepo.CreateOrUpdate(ctx, stats)
		require.NoError(t, err)

		// When: GetByUsername is called with an existing username
		retrieved, err := statsRepo.GetByUsername(ctx, stats.Username)

		// Then: the retrieved stats should match the saved stats
		require.NoError(t, err)
		require.Equal(t, stats, retrieved)
	})

	t.Run("GetByUsername_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		statsRepo := NewStatsRepository(st.Storage)

		// When: GetByUsername is called with an unknown username
		retrieved, err := statsRepo.GetByUsername(ctx, "nobody")

		// Then: an ErrStatsNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrStatsNotFound)
		assert.Empty(t, retrieved.Username)
	})
}
