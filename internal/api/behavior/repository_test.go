package behavior

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

func TestGetHistory_ReturnsRow(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	mockPool.ExpectQuery("SELECT avg_places_per_day").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{
			"avg_places_per_day", "preferred_start_time", "lunch_duration_minutes", "favorite_categories",
		}).AddRow(5, "09:00", 60, []string{"nature", "food"}))

	repo := NewRepository(mockPool, slog.Default())
	stats, err := repo.GetHistory(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.AvgPlacesPerDay)
	assert.Equal(t, "09:00", stats.PreferredStartTime)
	assert.Equal(t, []string{"nature", "food"}, stats.FavoriteCategories)
}

func TestGetHistory_NoRowsDefaults(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	mockPool.ExpectQuery("SELECT avg_places_per_day").
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	repo := NewRepository(mockPool, slog.Default())
	stats, err := repo.GetHistory(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPastBehaviors(), stats)
}

func TestGetHistory_InfraErrorStillReturnsDefaults(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	userID := uuid.New()
	mockPool.ExpectQuery("SELECT avg_places_per_day").
		WithArgs(userID).
		WillReturnError(errors.New("connection refused"))

	repo := NewRepository(mockPool, slog.Default())
	stats, err := repo.GetHistory(context.Background(), userID)
	assert.Error(t, err)
	assert.Equal(t, types.DefaultPastBehaviors(), stats)
}
