package behavior

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// PGXQuerier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PGXQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ensure implementation satisfies the interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository is the User Profile Store: historical behavior statistics for a
// user, read-only. Users without history get the fixed defaults.
type Repository interface {
	GetHistory(ctx context.Context, userID uuid.UUID) (types.PastBehaviors, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PGXQuerier
}

func NewRepository(pgpool PGXQuerier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *RepositoryImpl) GetHistory(ctx context.Context, userID uuid.UUID) (types.PastBehaviors, error) {
	query := `
        SELECT avg_places_per_day, preferred_start_time, lunch_duration_minutes, favorite_categories
        FROM user_travel_stats
        WHERE user_id = $1
    `
	var stats types.PastBehaviors
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&stats.AvgPlacesPerDay,
		&stats.PreferredStartTime,
		&stats.LunchDurationMinutes,
		&stats.FavoriteCategories,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.DebugContext(ctx, "No travel stats for user, using defaults",
				slog.String("user_id", userID.String()))
			return types.DefaultPastBehaviors(), nil
		}
		return types.DefaultPastBehaviors(), fmt.Errorf("failed to load travel stats: %w", err)
	}
	return stats, nil
}
