package place

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// PGXQuerier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PGXQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ensure implementation satisfies the interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository is the Place Catalog Provider: candidate places for a region,
// read-only.
type Repository interface {
	GetPlaces(ctx context.Context, region string) ([]types.Place, error)
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

// GetPlaces loads the catalog snapshot for a region, best rated first, with
// category, typical duration and best visit time derived per place.
func (r *RepositoryImpl) GetPlaces(ctx context.Context, region string) ([]types.Place, error) {
	ctx, span := otel.Tracer("PlaceRepository").Start(ctx, "GetPlaces", trace.WithAttributes(
		attribute.String("region", region),
	))
	defer span.End()

	query := `
        SELECT id, name, place_type, rating, review_count, tags, description, address, latitude, longitude
        FROM places
        WHERE region_code = $1
        ORDER BY rating DESC, review_count DESC
    `
	rows, err := r.pgpool.Query(ctx, query, region)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to query places")
		return nil, fmt.Errorf("failed to query places for region %s: %w", region, err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		var (
			p         types.Place
			placeType string
			tags      []string
			lat, lng  *float64
		)
		if err := rows.Scan(&p.ID, &p.Name, &placeType, &p.Rating, &p.ReviewCount,
			&tags, &p.Description, &p.Address, &lat, &lng); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to scan place row")
			return nil, fmt.Errorf("failed to scan place row: %w", err)
		}

		// Bound tags for prompt economy.
		if len(tags) > 5 {
			tags = tags[:5]
		}
		p.Tags = tags
		if lat != nil && lng != nil {
			p.Coordinates = &types.Coordinates{Latitude: *lat, Longitude: *lng}
		}
		p.Category = DetermineCategory(placeType, tags, p.Rating, p.ReviewCount)
		p.TypicalDurationMinutes = TypicalDuration(p.Category)
		p.BestTime = BestVisitTime(p.Category, tags)

		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("failed reading place rows: %w", err)
	}

	span.SetAttributes(attribute.Int("places.count", len(places)))
	r.logger.DebugContext(ctx, "Catalog snapshot loaded",
		slog.String("region", region), slog.Int("count", len(places)))
	return places, nil
}
