package travelctx

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// WeatherProvider supplies a forecast for a region. Implementations may call
// out to an external weather API; failures are absorbed by the gatherer.
type WeatherProvider interface {
	Forecast(ctx context.Context, region string) (types.WeatherConditions, error)
}

// EventsProvider lists local events for a region during a season.
type EventsProvider interface {
	LocalEvents(ctx context.Context, region string, season types.Season) ([]string, error)
}

// Ensure implementation satisfies the interface
var _ Gatherer = (*GathererImpl)(nil)

// Gatherer assembles the TravelContext for one request. It never blocks the
// pipeline on a failed lookup: every field degrades to a static default.
type Gatherer interface {
	Gather(ctx context.Context, req types.ItineraryRequest) types.TravelContext
}

type GathererImpl struct {
	logger  *slog.Logger
	weather WeatherProvider // may be nil
	events  EventsProvider  // may be nil
	now     func() time.Time
}

func NewGatherer(weather WeatherProvider, events EventsProvider, logger *slog.Logger) *GathererImpl {
	return &GathererImpl{
		logger:  logger,
		weather: weather,
		events:  events,
		now:     time.Now,
	}
}

func (g *GathererImpl) Gather(ctx context.Context, req types.ItineraryRequest) types.TravelContext {
	ctx, span := otel.Tracer("ContextGatherer").Start(ctx, "Gather",
		trace.WithAttributes(attribute.String("region", req.Region)))
	defer span.End()

	season := seasonForMonth(g.now().Month())

	tc := types.TravelContext{
		Season:              season,
		Weather:             g.fetchWeather(ctx, req.Region),
		LocalEvents:         g.fetchEvents(ctx, req.Region, season),
		CrowdLevels:         g.crowdLevels(),
		TransportConditions: defaultTransportConditions(),
		ConversationHistory: req.ConversationHistory,
	}

	span.SetAttributes(
		attribute.String("context.season", string(tc.Season)),
		attribute.Int("context.local_events", len(tc.LocalEvents)),
	)
	return tc
}

func seasonForMonth(m time.Month) types.Season {
	switch m {
	case time.March, time.April, time.May:
		return types.SeasonSpring
	case time.June, time.July, time.August:
		return types.SeasonSummer
	case time.September, time.October, time.November:
		return types.SeasonAutumn
	default:
		return types.SeasonWinter
	}
}

func (g *GathererImpl) fetchWeather(ctx context.Context, region string) types.WeatherConditions {
	if g.weather != nil {
		wc, err := g.weather.Forecast(ctx, region)
		if err == nil {
			return wc
		}
		g.logger.WarnContext(ctx, "Weather lookup failed, using defaults",
			slog.String("region", region), slog.Any("error", err))
	}
	return defaultWeatherConditions()
}

func (g *GathererImpl) fetchEvents(ctx context.Context, region string, season types.Season) []string {
	if g.events != nil {
		events, err := g.events.LocalEvents(ctx, region, season)
		if err == nil {
			return events
		}
		g.logger.WarnContext(ctx, "Events lookup failed, using defaults",
			slog.String("region", region), slog.Any("error", err))
	}
	return defaultLocalEvents(season)
}

func defaultWeatherConditions() types.WeatherConditions {
	return types.WeatherConditions{
		TemperatureRange:    "15-25°C",
		PrecipitationChance: 20,
		Conditions:          []string{"partly_cloudy"},
	}
}

func defaultLocalEvents(season types.Season) []string {
	switch season {
	case types.SeasonSpring:
		return []string{"cherry blossom festival"}
	case types.SeasonAutumn:
		return []string{"autumn foliage festival"}
	default:
		return []string{}
	}
}

func (g *GathererImpl) crowdLevels() map[string]string {
	popular := "moderate"
	switch g.now().Weekday() {
	case time.Saturday, time.Sunday:
		popular = "high"
	}
	return map[string]string{
		"popular_spots": popular,
		"restaurants":   "moderate",
	}
}

func defaultTransportConditions() map[string]string {
	return map[string]string{
		"traffic_level":           "moderate",
		"public_transport_status": "normal",
	}
}
