package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-travel-itinerary/internal/api/itinerarycache"
	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// Precipitation-chance thresholds for the day weather warning.
const (
	umbrellaRequiredThreshold    = 60
	umbrellaRecommendedThreshold = 30
)

// personaAnnotations adds a short persona-flavored note to each place
// description.
var personaAnnotations = map[types.PersonaType]string{
	types.PersonaFoodie:     "local food picks nearby",
	types.PersonaCultural:   "rich in history",
	types.PersonaAdventurer: "activity options on site",
	types.PersonaFamily:     "family-friendly facilities",
	types.PersonaBudget:     "budget-friendly entry",
}

// Materializer binds the detail stage's symbolic place references to catalog
// entries and builds the public itinerary. On success it writes the result
// through to the cache; a failed write never fails the request.
type Materializer struct {
	logger *slog.Logger
	cache  itinerarycache.Store
	ttl    time.Duration
}

func NewMaterializer(cache itinerarycache.Store, ttl time.Duration, logger *slog.Logger) *Materializer {
	return &Materializer{
		logger: logger,
		cache:  cache,
		ttl:    ttl,
	}
}

func (m *Materializer) Materialize(
	ctx context.Context,
	chain *ChainResult,
	places []types.Place,
	req types.ItineraryRequest,
	persona types.UserPersona,
	tctx types.TravelContext,
	cacheKey string,
) (*types.Itinerary, error) {
	ctx, span := otel.Tracer("ItineraryMaterializer").Start(ctx, "Materialize")
	defer span.End()

	placeMap := make(map[string]types.Place, len(places))
	for _, p := range places {
		placeMap[p.ID] = p
	}

	assigned := make(map[string]struct{})
	seenDays := make(map[int]struct{}, req.Days)
	days := make([]types.DayItinerary, 0, req.Days)

	for _, dayPlan := range chain.Plan.Itinerary {
		if dayPlan.Day < 1 || dayPlan.Day > req.Days {
			err := fmt.Errorf("model produced day %d, outside 1..%d", dayPlan.Day, req.Days)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Day number out of range")
			return nil, err
		}
		if _, dup := seenDays[dayPlan.Day]; dup {
			err := fmt.Errorf("model produced day %d twice", dayPlan.Day)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Duplicate day number")
			return nil, err
		}
		seenDays[dayPlan.Day] = struct{}{}

		assignments := make([]types.PlaceAssignment, 0, len(dayPlan.Places))
		for _, pp := range dayPlan.Places {
			p, ok := placeMap[pp.PlaceID]
			if !ok {
				// Never substitute a different place for an unknown id;
				// drop it and keep the day deterministic.
				m.logger.WarnContext(ctx, "Dropping unresolved place reference",
					slog.String("place_id", pp.PlaceID), slog.Int("day", dayPlan.Day))
				continue
			}
			if _, used := assigned[pp.PlaceID]; used {
				m.logger.WarnContext(ctx, "Dropping repeated place assignment",
					slog.String("place_id", pp.PlaceID), slog.Int("day", dayPlan.Day))
				continue
			}
			assigned[pp.PlaceID] = struct{}{}
			assignments = append(assignments, m.buildAssignment(p, pp, persona))
		}

		day := types.DayItinerary{
			Day:             dayPlan.Day,
			Theme:           dayPlan.Theme,
			Places:          assignments,
			Tips:            dayPlan.Tips,
			TotalDistanceKm: dayPlan.TotalDistanceKm,
			Weather:         buildDayWeather(tctx, len(assignments), dayPlan),
		}
		days = append(days, day)
	}

	if len(days) != req.Days {
		err := fmt.Errorf("model produced %d days, expected %d", len(days), req.Days)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Day count mismatch")
		return nil, err
	}

	itinerary := &types.Itinerary{
		Days: days,
		Metadata: types.ItineraryMetadata{
			Source:      types.SourceGenerated,
			Model:       chain.ModelUsed,
			TotalTokens: chain.TotalTokens,
			GeneratedAt: time.Now().UTC(),
		},
	}

	if err := m.cache.Set(ctx, cacheKey, itinerary, m.ttl); err != nil {
		// Cache write failures are dropped; the response still succeeds.
		m.logger.WarnContext(ctx, "Failed to cache itinerary",
			slog.String("key", cacheKey), slog.Any("error", err))
	}

	span.SetAttributes(
		attribute.Int("itinerary.days", len(itinerary.Days)),
		attribute.Int("itinerary.places", len(assigned)),
	)
	span.SetStatus(codes.Ok, "Itinerary materialized")
	return itinerary, nil
}

func (m *Materializer) buildAssignment(p types.Place, pp planPlace, persona types.UserPersona) types.PlaceAssignment {
	duration := pp.DurationMinutes
	if duration <= 0 {
		duration = p.TypicalDurationMinutes
	}

	var mealType *types.MealType
	if pp.MealType != nil {
		switch mt := types.MealType(*pp.MealType); mt {
		case types.MealBreakfast, types.MealLunch, types.MealDinner:
			mealType = &mt
		}
	}

	return types.PlaceAssignment{
		PlaceID:         p.ID,
		Name:            p.Name,
		Description:     describeForPersona(p, pp, persona),
		ArrivalTime:     pp.ArrivalTime,
		DepartureTime:   pp.DepartureTime,
		DurationMinutes: duration,
		MealType:        mealType,
		TransportToNext: pp.TransportToNext,
		WeatherPlan:     pp.WeatherPlan,
		Alternatives:    pp.Alternatives,
	}
}

// describeForPersona layers a persona annotation and a transit note over the
// catalog description.
func describeForPersona(p types.Place, pp planPlace, persona types.UserPersona) string {
	description := p.Description
	if note, ok := personaAnnotations[persona.PrimaryType]; ok {
		description += " | " + note
	}
	if pp.TransportToNext != nil {
		description += fmt.Sprintf(" | %d min by %s to the next stop",
			pp.TransportToNext.DurationMinutes, pp.TransportToNext.Mode)
	}
	return description
}

func buildDayWeather(tctx types.TravelContext, totalPlaces int, dayPlan planDay) types.DayWeather {
	status := "clear"
	if len(tctx.Weather.Conditions) > 0 {
		status = tctx.Weather.Conditions[0]
	}

	weather := types.DayWeather{
		Status:              status,
		Temperature:         tctx.Weather.TemperatureRange,
		PrecipitationChance: tctx.Weather.PrecipitationChance,
		Stats: types.DayStats{
			TotalPlaces:        totalPlaces,
			TotalDistanceKm:    dayPlan.TotalDistanceKm,
			WalkingTimeMinutes: dayPlan.WalkingTimeMinutes,
			Theme:              dayPlan.Theme,
		},
	}

	switch {
	case weather.PrecipitationChance > umbrellaRequiredThreshold:
		weather.Warning = "umbrella required"
	case weather.PrecipitationChance > umbrellaRecommendedThreshold:
		weather.Warning = "umbrella recommended"
	}
	return weather
}
