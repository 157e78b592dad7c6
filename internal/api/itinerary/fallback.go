package itinerary

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// timeSlot is one fixed slot of the fallback schedule template.
type timeSlot struct {
	arrival   string
	departure string
}

var packedSlots = []timeSlot{
	{"09:00", "11:00"},
	{"11:30", "13:30"},
	{"14:00", "16:00"},
	{"16:30", "18:30"},
	{"19:00", "21:00"},
}

var relaxedSlots = []timeSlot{
	{"10:00", "12:00"},
	{"12:30", "14:30"},
	{"15:00", "17:00"},
	{"17:30", "19:30"},
}

// lunchSlotIndex is the template slot reserved for a food place.
const lunchSlotIndex = 1

// sightseeing categories drawn for non-lunch slots, in priority order.
var fallbackPriority = []types.PlaceCategory{
	types.CategoryMustVisit,
	types.CategoryCultural,
	types.CategoryNature,
	types.CategoryActivity,
}

// FallbackPlanner builds a deterministic itinerary from categorized places.
// It never calls the generative endpoint or the cache, so it stays usable
// when both are down.
type FallbackPlanner struct {
	logger *slog.Logger
}

func NewFallbackPlanner(logger *slog.Logger) *FallbackPlanner {
	return &FallbackPlanner{logger: logger}
}

func (f *FallbackPlanner) Plan(ctx context.Context, req types.ItineraryRequest, categorized types.CategorizedPlaces, tctx types.TravelContext) *types.Itinerary {
	ctx, span := otel.Tracer("FallbackPlanner").Start(ctx, "Plan")
	defer span.End()

	slots := relaxedSlots
	placesPerDay := 3
	if req.Schedule == types.PacePacked {
		slots = packedSlots
		placesPerDay = 4
	}

	targetPerDay := placesPerDay

	// Spread a scarce catalog evenly instead of front-loading day one.
	if req.Days > 0 {
		if perDay := (countDistinct(categorized) + req.Days - 1) / req.Days; perDay < placesPerDay {
			placesPerDay = perDay
		}
	}

	used := make(map[string]struct{})
	underTarget := false
	days := make([]types.DayItinerary, 0, req.Days)

	for dayNum := 1; dayNum <= req.Days; dayNum++ {
		assignments := make([]types.PlaceAssignment, 0, placesPerDay+1)

		for i, slot := range slots[:placesPerDay] {
			var picked *types.Place
			if i == lunchSlotIndex {
				picked = selectUnused(categorized[types.CategoryFood], used)
			}
			if picked == nil {
				for _, category := range fallbackPriority {
					if picked = selectUnused(categorized[category], used); picked != nil {
						break
					}
				}
			}
			if picked == nil {
				// Catalog exhausted; leave the slot unfilled rather than
				// repeating a place.
				continue
			}

			used[picked.ID] = struct{}{}
			assignments = append(assignments, fallbackAssignment(*picked, slot, i == lunchSlotIndex))
		}

		if len(assignments) < targetPerDay {
			underTarget = true
		}

		if stay := selectUnused(categorized[types.CategoryAccommodation], used); stay != nil {
			used[stay.ID] = struct{}{}
			overnight := types.PlaceAssignment{
				PlaceID:         stay.ID,
				Name:            stay.Name,
				Description:     stay.Description,
				ArrivalTime:     "20:00",
				DepartureTime:   "08:00",
				DurationMinutes: stay.TypicalDurationMinutes,
			}
			assignments = append(assignments, overnight)
		}

		days = append(days, types.DayItinerary{
			Day:     dayNum,
			Places:  assignments,
			Weather: buildDayWeather(tctx, len(assignments), planDay{}),
		})
	}

	span.SetAttributes(
		attribute.Int("fallback.days", len(days)),
		attribute.Int("fallback.places", len(used)),
		attribute.Bool("fallback.under_target", underTarget),
	)
	f.logger.InfoContext(ctx, "Fallback itinerary generated",
		slog.Int("days", len(days)),
		slog.Bool("under_target", underTarget))

	return &types.Itinerary{
		Days: days,
		Metadata: types.ItineraryMetadata{
			Source:      types.SourceFallback,
			UnderTarget: underTarget,
			GeneratedAt: time.Now().UTC(),
		},
	}
}

func fallbackAssignment(p types.Place, slot timeSlot, isLunch bool) types.PlaceAssignment {
	a := types.PlaceAssignment{
		PlaceID:         p.ID,
		Name:            p.Name,
		Description:     p.Description,
		ArrivalTime:     slot.arrival,
		DepartureTime:   slot.departure,
		DurationMinutes: p.TypicalDurationMinutes,
	}
	if isLunch && p.Category == types.CategoryFood {
		lunch := types.MealLunch
		a.MealType = &lunch
	}
	return a
}

// countDistinct counts unique schedulable places, ignoring accommodation
// (appended separately, outside the slot template).
func countDistinct(categorized types.CategorizedPlaces) int {
	seen := make(map[string]struct{})
	for category, places := range categorized {
		if category == types.CategoryAccommodation {
			continue
		}
		for _, p := range places {
			seen[p.ID] = struct{}{}
		}
	}
	return len(seen)
}

func selectUnused(places []types.Place, used map[string]struct{}) *types.Place {
	for i := range places {
		if _, ok := used[places[i].ID]; !ok {
			return &places[i]
		}
	}
	return nil
}
