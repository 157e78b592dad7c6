package types

import (
	"time"

	"github.com/google/uuid"
)

// MealType flags a place assignment that covers a meal.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// TransportLeg is the opaque transport estimate between two assignments.
type TransportLeg struct {
	Mode            string  `json:"mode"`
	DurationMinutes int     `json:"duration_minutes"`
	DistanceKm      float64 `json:"distance_km"`
}

// PlaceAssignment is one scheduled visit within a day.
type PlaceAssignment struct {
	PlaceID         string        `json:"place_id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	ArrivalTime     string        `json:"arrival_time"`
	DepartureTime   string        `json:"departure_time"`
	DurationMinutes int           `json:"duration_minutes"`
	MealType        *MealType     `json:"meal_type,omitempty"`
	TransportToNext *TransportLeg `json:"transport_to_next,omitempty"`
	WeatherPlan     string        `json:"weather_plan,omitempty"`
	Alternatives    []string      `json:"alternatives,omitempty"`
}

// DayStats summarizes one day for observability and clients.
type DayStats struct {
	TotalPlaces        int     `json:"total_places"`
	TotalDistanceKm    float64 `json:"total_distance_km"`
	WalkingTimeMinutes int     `json:"walking_time_minutes"`
	Theme              string  `json:"theme,omitempty"`
}

// DayWeather is the per-day weather block attached during materialization.
type DayWeather struct {
	Status              string   `json:"status"`
	Temperature         string   `json:"temperature"`
	PrecipitationChance int      `json:"precipitation_chance"`
	Warning             string   `json:"warning,omitempty"`
	Stats               DayStats `json:"day_stats"`
}

// DayItinerary is one planned day. Theme and tips may be empty on the
// fallback path.
type DayItinerary struct {
	Day             int               `json:"day"`
	Theme           string            `json:"theme,omitempty"`
	Places          []PlaceAssignment `json:"places"`
	Tips            []string          `json:"tips,omitempty"`
	TotalDistanceKm float64           `json:"total_distance_km"`
	Weather         DayWeather        `json:"weather"`
}

// ItinerarySource records which path produced a result.
type ItinerarySource string

const (
	SourceCache     ItinerarySource = "cache"
	SourceGenerated ItinerarySource = "generated"
	SourceFallback  ItinerarySource = "fallback"
)

// ItineraryMetadata is observability metadata returned alongside the days.
type ItineraryMetadata struct {
	Source      ItinerarySource `json:"source"`
	Model       string          `json:"model,omitempty"`
	TotalTokens int             `json:"total_tokens,omitempty"`
	// UnderTarget is set when the catalog ran out before the time-slot
	// template was filled for every day.
	UnderTarget bool      `json:"under_target,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Itinerary is the public result of the generation pipeline.
type Itinerary struct {
	Days     []DayItinerary    `json:"days"`
	Metadata ItineraryMetadata `json:"metadata"`
}

// ItineraryRequest is the single inbound operation's payload.
type ItineraryRequest struct {
	UserID              uuid.UUID          `json:"user_id"`
	Region              string             `json:"region"`
	RegionName          string             `json:"region_name"`
	Days                int                `json:"days"`
	CompanionType       string             `json:"companion_type"`
	Styles              []string           `json:"styles"`
	Schedule            TravelPace         `json:"schedule"`
	Transportation      string             `json:"transportation,omitempty"`
	Budget              *int               `json:"budget,omitempty"`
	ConversationHistory []ConversationTurn `json:"conversation_history,omitempty"`
}
