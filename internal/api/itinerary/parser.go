package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// planDay and planPlace mirror the detail stage's output schema. Symbolic
// place_id references are resolved against the catalog during
// materialization.
type detailedPlan struct {
	Itinerary []planDay `json:"itinerary"`
}

type planDay struct {
	Day                int         `json:"day"`
	Theme              string      `json:"theme"`
	Places             []planPlace `json:"places"`
	Tips               []string    `json:"tips"`
	TotalDistanceKm    float64     `json:"total_distance_km"`
	WalkingTimeMinutes int         `json:"walking_time_minutes"`
}

type planPlace struct {
	PlaceID         string              `json:"place_id"`
	ArrivalTime     string              `json:"arrival_time"`
	DepartureTime   string              `json:"departure_time"`
	DurationMinutes int                 `json:"duration_minutes"`
	MealType        *string             `json:"meal_type,omitempty"`
	TransportToNext *types.TransportLeg `json:"transport_to_next,omitempty"`
	WeatherPlan     string              `json:"weather_plan,omitempty"`
	Alternatives    []string            `json:"alternatives,omitempty"`
}

// cleanJSONResponse strips markdown fences and surrounding prose from a model
// answer, leaving the JSON object.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	// Remove markdown code block markers
	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	if strings.HasSuffix(response, "```") {
		response = strings.TrimSuffix(response, "```")
	}
	response = strings.TrimSpace(response)

	// Extract the first { to last } in case the model added prose around it
	firstBrace := strings.Index(response, "{")
	lastBrace := strings.LastIndex(response, "}")
	if firstBrace >= 0 && lastBrace > firstBrace {
		response = response[firstBrace : lastBrace+1]
	}
	return response
}

// decodeStageJSON unmarshals a model answer into out, repairing common LLM
// JSON defects (trailing commas, unquoted keys) before giving up.
func decodeStageJSON(raw string, out any) error {
	cleaned := cleanJSONResponse(raw)
	if !strings.HasPrefix(cleaned, "{") {
		return fmt.Errorf("%w: no JSON object in model response", types.ErrSerialization)
	}

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		return fmt.Errorf("%w: %s", types.ErrSerialization, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("%w: %s", types.ErrSerialization, err)
	}
	return nil
}
