package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

func buildAnalysisPrompt(req types.ItineraryRequest, persona types.UserPersona, tctx types.TravelContext) string {
	personaJSON, _ := json.MarshalIndent(persona, "", "  ")
	weatherJSON, _ := json.Marshal(tctx.Weather)
	crowdJSON, _ := json.Marshal(tctx.CrowdLevels)

	transportation := req.Transportation
	if transportation == "" {
		transportation = "public transport"
	}

	return fmt.Sprintf(`
        You are a travel planning analyst. Analyze the following trip request.

        Trip:
        - destination: %s
        - duration_days: %d
        - styles: [%s]
        - companions: %s
        - transportation: %s

        Traveller persona:
        %s

        Context:
        - season: %s
        - weather: %s
        - local_events: [%s]
        - crowd_levels: %s

        Return the response STRICTLY as a JSON object with:
        {
        "core_goals": ["the 2-4 goals this trip must achieve"],
        "persona_priorities": ["what this persona cares about most, in order"],
        "time_budget_strategy": "how to budget hours across each day",
        "constraints": ["hard constraints the plan must respect"],
        "optimization_opportunities": ["where the plan can save travel time or cost"]
        }`,
		req.RegionName, req.Days, strings.Join(req.Styles, ", "), req.CompanionType,
		transportation, personaJSON, tctx.Season, weatherJSON,
		strings.Join(tctx.LocalEvents, ", "), crowdJSON)
}

func buildStrategyPrompt(days int, analysis json.RawMessage, categorized types.CategorizedPlaces) string {
	placesJSON, _ := json.MarshalIndent(categorized, "", "  ")

	return fmt.Sprintf(`
        Using the analysis below, lay out a day-by-day strategy for a %d-day trip.

        Analysis:
        %s

        Available places by category:
        %s

        For every day decide:
        1. a daily theme
        2. place selection criteria and focus areas
        3. time allocation across morning, lunch, afternoon, evening
        4. key places to anchor the day (use real place ids)
        5. meal plan (where and when)
        6. a weather contingency plan
        7. backup places if an anchor is unavailable

        Return the response STRICTLY as a JSON object with:
        {
        "days": [
            {
            "day": <int>,
            "theme": "daily theme",
            "focus_areas": ["..."],
            "time_allocation": {"morning": "...", "lunch": "...", "afternoon": "...", "evening": "..."},
            "key_place_ids": ["..."],
            "meal_plan": "...",
            "weather_contingency": "...",
            "backup_place_ids": ["..."]
            }
        ]
        }`, days, analysis, placesJSON)
}

func buildDetailPrompt(strategy json.RawMessage) string {
	return fmt.Sprintf(`
        Expand the strategy below into the final detailed itinerary.

        Strategy:
        %s

        Rules:
        - only reference real place_id values from the strategy
        - schedule lunch between 12:00-14:00 and dinner between 18:00-20:00
        - set stay durations appropriate to each place
        - include a weather_plan for every place
        - pick alternatives from nearby places of the same category
        - keep the output compact

        Return the response STRICTLY as a JSON object with:
        {
        "itinerary": [
            {
            "day": <int>,
            "theme": "daily theme",
            "places": [
                {
                "place_id": "id from the catalog",
                "arrival_time": "HH:MM",
                "departure_time": "HH:MM",
                "duration_minutes": <int>,
                "meal_type": "breakfast|lunch|dinner or null",
                "transport_to_next": {"mode": "...", "duration_minutes": <int>, "distance_km": <float>},
                "weather_plan": "what to do if the weather turns",
                "alternatives": ["place ids, same category"]
                }
            ],
            "tips": ["..."],
            "total_distance_km": <float>,
            "walking_time_minutes": <int>
            }
        ]
        }`, strategy)
}
