package types

// Season is the meteorological season of the trip window.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// WeatherConditions describes the expected weather for the trip window.
type WeatherConditions struct {
	TemperatureRange    string   `json:"temperature_range"`
	PrecipitationChance int      `json:"precipitation_chance"`
	Conditions          []string `json:"conditions"`
}

// ConversationTurn is one caller-supplied role/text pair of prior dialogue.
type ConversationTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// TravelContext carries the situational data for one trip request. It is
// assembled once per request and read-only afterwards; every field degrades
// to a conservative default when its upstream lookup fails.
type TravelContext struct {
	Season              Season             `json:"season"`
	Weather             WeatherConditions  `json:"weather_conditions"`
	LocalEvents         []string           `json:"local_events"`
	CrowdLevels         map[string]string  `json:"crowd_levels"`
	TransportConditions map[string]string  `json:"transport_conditions"`
	ConversationHistory []ConversationTurn `json:"conversation_history,omitempty"`
}
