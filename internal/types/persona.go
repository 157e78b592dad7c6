package types

// PersonaType classifies the dominant travel personality inferred for a user.
type PersonaType string

const (
	PersonaAdventurer PersonaType = "adventurer"
	PersonaCultural   PersonaType = "cultural"
	PersonaFoodie     PersonaType = "foodie"
	PersonaRelaxer    PersonaType = "relaxer"
	PersonaShopper    PersonaType = "shopper"
	PersonaFamily     PersonaType = "family"
	PersonaBudget     PersonaType = "budget"
	PersonaLuxury     PersonaType = "luxury"
	// PersonaUnknown absorbs inputs that map to no known persona.
	PersonaUnknown PersonaType = "unknown"
)

// TravelPace describes how densely a traveller wants days scheduled.
type TravelPace string

const (
	PacePacked   TravelPace = "packed"
	PaceModerate TravelPace = "moderate"
	PaceRelaxed  TravelPace = "relaxed"
)

// BudgetLevel buckets an optional numeric trip budget.
type BudgetLevel string

const (
	BudgetLow      BudgetLevel = "budget"
	BudgetModerate BudgetLevel = "moderate"
	BudgetLuxury   BudgetLevel = "luxury"
)

// PastBehaviors aggregates historical statistics for a user. Absent history
// is represented by DefaultPastBehaviors, never by nil maps or zero values.
type PastBehaviors struct {
	AvgPlacesPerDay      int      `json:"avg_places_per_day"`
	PreferredStartTime   string   `json:"preferred_start_time"`
	LunchDurationMinutes int      `json:"lunch_duration_minutes"`
	FavoriteCategories   []string `json:"favorite_categories"`
}

// DefaultPastBehaviors returns the conservative defaults used when the
// profile store has no data for a user.
func DefaultPastBehaviors() PastBehaviors {
	return PastBehaviors{
		AvgPlacesPerDay:      4,
		PreferredStartTime:   "10:00",
		LunchDurationMinutes: 90,
		FavoriteCategories:   []string{"culture", "food"},
	}
}

// UserPersona is the inferred travel profile for a single request. It is
// built once by the persona analyzer and read-only afterwards.
type UserPersona struct {
	PrimaryType   PersonaType        `json:"primary_type"`
	SecondaryType *PersonaType       `json:"secondary_type,omitempty"`
	TravelPace    TravelPace         `json:"travel_pace"`
	BudgetLevel   BudgetLevel        `json:"budget_level"`
	Preferences   map[string]float64 `json:"preferences"`
	Constraints   []string           `json:"constraints"`
	PastBehaviors PastBehaviors      `json:"past_behaviors"`
}
