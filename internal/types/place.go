package types

// PlaceCategory partitions the catalog for prompting and fallback planning.
type PlaceCategory string

const (
	CategoryMustVisit     PlaceCategory = "must_visit"
	CategoryCultural      PlaceCategory = "cultural"
	CategoryNature        PlaceCategory = "nature"
	CategoryFood          PlaceCategory = "food"
	CategoryShopping      PlaceCategory = "shopping"
	CategoryActivity      PlaceCategory = "activity"
	CategoryAccommodation PlaceCategory = "accommodation"
	CategoryHiddenGem     PlaceCategory = "hidden_gem"
)

// BestVisitTime is the heuristic best time of day to visit a place.
type BestVisitTime string

const (
	VisitEarlyMorning BestVisitTime = "early_morning"
	VisitMorning      BestVisitTime = "morning"
	VisitLunch        BestVisitTime = "lunch"
	VisitAfternoon    BestVisitTime = "afternoon"
	VisitDinner       BestVisitTime = "dinner"
	VisitEvening      BestVisitTime = "evening"
	VisitAnytime      BestVisitTime = "anytime"
)

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Place is a catalog candidate, simplified for prompt economy: tags are
// bounded to 5 and the duration/best-time fields are derived from category.
type Place struct {
	ID                     string        `json:"id"`
	Name                   string        `json:"name"`
	Category               PlaceCategory `json:"category"`
	Rating                 float64       `json:"rating"`
	ReviewCount            int           `json:"review_count"`
	Tags                   []string      `json:"tags"`
	Description            string        `json:"description,omitempty"`
	Address                string        `json:"address,omitempty"`
	Coordinates            *Coordinates  `json:"coordinates,omitempty"`
	TypicalDurationMinutes int           `json:"typical_duration"`
	BestTime               BestVisitTime `json:"best_time"`
}

// CategorizedPlaces groups a catalog snapshot by category. A place may appear
// both under its own category and under must_visit when its rating warrants.
type CategorizedPlaces map[PlaceCategory][]Place
