package place

import (
	"strings"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// Keyword tables for category detection. Hand-tuned upstream; keep literal.
var (
	accommodationKeywords = []string{"hotel", "hostel", "guesthouse", "stay", "resort"}
	foodKeywords          = []string{"restaurant", "food", "cafe", "dessert", "bakery"}
	culturalKeywords      = []string{"museum", "gallery", "exhibition", "culture", "palace", "temple", "historic"}
	natureKeywords        = []string{"park", "mountain", "beach", "nature", "garden", "lake", "trail"}
	shoppingKeywords      = []string{"shopping", "market", "mall", "department store"}
	activityKeywords      = []string{"experience", "activity", "leisure", "theme park", "sports"}
)

// hiddenGemRating/hiddenGemReviews mark low-visibility places worth surfacing.
const (
	hiddenGemRating  = 4.0
	hiddenGemReviews = 50
)

// mustVisitRating/mustVisitReviews promote standouts into must_visit.
const (
	mustVisitRating  = 4.5
	mustVisitReviews = 100
)

// DetermineCategory maps a raw catalog type plus tags onto the closed
// category set. Unmatched well-reviewed places default to must_visit.
func DetermineCategory(placeType string, tags []string, rating float64, reviewCount int) types.PlaceCategory {
	pt := strings.ToLower(placeType)
	joined := strings.ToLower(strings.Join(tags, " "))

	switch {
	case pt == "accommodation" || containsAny(joined, accommodationKeywords):
		return types.CategoryAccommodation
	case pt == "restaurant" || containsAny(joined, foodKeywords):
		return types.CategoryFood
	case containsAny(joined, culturalKeywords):
		return types.CategoryCultural
	case containsAny(joined, natureKeywords):
		return types.CategoryNature
	case containsAny(joined, shoppingKeywords):
		return types.CategoryShopping
	case containsAny(joined, activityKeywords):
		return types.CategoryActivity
	case rating < hiddenGemRating && reviewCount < hiddenGemReviews:
		return types.CategoryHiddenGem
	default:
		return types.CategoryMustVisit
	}
}

// durationByCategory is the typical stay in minutes per category.
var durationByCategory = map[types.PlaceCategory]int{
	types.CategoryFood:          90,
	types.CategoryCultural:      120,
	types.CategoryNature:        150,
	types.CategoryShopping:      120,
	types.CategoryActivity:      180,
	types.CategoryMustVisit:     120,
	types.CategoryHiddenGem:     60,
	types.CategoryAccommodation: 720,
}

func TypicalDuration(category types.PlaceCategory) int {
	if d, ok := durationByCategory[category]; ok {
		return d
	}
	return 90
}

// BestVisitTime estimates the best time of day to visit.
func BestVisitTime(category types.PlaceCategory, tags []string) types.BestVisitTime {
	joined := strings.ToLower(strings.Join(tags, " "))

	switch category {
	case types.CategoryFood:
		switch {
		case strings.Contains(joined, "breakfast") || strings.Contains(joined, "brunch"):
			return types.VisitMorning
		case strings.Contains(joined, "lunch"):
			return types.VisitLunch
		case strings.Contains(joined, "dinner"):
			return types.VisitDinner
		}
		return types.VisitAnytime
	case types.CategoryNature:
		switch {
		case strings.Contains(joined, "sunrise"):
			return types.VisitEarlyMorning
		case strings.Contains(joined, "sunset") || strings.Contains(joined, "night view"):
			return types.VisitEvening
		}
		return types.VisitMorning
	case types.CategoryShopping:
		return types.VisitAfternoon
	case types.CategoryCultural:
		return types.VisitMorning
	default:
		return types.VisitAnytime
	}
}

// categoryCap bounds each category list for prompt economy.
const categoryCap = 10

// Categorize partitions a catalog snapshot. Standout places additionally
// appear under must_visit; each bucket is capped.
func Categorize(places []types.Place) types.CategorizedPlaces {
	out := types.CategorizedPlaces{}
	for _, p := range places {
		if p.Category != types.CategoryMustVisit &&
			p.Rating >= mustVisitRating && p.ReviewCount > mustVisitReviews {
			out[types.CategoryMustVisit] = append(out[types.CategoryMustVisit], p)
		}
		out[p.Category] = append(out[p.Category], p)
	}
	for category := range out {
		if len(out[category]) > categoryCap {
			out[category] = out[category][:categoryCap]
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
