package generativeAI

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

func TestSelectTier_Thresholds(t *testing.T) {
	// 0.5*2 + 0.3*1 = 1.3
	simple := SelectTier(types.ItineraryRequest{Days: 2, Styles: []string{"culture"}}, types.UserPersona{})
	assert.Equal(t, TierSimple, simple)

	// 0.5*4 + 0.3*2 = 2.6
	standard := SelectTier(types.ItineraryRequest{Days: 4, Styles: []string{"culture", "food"}}, types.UserPersona{})
	assert.Equal(t, TierStandard, standard)

	// 0.5*7 + 0.3*3 + 0.4*1 = 4.8
	complexTier := SelectTier(types.ItineraryRequest{
		Days:   7,
		Styles: []string{"culture", "food", "nature"},
	}, types.UserPersona{Constraints: []string{"minimize walking distance"}})
	assert.Equal(t, TierComplex, complexTier)

	// 0.5*10 + 0.3*2 + 1 = 6.6
	secondary := types.PersonaFoodie
	premium := SelectTier(types.ItineraryRequest{
		Days:   10,
		Styles: []string{"culture", "food"},
	}, types.UserPersona{SecondaryType: &secondary})
	assert.Equal(t, TierPremium, premium)
}

func TestSelectTier_MonotonicInDays(t *testing.T) {
	persona := types.UserPersona{Constraints: []string{"child-friendly venues required"}}
	prev := -1
	for days := 1; days <= 14; days++ {
		tier := SelectTier(types.ItineraryRequest{Days: days, Styles: []string{"culture", "food"}}, persona)
		assert.GreaterOrEqual(t, tier.Index(), prev, "days=%d", days)
		prev = tier.Index()
	}
}

func TestSelectTier_DuplicateStylesCountOnce(t *testing.T) {
	deduped := SelectTier(types.ItineraryRequest{Days: 3, Styles: []string{"food", "food", "food"}}, types.UserPersona{})
	single := SelectTier(types.ItineraryRequest{Days: 3, Styles: []string{"food"}}, types.UserPersona{})
	assert.Equal(t, single, deduped)
}

func TestModelStrategy_Fallbacks(t *testing.T) {
	full := DefaultModelStrategy()
	assert.Equal(t, "gemini-2.5-pro", full.ModelFor(TierPremium))

	sparse := ModelStrategy{TierStandard: "gemini-2.0-flash"}
	assert.Equal(t, "gemini-2.0-flash", sparse.ModelFor(TierComplex))

	empty := ModelStrategy{}
	assert.Equal(t, DefaultModelStrategy()[TierSimple], empty.ModelFor(TierSimple))
}
