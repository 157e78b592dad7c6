package generativeAI

import (
	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// ModelTier is a cost/quality class of generative model.
type ModelTier string

const (
	TierSimple   ModelTier = "simple"
	TierStandard ModelTier = "standard"
	TierComplex  ModelTier = "complex"
	TierPremium  ModelTier = "premium"
)

// tierOrder ranks tiers from cheapest to most capable.
var tierOrder = map[ModelTier]int{
	TierSimple:   0,
	TierStandard: 1,
	TierComplex:  2,
	TierPremium:  3,
}

// Index returns the tier's rank, cheapest first.
func (t ModelTier) Index() int {
	return tierOrder[t]
}

// ModelStrategy maps each tier to a concrete model name.
type ModelStrategy map[ModelTier]string

// DefaultModelStrategy is used when the configuration names no models.
func DefaultModelStrategy() ModelStrategy {
	return ModelStrategy{
		TierSimple:   "gemini-2.0-flash-lite",
		TierStandard: "gemini-2.0-flash",
		TierComplex:  "gemini-2.5-flash",
		TierPremium:  "gemini-2.5-pro",
	}
}

// ModelFor resolves the model for a tier, falling back to the standard tier
// and then to the built-in defaults so a sparse config never breaks a call.
func (s ModelStrategy) ModelFor(tier ModelTier) string {
	if m, ok := s[tier]; ok && m != "" {
		return m
	}
	if m, ok := s[TierStandard]; ok && m != "" {
		return m
	}
	return DefaultModelStrategy()[tier]
}

// Complexity score coefficients and tier thresholds. Hand-tuned upstream;
// keep the literal values.
const (
	daysWeight        = 0.5
	stylesWeight      = 0.3
	constraintsWeight = 0.4
	secondaryBonus    = 1.0

	standardThreshold = 2.0
	complexThreshold  = 4.0
	premiumThreshold  = 6.0
)

// SelectTier scores request complexity and picks the cheapest tier that can
// handle it. Pure function; never fails.
func SelectTier(req types.ItineraryRequest, persona types.UserPersona) ModelTier {
	score := daysWeight * float64(req.Days)
	score += stylesWeight * float64(distinctCount(req.Styles))
	score += constraintsWeight * float64(len(persona.Constraints))
	if persona.SecondaryType != nil {
		score += secondaryBonus
	}

	switch {
	case score < standardThreshold:
		return TierSimple
	case score < complexThreshold:
		return TierStandard
	case score < premiumThreshold:
		return TierComplex
	default:
		return TierPremium
	}
}

func distinctCount(styles []string) int {
	seen := make(map[string]struct{}, len(styles))
	for _, s := range styles {
		seen[s] = struct{}{}
	}
	return len(seen)
}
