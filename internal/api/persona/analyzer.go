package persona

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// Ensure implementation satisfies the interface
var _ Analyzer = (*AnalyzerImpl)(nil)

// Analyzer derives a UserPersona from request preferences and past behavior.
// It is a pure function of its inputs and never fails: unmapped styles fall
// back to the cultural persona and missing history to fixed defaults.
type Analyzer interface {
	Analyze(ctx context.Context, req types.ItineraryRequest, history types.PastBehaviors) types.UserPersona
}

// stylePersonaMap maps requested travel styles to persona types. The table is
// hand-tuned upstream; keep values literal.
var stylePersonaMap = map[string]types.PersonaType{
	"adventure": types.PersonaAdventurer,
	"culture":   types.PersonaCultural,
	"food":      types.PersonaFoodie,
	"relax":     types.PersonaRelaxer,
	"shopping":  types.PersonaShopper,
	"family":    types.PersonaFamily,
}

// styleWeights holds per-style preference increments, applied as weight*0.3
// on top of the 0.5 baseline and capped at 1.0.
var styleWeights = map[string]map[string]float64{
	"adventure": {"nature": 0.8, "activity": 0.9},
	"culture":   {"culture": 0.9},
	"food":      {"food": 0.9},
	"relax":     {"relaxation": 0.9, "nature": 0.6},
	"shopping":  {"shopping": 0.9},
}

// Budget breakpoints for the optional numeric trip budget.
const (
	budgetLowThreshold    = 100000
	budgetLuxuryThreshold = 500000
)

type AnalyzerImpl struct {
	logger *slog.Logger
}

func NewAnalyzer(logger *slog.Logger) *AnalyzerImpl {
	return &AnalyzerImpl{logger: logger}
}

func (a *AnalyzerImpl) Analyze(ctx context.Context, req types.ItineraryRequest, history types.PastBehaviors) types.UserPersona {
	ctx, span := otel.Tracer("PersonaAnalyzer").Start(ctx, "Analyze")
	defer span.End()

	primary := types.PersonaCultural
	var secondary *types.PersonaType

	// First mapped style wins primary, second distinct mapped style wins
	// secondary. Only the first two requested styles are considered.
	matched := false
	for i, style := range req.Styles {
		if i >= 2 {
			break
		}
		pt, ok := stylePersonaMap[style]
		if !ok {
			continue
		}
		if !matched {
			primary = pt
			matched = true
		} else if pt != primary {
			secondary = &pt
		}
	}

	pace := req.Schedule
	if pace == "" {
		pace = types.PaceModerate
	}

	p := types.UserPersona{
		PrimaryType:   primary,
		SecondaryType: secondary,
		TravelPace:    pace,
		BudgetLevel:   budgetLevel(req.Budget),
		Preferences:   calculatePreferences(req.Styles),
		Constraints:   companionConstraints(req.CompanionType),
		PastBehaviors: history,
	}

	span.SetAttributes(
		attribute.String("persona.primary", string(p.PrimaryType)),
		attribute.String("persona.budget_level", string(p.BudgetLevel)),
		attribute.Int("persona.constraints", len(p.Constraints)),
	)
	a.logger.DebugContext(ctx, "Persona analyzed",
		slog.String("primary_type", string(p.PrimaryType)),
		slog.String("travel_pace", string(p.TravelPace)),
	)
	return p
}

// calculatePreferences starts every known category at 0.5 and adds weighted
// increments per matched style, capped at 1.0.
func calculatePreferences(styles []string) map[string]float64 {
	preferences := map[string]float64{
		"culture":    0.5,
		"nature":     0.5,
		"food":       0.5,
		"shopping":   0.5,
		"activity":   0.5,
		"relaxation": 0.5,
	}
	for _, style := range styles {
		weights, ok := styleWeights[style]
		if !ok {
			continue
		}
		for pref, weight := range weights {
			preferences[pref] = min(1.0, preferences[pref]+weight*0.3)
		}
	}
	return preferences
}

func companionConstraints(companion string) []string {
	constraints := []string{}
	switch companion {
	case "family":
		constraints = append(constraints, "child-friendly venues required")
	case "elderly":
		constraints = append(constraints,
			"minimize walking distance",
			"prefer venues with few stairs")
	}
	return constraints
}

func budgetLevel(budget *int) types.BudgetLevel {
	if budget == nil {
		return types.BudgetModerate
	}
	switch {
	case *budget < budgetLowThreshold:
		return types.BudgetLow
	case *budget > budgetLuxuryThreshold:
		return types.BudgetLuxury
	default:
		return types.BudgetModerate
	}
}
