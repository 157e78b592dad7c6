package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	generativeAI "github.com/FACorreiaa/go-travel-itinerary/internal/api/generative_ai"
	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// MockAIClient is a mock implementation of generativeAI.Client
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) Complete(ctx context.Context, prompt string, tier generativeAI.ModelTier, temperature float32) (*generativeAI.Completion, error) {
	args := m.Called(ctx, prompt, tier, temperature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generativeAI.Completion), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fastRetryPolicy keeps retry tests well under a second.
func fastRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}
}

func chainRequest(days int) types.ItineraryRequest {
	return types.ItineraryRequest{
		Region:   "11",
		Days:     days,
		Styles:   []string{"food"},
		Schedule: types.PaceRelaxed,
	}
}

const validDetailJSON = `{
  "itinerary": [
    {
      "day": 1,
      "theme": "old town",
      "places": [
        {"place_id": "p1", "arrival_time": "10:00", "departure_time": "12:00", "duration_minutes": 120}
      ],
      "tips": ["wear comfortable shoes"],
      "total_distance_km": 3.5,
      "walking_time_minutes": 40
    }
  ]
}`

func TestOrchestrator_Run_Success(t *testing.T) {
	client := new(MockAIClient)
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierStandard, analysisTemperature).
		Return(&generativeAI.Completion{Text: `{"persona_alignment": "high"}`, ModelUsed: "gemini-2.0-flash", TotalTokens: 100}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierStandard, strategyTemperature).
		Return(&generativeAI.Completion{Text: `{"daily_themes": ["old town"]}`, ModelUsed: "gemini-2.0-flash", TotalTokens: 200}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierStandard, detailTemperature).
		Return(&generativeAI.Completion{Text: validDetailJSON, ModelUsed: "gemini-2.0-flash", TotalTokens: 300}, nil).Once()

	o := NewOrchestrator(client, fastRetryPolicy(), testLogger())
	result, err := o.Run(context.Background(), chainRequest(1), types.UserPersona{}, types.TravelContext{}, types.CategorizedPlaces{}, generativeAI.TierStandard)

	require.NoError(t, err)
	require.NotNil(t, result.Plan)
	assert.Len(t, result.Plan.Itinerary, 1)
	assert.Equal(t, "old town", result.Plan.Itinerary[0].Theme)
	assert.Equal(t, 600, result.TotalTokens)
	assert.Equal(t, "gemini-2.0-flash", result.ModelUsed)
	client.AssertExpectations(t)
}

func TestOrchestrator_Run_StrategyFailureAbortsChain(t *testing.T) {
	client := new(MockAIClient)
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierSimple, analysisTemperature).
		Return(&generativeAI.Completion{Text: `{"ok": true}`, ModelUsed: "gemini-2.0-flash-lite", TotalTokens: 50}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierSimple, strategyTemperature).
		Return(nil, errors.New("model overloaded")).Times(3)

	o := NewOrchestrator(client, fastRetryPolicy(), testLogger())
	result, err := o.Run(context.Background(), chainRequest(2), types.UserPersona{}, types.TravelContext{}, types.CategorizedPlaces{}, generativeAI.TierSimple)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, types.ErrUpstreamModel)
	assert.Contains(t, err.Error(), "strategy")
	// The detail stage must never run, and analysis must not be re-run.
	client.AssertNumberOfCalls(t, "Complete", 4)
	client.AssertExpectations(t)
}

func TestOrchestrator_ZeroMaxAttemptsClampedToSingleTry(t *testing.T) {
	client := new(MockAIClient)
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierSimple, analysisTemperature).
		Return(nil, errors.New("model overloaded")).Once()

	policy := RetryPolicy{InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
	o := NewOrchestrator(client, policy, testLogger())
	result, err := o.Run(context.Background(), chainRequest(1), types.UserPersona{}, types.TravelContext{}, types.CategorizedPlaces{}, generativeAI.TierSimple)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, types.ErrUpstreamModel)
	client.AssertNumberOfCalls(t, "Complete", 1)
	client.AssertExpectations(t)
}

func TestOrchestrator_Run_MalformedJSONRetriedThenSucceeds(t *testing.T) {
	client := new(MockAIClient)
	// First analysis attempt returns prose, second a valid object.
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierSimple, analysisTemperature).
		Return(&generativeAI.Completion{Text: `I am unable to produce output right now`, TotalTokens: 10}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierSimple, analysisTemperature).
		Return(&generativeAI.Completion{Text: `{"ok": true}`, ModelUsed: "gemini-2.0-flash-lite", TotalTokens: 40}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierSimple, strategyTemperature).
		Return(&generativeAI.Completion{Text: `{"themes": []}`, ModelUsed: "gemini-2.0-flash-lite", TotalTokens: 40}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierSimple, detailTemperature).
		Return(&generativeAI.Completion{Text: validDetailJSON, ModelUsed: "gemini-2.0-flash-lite", TotalTokens: 100}, nil).Once()

	o := NewOrchestrator(client, fastRetryPolicy(), testLogger())
	result, err := o.Run(context.Background(), chainRequest(1), types.UserPersona{}, types.TravelContext{}, types.CategorizedPlaces{}, generativeAI.TierSimple)

	require.NoError(t, err)
	require.NotNil(t, result.Plan)
	client.AssertExpectations(t)
}

func TestOrchestrator_Run_SerializationErrorSurfacesAfterRetries(t *testing.T) {
	client := new(MockAIClient)
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierSimple, analysisTemperature).
		Return(&generativeAI.Completion{Text: `not json at all`, TotalTokens: 5}, nil).Times(3)

	o := NewOrchestrator(client, fastRetryPolicy(), testLogger())
	result, err := o.Run(context.Background(), chainRequest(1), types.UserPersona{}, types.TravelContext{}, types.CategorizedPlaces{}, generativeAI.TierSimple)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, types.ErrSerialization)
	client.AssertExpectations(t)
}

func TestOrchestrator_Run_FencedJSONAccepted(t *testing.T) {
	fenced := "```json\n" + validDetailJSON + "\n```"
	client := new(MockAIClient)
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierPremium, analysisTemperature).
		Return(&generativeAI.Completion{Text: `{"ok": true}`, ModelUsed: "gemini-2.5-pro", TotalTokens: 10}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierPremium, strategyTemperature).
		Return(&generativeAI.Completion{Text: `{"ok": true}`, ModelUsed: "gemini-2.5-pro", TotalTokens: 10}, nil).Once()
	client.On("Complete", mock.Anything, mock.Anything, generativeAI.TierPremium, detailTemperature).
		Return(&generativeAI.Completion{Text: fenced, ModelUsed: "gemini-2.5-pro", TotalTokens: 10}, nil).Once()

	o := NewOrchestrator(client, fastRetryPolicy(), testLogger())
	result, err := o.Run(context.Background(), chainRequest(1), types.UserPersona{}, types.TravelContext{}, types.CategorizedPlaces{}, generativeAI.TierPremium)

	require.NoError(t, err)
	require.Len(t, result.Plan.Itinerary, 1)
	client.AssertExpectations(t)
}

func TestDecodeStageJSON_RepairsTrailingComma(t *testing.T) {
	var out map[string]any
	err := decodeStageJSON(`{"a": 1, "b": [1, 2,],}`, &out)
	require.NoError(t, err)
	assert.Equal(t, float64(1), out["a"])
}

func TestCleanJSONResponse_StripsSurroundingProse(t *testing.T) {
	raw := "Here is your plan:\n{\"a\": 1}\nLet me know if you need changes."
	assert.Equal(t, `{"a": 1}`, cleanJSONResponse(raw))
}
