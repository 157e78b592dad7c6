package itinerary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-itinerary/internal/api/itinerarycache"
	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

// MockStore is a mock implementation of itinerarycache.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) (*types.Itinerary, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Itinerary), args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, key string, itinerary *types.Itinerary, ttl time.Duration) error {
	args := m.Called(ctx, key, itinerary, ttl)
	return args.Error(0)
}

func catalogFixture() []types.Place {
	return []types.Place{
		{
			ID: "p1", Name: "Gyeongbokgung Palace", Category: types.CategoryCultural,
			Rating: 4.6, ReviewCount: 2400, Description: "Joseon-era royal palace",
			TypicalDurationMinutes: 120,
		},
		{
			ID: "p2", Name: "Tosokchon Samgyetang", Category: types.CategoryFood,
			Rating: 4.4, ReviewCount: 1800, Description: "Ginseng chicken soup restaurant",
			TypicalDurationMinutes: 90,
		},
		{
			ID: "p3", Name: "Bukhansan Trail", Category: types.CategoryNature,
			Rating: 4.7, ReviewCount: 900, Description: "Granite peak day hike",
			TypicalDurationMinutes: 150,
		},
	}
}

func chainFixture(days ...planDay) *ChainResult {
	return &ChainResult{
		Plan:        &detailedPlan{Itinerary: days},
		ModelUsed:   "gemini-2.0-flash",
		TotalTokens: 1234,
	}
}

func mildWeather() types.TravelContext {
	return types.TravelContext{
		Season: types.SeasonSpring,
		Weather: types.WeatherConditions{
			TemperatureRange:    "15-25°C",
			PrecipitationChance: 20,
			Conditions:          []string{"partly_cloudy"},
		},
	}
}

func TestMaterializer_ResolvesPlacesAndWritesCache(t *testing.T) {
	store := itinerarycache.NewMemoryStore()
	m := NewMaterializer(store, time.Hour, testLogger())

	lunch := "lunch"
	chain := chainFixture(planDay{
		Day:   1,
		Theme: "palace day",
		Places: []planPlace{
			{PlaceID: "p1", ArrivalTime: "10:00", DepartureTime: "12:00", DurationMinutes: 120},
			{PlaceID: "p2", ArrivalTime: "12:30", DepartureTime: "14:00", MealType: &lunch},
		},
		TotalDistanceKm: 2.1,
	})
	req := types.ItineraryRequest{Region: "11", Days: 1}

	result, err := m.Materialize(context.Background(), chain, catalogFixture(), req, types.UserPersona{PrimaryType: types.PersonaCultural}, mildWeather(), "key-1")

	require.NoError(t, err)
	require.Len(t, result.Days, 1)
	require.Len(t, result.Days[0].Places, 2)
	assert.Equal(t, types.SourceGenerated, result.Metadata.Source)
	assert.Equal(t, "gemini-2.0-flash", result.Metadata.Model)
	assert.Equal(t, 1234, result.Metadata.TotalTokens)

	first := result.Days[0].Places[0]
	assert.Equal(t, "Gyeongbokgung Palace", first.Name)
	assert.Contains(t, first.Description, "rich in history")

	second := result.Days[0].Places[1]
	require.NotNil(t, second.MealType)
	assert.Equal(t, types.MealLunch, *second.MealType)
	// Missing duration falls back to the catalog's typical value.
	assert.Equal(t, 90, second.DurationMinutes)

	cached, err := store.Get(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, result.Days, cached.Days)
}

func TestMaterializer_DropsUnresolvedAndRepeatedReferences(t *testing.T) {
	m := NewMaterializer(itinerarycache.NewMemoryStore(), time.Hour, testLogger())

	chain := chainFixture(
		planDay{Day: 1, Places: []planPlace{
			{PlaceID: "p1", ArrivalTime: "10:00"},
			{PlaceID: "ghost-place", ArrivalTime: "13:00"},
		}},
		planDay{Day: 2, Places: []planPlace{
			{PlaceID: "p1", ArrivalTime: "10:00"}, // already assigned on day 1
			{PlaceID: "p3", ArrivalTime: "14:00"},
		}},
	)
	req := types.ItineraryRequest{Region: "11", Days: 2}

	result, err := m.Materialize(context.Background(), chain, catalogFixture(), req, types.UserPersona{}, mildWeather(), "key-2")

	require.NoError(t, err)
	require.Len(t, result.Days, 2)
	require.Len(t, result.Days[0].Places, 1)
	require.Len(t, result.Days[1].Places, 1)
	assert.Equal(t, "p1", result.Days[0].Places[0].PlaceID)
	assert.Equal(t, "p3", result.Days[1].Places[0].PlaceID)
}

func TestMaterializer_DayCountMismatchFails(t *testing.T) {
	m := NewMaterializer(itinerarycache.NewMemoryStore(), time.Hour, testLogger())

	chain := chainFixture(planDay{Day: 1, Places: []planPlace{{PlaceID: "p1"}}})
	req := types.ItineraryRequest{Region: "11", Days: 3}

	result, err := m.Materialize(context.Background(), chain, catalogFixture(), req, types.UserPersona{}, mildWeather(), "key-3")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "expected 3")
}

func TestMaterializer_DayNumberOutOfRangeFails(t *testing.T) {
	m := NewMaterializer(itinerarycache.NewMemoryStore(), time.Hour, testLogger())

	chain := chainFixture(
		planDay{Day: 5, Places: []planPlace{{PlaceID: "p1"}}},
		planDay{Day: 9, Places: []planPlace{{PlaceID: "p2"}}},
	)
	req := types.ItineraryRequest{Region: "11", Days: 2}

	result, err := m.Materialize(context.Background(), chain, catalogFixture(), req, types.UserPersona{}, mildWeather(), "key-6")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "outside 1..2")
}

func TestMaterializer_DuplicateDayNumberFails(t *testing.T) {
	m := NewMaterializer(itinerarycache.NewMemoryStore(), time.Hour, testLogger())

	chain := chainFixture(
		planDay{Day: 1, Places: []planPlace{{PlaceID: "p1"}}},
		planDay{Day: 1, Places: []planPlace{{PlaceID: "p2"}}},
	)
	req := types.ItineraryRequest{Region: "11", Days: 2}

	result, err := m.Materialize(context.Background(), chain, catalogFixture(), req, types.UserPersona{}, mildWeather(), "key-7")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "day 1 twice")
}

func TestMaterializer_CacheWriteFailureIsNonFatal(t *testing.T) {
	store := new(MockStore)
	store.On("Set", mock.Anything, "key-4", mock.Anything, time.Hour).
		Return(errors.New("redis connection refused")).Once()
	m := NewMaterializer(store, time.Hour, testLogger())

	chain := chainFixture(planDay{Day: 1, Places: []planPlace{{PlaceID: "p1", ArrivalTime: "10:00"}}})
	req := types.ItineraryRequest{Region: "11", Days: 1}

	result, err := m.Materialize(context.Background(), chain, catalogFixture(), req, types.UserPersona{}, mildWeather(), "key-4")

	require.NoError(t, err)
	require.NotNil(t, result)
	store.AssertExpectations(t)
}

func TestMaterializer_InvalidMealTypeDropped(t *testing.T) {
	m := NewMaterializer(itinerarycache.NewMemoryStore(), time.Hour, testLogger())

	brunch := "second_breakfast"
	chain := chainFixture(planDay{Day: 1, Places: []planPlace{
		{PlaceID: "p2", ArrivalTime: "11:00", MealType: &brunch},
	}})
	req := types.ItineraryRequest{Region: "11", Days: 1}

	result, err := m.Materialize(context.Background(), chain, catalogFixture(), req, types.UserPersona{}, mildWeather(), "key-5")

	require.NoError(t, err)
	assert.Nil(t, result.Days[0].Places[0].MealType)
}

func TestDescribeForPersona_TransitNote(t *testing.T) {
	p := catalogFixture()[0]
	pp := planPlace{TransportToNext: &types.TransportLeg{Mode: "subway", DurationMinutes: 15}}

	got := describeForPersona(p, pp, types.UserPersona{PrimaryType: types.PersonaFoodie})

	assert.Contains(t, got, "Joseon-era royal palace")
	assert.Contains(t, got, "local food picks nearby")
	assert.Contains(t, got, "15 min by subway")
}

func TestBuildDayWeather_Warnings(t *testing.T) {
	tests := []struct {
		name          string
		precipitation int
		wantWarning   string
	}{
		{"dry day", 10, ""},
		{"boundary thirty", 30, ""},
		{"shower likely", 45, "umbrella recommended"},
		{"boundary sixty", 60, "umbrella recommended"},
		{"heavy rain", 80, "umbrella required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tctx := mildWeather()
			tctx.Weather.PrecipitationChance = tt.precipitation

			weather := buildDayWeather(tctx, 3, planDay{Theme: "rain check", TotalDistanceKm: 4.2})

			assert.Equal(t, tt.wantWarning, weather.Warning)
			assert.Equal(t, 3, weather.Stats.TotalPlaces)
			assert.Equal(t, "rain check", weather.Stats.Theme)
		})
	}
}
