package itinerarycache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

func sampleRequest() types.ItineraryRequest {
	return types.ItineraryRequest{
		UserID:        uuid.MustParse("5a0d0c2e-8a2f-4c76-9f3a-2b53b3b9a111"),
		Region:        "11",
		Days:          2,
		CompanionType: "solo",
		Styles:        []string{"culture", "food"},
		Schedule:      types.PaceRelaxed,
	}
}

func samplePersona() types.UserPersona {
	return types.UserPersona{PrimaryType: types.PersonaCultural}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint(sampleRequest(), samplePersona())
	b := Fingerprint(sampleRequest(), samplePersona())
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "ai_itinerary:"))
}

func TestFingerprint_StyleOrderIndependent(t *testing.T) {
	req := sampleRequest()
	shuffled := sampleRequest()
	shuffled.Styles = []string{"food", "culture"}

	assert.Equal(t, Fingerprint(req, samplePersona()), Fingerprint(shuffled, samplePersona()))
}

func TestFingerprint_DoesNotMutateStyles(t *testing.T) {
	req := sampleRequest()
	req.Styles = []string{"food", "culture"}
	Fingerprint(req, samplePersona())
	assert.Equal(t, []string{"food", "culture"}, req.Styles)
}

func TestFingerprint_VariesPerField(t *testing.T) {
	base := Fingerprint(sampleRequest(), samplePersona())

	byDays := sampleRequest()
	byDays.Days = 3
	assert.NotEqual(t, base, Fingerprint(byDays, samplePersona()))

	byRegion := sampleRequest()
	byRegion.Region = "26"
	assert.NotEqual(t, base, Fingerprint(byRegion, samplePersona()))

	byPersona := samplePersona()
	byPersona.PrimaryType = types.PersonaFoodie
	assert.NotEqual(t, base, Fingerprint(sampleRequest(), byPersona))
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	itinerary := &types.Itinerary{
		Days:     []types.DayItinerary{{Day: 1}},
		Metadata: types.ItineraryMetadata{Source: types.SourceGenerated},
	}

	require.NoError(t, store.Set(ctx, "k", itinerary, time.Hour))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, itinerary, got)
}

func TestMemoryStore_MissIsSentinel(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, types.ErrCacheMiss)
}

func TestMemoryStore_EntriesExpire(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", &types.Itinerary{}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, types.ErrCacheMiss)
}
