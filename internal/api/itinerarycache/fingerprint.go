package itinerarycache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/FACorreiaa/go-travel-itinerary/internal/types"
)

const keyPrefix = "ai_itinerary:"

// fingerprintFields is the canonical key material. Struct field order fixes
// the JSON property order, so equal inputs always hash identically.
type fingerprintFields struct {
	UserID    string   `json:"user_id"`
	Region    string   `json:"region"`
	Days      int      `json:"days"`
	Styles    []string `json:"styles"`
	Companion string   `json:"companion"`
	Schedule  string   `json:"schedule"`
	Persona   string   `json:"persona"`
}

// Fingerprint derives the deterministic cache key for a request. Styles are
// sorted first so the key is independent of the order the caller sent them in.
func Fingerprint(req types.ItineraryRequest, persona types.UserPersona) string {
	styles := append([]string(nil), req.Styles...)
	sort.Strings(styles)

	payload, _ := json.Marshal(fingerprintFields{
		UserID:    req.UserID.String(),
		Region:    req.Region,
		Days:      req.Days,
		Styles:    styles,
		Companion: req.CompanionType,
		Schedule:  string(req.Schedule),
		Persona:   string(persona.PrimaryType),
	})

	sum := sha256.Sum256(payload)
	return keyPrefix + hex.EncodeToString(sum[:])
}
