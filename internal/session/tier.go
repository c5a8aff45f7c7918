package session

// Tier is the user's subscription level. Tiers are ordered; a higher tier
// unlocks everything below it.
type Tier string

const (
	// TierFree is the signed-out and default tier
	TierFree Tier = "free"
	// TierSpotlight unlocks live camera analysis
	TierSpotlight Tier = "spotlight"
	// TierElite unlocks the calendar planner
	TierElite Tier = "elite"
	// TierIcon unlocks everything
	TierIcon Tier = "icon"
)

var tierRank = map[Tier]int{
	TierFree:      0,
	TierSpotlight: 1,
	TierElite:     2,
	TierIcon:      3,
}

// ParseTier maps a backend tier string onto a known tier. Unknown values
// fall back to free rather than guessing upward.
func ParseTier(s string) Tier {
	t := Tier(s)
	if _, ok := tierRank[t]; ok {
		return t
	}
	return TierFree
}

// Feature is a client-side gated capability.
type Feature string

const (
	// FeatureUpload is single-image analysis
	FeatureUpload Feature = "upload"
	// FeatureLive is continuous camera analysis
	FeatureLive Feature = "live"
	// FeatureCalendar is the outfit planner calendar integration
	FeatureCalendar Feature = "calendar"
)

var featureFloor = map[Feature]Tier{
	FeatureUpload:   TierFree,
	FeatureLive:     TierSpotlight,
	FeatureCalendar: TierElite,
}

// Allows reports whether the tier unlocks the feature. The backend enforces
// the real limits; this only decides what the client offers up front.
func (t Tier) Allows(f Feature) bool {
	floor, ok := featureFloor[f]
	if !ok {
		return false
	}
	return tierRank[t] >= tierRank[floor]
}
