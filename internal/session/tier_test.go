package session

import "testing"

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{"free", TierFree},
		{"spotlight", TierSpotlight},
		{"elite", TierElite},
		{"icon", TierIcon},
		{"", TierFree},
		{"platinum", TierFree},
	}

	for _, tt := range tests {
		if got := ParseTier(tt.in); got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTier_Allows(t *testing.T) {
	tests := []struct {
		tier    Tier
		feature Feature
		want    bool
	}{
		{TierFree, FeatureUpload, true},
		{TierFree, FeatureLive, false},
		{TierFree, FeatureCalendar, false},
		{TierSpotlight, FeatureLive, true},
		{TierSpotlight, FeatureCalendar, false},
		{TierElite, FeatureCalendar, true},
		{TierIcon, FeatureUpload, true},
		{TierIcon, FeatureLive, true},
		{TierIcon, FeatureCalendar, true},
	}

	for _, tt := range tests {
		if got := tt.tier.Allows(tt.feature); got != tt.want {
			t.Errorf("%s.Allows(%s) = %v, want %v", tt.tier, tt.feature, got, tt.want)
		}
	}

	if TierIcon.Allows(Feature("unknown")) {
		t.Error("unknown features must be denied")
	}
}
