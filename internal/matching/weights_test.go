package matching_test

import (
	"math"
	"testing"

	"github.com/wandermate/wandermate/internal/matching"
)

func TestBaseWeights_SumToOne(t *testing.T) {
	sum := matching.BaseWeights().Sum()
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("base weights sum = %v, want 1.0", sum)
	}
}

func TestComputeWeights_NoFilters(t *testing.T) {
	base := matching.BaseWeights()

	if got := matching.ComputeWeights(base, nil); got != base {
		t.Errorf("nil selection changed weights: %+v", got)
	}
	if got := matching.ComputeWeights(base, &matching.FilterSelection{}); got != base {
		t.Errorf("empty selection changed weights: %+v", got)
	}
}

func TestComputeWeights_SingleBoost(t *testing.T) {
	base := matching.BaseWeights()
	filters := &matching.FilterSelection{Age: &matching.RangeFilter{Min: 20, Max: 30}}

	got := matching.ComputeWeights(base, filters)

	wantAge := base.Age * matching.FilterBoost
	if math.Abs(got.Age-wantAge) > 1e-9 {
		t.Errorf("boosted age weight = %v, want %v", got.Age, wantAge)
	}

	// Core factors stay untouched.
	if got.Destination != base.Destination || got.DateOverlap != base.DateOverlap || got.Budget != base.Budget {
		t.Errorf("core weights changed: %+v", got)
	}

	// The boost delta is spread over the non-core non-boosted factors.
	delta := (matching.FilterBoost - 1) * base.Age
	remaining := base.Interests + base.Personality + base.LocationOrigin + base.Lifestyle + base.Religion
	factor := 1 + delta/remaining

	if math.Abs(got.Interests-base.Interests*factor) > 1e-9 {
		t.Errorf("interests weight = %v, want %v", got.Interests, base.Interests*factor)
	}
	if math.Abs(got.Religion-base.Religion*factor) > 1e-9 {
		t.Errorf("religion weight = %v, want %v", got.Religion, base.Religion*factor)
	}
}

func TestComputeWeights_GenderMapsToPersonality(t *testing.T) {
	base := matching.BaseWeights()
	filters := &matching.FilterSelection{Gender: &matching.ValueFilter{Value: "female"}}

	got := matching.ComputeWeights(base, filters)

	want := base.Personality * matching.FilterBoost
	if math.Abs(got.Personality-want) > 1e-9 {
		t.Errorf("personality weight = %v, want %v", got.Personality, want)
	}
}

func TestComputeWeights_CompoundingLifestyleBoost(t *testing.T) {
	base := matching.BaseWeights()
	filters := &matching.FilterSelection{
		Smoking:  &matching.ValueFilter{Value: "no"},
		Drinking: &matching.ValueFilter{Value: "socially"},
	}

	got := matching.ComputeWeights(base, filters)

	// Smoking and drinking both map to lifestyle, compounding the multiplier.
	want := base.Lifestyle * matching.FilterBoost * matching.FilterBoost
	if math.Abs(got.Lifestyle-want) > 1e-9 {
		t.Errorf("lifestyle weight = %v, want %v", got.Lifestyle, want)
	}
}

func TestComputeWeights_BoostMonotonicity(t *testing.T) {
	base := matching.BaseWeights()

	tests := []struct {
		name    string
		filters *matching.FilterSelection
		weight  func(matching.Weights) float64
	}{
		{
			name:    "age",
			filters: &matching.FilterSelection{Age: &matching.RangeFilter{Min: 18, Max: 35}},
			weight:  func(w matching.Weights) float64 { return w.Age },
		},
		{
			name:    "interests",
			filters: &matching.FilterSelection{Interests: &matching.ValuesFilter{Values: []string{"hiking"}}},
			weight:  func(w matching.Weights) float64 { return w.Interests },
		},
		{
			name:    "religion",
			filters: &matching.FilterSelection{Religion: &matching.ValueFilter{Value: "hindu"}},
			weight:  func(w matching.Weights) float64 { return w.Religion },
		},
		{
			name:    "personality",
			filters: &matching.FilterSelection{Personality: &matching.ValueFilter{Value: "ambivert"}},
			weight:  func(w matching.Weights) float64 { return w.Personality },
		},
		{
			name:    "smoking",
			filters: &matching.FilterSelection{Smoking: &matching.ValueFilter{Value: "no"}},
			weight:  func(w matching.Weights) float64 { return w.Lifestyle },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boosted := matching.ComputeWeights(base, tt.filters)
			if tt.weight(boosted) < tt.weight(base) {
				t.Errorf("boosting %s decreased its weight: %v < %v",
					tt.name, tt.weight(boosted), tt.weight(base))
			}
		})
	}
}

func TestComputeWeights_SumStaysNearOne(t *testing.T) {
	base := matching.BaseWeights()
	filters := &matching.FilterSelection{
		Age:      &matching.RangeFilter{Min: 20, Max: 30},
		Religion: &matching.ValueFilter{Value: "hindu"},
	}

	got := matching.ComputeWeights(base, filters)

	// The additive redistribution is not a strict renormalization; the sum is
	// allowed to drift, but it must stay in a sane neighborhood of 1.0.
	sum := got.Sum()
	if sum < 0.99 || sum > 1.2 {
		t.Errorf("weight sum after boosting = %v, want within [0.99, 1.2]", sum)
	}
}
