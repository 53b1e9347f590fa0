package matching

// FilterBoost is the multiplier applied to a factor's weight when the user
// explicitly filters on that attribute.
const FilterBoost = 1.5

// Weights holds the per-factor weights applied when combining sub-scores.
type Weights struct {
	Destination    float64 `json:"destination"`
	DateOverlap    float64 `json:"dateOverlap"`
	Budget         float64 `json:"budget"`
	Interests      float64 `json:"interests"`
	Age            float64 `json:"age"`
	Personality    float64 `json:"personality"`
	LocationOrigin float64 `json:"locationOrigin"`
	Lifestyle      float64 `json:"lifestyle"`
	Religion       float64 `json:"religion"`
}

// BaseWeights returns the default weight table, ordered by descending
// priority. The table sums to exactly 1.0.
func BaseWeights() Weights {
	return Weights{
		Destination:    0.25,
		DateOverlap:    0.20,
		Budget:         0.20,
		Interests:      0.10,
		Age:            0.10,
		Personality:    0.05,
		LocationOrigin: 0.05,
		Lifestyle:      0.03,
		Religion:       0.02,
	}
}

// Sum returns the total of all factor weights. The base table sums to 1.0;
// boosted tables can drift above it (see ComputeWeights).
func (w Weights) Sum() float64 {
	return w.Destination + w.DateOverlap + w.Budget + w.Interests + w.Age +
		w.Personality + w.LocationOrigin + w.Lifestyle + w.Religion
}

// ComputeWeights applies filter boosting to the base weight table.
//
// Destination, date overlap and budget are core factors representing hard
// trip logistics and are never boosted. Every other factor present in the
// selection gets its weight multiplied by FilterBoost; the accumulated boost
// delta is then redistributed across the non-core factors that were not
// boosted, scaling each by (1 + delta/remaining).
//
// Gender filters boost the personality weight; smoking and drinking filters
// both boost the lifestyle weight, compounding when selected together. The
// additive redistribution can make the total drift from exactly 1.0 when
// several filters compound on one factor; Sum exposes the drift and the
// engine clamps the final score.
func ComputeWeights(base Weights, filters *FilterSelection) Weights {
	if filters.Empty() {
		return base
	}

	w := base
	totalBoost := 0.0

	var boostedAge, boostedInterests, boostedPersonality, boostedReligion, boostedLifestyle bool

	if filters.Age != nil {
		w.Age *= FilterBoost
		totalBoost += (FilterBoost - 1) * base.Age
		boostedAge = true
	}
	if filters.Gender != nil {
		w.Personality *= FilterBoost
		totalBoost += (FilterBoost - 1) * base.Personality
		boostedPersonality = true
	}
	if filters.Personality != nil {
		w.Personality *= FilterBoost
		totalBoost += (FilterBoost - 1) * base.Personality
		boostedPersonality = true
	}
	if filters.Interests != nil {
		w.Interests *= FilterBoost
		totalBoost += (FilterBoost - 1) * base.Interests
		boostedInterests = true
	}
	if filters.Religion != nil {
		w.Religion *= FilterBoost
		totalBoost += (FilterBoost - 1) * base.Religion
		boostedReligion = true
	}
	if filters.Smoking != nil {
		w.Lifestyle *= FilterBoost
		totalBoost += (FilterBoost - 1) * base.Lifestyle
		boostedLifestyle = true
	}
	if filters.Drinking != nil {
		w.Lifestyle *= FilterBoost
		totalBoost += (FilterBoost - 1) * base.Lifestyle
		boostedLifestyle = true
	}

	if totalBoost <= 0 {
		return w
	}

	remaining := 0.0
	if !boostedInterests {
		remaining += w.Interests
	}
	if !boostedAge {
		remaining += w.Age
	}
	if !boostedPersonality {
		remaining += w.Personality
	}
	if !boostedLifestyle {
		remaining += w.Lifestyle
	}
	if !boostedReligion {
		remaining += w.Religion
	}
	remaining += w.LocationOrigin // location origin has no filter, never boosted

	if remaining <= 0 {
		return w
	}

	factor := 1 + totalBoost/remaining
	if !boostedInterests {
		w.Interests *= factor
	}
	if !boostedAge {
		w.Age *= factor
	}
	if !boostedPersonality {
		w.Personality *= factor
	}
	if !boostedLifestyle {
		w.Lifestyle *= factor
	}
	if !boostedReligion {
		w.Religion *= factor
	}
	w.LocationOrigin *= factor

	return w
}
