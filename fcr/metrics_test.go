package fcr_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/fcr-engine/fcr"
)

// =============================================================================
// DERIVED METRIC TESTS
// =============================================================================

func TestComputeDerived_FullInput(t *testing.T) {
	// GIVEN: 50 kg of feed, 100 eggs at 60 g, 50 hens, feed at 3 per kg
	// WHEN: Computing derived metrics
	// THEN: Every metric is defined and formatted with its fixed decimals

	m := fcr.ComputeDerived(fcr.DailyInput{
		FeedAmount:     50,
		EggCount:       100,
		EggWeight:      60,
		BirdCount:      50,
		FeedPricePerKg: 3,
	})

	// 50 kg feed / 6 kg egg mass
	assert.Equal(t, "8.33", m.FCRValue)
	assert.Equal(t, "Needs Improvement", m.PerformanceCategory)
	assert.Equal(t, "poor", m.PerfKey)

	assert.Equal(t, "1.00", m.FeedPerBird)
	assert.Equal(t, "200.0", m.LayingPercentage)
	assert.Equal(t, "0.500", m.FeedPerEgg)

	require.NotNil(t, m.CostFeedTotal)
	assert.InDelta(t, 150, *m.CostFeedTotal, 1e-9)
	require.NotNil(t, m.CostPerEgg)
	assert.InDelta(t, 1.5, *m.CostPerEgg, 1e-9)
}

func TestComputeDerived_NoEggMass(t *testing.T) {
	// GIVEN: Feed was dispensed but no eggs were collected
	// WHEN: Computing derived metrics
	// THEN: FCR and per-egg metrics degrade to "-" / nil, the band is empty

	m := fcr.ComputeDerived(fcr.DailyInput{
		FeedAmount: 10,
		EggCount:   0,
		EggWeight:  60,
		BirdCount:  20,
	})

	assert.Equal(t, "-", m.FCRValue)
	assert.Equal(t, "-", m.PerformanceCategory)
	assert.Equal(t, "", m.PerfKey)
	assert.Equal(t, "-", m.FeedPerEgg)
	assert.Nil(t, m.CostPerEgg, "division by zero eggs is undefined")

	// Per-bird metrics still render
	assert.Equal(t, "0.50", m.FeedPerBird)
	assert.Equal(t, "0.0", m.LayingPercentage)
}

func TestComputeDerived_UnpricedFeedCostsZero(t *testing.T) {
	// GIVEN: A complete entry with no feed price set
	// WHEN: Computing derived metrics
	// THEN: Costs are a real zero, not null; null is reserved for
	//       non-finite results

	m := fcr.ComputeDerived(fcr.DailyInput{
		FeedAmount: 5,
		EggCount:   10,
		EggWeight:  60,
		BirdCount:  10,
	})

	require.NotNil(t, m.CostFeedTotal)
	assert.Zero(t, *m.CostFeedTotal)
	require.NotNil(t, m.CostPerEgg)
	assert.Zero(t, *m.CostPerEgg)
}

func TestComputeDerived_BirdCountDefaultsToOne(t *testing.T) {
	// GIVEN: No bird count entered
	// WHEN: Computing derived metrics
	// THEN: Per-bird metrics divide by one instead of blowing up

	m := fcr.ComputeDerived(fcr.DailyInput{
		FeedAmount: 2,
		EggCount:   1,
		EggWeight:  50,
	})

	assert.Equal(t, "2.00", m.FeedPerBird)
	assert.Equal(t, "100.0", m.LayingPercentage)
}

func TestComputeDerived_ZeroWeightEggs(t *testing.T) {
	// GIVEN: Eggs counted but weight left at zero
	// WHEN: Computing derived metrics
	// THEN: No egg mass means no FCR, but feed-per-egg still works

	m := fcr.ComputeDerived(fcr.DailyInput{
		FeedAmount: 5,
		EggCount:   10,
		BirdCount:  10,
	})

	assert.Equal(t, "-", m.FCRValue)
	assert.Equal(t, "0.500", m.FeedPerEgg)
}

func TestComputeDerived_LayingUnclamped(t *testing.T) {
	// GIVEN: More eggs than hens (carryover from the previous evening)
	// WHEN: Computing derived metrics
	// THEN: Laying percentage is stored raw, above 100

	m := fcr.ComputeDerived(fcr.DailyInput{
		FeedAmount: 12,
		EggCount:   13,
		EggWeight:  60,
		BirdCount:  10,
	})

	assert.Equal(t, "130.0", m.LayingPercentage)
}

func TestComputeDerived_FCRSurvivesFormatting(t *testing.T) {
	// GIVEN: Entries across the realistic FCR range
	// WHEN: Formatting the ratio and parsing it back
	// THEN: The round trip stays within half of the last printed digit

	cases := []struct {
		name string
		in   fcr.DailyInput
	}{
		{"elite ration", fcr.DailyInput{FeedAmount: 10.8, EggCount: 100, EggWeight: 62, BirdCount: 110}},
		{"typical barn", fcr.DailyInput{FeedAmount: 12, EggCount: 90, EggWeight: 60, BirdCount: 100}},
		{"heavy feed day", fcr.DailyInput{FeedAmount: 19.7, EggCount: 85, EggWeight: 58.5, BirdCount: 96}},
		{"tiny backyard flock", fcr.DailyInput{FeedAmount: 0.43, EggCount: 3, EggWeight: 55, BirdCount: 4}},
		{"single small egg", fcr.DailyInput{FeedAmount: 25, EggCount: 1, EggWeight: 41, BirdCount: 200}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := fcr.ComputeDerived(tc.in)
			parsed, err := strconv.ParseFloat(m.FCRValue, 64)
			require.NoError(t, err)

			exact := tc.in.FeedAmount / (float64(tc.in.EggCount) * tc.in.EggWeight / 1000)
			assert.InDelta(t, exact, parsed, 0.005)
		})
	}
}

// =============================================================================
// DHP AND ALT-FEED SHARE
// =============================================================================

func TestDHP(t *testing.T) {
	assert.InDelta(t, 130.0, fcr.DHP(13, 10), 1e-9)
	assert.InDelta(t, 0.0, fcr.DHP(5, 0), 1e-9, "unknown flock size yields zero")
}

func TestAltFeedShare(t *testing.T) {
	assert.InDelta(t, 0.2, fcr.AltFeedShare(8, 2), 1e-9)
	assert.InDelta(t, 0.0, fcr.AltFeedShare(0, 0), 1e-9)
	assert.InDelta(t, 1.0, fcr.AltFeedShare(0, 5), 1e-9)
}
