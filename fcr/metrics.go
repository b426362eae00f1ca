/*
metrics.go - Derived-metric computation (the pure core)

PURPOSE:
  Maps one day's raw inputs to every derived metric the views show:
  feed conversion ratio, feed per bird, laying percentage (DHP), feed and
  cost per egg, and the performance band.

CONTRACT:
  - Pure and total: no state, no I/O, never an error. A half-filled form
    must still render, so undefined values degrade to "-" (display
    metrics) or nil (cost metrics) instead of failing.
  - Display metrics are formatted here (fixed decimal places). Cost
    metrics stay numeric; FormatMoney renders them per currency.
  - Input coercion happens here and only here: numerics default to zero,
    bird count to one. Call sites never apply their own fallbacks.

SEE ALSO:
  - performance.go: band classification
  - validate.go: the pre-save validation gate (not this file's job)
*/
package fcr

import (
	"math"
	"strconv"
)

// ComputeDerived maps raw daily inputs to all derived metrics.
func ComputeDerived(in DailyInput) DerivedMetrics {
	feed := in.FeedAmount
	eggs := float64(in.EggCount)
	birds := float64(in.BirdCount)
	if birds < 1 {
		birds = 1
	}

	// Core FCR math: kg of feed per kg of egg mass.
	eggMassKg := eggs * (in.EggWeight / 1000)
	fcr := math.NaN()
	if eggMassKg > 0 {
		fcr = feed / eggMassKg
	}

	band := EmptyBand
	if isFinite(fcr) {
		band = Classify(fcr)
	}

	// Secondary metrics. DHP can exceed 100 due to same-day collection
	// timing; the raw value is stored unclamped.
	feedPerBird := feed / birds
	laying := (eggs / birds) * 100
	feedPerEgg := math.NaN()
	if eggs > 0 {
		feedPerEgg = feed / eggs
	}

	// Cost metrics. An unset price yields a real zero cost, not null;
	// null is reserved for non-finite results.
	costFeedTotal := in.FeedPricePerKg * feed
	costPerEgg := math.NaN()
	if eggs > 0 {
		costPerEgg = costFeedTotal / eggs
	}

	return DerivedMetrics{
		FCRValue:            fixed(fcr, 2),
		PerformanceCategory: band.Label,
		PerfKey:             band.Key,
		PerfDesc:            band.Desc,

		FeedPerBird:      fixed(feedPerBird, 2),
		LayingPercentage: fixed(laying, 1),
		FeedPerEgg:       fixed(feedPerEgg, 3),

		CostFeedTotal: finiteOrNil(costFeedTotal),
		CostPerEgg:    finiteOrNil(costPerEgg),
	}
}

// DHP computes the raw "% of hens laying" for a candidate input.
// Zero when the flock size is unknown.
func DHP(eggCount, birdCount int) float64 {
	if birdCount <= 0 {
		return 0
	}
	return float64(eggCount) / float64(birdCount) * 100
}

// AltFeedShare returns the alt-feed fraction of the total ration, 0..1.
func AltFeedShare(feedKg, altKg float64) float64 {
	total := feedKg + altKg
	if total <= 0 {
		return 0
	}
	return altKg / total
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// fixed formats with a fixed number of decimals, "-" when undefined.
func fixed(v float64, decimals int) string {
	if !isFinite(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func finiteOrNil(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}

// parseFinite parses a formatted metric back to a number. False for "-",
// empty strings, and anything else that is not a finite number.
func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}
