package fcr

// =============================================================================
// PERFORMANCE BANDS - FCR classified into named efficiency tiers
// =============================================================================

// Band is a named efficiency tier derived from FCR. Lower FCR is better.
type Band struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Desc  string `json:"desc"`
}

// EmptyBand is what callers get when FCR is undefined (no egg mass).
var EmptyBand = Band{Key: "", Label: "-", Desc: "-"}

// Classify maps a finite FCR to its band. Boundary values belong to the
// lower (better) band. Callers must guard non-finite input themselves.
func Classify(fcr float64) Band {
	switch {
	case fcr <= 2.0:
		return Band{Key: "excellent", Label: "Excellent",
			Desc: "Top-tier efficiency. Maintain current practices."}
	case fcr <= 2.4:
		return Band{Key: "good", Label: "Good",
			Desc: "Healthy performance. Small optimizations may help."}
	case fcr <= 2.8:
		return Band{Key: "average", Label: "Average",
			Desc: "Room for improvement. Review management and feed."}
	default:
		return Band{Key: "poor", Label: "Needs Improvement",
			Desc: "Inefficient. Check health, feed quality, and environment."}
	}
}

// BandKeyForValue classifies a pre-formatted FCR string (as stored on
// records) into a band key for table coloring. Empty for "-" or garbage.
func BandKeyForValue(v string) string {
	x, ok := parseFinite(v)
	if !ok {
		return ""
	}
	return Classify(x).Key
}
