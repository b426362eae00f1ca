/*
validate.go - The single pre-save validation gate

PURPOSE:
  Every persistence-affecting path runs exactly this check, once, before
  any duplicate resolution or computation-for-save happens. Preview-only
  computation is always allowed; saving is not.

RULES:
  - Feed and eggs must be valid positive numbers
  - Egg weight must be a realistic 10-200 g
  - DHP (eggs / hens * 100) must not exceed 130%: values above 100 happen
    with same-day collection timing, values above 130 are data errors
*/
package fcr

import "fmt"

const (
	MinEggWeightG = 10
	MaxEggWeightG = 200

	// MaxDHP is the canonical data-quality ceiling for % of hens laying.
	MaxDHP = 130.0
)

// ValidateInput checks a candidate input before it may reach the
// duplicate resolver. A nil return means the input may be persisted
// (subject to duplicate resolution).
func ValidateInput(in DailyInput) error {
	if in.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "a date is required"}
	}
	if _, err := ParseDay(string(in.Date)); err != nil {
		return &ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"}
	}
	if in.FeedAmount <= 0 || in.EggCount <= 0 {
		return &ValidationError{Message: "Please fill in Feed and Eggs with valid numbers"}
	}
	if in.EggWeight < MinEggWeightG || in.EggWeight > MaxEggWeightG {
		return &ValidationError{Field: "eggWeight",
			Message: fmt.Sprintf("Please set a realistic egg weight (%d-%d g)", MinEggWeightG, MaxEggWeightG)}
	}
	if in.AltFeedKg < 0 {
		return &ValidationError{Field: "altFeedKg", Message: "alt feed cannot be negative"}
	}

	if dhp := DHP(in.EggCount, in.BirdCount); dhp > MaxDHP {
		return &ValidationError{Field: "eggCount",
			Message: fmt.Sprintf("This entry gives %% of hens laying (DHP) of %.1f%%. For data quality only up to %.0f%% is accepted.", dhp, MaxDHP)}
	}
	return nil
}
