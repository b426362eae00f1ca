/*
Package fcr provides the core poultry record-keeping engine.

PURPOSE:
  This package contains the domain types and algorithms for daily flock
  records: computing feed-conversion metrics from raw inputs, keeping the
  one-record-per-flock-per-day invariant, projecting calendar events from
  saved records, and migrating previously persisted rows to the current
  schema.

KEY CONCEPTS IN THIS FILE (types.go):
  - Day: a local calendar day (YYYY-MM-DD), the unit of record identity
  - DailyInput: the raw, UI-sourced numbers for one flock on one day
  - DerivedMetrics: everything computed from a DailyInput (FCR, costs, ...)
  - Record: the persisted entity, keyed by (date, flock name)
  - CalendarEvent: a derived, non-owning projection of a Record (or a note)
  - Flock: the bird group a record belongs to

DESIGN PRINCIPLES:
  1. One identity rule: Record.ID is always date + "|" + flock name
  2. Records own the truth; calendar events only hold a back-reference
  3. Computation never fails: partial input degrades to "-" / null
  4. Deleting a flock never deletes its records (history is evidence)

SEE ALSO:
  - metrics.go: derived-metric computation
  - store.go: persistence interfaces
  - projector.go: calendar event projection
*/
package fcr

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DAY - Local calendar day (never UTC-shifted)
// =============================================================================

// Day is a local calendar day in ISO form, e.g. "2025-09-01".
// Days compare correctly as strings, which the whole engine relies on.
type Day string

const dayLayout = "2006-01-02"

// ParseDay validates an ISO date string.
func ParseDay(s string) (Day, error) {
	if _, err := time.ParseInLocation(dayLayout, s, time.Local); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day(s), nil
}

// DayOf truncates a time to its local calendar day.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// Today returns the current local calendar day.
func Today() Day {
	return DayOf(time.Now())
}

func (d Day) Before(other Day) bool { return string(d) < string(other) }
func (d Day) After(other Day) bool  { return string(d) > string(other) }
func (d Day) IsZero() bool          { return d == "" }

// IsFuture reports whether the day is strictly after today.
// Future days may carry note reminders but never feed/egg data.
func (d Day) IsFuture() bool { return d.After(Today()) }

// IsPast reports whether the day is strictly before today.
func (d Day) IsPast() bool { return d.Before(Today()) }

func (d Day) String() string { return string(d) }

// Time returns local midnight of the day. Zero time for a zero Day.
func (d Day) Time() time.Time {
	t, err := time.ParseInLocation(dayLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type FlockID string
type RecordID string
type EventID string

// RecordKey builds the natural key for a record: date + "|" + flock name.
// A missing flock name falls back to "default" so legacy rows stay addressable.
func RecordKey(date Day, flockName string) RecordID {
	if flockName == "" {
		flockName = "default"
	}
	return RecordID(string(date) + "|" + flockName)
}

// =============================================================================
// DAILY INPUT - Raw, ephemeral UI values for one flock on one day
// =============================================================================

// DailyInput carries the raw numbers entered for a single day. All fields
// are optional at this level; Compute coerces them (zero defaults, birds
// fall back to 1). Validation is a separate, earlier step (ValidateInput).
type DailyInput struct {
	Date      Day     `json:"date"`
	FlockID   FlockID `json:"flockId"`
	FlockName string  `json:"flockName"`

	FeedAmount     float64 `json:"feedAmount"`     // kg of priced feed
	EggCount       int     `json:"eggCount"`       // eggs collected
	EggWeight      float64 `json:"eggWeight"`      // g per egg
	BirdCount      int     `json:"birdCount"`      // hens in the flock
	FeedPricePerKg float64 `json:"feedPricePerKg"` // currency units per kg

	AltFeedKg   float64 `json:"altFeedKg"` // supplementary non-purchased feed
	AltFeedName string  `json:"altFeedName"`

	Weather string `json:"weather"`
	Notes   string `json:"notes"`
}

// =============================================================================
// DERIVED METRICS - Everything computed from a DailyInput
// =============================================================================

// DerivedMetrics is the output of the metrics engine. Display metrics are
// pre-formatted strings ("-" when undefined); cost metrics stay numeric
// (nil when undefined) because an external currency formatter renders them.
type DerivedMetrics struct {
	FCRValue            string `json:"fcrValue"`            // 2 decimals or "-"
	PerformanceCategory string `json:"performanceCategory"` // band label
	PerfKey             string `json:"perfKey"`             // band key, may be ""
	PerfDesc            string `json:"perfDesc"`

	FeedPerBird      string `json:"feedPerBird"`      // kg/bird, 2 decimals or "-"
	LayingPercentage string `json:"layingPercentage"` // DHP %, 1 decimal or "-"
	FeedPerEgg       string `json:"feedPerEgg"`       // kg/egg, 3 decimals or "-"

	CostFeedTotal *float64 `json:"costFeedTotal"` // "Today's Feed Cost"
	CostPerEgg    *float64 `json:"costPerEgg"`
}

// =============================================================================
// RECORD - The persisted entity (input + derived + identity)
// =============================================================================

// Record is the primary persisted entity: one per (date, flock name).
// It is owned exclusively by the RecordStore; the calendar projection only
// keeps a RefID back to it.
type Record struct {
	ID           RecordID `json:"id"`
	FlockID      FlockID  `json:"flockId"`
	FlockName    string   `json:"flockName"`
	CurrencyCode string   `json:"currencyCode"`

	Date           Day     `json:"date"`
	FeedAmount     float64 `json:"feedAmount"`
	EggCount       int     `json:"eggCount"`
	EggWeight      float64 `json:"eggWeight"`
	BirdCount      int     `json:"birdCount"`
	FeedPricePerKg float64 `json:"feedPricePerKg"`
	AltFeedKg      float64 `json:"altFeedKg"`
	AltFeedName    string  `json:"altFeedName"`
	Weather        string  `json:"weather"`
	Notes          string  `json:"notes"`

	FCRValue            string   `json:"fcrValue,omitempty"`
	PerformanceCategory string   `json:"performanceCategory,omitempty"`
	PerfKey             string   `json:"perfKey,omitempty"`
	FeedPerBird         string   `json:"feedPerBird,omitempty"`
	LayingPercentage    string   `json:"layingPercentage,omitempty"`
	FeedPerEgg          string   `json:"feedPerEgg,omitempty"`
	CostFeedTotal       *float64 `json:"costFeedTotal,omitempty"`
	CostPerEgg          *float64 `json:"costPerEgg,omitempty"`

	// ApproxSaved estimates money not spent thanks to alt feed.
	ApproxSaved float64 `json:"approxSaved,omitempty"`

	// Deaths is deprecated and removed by the migration pass. It only
	// exists so old persisted rows still decode.
	Deaths *int `json:"deaths,omitempty"`
}

// Input extracts the raw input fields back out of a record, for recomputing
// derived values with the current math.
func (r Record) Input() DailyInput {
	return DailyInput{
		Date:           r.Date,
		FlockID:        r.FlockID,
		FlockName:      r.FlockName,
		FeedAmount:     r.FeedAmount,
		EggCount:       r.EggCount,
		EggWeight:      r.EggWeight,
		BirdCount:      r.BirdCount,
		FeedPricePerKg: r.FeedPricePerKg,
		AltFeedKg:      r.AltFeedKg,
		AltFeedName:    r.AltFeedName,
		Weather:        r.Weather,
		Notes:          r.Notes,
	}
}

// ApplyMetrics copies derived values onto the record.
func (r *Record) ApplyMetrics(m DerivedMetrics) {
	r.FCRValue = m.FCRValue
	r.PerformanceCategory = m.PerformanceCategory
	r.PerfKey = m.PerfKey
	r.FeedPerBird = m.FeedPerBird
	r.LayingPercentage = m.LayingPercentage
	r.FeedPerEgg = m.FeedPerEgg
	r.CostFeedTotal = m.CostFeedTotal
	r.CostPerEgg = m.CostPerEgg
	r.ApproxSaved = r.AltFeedKg * r.FeedPricePerKg
}

// SameKey reports whether the record occupies the given (date, flock name)
// slot. Flock names compare case-insensitively, matching lookup behavior.
func (r Record) SameKey(date Day, flockName string) bool {
	return r.Date == date && strings.EqualFold(r.FlockName, flockName)
}

// =============================================================================
// CALENDAR EVENT - Derived projection (never the source of truth)
// =============================================================================

type EventType string

const (
	EventFCR  EventType = "fcr"  // one per saved record, tied by RefID
	EventNote EventType = "note" // free-standing reminder, future dates
)

// CalendarEvent is an entry in the calendar view. For EventFCR the RefID
// points at the owning Record; for EventNote there is no owner.
type CalendarEvent struct {
	ID          EventID   `json:"id"`
	Type        EventType `json:"type"`
	RefID       RecordID  `json:"refId,omitempty"`
	Date        Day       `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Performance string    `json:"performance"` // lowercased band key, "" for notes
	Notes       string    `json:"notes"`
	Weather     string    `json:"weather"`
	FlockID     FlockID   `json:"flockId,omitempty"`
	FlockName   string    `json:"flockName,omitempty"`
}

// =============================================================================
// FLOCK - The bird group records belong to
// =============================================================================

// Flock holds per-flock defaults used when entering a day. Deleting a flock
// does not cascade to its records.
type Flock struct {
	ID          FlockID  `json:"id"`
	Name        string   `json:"name"`
	Birds       int      `json:"birds"`
	EggWeight   *float64 `json:"eggWeight"` // g, nil until measured
	FeedBagKg   float64  `json:"feedBagKg"`
	FeedBagCost float64  `json:"feedBagCost"`
	AgeWeeks    *int     `json:"ageWeeks"`
	Notes       string   `json:"notes"`
}

// PricePerKg derives the feed price from bag size and cost.
// Zero when either is unset.
func (f Flock) PricePerKg() float64 {
	if f.FeedBagCost > 0 && f.FeedBagKg > 0 {
		return f.FeedBagCost / f.FeedBagKg
	}
	return 0
}
