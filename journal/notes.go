/*
notes.go - Reminders and calculator preload

Notes are the only thing allowed on future dates: a future day has no
production to record yet, so tapping it can only plan ahead. Selecting a
past or present day loads the exact record for that slot; when today has
no record yet, the last saved entry for the flock seeds the form instead.
*/
package journal

import (
	"context"
	"strings"

	"github.com/farmstead/fcr-engine/fcr"
)

// =============================================================================
// NOTES - Future-date reminders
// =============================================================================

// AddNote creates a reminder on a strictly future date.
func (j *Journal) AddNote(ctx context.Context, date fcr.Day, text, weather string, flockID fcr.FlockID) (fcr.CalendarEvent, error) {
	if strings.TrimSpace(text) == "" {
		return fcr.CalendarEvent{}, &fcr.ValidationError{Field: "text", Message: "Note text is required"}
	}
	if !date.IsFuture() {
		return fcr.CalendarEvent{}, &fcr.ValidationError{
			Field:   "date",
			Message: "Notes can only be added on future dates",
		}
	}

	var flock *fcr.Flock
	if flockID != "" {
		f, err := j.Flocks.GetFlock(ctx, flockID)
		if err != nil && !fcr.IsNotFound(err) {
			return fcr.CalendarEvent{}, err
		}
		flock = f
	}

	return j.Projector.ProjectNote(ctx, date, text, fcr.NormalizeWeather(weather), flock)
}

// UpdateNote rewrites the note text on a date, creating the note when none
// exists yet.
func (j *Journal) UpdateNote(ctx context.Context, date fcr.Day, text string) error {
	if strings.TrimSpace(text) == "" {
		return &fcr.ValidationError{Field: "text", Message: "Note text is required"}
	}
	return j.Events.UpsertNoteForDate(ctx, date, text)
}

// EventsForDay lists the calendar events on one date.
func (j *Journal) EventsForDay(ctx context.Context, date fcr.Day) ([]fcr.CalendarEvent, error) {
	return j.Events.ByDate(ctx, date)
}

// =============================================================================
// SELECTION - What the calculator form shows for a (date, flock) pick
// =============================================================================

// SelectionSource says where a selection's prefill values came from.
type SelectionSource int

const (
	// SourceNone means a blank form: nothing recorded, nothing cached.
	SourceNone SelectionSource = iota
	// SourceRecord means the exact record for that date and flock.
	SourceRecord
	// SourceCache means the flock's last saved entry, shown as a seed.
	// Never used for past dates: a past day either has its record or
	// stays blank, so stale numbers cannot masquerade as history.
	SourceCache
)

// LoadForSelection returns what the entry form should be seeded with when
// the user picks a date and flock.
func (j *Journal) LoadForSelection(ctx context.Context, date fcr.Day, flockID fcr.FlockID, flockName string) (*fcr.Record, SelectionSource, error) {
	rec, err := j.Records.FindByDateAndFlock(ctx, date, flockID, flockName)
	if err != nil {
		return nil, SourceNone, err
	}
	if rec != nil {
		return rec, SourceRecord, nil
	}
	if date.IsPast() {
		return nil, SourceNone, nil
	}

	cached, err := j.LastCalc.LastCalc(ctx, flockID, flockName)
	if err != nil {
		return nil, SourceNone, err
	}
	if cached != nil {
		return cached, SourceCache, nil
	}
	return nil, SourceNone, nil
}

// InputFromFlock seeds a DailyInput with a flock's defaults: bird count,
// measured egg weight and the per-kg feed price derived from bag pricing.
func InputFromFlock(f fcr.Flock, date fcr.Day) fcr.DailyInput {
	in := fcr.DailyInput{
		Date:      date,
		FlockID:   f.ID,
		FlockName: f.Name,
		BirdCount: f.Birds,
	}
	if f.EggWeight != nil {
		in.EggWeight = *f.EggWeight
	}
	in.FeedPricePerKg = f.PricePerKg()
	return in
}
