/*
projector.go - Calendar event projection

PURPOSE:
  Every saved record is mirrored by exactly one fcr-type calendar event;
  this file owns that mirror. Events are replace-by-remove-then-append,
  never mutated in place, which sidesteps stale references when an edit
  moves a record to a different date.

INVARIANT:
  After any sequence of save/edit/delete, live fcr events and live
  records correspond one-to-one through RefID. Orphan events are a
  defect; VerifyProjection exists so tests can assert this.

NOTE EVENTS:
  Free-standing note events are independent of records, keyed only by
  date. The journal restricts them to future dates (reminders, never
  feed data); the projector itself does not care.
*/
package fcr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Projector maintains the calendar projection of the record store.
type Projector struct {
	Events  EventStore
	Weather DayWeatherStore // optional day-level weather cache
}

func NewProjector(events EventStore, weather DayWeatherStore) *Projector {
	return &Projector{Events: events, Weather: weather}
}

// Project replaces the calendar event for a record. When previousID is
// set (an edit), the event pointing at the previous record id is removed
// in the same operation so the store never holds two events for one
// record, or an orphan for a dead one.
func (p *Projector) Project(ctx context.Context, rec Record, previousID RecordID) (CalendarEvent, error) {
	if previousID != "" {
		if _, err := p.Events.RemoveFCRByRef(ctx, previousID); err != nil {
			return CalendarEvent{}, err
		}
	}

	title := rec.FlockName
	if title == "" {
		title = "Unnamed Flock"
	}

	perf := rec.PerfKey
	if perf == "" {
		perf = BandKeyForValue(rec.FCRValue)
	}

	ev := CalendarEvent{
		ID:          newEventID("fcr"),
		Type:        EventFCR,
		RefID:       rec.ID,
		Date:        rec.Date,
		Title:       title,
		Description: describeRecord(rec),
		Performance: strings.ToLower(perf),
		Notes:       rec.Notes,
		Weather:     rec.Weather,
		FlockID:     rec.FlockID,
		FlockName:   rec.FlockName,
	}

	if err := p.Events.Append(ctx, ev); err != nil {
		return CalendarEvent{}, err
	}
	p.cacheWeather(ctx, ev)
	return ev, nil
}

// ProjectNote appends a free-standing note event for a date.
func (p *Projector) ProjectNote(ctx context.Context, date Day, text, weather string, flock *Flock) (CalendarEvent, error) {
	title := "Note"
	var flockID FlockID
	var flockName string
	if flock != nil {
		flockName = flock.Name
		if flockName == "" {
			flockName = "Unnamed Flock"
		}
		flockID = flock.ID
		title = "Note — " + flockName
	}

	ev := CalendarEvent{
		ID:          newEventID("note"),
		Type:        EventNote,
		Date:        date,
		Title:       title,
		Description: text,
		Performance: "",
		Notes:       text,
		Weather:     weather,
		FlockID:     flockID,
		FlockName:   flockName,
	}

	if err := p.Events.Append(ctx, ev); err != nil {
		return CalendarEvent{}, err
	}
	p.cacheWeather(ctx, ev)
	return ev, nil
}

// Drop removes the event mirror of a deleted record.
func (p *Projector) Drop(ctx context.Context, recordID RecordID) error {
	_, err := p.Events.RemoveFCRByRef(ctx, recordID)
	return err
}

func (p *Projector) cacheWeather(ctx context.Context, ev CalendarEvent) {
	if p.Weather == nil || ev.Weather == "" {
		return
	}
	// Cache failures never block the projection; the cache is rebuilt
	// from events anyway.
	_ = CacheDayWeather(ctx, p.Weather, ev.Date, ev.Weather)
}

// describeRecord assembles the one-line event description from the
// record's feed/egg/cost fields, alt feed shown as "paid/alt kg".
func describeRecord(rec Record) string {
	feedStr := formatKg(rec.FeedAmount)
	if rec.AltFeedKg > 0 {
		feedStr += "/" + formatKg(rec.AltFeedKg)
	}
	feedStr += "kg"

	desc := fmt.Sprintf("Feed: %s, Eggs: %d, Birds: %d, FCR: %s",
		feedStr, rec.EggCount, rec.BirdCount, rec.FCRValue)

	if rec.FeedPricePerKg > 0 {
		desc += ", Today's Feed Cost: " + FormatMoney(rec.CostFeedTotal, rec.CurrencyCode)
	}
	if rec.AltFeedKg > 0 && rec.FeedPricePerKg > 0 {
		saved := rec.AltFeedKg * rec.FeedPricePerKg
		desc += ", ≈ Saved Today: " + FormatMoneyValue(saved, rec.CurrencyCode)
	}
	return desc
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// newEventID builds an opaque, time-ordered event id.
func newEventID(kind string) EventID {
	return EventID(kind + "-" + uuid.Must(uuid.NewV7()).String())
}

// VerifyProjection checks the record/event consistency invariant:
// every live record has exactly one fcr event, and every fcr event
// points at a live record. Note events are ignored.
func VerifyProjection(records []Record, events []CalendarEvent) error {
	live := make(map[RecordID]bool, len(records))
	for _, r := range records {
		live[r.ID] = true
	}

	seen := make(map[RecordID]int)
	for _, ev := range events {
		if ev.Type != EventFCR {
			continue
		}
		if !live[ev.RefID] {
			return fmt.Errorf("orphan fcr event %s -> %s", ev.ID, ev.RefID)
		}
		seen[ev.RefID]++
		if seen[ev.RefID] > 1 {
			return fmt.Errorf("duplicate fcr events for record %s", ev.RefID)
		}
	}
	for id := range live {
		if seen[id] == 0 {
			return fmt.Errorf("record %s has no fcr event", id)
		}
	}
	return nil
}
