/*
store.go - Persistence interfaces for records and related data

PURPOSE:
  Defines the ports between the domain logic and storage. The engine never
  talks to a database (or anything else) directly; everything goes through
  these interfaces so the whole core runs against the in-memory store in
  tests.

KEY INTERFACES:
  RecordStore:     The primary entity store ("history"). Owns Records.
  EventStore:      The derived calendar projection ("calendar").
  FlockStore:      Flock CRUD.
  SettingsStore:   Default currency.
  DayWeatherStore: Day-level weather cache derived from events.
  LastCalcStore:   Latest saved record per flock (calculator preload).

UNIQUENESS CONTRACT:
  RecordStore enforces at most one Record per (date, flock name).
  Upsert refuses to replace an existing row unless allowOverwrite is set;
  the refusal is an error, never a silent partial write.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: production SQLite
  - fcr/store/memory.go:    in-memory for testing

SEE ALSO:
  - resolver.go: the confirmation gate in front of Upsert
  - projector.go: keeps EventStore consistent with RecordStore
*/
package fcr

import (
	"context"
	"strings"
)

// =============================================================================
// RECORD STORE - Owns the daily records, keyed by (date, flock name)
// =============================================================================

type RecordStore interface {
	// Get returns the record with the exact id, or a NotFoundError.
	Get(ctx context.Context, id RecordID) (*Record, error)

	// FindByDateAndFlock matches first by exact id, else by date equality
	// plus flock id match or case-insensitive flock name match. The dual
	// key exists because old rows may predate stable flock ids. Nil when
	// nothing matches.
	FindByDateAndFlock(ctx context.Context, date Day, flockID FlockID, flockName string) (*Record, error)

	// Upsert inserts the record, or replaces the colliding row when
	// allowOverwrite is set. A collision without allowOverwrite returns
	// a DuplicateError and leaves the store untouched. The returned
	// replacedID is the id of the row that was replaced, "" on insert.
	Upsert(ctx context.Context, rec Record, allowOverwrite bool) (replacedID RecordID, err error)

	// Delete removes the record, NotFoundError when missing.
	Delete(ctx context.Context, id RecordID) error

	// All returns every record (copies, callers may mutate freely).
	All(ctx context.Context) ([]Record, error)

	// ReplaceAll swaps the full record set. Used by the migration pass
	// and by clear-history.
	ReplaceAll(ctx context.Context, recs []Record) error
}

// =============================================================================
// EVENT STORE - The calendar projection (append + remove-by-ref only)
// =============================================================================

type EventStore interface {
	// Append adds an event. Events are never mutated in place; edits go
	// through remove-then-append.
	Append(ctx context.Context, ev CalendarEvent) error

	// RemoveFCRByRef removes every fcr event whose RefID matches.
	// RefIDs are unique, so in practice this removes at most one.
	RemoveFCRByRef(ctx context.Context, refID RecordID) (removed int, err error)

	// RemoveAllFCR drops all fcr events, keeping notes. Clear-history.
	RemoveAllFCR(ctx context.Context) error

	// UpsertNoteForDate rewrites the text of the note event on a date,
	// appending a fresh note when none exists.
	UpsertNoteForDate(ctx context.Context, date Day, text string) error

	ByDate(ctx context.Context, date Day) ([]CalendarEvent, error)
	AllEvents(ctx context.Context) ([]CalendarEvent, error)
}

// =============================================================================
// FLOCK STORE
// =============================================================================

type FlockStore interface {
	AddFlock(ctx context.Context, f Flock) error
	UpdateFlock(ctx context.Context, f Flock) error
	RemoveFlock(ctx context.Context, id FlockID) error
	GetFlock(ctx context.Context, id FlockID) (*Flock, error)
	AllFlocks(ctx context.Context) ([]Flock, error)
}

// =============================================================================
// AUXILIARY STORES - Settings, weather cache, last-calc cache
// =============================================================================

type SettingsStore interface {
	// Currency returns the default currency code, falling back to
	// DefaultCurrency when nothing was ever set.
	Currency(ctx context.Context) (string, error)
	SetCurrency(ctx context.Context, code string) error
}

// DayWeatherStore caches one canonical weather key per day, derived from
// events by priority (see weather.go). Purely a read-model for painters.
type DayWeatherStore interface {
	SetDayWeather(ctx context.Context, date Day, key string) error
	DayWeather(ctx context.Context) (map[Day]string, error)
}

// LastCalcStore remembers the latest saved record per flock so the
// calculator can preload it. Keyed by flock id when present, else by
// lowercased name (see FlockCacheKey).
type LastCalcStore interface {
	SaveLastCalc(ctx context.Context, rec Record) error
	LastCalc(ctx context.Context, flockID FlockID, flockName string) (*Record, error)
}

// DefaultCurrency is used when no currency was ever configured.
const DefaultCurrency = "PYG"

// FlockCacheKey builds the stable cache key for a flock: prefer the id,
// fall back to the lowercased name.
func FlockCacheKey(id FlockID, name string) string {
	if id != "" {
		return "id:" + string(id)
	}
	return "name:" + strings.ToLower(strings.TrimSpace(name))
}
