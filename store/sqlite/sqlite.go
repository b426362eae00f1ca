/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every persistence port of the fcr package (RecordStore,
  EventStore, FlockStore, SettingsStore, DayWeatherStore, LastCalcStore)
  on a single SQLite file.

UNIQUENESS:
  The (date, flock name) slot contract is enforced in Upsert with an
  explicit lookup under the write lock, mirroring the in-memory store,
  rather than through constraint-error sniffing. Legacy rows can occupy
  a slot under a non-canonical id, so a unique index alone could not
  express the dual-key match anyway.

KEY TABLES:
  records:         The daily entries ("history"). One row per (date, flock).
  calendar_events: The derived calendar projection.
  flocks:          Flock definitions and per-flock defaults.
  settings:        Key/value settings (currency).
  day_weather:     One canonical weather key per day.
  last_calc:       Latest saved record per flock, stored as JSON.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  readers don't block the single writer, and crash recovery improves.

USAGE:
  store, err := sqlite.New("./data/fcr.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). The record-level migration pass
  (backfilling derived fields) is separate and lives in the fcr package.

SEE ALSO:
  - fcr/store.go: Interface definitions
  - fcr/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/farmstead/fcr-engine/fcr"
)

// Store implements all fcr storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ fcr.RecordStore     = (*Store)(nil)
	_ fcr.EventStore      = (*Store)(nil)
	_ fcr.FlockStore      = (*Store)(nil)
	_ fcr.SettingsStore   = (*Store)(nil)
	_ fcr.DayWeatherStore = (*Store)(nil)
	_ fcr.LastCalcStore   = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Daily records (the source of truth)
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		flock_id TEXT,
		flock_name TEXT NOT NULL DEFAULT '',
		currency_code TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		feed_amount REAL NOT NULL,
		egg_count INTEGER NOT NULL,
		egg_weight REAL NOT NULL DEFAULT 0,
		bird_count INTEGER NOT NULL DEFAULT 0,
		feed_price_per_kg REAL NOT NULL DEFAULT 0,
		alt_feed_kg REAL NOT NULL DEFAULT 0,
		alt_feed_name TEXT NOT NULL DEFAULT '',
		weather TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		fcr_value TEXT NOT NULL DEFAULT '',
		performance_category TEXT NOT NULL DEFAULT '',
		perf_key TEXT NOT NULL DEFAULT '',
		feed_per_bird TEXT NOT NULL DEFAULT '',
		laying_percentage TEXT NOT NULL DEFAULT '',
		feed_per_egg TEXT NOT NULL DEFAULT '',
		cost_feed_total REAL,
		cost_per_egg REAL,
		approx_saved REAL NOT NULL DEFAULT 0
	);

	-- The dual-key lookup hot path: date first, flock filters in Go
	CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);
	CREATE INDEX IF NOT EXISTS idx_records_flock ON records(flock_id);

	-- Calendar projection (derived, rebuildable from records)
	CREATE TABLE IF NOT EXISTS calendar_events (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		ref_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		performance TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		weather TEXT NOT NULL DEFAULT '',
		flock_id TEXT NOT NULL DEFAULT '',
		flock_name TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_events_date ON calendar_events(date);
	CREATE INDEX IF NOT EXISTS idx_events_ref ON calendar_events(ref_id)
		WHERE ref_id != '';

	-- Flocks
	CREATE TABLE IF NOT EXISTS flocks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		birds INTEGER NOT NULL DEFAULT 0,
		egg_weight REAL,
		feed_bag_kg REAL NOT NULL DEFAULT 0,
		feed_bag_cost REAL NOT NULL DEFAULT 0,
		age_weeks INTEGER,
		notes TEXT NOT NULL DEFAULT ''
	);

	-- Key/value settings (currency)
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- One canonical weather key per day
	CREATE TABLE IF NOT EXISTS day_weather (
		date TEXT PRIMARY KEY,
		weather TEXT NOT NULL
	);

	-- Latest saved record per flock, as JSON
	CREATE TABLE IF NOT EXISTS last_calc (
		cache_key TEXT PRIMARY KEY,
		record_json TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORD STORE (fcr.RecordStore interface)
// =============================================================================

const recordColumns = `id, flock_id, flock_name, currency_code, date,
	feed_amount, egg_count, egg_weight, bird_count, feed_price_per_kg,
	alt_feed_kg, alt_feed_name, weather, notes,
	fcr_value, performance_category, perf_key, feed_per_bird,
	laying_percentage, feed_per_egg, cost_feed_total, cost_per_egg,
	approx_saved`

// Get returns the record with the exact id.
func (s *Store) Get(ctx context.Context, id fcr.RecordID) (*fcr.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE id = ?", string(id))
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, &fcr.NotFoundError{Kind: "record", ID: string(id)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return rec, nil
}

// FindByDateAndFlock matches first by canonical key id, then by date plus
// flock id or case-insensitive flock name. Nil when nothing matches.
func (s *Store) FindByDateAndFlock(ctx context.Context, date fcr.Day, flockID fcr.FlockID, flockName string) (*fcr.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findBySlot(ctx, date, flockID, flockName)
}

func (s *Store) findBySlot(ctx context.Context, date fcr.Day, flockID fcr.FlockID, flockName string) (*fcr.Record, error) {
	key := fcr.RecordKey(date, flockName)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE id = ?", string(key))
	rec, err := scanRecord(row)
	if err == nil {
		return rec, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE date = ?", string(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if flockID != "" && rec.FlockID == flockID {
			return rec, nil
		}
		if flockName != "" && strings.EqualFold(rec.FlockName, flockName) {
			return rec, nil
		}
	}
	return nil, rows.Err()
}

// Upsert inserts the record, replacing a colliding row only when
// allowOverwrite is set.
func (s *Store) Upsert(ctx context.Context, rec fcr.Record, allowOverwrite bool) (fcr.RecordID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.findColliding(ctx, rec)
	if err != nil {
		return "", err
	}

	var replacedID fcr.RecordID
	if existing != nil {
		if !allowOverwrite {
			return "", &fcr.DuplicateError{
				Key:        fcr.RecordKey(rec.Date, rec.FlockName),
				Date:       rec.Date,
				FlockName:  rec.FlockName,
				ExistingID: existing.ID,
			}
		}
		replacedID = existing.ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", &fcr.PersistenceError{Op: "persist history", Err: err}
	}
	defer tx.Rollback()

	if replacedID != "" {
		if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE id = ?", string(replacedID)); err != nil {
			return "", &fcr.PersistenceError{Op: "persist history", Err: err}
		}
	}

	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		string(rec.ID), string(rec.FlockID), rec.FlockName, rec.CurrencyCode, string(rec.Date),
		rec.FeedAmount, rec.EggCount, rec.EggWeight, rec.BirdCount, rec.FeedPricePerKg,
		rec.AltFeedKg, rec.AltFeedName, rec.Weather, rec.Notes,
		rec.FCRValue, rec.PerformanceCategory, rec.PerfKey, rec.FeedPerBird,
		rec.LayingPercentage, rec.FeedPerEgg, nullFloat(rec.CostFeedTotal), nullFloat(rec.CostPerEgg),
		rec.ApproxSaved,
	)
	if err != nil {
		return "", &fcr.PersistenceError{Op: "persist history", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return "", &fcr.PersistenceError{Op: "persist history", Err: err}
	}
	return replacedID, nil
}

// findColliding locates the row occupying the record's slot, by either
// identity: same id, or same (date, flock name).
func (s *Store) findColliding(ctx context.Context, rec fcr.Record) (*fcr.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE id = ?", string(rec.ID))
	if existing, err := scanRecord(row); err == nil {
		return existing, nil
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE date = ?", string(rec.Date))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		existing, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if existing.SameKey(rec.Date, rec.FlockName) {
			return existing, nil
		}
	}
	return nil, rows.Err()
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id fcr.RecordID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", string(id))
	if err != nil {
		return &fcr.PersistenceError{Op: "persist history", Err: err}
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &fcr.NotFoundError{Kind: "record", ID: string(id)}
	}
	return nil
}

// All returns every record, date-ascending.
func (s *Store) All(ctx context.Context) ([]fcr.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM records ORDER BY date ASC, flock_name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var recs []fcr.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// ReplaceAll swaps the full record set atomically.
func (s *Store) ReplaceAll(ctx context.Context, recs []fcr.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &fcr.PersistenceError{Op: "persist history", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return &fcr.PersistenceError{Op: "persist history", Err: err}
	}

	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, rec := range recs {
		_, err := tx.ExecContext(ctx, query,
			string(rec.ID), string(rec.FlockID), rec.FlockName, rec.CurrencyCode, string(rec.Date),
			rec.FeedAmount, rec.EggCount, rec.EggWeight, rec.BirdCount, rec.FeedPricePerKg,
			rec.AltFeedKg, rec.AltFeedName, rec.Weather, rec.Notes,
			rec.FCRValue, rec.PerformanceCategory, rec.PerfKey, rec.FeedPerBird,
			rec.LayingPercentage, rec.FeedPerEgg, nullFloat(rec.CostFeedTotal), nullFloat(rec.CostPerEgg),
			rec.ApproxSaved,
		)
		if err != nil {
			return &fcr.PersistenceError{Op: "persist history", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &fcr.PersistenceError{Op: "persist history", Err: err}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*fcr.Record, error) {
	var (
		rec                       fcr.Record
		id, flockID, date         string
		costFeedTotal, costPerEgg sql.NullFloat64
	)

	err := row.Scan(
		&id, &flockID, &rec.FlockName, &rec.CurrencyCode, &date,
		&rec.FeedAmount, &rec.EggCount, &rec.EggWeight, &rec.BirdCount, &rec.FeedPricePerKg,
		&rec.AltFeedKg, &rec.AltFeedName, &rec.Weather, &rec.Notes,
		&rec.FCRValue, &rec.PerformanceCategory, &rec.PerfKey, &rec.FeedPerBird,
		&rec.LayingPercentage, &rec.FeedPerEgg, &costFeedTotal, &costPerEgg,
		&rec.ApproxSaved,
	)
	if err != nil {
		return nil, err
	}

	rec.ID = fcr.RecordID(id)
	rec.FlockID = fcr.FlockID(flockID)
	rec.Date = fcr.Day(date)
	if costFeedTotal.Valid {
		rec.CostFeedTotal = &costFeedTotal.Float64
	}
	if costPerEgg.Valid {
		rec.CostPerEgg = &costPerEgg.Float64
	}
	return &rec, nil
}

// =============================================================================
// EVENT STORE (fcr.EventStore interface)
// =============================================================================

const eventColumns = `id, type, ref_id, date, title, description,
	performance, notes, weather, flock_id, flock_name`

// Append adds a calendar event.
func (s *Store) Append(ctx context.Context, ev fcr.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO calendar_events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(ev.ID), string(ev.Type), string(ev.RefID), string(ev.Date),
		ev.Title, ev.Description, ev.Performance, ev.Notes, ev.Weather,
		string(ev.FlockID), ev.FlockName,
	)
	if err != nil {
		return &fcr.PersistenceError{Op: "persist calendar", Err: err}
	}
	return nil
}

// RemoveFCRByRef removes every fcr event pointing at the record.
func (s *Store) RemoveFCRByRef(ctx context.Context, refID fcr.RecordID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM calendar_events WHERE type = ? AND ref_id = ?",
		string(fcr.EventFCR), string(refID))
	if err != nil {
		return 0, &fcr.PersistenceError{Op: "persist calendar", Err: err}
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// RemoveAllFCR drops all fcr events, keeping notes.
func (s *Store) RemoveAllFCR(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM calendar_events WHERE type = ?", string(fcr.EventFCR))
	if err != nil {
		return &fcr.PersistenceError{Op: "persist calendar", Err: err}
	}
	return nil
}

// UpsertNoteForDate rewrites the note text on a date, appending a fresh
// note when none exists.
func (s *Store) UpsertNoteForDate(ctx context.Context, date fcr.Day, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE calendar_events SET notes = ?, description = ? WHERE type = ? AND date = ?",
		text, text, string(fcr.EventNote), string(date))
	if err != nil {
		return &fcr.PersistenceError{Op: "persist calendar", Err: err}
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	ev := fcr.CalendarEvent{
		ID:          fcr.EventID("note-" + string(date)),
		Type:        fcr.EventNote,
		Date:        date,
		Title:       "Note",
		Description: text,
		Notes:       text,
	}
	query := `
		INSERT INTO calendar_events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		string(ev.ID), string(ev.Type), "", string(ev.Date),
		ev.Title, ev.Description, ev.Performance, ev.Notes, ev.Weather, "", "")
	if err != nil {
		return &fcr.PersistenceError{Op: "persist calendar", Err: err}
	}
	return nil
}

// ByDate lists the events on one date.
func (s *Store) ByDate(ctx context.Context, date fcr.Day) ([]fcr.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM calendar_events WHERE date = ? ORDER BY id", string(date))
}

// AllEvents returns every calendar event.
func (s *Store) AllEvents(ctx context.Context) ([]fcr.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM calendar_events ORDER BY date ASC, id ASC")
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]fcr.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []fcr.CalendarEvent
	for rows.Next() {
		var (
			ev                     fcr.CalendarEvent
			id, typ, refID, date   string
			flockID                string
		)
		if err := rows.Scan(&id, &typ, &refID, &date, &ev.Title, &ev.Description,
			&ev.Performance, &ev.Notes, &ev.Weather, &flockID, &ev.FlockName); err != nil {
			return nil, err
		}
		ev.ID = fcr.EventID(id)
		ev.Type = fcr.EventType(typ)
		ev.RefID = fcr.RecordID(refID)
		ev.Date = fcr.Day(date)
		ev.FlockID = fcr.FlockID(flockID)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// =============================================================================
// FLOCK STORE (fcr.FlockStore interface)
// =============================================================================

// AddFlock inserts a new flock.
func (s *Store) AddFlock(ctx context.Context, f fcr.Flock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO flocks (id, name, birds, egg_weight, feed_bag_kg, feed_bag_cost, age_weeks, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(f.ID), f.Name, f.Birds, nullFloat(f.EggWeight),
		f.FeedBagKg, f.FeedBagCost, nullInt(f.AgeWeeks), f.Notes)
	if err != nil {
		return &fcr.PersistenceError{Op: "persist flocks", Err: err}
	}
	return nil
}

// UpdateFlock replaces a flock's fields.
func (s *Store) UpdateFlock(ctx context.Context, f fcr.Flock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE flocks SET name = ?, birds = ?, egg_weight = ?, feed_bag_kg = ?,
			feed_bag_cost = ?, age_weeks = ?, notes = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		f.Name, f.Birds, nullFloat(f.EggWeight), f.FeedBagKg,
		f.FeedBagCost, nullInt(f.AgeWeeks), f.Notes, string(f.ID))
	if err != nil {
		return &fcr.PersistenceError{Op: "persist flocks", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &fcr.NotFoundError{Kind: "flock", ID: string(f.ID)}
	}
	return nil
}

// RemoveFlock deletes a flock. Records are untouched.
func (s *Store) RemoveFlock(ctx context.Context, id fcr.FlockID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM flocks WHERE id = ?", string(id))
	if err != nil {
		return &fcr.PersistenceError{Op: "persist flocks", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &fcr.NotFoundError{Kind: "flock", ID: string(id)}
	}
	return nil
}

// GetFlock loads one flock by id.
func (s *Store) GetFlock(ctx context.Context, id fcr.FlockID) (*fcr.Flock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		f         fcr.Flock
		fid       string
		eggWeight sql.NullFloat64
		ageWeeks  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, birds, egg_weight, feed_bag_kg, feed_bag_cost, age_weeks, notes FROM flocks WHERE id = ?",
		string(id),
	).Scan(&fid, &f.Name, &f.Birds, &eggWeight, &f.FeedBagKg, &f.FeedBagCost, &ageWeeks, &f.Notes)
	if err == sql.ErrNoRows {
		return nil, &fcr.NotFoundError{Kind: "flock", ID: string(id)}
	}
	if err != nil {
		return nil, err
	}

	f.ID = fcr.FlockID(fid)
	if eggWeight.Valid {
		f.EggWeight = &eggWeight.Float64
	}
	if ageWeeks.Valid {
		v := int(ageWeeks.Int64)
		f.AgeWeeks = &v
	}
	return &f, nil
}

// AllFlocks lists every flock, name-sorted.
func (s *Store) AllFlocks(ctx context.Context) ([]fcr.Flock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, birds, egg_weight, feed_bag_kg, feed_bag_cost, age_weeks, notes FROM flocks ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flocks []fcr.Flock
	for rows.Next() {
		var (
			f         fcr.Flock
			fid       string
			eggWeight sql.NullFloat64
			ageWeeks  sql.NullInt64
		)
		if err := rows.Scan(&fid, &f.Name, &f.Birds, &eggWeight, &f.FeedBagKg, &f.FeedBagCost, &ageWeeks, &f.Notes); err != nil {
			return nil, err
		}
		f.ID = fcr.FlockID(fid)
		if eggWeight.Valid {
			f.EggWeight = &eggWeight.Float64
		}
		if ageWeeks.Valid {
			v := int(ageWeeks.Int64)
			f.AgeWeeks = &v
		}
		flocks = append(flocks, f)
	}
	return flocks, rows.Err()
}

// =============================================================================
// SETTINGS, DAY WEATHER, LAST CALC
// =============================================================================

// Currency returns the configured currency code, DefaultCurrency when unset.
func (s *Store) Currency(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var code string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = 'currency'").Scan(&code)
	if err == sql.ErrNoRows {
		return fcr.DefaultCurrency, nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// SetCurrency stores the currency code.
func (s *Store) SetCurrency(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO settings (key, value) VALUES ('currency', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.db.ExecContext(ctx, query, code); err != nil {
		return &fcr.PersistenceError{Op: "persist settings", Err: err}
	}
	return nil
}

// SetDayWeather stores the canonical weather key for a day.
func (s *Store) SetDayWeather(ctx context.Context, date fcr.Day, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO day_weather (date, weather) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET weather = excluded.weather
	`
	if _, err := s.db.ExecContext(ctx, query, string(date), key); err != nil {
		return &fcr.PersistenceError{Op: "persist weather", Err: err}
	}
	return nil
}

// DayWeather returns the full day-to-weather map.
func (s *Store) DayWeather(ctx context.Context) (map[fcr.Day]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT date, weather FROM day_weather")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[fcr.Day]string)
	for rows.Next() {
		var date, weather string
		if err := rows.Scan(&date, &weather); err != nil {
			return nil, err
		}
		out[fcr.Day(date)] = weather
	}
	return out, rows.Err()
}

// SaveLastCalc stores the flock's latest saved record as JSON.
func (s *Store) SaveLastCalc(ctx context.Context, rec fcr.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO last_calc (cache_key, record_json) VALUES (?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET record_json = excluded.record_json
	`
	key := fcr.FlockCacheKey(rec.FlockID, rec.FlockName)
	if _, err := s.db.ExecContext(ctx, query, key, string(blob)); err != nil {
		return &fcr.PersistenceError{Op: "persist last-calc", Err: err}
	}
	return nil
}

// LastCalc loads the flock's latest saved record, nil when none.
func (s *Store) LastCalc(ctx context.Context, flockID fcr.FlockID, flockName string) (*fcr.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob string
	err := s.db.QueryRowContext(ctx,
		"SELECT record_json FROM last_calc WHERE cache_key = ?",
		fcr.FlockCacheKey(flockID, flockName)).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec fcr.Record
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"records", "calendar_events", "flocks", "settings", "day_weather", "last_calc"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
