// Package store provides in-memory implementations of the fcr
// persistence interfaces, used by tests and by the dev server's
// ephemeral mode.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/farmstead/fcr-engine/fcr"
)

// =============================================================================
// MEMORY STORE - Implements every fcr store interface
// =============================================================================

var (
	_ fcr.RecordStore     = (*Memory)(nil)
	_ fcr.EventStore      = (*Memory)(nil)
	_ fcr.FlockStore      = (*Memory)(nil)
	_ fcr.SettingsStore   = (*Memory)(nil)
	_ fcr.DayWeatherStore = (*Memory)(nil)
	_ fcr.LastCalcStore   = (*Memory)(nil)
)

// Memory holds the full application state in process. Mutations never
// fail, which is exactly what tests want; the SQLite store is the one
// that can hit real persistence errors.
type Memory struct {
	mu       sync.RWMutex
	records  []fcr.Record
	events   []fcr.CalendarEvent
	flocks   []fcr.Flock
	currency string
	weather  map[fcr.Day]string
	lastCalc map[string]fcr.Record
}

func NewMemory() *Memory {
	return &Memory{
		weather:  make(map[fcr.Day]string),
		lastCalc: make(map[string]fcr.Record),
	}
}

// =============================================================================
// RECORD STORE
// =============================================================================

func (m *Memory) Get(_ context.Context, id fcr.RecordID) (*fcr.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.ID == id {
			rc := r
			return &rc, nil
		}
	}
	return nil, &fcr.NotFoundError{Kind: "record", ID: string(id)}
}

func (m *Memory) FindByDateAndFlock(_ context.Context, date fcr.Day, flockID fcr.FlockID, flockName string) (*fcr.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := fcr.RecordKey(date, flockName)
	lname := strings.ToLower(flockName)
	for _, r := range m.records {
		if r.ID == key {
			rc := r
			return &rc, nil
		}
		if r.Date == date &&
			((flockID != "" && r.FlockID == flockID) ||
				(lname != "" && strings.ToLower(r.FlockName) == lname)) {
			rc := r
			return &rc, nil
		}
	}
	return nil, nil
}

func (m *Memory) Upsert(_ context.Context, rec fcr.Record, allowOverwrite bool) (fcr.RecordID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, r := range m.records {
		if r.ID == rec.ID || r.SameKey(rec.Date, rec.FlockName) {
			idx = i
			break
		}
	}

	if idx >= 0 {
		if !allowOverwrite {
			return "", &fcr.DuplicateError{
				Key:        rec.ID,
				Date:       rec.Date,
				FlockName:  rec.FlockName,
				ExistingID: m.records[idx].ID,
			}
		}
		replaced := m.records[idx].ID
		m.records[idx] = rec
		return replaced, nil
	}

	m.records = append(m.records, rec)
	return "", nil
}

func (m *Memory) Delete(_ context.Context, id fcr.RecordID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return &fcr.NotFoundError{Kind: "record", ID: string(id)}
}

func (m *Memory) All(_ context.Context) ([]fcr.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]fcr.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *Memory) ReplaceAll(_ context.Context, recs []fcr.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make([]fcr.Record, len(recs))
	copy(m.records, recs)
	return nil
}

// =============================================================================
// EVENT STORE
// =============================================================================

func (m *Memory) Append(_ context.Context, ev fcr.CalendarEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) RemoveFCRByRef(_ context.Context, refID fcr.RecordID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.events[:0]
	removed := 0
	for _, e := range m.events {
		if e.Type == fcr.EventFCR && e.RefID == refID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return removed, nil
}

func (m *Memory) RemoveAllFCR(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.Type != fcr.EventFCR {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

func (m *Memory) UpsertNoteForDate(_ context.Context, date fcr.Day, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.events {
		if e.Type == fcr.EventNote && e.Date == date {
			m.events[i].Notes = text
			m.events[i].Description = text
			return nil
		}
	}
	m.events = append(m.events, fcr.CalendarEvent{
		ID:          fcr.EventID("note-mem-" + string(date)),
		Type:        fcr.EventNote,
		Date:        date,
		Title:       "Note",
		Description: text,
		Notes:       text,
	})
	return nil
}

func (m *Memory) ByDate(_ context.Context, date fcr.Day) ([]fcr.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []fcr.CalendarEvent
	for _, e := range m.events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Memory) AllEvents(_ context.Context) ([]fcr.CalendarEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]fcr.CalendarEvent, len(m.events))
	copy(out, m.events)
	return out, nil
}

// =============================================================================
// FLOCK STORE
// =============================================================================

func (m *Memory) AddFlock(_ context.Context, f fcr.Flock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flocks = append(m.flocks, f)
	return nil
}

func (m *Memory) UpdateFlock(_ context.Context, f fcr.Flock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.flocks {
		if x.ID == f.ID {
			m.flocks[i] = f
			return nil
		}
	}
	return &fcr.NotFoundError{Kind: "flock", ID: string(f.ID)}
}

func (m *Memory) RemoveFlock(_ context.Context, id fcr.FlockID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, x := range m.flocks {
		if x.ID == id {
			m.flocks = append(m.flocks[:i], m.flocks[i+1:]...)
			return nil
		}
	}
	return &fcr.NotFoundError{Kind: "flock", ID: string(id)}
}

func (m *Memory) GetFlock(_ context.Context, id fcr.FlockID) (*fcr.Flock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, x := range m.flocks {
		if x.ID == id {
			fc := x
			return &fc, nil
		}
	}
	return nil, &fcr.NotFoundError{Kind: "flock", ID: string(id)}
}

func (m *Memory) AllFlocks(_ context.Context) ([]fcr.Flock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]fcr.Flock, len(m.flocks))
	copy(out, m.flocks)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// =============================================================================
// SETTINGS / WEATHER / LAST-CALC
// =============================================================================

func (m *Memory) Currency(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.currency == "" {
		return fcr.DefaultCurrency, nil
	}
	return m.currency, nil
}

func (m *Memory) SetCurrency(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currency = code
	return nil
}

func (m *Memory) SetDayWeather(_ context.Context, date fcr.Day, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weather[date] = key
	return nil
}

func (m *Memory) DayWeather(_ context.Context) (map[fcr.Day]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[fcr.Day]string, len(m.weather))
	for k, v := range m.weather {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) SaveLastCalc(_ context.Context, rec fcr.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCalc[fcr.FlockCacheKey(rec.FlockID, rec.FlockName)] = rec
	return nil
}

func (m *Memory) LastCalc(_ context.Context, flockID fcr.FlockID, flockName string) (*fcr.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.lastCalc[fcr.FlockCacheKey(flockID, flockName)]; ok {
		rc := rec
		return &rc, nil
	}
	return nil, nil
}
