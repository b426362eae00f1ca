/*
Package journal orchestrates the daily record-keeping flows on top of the
fcr core: preview-then-commit saves, edits, deletes, note reminders, and
the load-time migration pass.

PURPOSE:
  The fcr package holds pure computation and storage ports; this package
  is where the pieces meet in the right order. The ordering inside one
  save matters: record first, then its calendar event, so a reader never
  observes a record without its event or vice versa.

ERROR POLICY:
  Validation and duplicate errors abort the operation and surface to the
  caller. Persistence errors do NOT block the user: the in-memory state
  stays valid for the session, the failure is logged as a warning and
  returned alongside the result so callers can surface it.

SEE ALSO:
  - fcr/resolver.go: the confirmation gate Save consumes
  - fcr/projector.go: the calendar mirror Save and Edit maintain
*/
package journal

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/farmstead/fcr-engine/fcr"
)

// Journal wires the core components to their stores.
type Journal struct {
	Records  fcr.RecordStore
	Events   fcr.EventStore
	Flocks   fcr.FlockStore
	Settings fcr.SettingsStore
	LastCalc fcr.LastCalcStore

	Resolver  *fcr.DuplicateResolver
	Projector *fcr.Projector

	log *zap.Logger
}

// Stores bundles every persistence port the journal needs. The Memory
// store satisfies all of them at once; SQLite does too.
type Stores interface {
	fcr.RecordStore
	fcr.EventStore
	fcr.FlockStore
	fcr.SettingsStore
	fcr.DayWeatherStore
	fcr.LastCalcStore
}

// New creates a journal over a combined store.
func New(s Stores, log *zap.Logger) *Journal {
	if log == nil {
		log = zap.NewNop()
	}
	return &Journal{
		Records:   s,
		Events:    s,
		Flocks:    s,
		Settings:  s,
		LastCalc:  s,
		Resolver:  fcr.NewDuplicateResolver(s),
		Projector: fcr.NewProjector(s, s),
		log:       log.Named("journal"),
	}
}

// =============================================================================
// STARTUP - Migration pass and weather cache rebuild
// =============================================================================

// RunMigration upgrades all persisted records to the current schema and
// re-persists them when anything changed. Idempotent; runs at load time.
func (j *Journal) RunMigration(ctx context.Context) (bool, error) {
	recs, err := j.Records.All(ctx)
	if err != nil {
		return false, err
	}

	currency, err := j.Settings.Currency(ctx)
	if err != nil {
		currency = fcr.DefaultCurrency
	}

	migrated, mutated := fcr.MigrateRecords(recs, currency)
	if !mutated {
		return false, nil
	}

	if err := j.Records.ReplaceAll(ctx, migrated); err != nil {
		return true, err
	}
	j.log.Info("migrated history records", zap.Int("count", len(migrated)))
	return true, nil
}

// RefreshDayWeather rebuilds the day-level weather cache from the event
// list. Safe to run any time; the cache is purely a read-model.
func (j *Journal) RefreshDayWeather(ctx context.Context, cache fcr.DayWeatherStore) error {
	events, err := j.Events.AllEvents(ctx)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if ev.Weather == "" {
			continue
		}
		if err := fcr.CacheDayWeather(ctx, cache, ev.Date, ev.Weather); err != nil {
			return err
		}
	}
	return nil
}

// warnPersistence logs a degraded-mode persistence failure and decides
// whether the error should surface as a warning (persistence) or abort
// the operation (anything else).
func (j *Journal) warnPersistence(op string, err error) (warn error, fatal error) {
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, fcr.ErrPersistence) {
		j.log.Warn("storage write failed, session state remains in memory",
			zap.String("op", op), zap.Error(err))
		return err, nil
	}
	return nil, err
}
