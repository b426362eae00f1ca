/*
flow.go - Preview, commit, edit and delete of daily records

THE FLOW:
  1. Preview: validate, compute, classify duplicates. No writes at all.
  2. The caller shows the preview (and any confirmation dialog), then
     grants or cancels the Resolution.
  3. Save: consumes the Resolution, upserts the record, projects the
     calendar event, refreshes the per-flock cache. Exactly this order,
     so the record is always persisted before anything derived from it.

Edits never touch bird count or egg weight: those describe the flock on
that day and changing them would silently rewrite the ratio the record
was saved with.
*/
package journal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/farmstead/fcr-engine/fcr"
)

// Alt-feed advisory thresholds, as share of total feed mass.
const (
	altShareNotice  = 0.10
	altShareWarning = 0.20
)

// Preview is the result of a compute-only pass: everything the UI needs
// to show, plus the Resolution the eventual Save must consume.
type Preview struct {
	Input      fcr.DailyInput
	Metrics    fcr.DerivedMetrics
	Resolution *fcr.Resolution

	// ApproxSaved is the estimated money not spent thanks to alt feed.
	ApproxSaved float64

	// Advisory is "" / "notice" / "warning" depending on how much of the
	// ration is unpriced alt feed, with Message explaining it.
	Advisory string
	Message  string
}

// =============================================================================
// PREVIEW - Validate + compute, zero writes
// =============================================================================

// PreviewEntry validates the input, computes derived metrics and resolves
// duplicates. requireConfirm asks for an explicit confirmation even when
// no collision exists.
func (j *Journal) PreviewEntry(ctx context.Context, in fcr.DailyInput, requireConfirm bool) (*Preview, error) {
	if err := fcr.ValidateInput(in); err != nil {
		return nil, err
	}

	res, err := j.Resolver.Resolve(ctx, in, requireConfirm)
	if err != nil {
		return nil, err
	}

	p := &Preview{
		Input:      in,
		Metrics:    fcr.ComputeDerived(in),
		Resolution: res,
	}

	if in.AltFeedKg > 0 && in.FeedPricePerKg > 0 {
		p.ApproxSaved = in.AltFeedKg * in.FeedPricePerKg
	}
	if share := fcr.AltFeedShare(in.FeedAmount, in.AltFeedKg); share >= altShareNotice {
		if share >= altShareWarning {
			p.Advisory = "warning"
			p.Message = fmt.Sprintf("Alt feed is %.0f%% of the ration. FCR is computed on priced feed only, so the ratio will look better than it is.", share*100)
		} else {
			p.Advisory = "notice"
			p.Message = fmt.Sprintf("Alt feed is %.0f%% of the ration and is excluded from FCR.", share*100)
		}
	}

	return p, nil
}

// =============================================================================
// SAVE - Consume the resolution, persist, project
// =============================================================================

// Save commits a previously previewed entry. The resolution must have
// been granted; it is spent here whatever the outcome. A persistence
// failure past the upsert is logged and returned, but the saved record
// is still returned so the session can continue on it.
func (j *Journal) Save(ctx context.Context, in fcr.DailyInput, res *fcr.Resolution) (fcr.Record, error) {
	if err := res.Consume(); err != nil {
		return fcr.Record{}, err
	}
	if err := fcr.ValidateInput(in); err != nil {
		return fcr.Record{}, err
	}

	currency, err := j.Settings.Currency(ctx)
	if err != nil || currency == "" {
		currency = fcr.DefaultCurrency
	}

	rec := recordFromInput(in, currency)
	rec.ID = res.Key

	replacedID, err := j.Records.Upsert(ctx, rec, res.AllowOverwrite())
	if warn, fatal := j.warnPersistence("upsert record", err); fatal != nil {
		return fcr.Record{}, fatal
	} else if warn != nil {
		return rec, warn
	}

	// The colliding row's id, not the key of the new row: legacy rows can
	// occupy the slot under a different id.
	previousID := replacedID
	if previousID == "" && res.Existing != nil {
		previousID = res.Existing.ID
	}

	if _, err := j.Projector.Project(ctx, rec, previousID); err != nil {
		if warn, fatal := j.warnPersistence("project event", err); fatal != nil {
			return rec, fatal
		} else if warn != nil {
			return rec, warn
		}
	}

	if err := j.LastCalc.SaveLastCalc(ctx, rec); err != nil {
		j.log.Warn("last-calc cache write failed", zap.Error(err))
	}

	j.log.Info("record saved",
		zap.String("id", string(rec.ID)),
		zap.String("date", rec.Date.String()),
		zap.String("flock", rec.FlockName),
		zap.String("fcr", rec.FCRValue))
	return rec, nil
}

// =============================================================================
// EDIT - Recompute-on-edit with locked flock-shape fields
// =============================================================================

// EditChanges carries the editable fields of a record. Nil means keep.
// Bird count and egg weight are deliberately absent.
type EditChanges struct {
	Date           *fcr.Day
	FlockName      *string
	FeedAmount     *float64
	EggCount       *int
	FeedPricePerKg *float64
	AltFeedKg      *float64
	AltFeedName    *string
	Weather        *string
	Notes          *string
}

// Edit applies changes to an existing record, recomputes every derived
// value, and re-projects the calendar event. Moving the record onto a
// (date, flock) slot another record occupies is refused.
func (j *Journal) Edit(ctx context.Context, id fcr.RecordID, ch EditChanges) (fcr.Record, error) {
	old, err := j.Records.Get(ctx, id)
	if err != nil {
		return fcr.Record{}, err
	}

	in := old.Input()
	applyChanges(&in, ch)
	if err := fcr.ValidateInput(in); err != nil {
		return fcr.Record{}, err
	}

	newID := fcr.RecordKey(in.Date, in.FlockName)
	if newID != old.ID {
		other, err := j.Records.FindByDateAndFlock(ctx, in.Date, in.FlockID, in.FlockName)
		if err != nil {
			return fcr.Record{}, err
		}
		if other != nil && other.ID != old.ID {
			return fcr.Record{}, &fcr.DuplicateError{
				Key:        newID,
				Date:       in.Date,
				FlockName:  in.FlockName,
				ExistingID: other.ID,
			}
		}
	}

	rec := recordFromInput(in, old.CurrencyCode)
	rec.ID = newID

	// Insert the edited record before removing the old slot so a
	// persistence failure in between never loses the row.
	if _, err := j.Records.Upsert(ctx, rec, true); err != nil {
		if warn, fatal := j.warnPersistence("upsert edited record", err); fatal != nil {
			return fcr.Record{}, fatal
		} else if warn != nil {
			return rec, warn
		}
	}
	if newID != old.ID {
		if err := j.Records.Delete(ctx, old.ID); err != nil {
			if warn, fatal := j.warnPersistence("delete moved record", err); fatal != nil {
				return rec, fatal
			} else if warn != nil {
				return rec, warn
			}
		}
	}

	if _, err := j.Projector.Project(ctx, rec, old.ID); err != nil {
		if warn, fatal := j.warnPersistence("project edited event", err); fatal != nil {
			return rec, fatal
		} else if warn != nil {
			return rec, warn
		}
	}

	j.log.Info("record edited", zap.String("id", string(rec.ID)))
	return rec, nil
}

// =============================================================================
// DELETE AND CLEAR
// =============================================================================

// Delete removes a record and its calendar event.
func (j *Journal) Delete(ctx context.Context, id fcr.RecordID) error {
	if _, err := j.Records.Get(ctx, id); err != nil {
		return err
	}
	if err := j.Records.Delete(ctx, id); err != nil {
		return err
	}
	if err := j.Projector.Drop(ctx, id); err != nil {
		if _, fatal := j.warnPersistence("drop event", err); fatal != nil {
			return fatal
		}
	}
	j.log.Info("record deleted", zap.String("id", string(id)))
	return nil
}

// ClearHistory wipes every record and every fcr calendar event. Notes
// survive: they were never derived from records.
func (j *Journal) ClearHistory(ctx context.Context) error {
	if err := j.Records.ReplaceAll(ctx, nil); err != nil {
		return err
	}
	if err := j.Events.RemoveAllFCR(ctx); err != nil {
		return err
	}
	j.log.Info("history cleared")
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func recordFromInput(in fcr.DailyInput, currency string) fcr.Record {
	rec := fcr.Record{
		FlockID:        in.FlockID,
		FlockName:      in.FlockName,
		CurrencyCode:   currency,
		Date:           in.Date,
		FeedAmount:     in.FeedAmount,
		EggCount:       in.EggCount,
		EggWeight:      in.EggWeight,
		BirdCount:      in.BirdCount,
		FeedPricePerKg: in.FeedPricePerKg,
		AltFeedKg:      in.AltFeedKg,
		AltFeedName:    in.AltFeedName,
		Weather:        fcr.NormalizeWeather(in.Weather),
		Notes:          in.Notes,
	}
	rec.ApplyMetrics(fcr.ComputeDerived(in))
	return rec
}

func applyChanges(in *fcr.DailyInput, ch EditChanges) {
	if ch.Date != nil {
		in.Date = *ch.Date
	}
	if ch.FlockName != nil {
		in.FlockName = *ch.FlockName
	}
	if ch.FeedAmount != nil {
		in.FeedAmount = *ch.FeedAmount
	}
	if ch.EggCount != nil {
		in.EggCount = *ch.EggCount
	}
	if ch.FeedPricePerKg != nil {
		in.FeedPricePerKg = *ch.FeedPricePerKg
	}
	if ch.AltFeedKg != nil {
		in.AltFeedKg = *ch.AltFeedKg
	}
	if ch.AltFeedName != nil {
		in.AltFeedName = *ch.AltFeedName
	}
	if ch.Weather != nil {
		in.Weather = fcr.NormalizeWeather(*ch.Weather)
	}
	if ch.Notes != nil {
		in.Notes = *ch.Notes
	}
}
