/*
migrate.go - One-shot schema upgrade for previously persisted records

PURPOSE:
  Older rows predate alt feed, per-record currency, stable ids, and some
  derived fields. The migration pass runs once at load over the full
  record set, fills exactly the gaps, and reports whether anything
  changed so the caller can decide to re-persist.

RULES:
  - Existing values are never overwritten, only gaps are filled
  - Deprecated fields (deaths) are dropped
  - Running the pass twice must produce no further mutation
*/
package fcr

// MigrateRecords upgrades every record to the current schema. It returns
// the upgraded set and whether any record changed. The input slice is not
// modified.
func MigrateRecords(records []Record, defaultCurrency string) ([]Record, bool) {
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}

	out := make([]Record, len(records))
	mutated := false
	for i, rec := range records {
		if migrateRecord(&rec, defaultCurrency) {
			mutated = true
		}
		out[i] = rec
	}
	return out, mutated
}

func migrateRecord(rec *Record, defaultCurrency string) bool {
	mutated := false

	// Alt feed defaults. Decoding already zeroes missing fields; only a
	// negative legacy value needs repair.
	if rec.AltFeedKg < 0 {
		rec.AltFeedKg = 0
		mutated = true
	}

	// Deprecated fields.
	if rec.Deaths != nil {
		rec.Deaths = nil
		mutated = true
	}

	// Per-entry currency keeps history accurate if the user changes the
	// default later.
	if rec.CurrencyCode == "" {
		rec.CurrencyCode = defaultCurrency
		mutated = true
	}

	// Stable id.
	if rec.ID == "" {
		rec.ID = RecordKey(rec.Date, rec.FlockName)
		mutated = true
	}

	// Recompute and backfill missing derived values for consistency with
	// the latest math. Existing values stay untouched.
	d := ComputeDerived(rec.Input())
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
			mutated = true
		}
	}
	fill(&rec.FCRValue, d.FCRValue)
	fill(&rec.PerformanceCategory, d.PerformanceCategory)
	fill(&rec.FeedPerBird, d.FeedPerBird)
	fill(&rec.LayingPercentage, d.LayingPercentage)
	fill(&rec.FeedPerEgg, d.FeedPerEgg)

	if rec.CostFeedTotal == nil && d.CostFeedTotal != nil {
		rec.CostFeedTotal = d.CostFeedTotal
		mutated = true
	}
	if rec.CostPerEgg == nil && d.CostPerEgg != nil {
		rec.CostPerEgg = d.CostPerEgg
		mutated = true
	}
	return mutated
}
