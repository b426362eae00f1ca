package fcr_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/fcr-engine/fcr"
	memstore "github.com/farmstead/fcr-engine/fcr/store"
)

func sampleRecord() fcr.Record {
	rec := fcr.Record{
		ID:           "2026-08-30|Barn A",
		Date:         "2026-08-30",
		FlockName:    "Barn A",
		CurrencyCode: "USD",
		FeedAmount:   12,
		EggCount:     90,
		EggWeight:    60,
		BirdCount:    100,
	}
	rec.ApplyMetrics(fcr.ComputeDerived(rec.Input()))
	return rec
}

// =============================================================================
// PROJECTION TESTS
// =============================================================================

func TestProject_CreatesOneEventPerRecord(t *testing.T) {
	ctx := context.Background()
	events := memstore.NewMemory()
	projector := fcr.NewProjector(events, events)

	rec := sampleRecord()
	ev, err := projector.Project(ctx, rec, "")
	require.NoError(t, err)

	assert.Equal(t, fcr.EventFCR, ev.Type)
	assert.Equal(t, rec.ID, ev.RefID)
	assert.Equal(t, rec.Date, ev.Date)
	assert.Equal(t, "Barn A", ev.Title)
	assert.NotEmpty(t, ev.ID)

	all, err := events.AllEvents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NoError(t, fcr.VerifyProjection([]fcr.Record{rec}, all))
}

func TestProject_EditReplacesInsteadOfDuplicating(t *testing.T) {
	// GIVEN: A record already projected
	// WHEN: Projecting again with the previous id (an edit)
	// THEN: One event remains, pointing at the new record

	ctx := context.Background()
	events := memstore.NewMemory()
	projector := fcr.NewProjector(events, events)

	old := sampleRecord()
	_, err := projector.Project(ctx, old, "")
	require.NoError(t, err)

	edited := old
	edited.ID = "2026-08-31|Barn A"
	edited.Date = "2026-08-31"
	_, err = projector.Project(ctx, edited, old.ID)
	require.NoError(t, err)

	all, err := events.AllEvents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, edited.ID, all[0].RefID)
	require.NoError(t, fcr.VerifyProjection([]fcr.Record{edited}, all))
}

func TestProject_Drop(t *testing.T) {
	ctx := context.Background()
	events := memstore.NewMemory()
	projector := fcr.NewProjector(events, events)

	rec := sampleRecord()
	_, err := projector.Project(ctx, rec, "")
	require.NoError(t, err)

	require.NoError(t, projector.Drop(ctx, rec.ID))

	all, err := events.AllEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProject_UnnamedFlockTitle(t *testing.T) {
	ctx := context.Background()
	events := memstore.NewMemory()
	projector := fcr.NewProjector(events, events)

	rec := sampleRecord()
	rec.FlockName = ""
	ev, err := projector.Project(ctx, rec, "")
	require.NoError(t, err)
	assert.Equal(t, "Unnamed Flock", ev.Title)
}

// =============================================================================
// DESCRIPTION FORMAT
// =============================================================================

func TestProject_DescriptionWithoutPricing(t *testing.T) {
	ctx := context.Background()
	events := memstore.NewMemory()
	projector := fcr.NewProjector(events, events)

	rec := sampleRecord()
	ev, err := projector.Project(ctx, rec, "")
	require.NoError(t, err)

	assert.Equal(t, "Feed: 12kg, Eggs: 90, Birds: 100, FCR: 2.22", ev.Description)
	assert.Equal(t, "good", ev.Performance)
}

func TestProject_DescriptionWithCostAndSavings(t *testing.T) {
	ctx := context.Background()
	events := memstore.NewMemory()
	projector := fcr.NewProjector(events, events)

	rec := sampleRecord()
	rec.FeedPricePerKg = 2
	rec.AltFeedKg = 3
	rec.AltFeedName = "maize"
	rec.ApplyMetrics(fcr.ComputeDerived(rec.Input()))

	ev, err := projector.Project(ctx, rec, "")
	require.NoError(t, err)

	assert.Equal(t,
		"Feed: 12/3kg, Eggs: 90, Birds: 100, FCR: 2.22, Today's Feed Cost: $ 24.00, ≈ Saved Today: $ 6.00",
		ev.Description)
}

// =============================================================================
// NOTE EVENTS
// =============================================================================

func TestProjectNote(t *testing.T) {
	ctx := context.Background()
	events := memstore.NewMemory()
	projector := fcr.NewProjector(events, events)

	flock := &fcr.Flock{ID: "flock-1", Name: "Barn A"}
	ev, err := projector.ProjectNote(ctx, "2026-12-01", "vaccinate", "RAINY", flock)
	require.NoError(t, err)

	assert.Equal(t, fcr.EventNote, ev.Type)
	assert.Equal(t, "Note — Barn A", ev.Title)
	assert.Equal(t, "vaccinate", ev.Notes)
	assert.Empty(t, ev.RefID)

	noFlock, err := projector.ProjectNote(ctx, "2026-12-02", "order feed", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Note", noFlock.Title)
}

// =============================================================================
// PROJECTION INVARIANT
// =============================================================================

func TestVerifyProjection_DetectsOrphansAndDuplicates(t *testing.T) {
	rec := sampleRecord()
	good := fcr.CalendarEvent{ID: "fcr-1", Type: fcr.EventFCR, RefID: rec.ID, Date: rec.Date}

	// Orphan event
	orphan := fcr.CalendarEvent{ID: "fcr-2", Type: fcr.EventFCR, RefID: "2020-01-01|ghost", Date: "2020-01-01"}
	assert.Error(t, fcr.VerifyProjection([]fcr.Record{rec}, []fcr.CalendarEvent{good, orphan}))

	// Duplicate events for one record
	dup := good
	dup.ID = "fcr-3"
	assert.Error(t, fcr.VerifyProjection([]fcr.Record{rec}, []fcr.CalendarEvent{good, dup}))

	// Missing event
	assert.Error(t, fcr.VerifyProjection([]fcr.Record{rec}, nil))

	// Notes never count
	note := fcr.CalendarEvent{ID: "note-1", Type: fcr.EventNote, Date: "2026-12-01"}
	assert.NoError(t, fcr.VerifyProjection([]fcr.Record{rec}, []fcr.CalendarEvent{good, note}))
}
