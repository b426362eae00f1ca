package journal_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/fcr-engine/fcr"
)

func TestCreateFlock_AssignsID(t *testing.T) {
	ctx := context.Background()
	j, _ := newJournal(t)

	f, err := j.CreateFlock(ctx, fcr.Flock{Name: "Barn A", Birds: 120})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(f.ID), "flock-"))

	flocks, err := j.ListFlocks(ctx)
	require.NoError(t, err)
	require.Len(t, flocks, 1)
	assert.Equal(t, f.ID, flocks[0].ID)
}

func TestCreateFlock_Validation(t *testing.T) {
	ctx := context.Background()
	j, _ := newJournal(t)

	_, err := j.CreateFlock(ctx, fcr.Flock{Name: "   "})
	assert.ErrorIs(t, err, fcr.ErrValidation)

	_, err = j.CreateFlock(ctx, fcr.Flock{Name: "Barn A", Birds: -1})
	assert.ErrorIs(t, err, fcr.ErrValidation)

	tiny := 5.0
	_, err = j.CreateFlock(ctx, fcr.Flock{Name: "Barn A", EggWeight: &tiny})
	assert.ErrorIs(t, err, fcr.ErrValidation)
}

func TestUpdateFlock(t *testing.T) {
	ctx := context.Background()
	j, _ := newJournal(t)

	f, err := j.CreateFlock(ctx, fcr.Flock{Name: "Barn A", Birds: 120})
	require.NoError(t, err)

	f.Birds = 118
	require.NoError(t, j.UpdateFlock(ctx, f))

	flocks, err := j.ListFlocks(ctx)
	require.NoError(t, err)
	require.Len(t, flocks, 1)
	assert.Equal(t, 118, flocks[0].Birds)

	f.ID = ""
	assert.ErrorIs(t, j.UpdateFlock(ctx, f), fcr.ErrValidation)

	f.ID = "flock-gone"
	assert.ErrorIs(t, j.UpdateFlock(ctx, f), fcr.ErrNotFound)
}

func TestDeleteFlock_KeepsRecords(t *testing.T) {
	// GIVEN: A flock with a saved record
	// WHEN: Deleting the flock
	// THEN: The flock is gone, its history is not

	ctx := context.Background()
	j, m := newJournal(t)

	f, err := j.CreateFlock(ctx, fcr.Flock{Name: "Barn A", Birds: 100})
	require.NoError(t, err)

	in := dailyInput(fcr.Today(), "Barn A")
	in.FlockID = f.ID
	saveEntry(t, j, in)

	require.NoError(t, j.DeleteFlock(ctx, f.ID))

	flocks, err := j.ListFlocks(ctx)
	require.NoError(t, err)
	assert.Empty(t, flocks)

	recs, err := m.All(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestCurrencySettings(t *testing.T) {
	ctx := context.Background()
	j, _ := newJournal(t)

	code, err := j.Currency(ctx)
	require.NoError(t, err)
	assert.Equal(t, fcr.DefaultCurrency, code)

	require.NoError(t, j.SetCurrency(ctx, " usd "))
	code, err = j.Currency(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", code)

	assert.ErrorIs(t, j.SetCurrency(ctx, "  "), fcr.ErrValidation)
}
