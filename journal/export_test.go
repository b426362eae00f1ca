package journal_test

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/fcr-engine/fcr"
)

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCSV_NewestFirst(t *testing.T) {
	// GIVEN: Two saved records on different days
	// WHEN: Exporting the history
	// THEN: Header plus rows, newest date on top

	ctx := context.Background()
	j, _ := newJournal(t)

	saveEntry(t, j, dailyInput(yesterday(), "Barn A"))
	today := dailyInput(fcr.Today(), "Barn B")
	today.FeedPricePerKg = 2
	saveEntry(t, j, today)

	data, err := j.ExportCSV(ctx)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 3)

	header := rows[0]
	require.Len(t, header, 18)
	assert.Equal(t, "Flock Name", header[0])
	assert.Equal(t, "FCR", header[8])
	assert.Equal(t, "Alt Feed Name", header[17])

	assert.Equal(t, "Barn B", rows[1][0])
	assert.Equal(t, "Barn A", rows[2][0])

	// Display metrics export as shown, costs numerically
	assert.Equal(t, "2.22", rows[1][8])
	assert.Equal(t, "24", rows[1][14])
	assert.Equal(t, "0", rows[2][14], "unpriced feed costs zero, not null")
}

func TestExportRecordCSV(t *testing.T) {
	ctx := context.Background()
	j, _ := newJournal(t)

	rec := saveEntry(t, j, dailyInput(fcr.Today(), "Barn A"))

	data, err := j.ExportRecordCSV(ctx, rec.ID)
	require.NoError(t, err)

	rows := parseCSV(t, data)
	require.Len(t, rows, 2)
	assert.Equal(t, "Barn A", rows[1][0])
	assert.Equal(t, rec.Date.String(), rows[1][1])

	_, err = j.ExportRecordCSV(ctx, "ghost")
	assert.ErrorIs(t, err, fcr.ErrNotFound)
}
