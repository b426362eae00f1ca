/*
handlers_test.go - HTTP-level tests over the full router

Requests run through the real chi router and middleware against a
journal backed by the in-memory store, so status mapping and JSON
shapes are tested exactly as a client sees them.
*/
package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/farmstead/fcr-engine/api"
	"github.com/farmstead/fcr-engine/fcr"
	"github.com/farmstead/fcr-engine/fcr/store"
	"github.com/farmstead/fcr-engine/journal"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	j := journal.New(m, zap.NewNop())
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(j, m)))
	t.Cleanup(srv.Close)
	return srv, m
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func today() string { return time.Now().Format("2006-01-02") }

func saveBody(date, flock string) map[string]any {
	return map[string]any{
		"date":       date,
		"flockName":  flock,
		"feedAmount": 12,
		"eggCount":   90,
		"eggWeight":  60,
		"birdCount":  100,
	}
}

// =============================================================================
// RECORDS
// =============================================================================

func TestSaveRecord_Created(t *testing.T) {
	// GIVEN: A running server with an empty journal
	// WHEN: Posting a valid entry
	// THEN: 201 with the computed record

	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", saveBody(today(), "Barn A"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	rec := decode[fcr.Record](t, resp)
	assert.Equal(t, "2.22", rec.FCRValue)
	assert.Equal(t, fcr.DefaultCurrency, rec.CurrencyCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/records", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recs := decode[[]fcr.Record](t, resp)
	assert.Len(t, recs, 1)
}

func TestSaveRecord_ValidationFails(t *testing.T) {
	srv, _ := newTestServer(t)

	body := saveBody(today(), "Barn A")
	body["eggCount"] = 0

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	er := decode[api.ErrorResponse](t, resp)
	assert.Contains(t, er.Details, "Feed and Eggs")
}

func TestSaveRecord_DuplicateNeedsOverride(t *testing.T) {
	// GIVEN: A record saved for today
	// WHEN: Posting the same slot again without, then with, the override flag
	// THEN: 409 carrying the existing record, then 201 replacing it

	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", saveBody(today(), "Barn A"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[fcr.Record](t, resp)

	replacement := saveBody(today(), "Barn A")
	replacement["feedAmount"] = 18

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/records", replacement)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	preview := decode[api.PreviewResponse](t, resp)
	assert.Equal(t, "needs-override-confirmation", preview.State)
	require.NotNil(t, preview.Existing)
	assert.Equal(t, first.ID, preview.Existing.ID)

	replacement["override"] = true
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/records", replacement)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rec := decode[fcr.Record](t, resp)
	assert.Equal(t, "3.33", rec.FCRValue)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/records", nil)
	recs := decode[[]fcr.Record](t, resp)
	assert.Len(t, recs, 1, "override replaces in place")
}

func TestPreviewRecord_NoWrites(t *testing.T) {
	srv, m := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/records/preview", saveBody(today(), "Barn A"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	preview := decode[api.PreviewResponse](t, resp)
	assert.Equal(t, "2.22", preview.Metrics.FCRValue)
	assert.Equal(t, "new", preview.State)

	recs, err := m.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestEditRecord(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", saveBody(today(), "Barn A"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rec := decode[fcr.Record](t, resp)

	resp = doJSON(t, http.MethodPut,
		fmt.Sprintf("%s/api/records/%s", srv.URL, rec.ID),
		map[string]any{"feedAmount": 18})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	edited := decode[fcr.Record](t, resp)
	assert.Equal(t, "3.33", edited.FCRValue)
}

func TestDeleteRecord(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", saveBody(today(), "Barn A"))
	rec := decode[fcr.Record](t, resp)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/records/%s", srv.URL, rec.ID), nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/records/%s", srv.URL, rec.ID), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportCSV_Headers(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", saveBody(today(), "Barn A"))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/records/csv", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "fcr-history.csv")
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestNotes_FutureOnlyRule(t *testing.T) {
	srv, _ := newTestServer(t)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/calendar/notes",
		map[string]any{"date": tomorrow, "text": "order feed"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ev := decode[fcr.CalendarEvent](t, resp)
	assert.Equal(t, fcr.EventNote, ev.Type)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/calendar/notes",
		map[string]any{"date": today(), "text": "too soon"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/calendar?date="+tomorrow, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decode[[]fcr.CalendarEvent](t, resp)
	assert.Len(t, events, 1)
}

func TestClearHistory_NotesSurvive(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/records", saveBody(today(), "Barn A"))
	resp.Body.Close()
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/calendar/notes",
		map[string]any{"date": tomorrow, "text": "order feed"})
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/records", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/calendar", nil)
	events := decode[[]fcr.CalendarEvent](t, resp)
	require.Len(t, events, 1)
	assert.Equal(t, fcr.EventNote, events[0].Type)
}

// =============================================================================
// FLOCKS AND SETTINGS
// =============================================================================

func TestFlockCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/flocks",
		map[string]any{"name": "Barn A", "birds": 120, "feedBagKg": 25, "feedBagCost": 50})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.FlockDTO](t, resp)
	assert.True(t, strings.HasPrefix(string(created.ID), "flock-"))
	assert.InDelta(t, 2.0, created.PricePerKg, 1e-9)

	resp = doJSON(t, http.MethodPut,
		fmt.Sprintf("%s/api/flocks/%s", srv.URL, created.ID),
		map[string]any{"name": "Barn A", "birds": 118})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/flocks", nil)
	flocks := decode[[]api.FlockDTO](t, resp)
	require.Len(t, flocks, 1)
	assert.Equal(t, 118, flocks[0].Birds)

	resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/flocks/%s", srv.URL, created.ID), nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCurrencyEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/settings/currency", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cur := decode[api.CurrencyDTO](t, resp)
	assert.Equal(t, fcr.DefaultCurrency, cur.Code)
	assert.Equal(t, "₲", cur.Symbol)
	assert.EqualValues(t, 0, cur.Decimals)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/settings/currency",
		map[string]any{"code": "usd"})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/settings/currency", nil)
	cur = decode[api.CurrencyDTO](t, resp)
	assert.Equal(t, "USD", cur.Code)
	assert.EqualValues(t, 2, cur.Decimals)
}

func TestWeatherEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/weather", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	badges := decode[[]api.WeatherDTO](t, resp)
	require.NotEmpty(t, badges)

	keys := make([]string, len(badges))
	for i, b := range badges {
		keys[i] = b.Key
	}
	assert.Contains(t, keys, "EXTREME_HEAT")
	assert.Contains(t, keys, "OPTIMAL")

	// Saving a record with weather populates the day cache
	body := saveBody(today(), "Barn A")
	body["weather"] = "RAINY"
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/records", body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/weather/days", nil)
	days := decode[map[string]string](t, resp)
	assert.Equal(t, "RAINY", days[today()])
}
