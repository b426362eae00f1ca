/*
handlers.go - HTTP API handlers for the record-keeping core

PURPOSE:
  Exposes the journal via REST API. Handles HTTP request/response, JSON
  serialization, and delegates everything else to the domain layer.

ENDPOINTS:
  Records:
    GET    /api/records              List all records
    POST   /api/records/preview      Compute-only preview (no writes)
    POST   /api/records              Save (confirm/override flags)
    PUT    /api/records/{id}         Edit a record
    DELETE /api/records/{id}         Delete record + calendar event
    DELETE /api/records              Clear history (notes survive)
    GET    /api/records/csv          Full history as CSV
    GET    /api/records/{id}/csv     One record as CSV

  Calendar:
    GET    /api/calendar?date=       Events on a day
    POST   /api/calendar/notes       Future-date reminder
    PUT    /api/calendar/notes       Rewrite a day's note

  Flocks:
    GET/POST /api/flocks, PUT/DELETE /api/flocks/{id}

  Settings:
    GET/PUT /api/settings/currency

  Weather:
    GET /api/weather                 Canonical weather table
    GET /api/weather/days            Day-level weather cache

REQUEST FLOW:
  1. Parse HTTP request
  2. Call domain logic (journal)
  3. Serialize response
  4. Map domain errors to status codes

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Duplicate slot, stale resolution
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead/fcr-engine/fcr"
	"github.com/farmstead/fcr-engine/journal"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Journal *journal.Journal
	Weather fcr.DayWeatherStore
}

// NewHandler creates a new handler over the journal.
func NewHandler(j *journal.Journal, weather fcr.DayWeatherStore) *Handler {
	return &Handler{Journal: j, Weather: weather}
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ListRecords returns the full history.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Journal.Records.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}
	if recs == nil {
		recs = []fcr.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// PreviewRecord computes derived metrics without writing anything.
func (h *Handler) PreviewRecord(w http.ResponseWriter, r *http.Request) {
	var req SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Journal.PreviewEntry(r.Context(), req.DailyInput, false)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PreviewResponse{
		Metrics:     p.Metrics,
		State:       p.Resolution.State.String(),
		Existing:    p.Resolution.Existing,
		ApproxSaved: p.ApproxSaved,
		Advisory:    p.Advisory,
		Message:     p.Message,
	})
}

// SaveRecord commits a daily entry, driving the duplicate resolver with
// the request's confirm/override flags.
func (h *Handler) SaveRecord(w http.ResponseWriter, r *http.Request) {
	var req SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Journal.PreviewEntry(r.Context(), req.DailyInput, !req.Confirm)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	res := p.Resolution
	switch res.State {
	case fcr.StateConfirmOverwrite:
		if !req.Override {
			writeJSON(w, http.StatusConflict, PreviewResponse{
				Metrics:  p.Metrics,
				State:    res.State.String(),
				Existing: res.Existing,
			})
			return
		}
		res.Grant()
	case fcr.StateConfirmNew:
		if !req.Confirm {
			writeJSON(w, http.StatusConflict, PreviewResponse{
				Metrics: p.Metrics,
				State:   res.State.String(),
			})
			return
		}
		res.Grant()
	}

	rec, err := h.Journal.Save(r.Context(), req.DailyInput, res)
	if err != nil && !errors.Is(err, fcr.ErrPersistence) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// EditRecord updates an existing record and recomputes derived values.
func (h *Handler) EditRecord(w http.ResponseWriter, r *http.Request) {
	id := fcr.RecordID(chi.URLParam(r, "id"))

	var req EditRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ch := journal.EditChanges{
		FlockName:      req.FlockName,
		FeedAmount:     req.FeedAmount,
		EggCount:       req.EggCount,
		FeedPricePerKg: req.FeedPricePerKg,
		AltFeedKg:      req.AltFeedKg,
		AltFeedName:    req.AltFeedName,
		Weather:        req.Weather,
		Notes:          req.Notes,
	}
	if req.Date != nil {
		d, err := fcr.ParseDay(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		ch.Date = &d
	}

	rec, err := h.Journal.Edit(r.Context(), id, ch)
	if err != nil && !errors.Is(err, fcr.ErrPersistence) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord removes a record and its calendar event.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := fcr.RecordID(chi.URLParam(r, "id"))
	if err := h.Journal.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearHistory wipes all records and their calendar events.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.Journal.ClearHistory(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportHistoryCSV streams the full history as CSV.
func (h *Handler) ExportHistoryCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Journal.ExportCSV(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeCSV(w, "fcr-history.csv", data)
}

// ExportRecordCSV streams one record as CSV.
func (h *Handler) ExportRecordCSV(w http.ResponseWriter, r *http.Request) {
	id := fcr.RecordID(chi.URLParam(r, "id"))
	data, err := h.Journal.ExportRecordCSV(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeCSV(w, "fcr-record.csv", data)
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListEvents returns the events on one date, or all events when no date
// is given.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	var (
		events []fcr.CalendarEvent
		err    error
	)
	if d := r.URL.Query().Get("date"); d != "" {
		date, perr := fcr.ParseDay(d)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", perr)
			return
		}
		events, err = h.Journal.EventsForDay(r.Context(), date)
	} else {
		events, err = h.Journal.Events.AllEvents(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events", err)
		return
	}
	if events == nil {
		events = []fcr.CalendarEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateNote adds a reminder on a strictly future date.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := fcr.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	ev, err := h.Journal.AddNote(r.Context(), date, req.Text, req.Weather, req.FlockID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// UpdateNote rewrites a day's note text.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := fcr.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if err := h.Journal.UpdateNote(r.Context(), date, req.Text); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// FLOCK HANDLERS
// =============================================================================

// ListFlocks returns all flocks with their derived feed price.
func (h *Handler) ListFlocks(w http.ResponseWriter, r *http.Request) {
	flocks, err := h.Journal.ListFlocks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list flocks", err)
		return
	}

	dtos := make([]FlockDTO, len(flocks))
	for i, f := range flocks {
		dtos[i] = FlockDTO{Flock: f, PricePerKg: f.PricePerKg()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateFlock adds a flock.
func (h *Handler) CreateFlock(w http.ResponseWriter, r *http.Request) {
	var f fcr.Flock
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	created, err := h.Journal.CreateFlock(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, FlockDTO{Flock: created, PricePerKg: created.PricePerKg()})
}

// UpdateFlock replaces a flock's fields.
func (h *Handler) UpdateFlock(w http.ResponseWriter, r *http.Request) {
	var f fcr.Flock
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	f.ID = fcr.FlockID(chi.URLParam(r, "id"))
	if err := h.Journal.UpdateFlock(r.Context(), f); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FlockDTO{Flock: f, PricePerKg: f.PricePerKg()})
}

// DeleteFlock removes a flock. Its records stay.
func (h *Handler) DeleteFlock(w http.ResponseWriter, r *http.Request) {
	id := fcr.FlockID(chi.URLParam(r, "id"))
	if err := h.Journal.DeleteFlock(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SETTINGS AND WEATHER HANDLERS
// =============================================================================

// GetCurrency returns the configured currency with display metadata.
func (h *Handler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	code, err := h.Journal.Currency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load currency", err)
		return
	}
	writeJSON(w, http.StatusOK, CurrencyDTO{
		Code:     code,
		Symbol:   fcr.CurrencySymbol(code),
		Decimals: fcr.CurrencyDecimals(code),
	})
}

// SetCurrency changes the default currency.
func (h *Handler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var req SetCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Journal.SetCurrency(r.Context(), req.Code); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWeather returns the canonical weather table.
func (h *Handler) ListWeather(w http.ResponseWriter, r *http.Request) {
	dtos := make([]WeatherDTO, len(fcr.WeatherBadges))
	for i, b := range fcr.WeatherBadges {
		dtos[i] = WeatherDTO{Key: b.Key, Label: b.Label, Emoji: b.Emoji}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DayWeather returns the day-level weather cache.
func (h *Handler) DayWeather(w http.ResponseWriter, r *http.Request) {
	days, err := h.Weather.DayWeather(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load weather", err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fcr.ErrValidation):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case errors.Is(err, fcr.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, fcr.ErrDuplicateBlocked):
		writeError(w, http.StatusConflict, "Record already exists for this date and flock", err)
	case errors.Is(err, fcr.ErrStaleResolution):
		writeError(w, http.StatusConflict, "Confirmation expired, preview again", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
