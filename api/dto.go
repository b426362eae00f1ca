/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in the domain layer, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/farmstead/fcr-engine/fcr"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// SaveRecordRequest carries the raw daily entry plus the confirmation
// flags the duplicate resolver needs.
type SaveRecordRequest struct {
	fcr.DailyInput

	// Confirm grants a needs-confirmation resolution.
	Confirm bool `json:"confirm"`
	// Override grants replacing an existing record on the same slot.
	Override bool `json:"override"`
}

// PreviewResponse is the compute-only result: derived metrics plus what a
// commit would need.
type PreviewResponse struct {
	Metrics     fcr.DerivedMetrics `json:"metrics"`
	State       string             `json:"state"`
	Existing    *fcr.Record        `json:"existing,omitempty"`
	ApproxSaved float64            `json:"approxSaved,omitempty"`
	Advisory    string             `json:"advisory,omitempty"`
	Message     string             `json:"message,omitempty"`
}

// EditRecordRequest carries the editable fields of a record. Absent
// fields keep their stored value; bird count and egg weight are not
// editable at all.
type EditRecordRequest struct {
	Date           *string  `json:"date"`
	FlockName      *string  `json:"flockName"`
	FeedAmount     *float64 `json:"feedAmount"`
	EggCount       *int     `json:"eggCount"`
	FeedPricePerKg *float64 `json:"feedPricePerKg"`
	AltFeedKg      *float64 `json:"altFeedKg"`
	AltFeedName    *string  `json:"altFeedName"`
	Weather        *string  `json:"weather"`
	Notes          *string  `json:"notes"`
}

// =============================================================================
// CALENDAR TYPES
// =============================================================================

// CreateNoteRequest creates a reminder on a future date.
type CreateNoteRequest struct {
	Date    string      `json:"date"`
	Text    string      `json:"text"`
	Weather string      `json:"weather,omitempty"`
	FlockID fcr.FlockID `json:"flockId,omitempty"`
}

// UpdateNoteRequest rewrites the note text on a date.
type UpdateNoteRequest struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// WeatherDTO is one canonical weather option.
type WeatherDTO struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Emoji string `json:"emoji"`
}

// =============================================================================
// FLOCK AND SETTINGS TYPES
// =============================================================================

// FlockDTO extends the flock with its derived feed price.
type FlockDTO struct {
	fcr.Flock
	PricePerKg float64 `json:"pricePerKg"`
}

// CurrencyDTO is the configured currency with display metadata.
type CurrencyDTO struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
}

// SetCurrencyRequest changes the default currency.
type SetCurrencyRequest struct {
	Code string `json:"code"`
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
