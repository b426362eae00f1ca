/*
resolver.go - The preview-then-commit confirmation gate

PURPOSE:
  Decides, for an incoming (date, flock) entry attempt, whether it collides
  with an existing record, and hands the caller an explicit Resolution
  value that must be granted (by the user, through whatever dialog the UI
  uses) before the save is allowed through.

STATE MACHINE:
  StateNew              no collision, no confirmation required
  StateConfirmNew       no collision, but policy wants an explicit
                        "log this day?" confirmation before a first save
  StateConfirmOverwrite a record already occupies the slot; only an
                        explicitly granted resolution may replace it

  Computing and displaying metrics is always allowed and side-effect
  free; only persistence is gated. A Resolution is single-use: commit or
  cancel consumes it, so a stale confirmation can never leak into an
  unrelated save.

SEE ALSO:
  - journal: drives Resolve -> Grant -> Save
  - store.go: Upsert's allowOverwrite flag, which only a granted
    StateConfirmOverwrite resolution may set
*/
package fcr

import "context"

// =============================================================================
// RESOLUTION - Single-use confirmation token
// =============================================================================

type ResolutionState int

const (
	StateNew ResolutionState = iota
	StateConfirmNew
	StateConfirmOverwrite
)

func (s ResolutionState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateConfirmNew:
		return "needs-confirmation"
	case StateConfirmOverwrite:
		return "needs-override-confirmation"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of duplicate resolution for one save attempt.
// It is explicitly passed into the commit call; there is no ambient flag.
type Resolution struct {
	State ResolutionState

	// Key is the (date, flock name) identity the save would occupy.
	Key RecordID

	// Existing is the colliding record, nil unless StateConfirmOverwrite.
	Existing *Record

	granted  bool
	consumed bool
}

// Grant marks the resolution as confirmed by the user. StateNew
// resolutions are granted from the start.
func (r *Resolution) Grant() { r.granted = true }

// Granted reports whether the save may proceed.
func (r *Resolution) Granted() bool { return r.granted && !r.consumed }

// Cancel consumes the resolution without saving. The preview stays on
// screen; the store is untouched.
func (r *Resolution) Cancel() { r.consumed = true; r.granted = false }

// Consume spends the resolution for a commit. It fails for resolutions
// that were never granted or were already used, and always resets the
// grant so nothing leaks into a later save.
func (r *Resolution) Consume() error {
	if r == nil || !r.granted || r.consumed {
		return ErrStaleResolution
	}
	r.consumed = true
	r.granted = false
	return nil
}

// AllowOverwrite reports whether this commit may replace an existing row.
func (r *Resolution) AllowOverwrite() bool {
	return r.State == StateConfirmOverwrite
}

// =============================================================================
// DUPLICATE RESOLVER
// =============================================================================

// DuplicateResolver gates every save behind the three-way outcome above.
type DuplicateResolver struct {
	Records RecordStore
}

func NewDuplicateResolver(records RecordStore) *DuplicateResolver {
	return &DuplicateResolver{Records: records}
}

// Resolve classifies a save attempt. requireConfirm asks for an explicit
// confirmation even for first-time saves (the calculator flow does; quick
// entry does not). The input must already have passed ValidateInput.
func (d *DuplicateResolver) Resolve(ctx context.Context, in DailyInput, requireConfirm bool) (*Resolution, error) {
	key := RecordKey(in.Date, in.FlockName)

	existing, err := d.Records.FindByDateAndFlock(ctx, in.Date, in.FlockID, in.FlockName)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return &Resolution{State: StateConfirmOverwrite, Key: key, Existing: existing}, nil
	}
	if requireConfirm {
		return &Resolution{State: StateConfirmNew, Key: key}, nil
	}
	res := &Resolution{State: StateNew, Key: key}
	res.Grant()
	return res, nil
}
