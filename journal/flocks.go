/*
flocks.go - Flock management and settings

Deleting a flock keeps its records: history belongs to the farm, not to
the flock object that happened to produce it.
*/
package journal

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmstead/fcr-engine/fcr"
)

// CreateFlock validates and stores a new flock, assigning its id.
func (j *Journal) CreateFlock(ctx context.Context, f fcr.Flock) (fcr.Flock, error) {
	if err := validateFlock(f); err != nil {
		return fcr.Flock{}, err
	}
	f.ID = fcr.FlockID("flock-" + uuid.Must(uuid.NewV7()).String())
	if err := j.Flocks.AddFlock(ctx, f); err != nil {
		return fcr.Flock{}, err
	}
	j.log.Info("flock created", zap.String("id", string(f.ID)), zap.String("name", f.Name))
	return f, nil
}

// UpdateFlock replaces a flock's fields, keeping its id.
func (j *Journal) UpdateFlock(ctx context.Context, f fcr.Flock) error {
	if f.ID == "" {
		return &fcr.ValidationError{Field: "id", Message: "Flock id is required"}
	}
	if err := validateFlock(f); err != nil {
		return err
	}
	return j.Flocks.UpdateFlock(ctx, f)
}

// DeleteFlock removes the flock. Its records stay.
func (j *Journal) DeleteFlock(ctx context.Context, id fcr.FlockID) error {
	return j.Flocks.RemoveFlock(ctx, id)
}

// ListFlocks returns all flocks, name-sorted.
func (j *Journal) ListFlocks(ctx context.Context) ([]fcr.Flock, error) {
	return j.Flocks.AllFlocks(ctx)
}

// Currency returns the configured default currency code.
func (j *Journal) Currency(ctx context.Context) (string, error) {
	code, err := j.Settings.Currency(ctx)
	if err != nil {
		return "", err
	}
	if code == "" {
		return fcr.DefaultCurrency, nil
	}
	return code, nil
}

// SetCurrency stores a new default currency code.
func (j *Journal) SetCurrency(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return &fcr.ValidationError{Field: "currency", Message: "Currency code is required"}
	}
	return j.Settings.SetCurrency(ctx, code)
}

func validateFlock(f fcr.Flock) error {
	if strings.TrimSpace(f.Name) == "" {
		return &fcr.ValidationError{Field: "name", Message: "Flock name is required"}
	}
	if f.Birds < 0 {
		return &fcr.ValidationError{Field: "birds", Message: "Bird count cannot be negative"}
	}
	if f.EggWeight != nil && (*f.EggWeight < fcr.MinEggWeightG || *f.EggWeight > fcr.MaxEggWeightG) {
		return &fcr.ValidationError{Field: "eggWeight", Message: "Egg weight must be between 10 and 200 grams"}
	}
	if f.FeedBagKg < 0 || f.FeedBagCost < 0 {
		return &fcr.ValidationError{Field: "feedBag", Message: "Feed bag size and cost cannot be negative"}
	}
	return nil
}
