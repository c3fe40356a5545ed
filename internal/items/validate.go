package items

import (
	"fmt"
	"strings"

	"github.com/lucasrivera/fridgekeeper-backend/pkg/dates"
	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
)

// fieldErrors accumulates per-field validation messages so a rejection lists
// every failing field, not just the first.
type fieldErrors map[string]string

func (f fieldErrors) err() *pkgerrors.Error {
	if len(f) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string(f))
}

func validateCreate(p CreateParams, maxExpiryPeriod int) *pkgerrors.Error {
	errs := fieldErrors{}

	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "is required"
	}
	validateExpiryPeriod(errs, p.ExpiryPeriod, maxExpiryPeriod)
	if p.Category != "" && !contains(validCategories, p.Category) {
		errs["category"] = enumMessage(validCategories)
	}
	if p.Status != "" && !contains(validStatuses, p.Status) {
		errs["status"] = enumMessage(validStatuses)
	}
	if p.GeneratedBy != "" && !contains(validGeneratedBy, p.GeneratedBy) {
		errs["generatedBy"] = enumMessage(validGeneratedBy)
	}
	if p.Source != "" && !contains(validSources, p.Source) {
		errs["source"] = enumMessage(validSources)
	}
	if p.PurchasedDate != "" {
		if _, err := dates.Parse(p.PurchasedDate); err != nil {
			errs["purchasedDate"] = "must be a date in YYYY-MM-DD format"
		}
	}

	return errs.err()
}

// validateUpdate checks only the fields present in the request; absent
// fields are not re-validated.
func validateUpdate(p UpdateParams, maxExpiryPeriod int) *pkgerrors.Error {
	errs := fieldErrors{}

	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs["name"] = "is required"
	}
	if p.ExpiryPeriod != nil {
		validateExpiryPeriod(errs, *p.ExpiryPeriod, maxExpiryPeriod)
	}
	if p.Category != nil && !contains(validCategories, *p.Category) {
		errs["category"] = enumMessage(validCategories)
	}
	if p.Status != nil && !contains(validStatuses, *p.Status) {
		errs["status"] = enumMessage(validStatuses)
	}
	if p.PurchasedDate != nil {
		if _, err := dates.Parse(*p.PurchasedDate); err != nil {
			errs["purchasedDate"] = "must be a date in YYYY-MM-DD format"
		}
	}

	return errs.err()
}

func validateExpiryPeriod(errs fieldErrors, period, max int) {
	switch {
	case period <= 0:
		errs["expiryPeriod"] = "must be a positive integer"
	case period > max:
		errs["expiryPeriod"] = fmt.Sprintf("cannot be more than %d days", max)
	}
}

func enumMessage(allowed []string) string {
	return "must be one of: " + strings.Join(allowed, ", ")
}
