package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lucasrivera/fridgekeeper-backend/api/responses"
	"github.com/lucasrivera/fridgekeeper-backend/api/validators"
	"github.com/lucasrivera/fridgekeeper-backend/internal/items"
	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
)

const maxExpiringDays = 365

// ListItems returns all items, optionally filtered.
func ListItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		filters, err := itemFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListExpiringItems returns items expiring within the given window.
func ListExpiringItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		days, err := validators.ParseQueryInt(r, "days", 0, 0, maxExpiringDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), items.Filters{Expiring: true, ExpiringDays: days})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ListExpiredItems returns items whose expiry date is in the past.
func ListExpiredItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		list, err := svc.List(r.Context(), items.Filters{Expired: true})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetItem returns a single item by id.
func GetItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

type createItemRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	PurchasedDate string `json:"purchasedDate"`
	ExpiryPeriod  int    `json:"expiryPeriod"`
	Status        string `json:"status"`
	GeneratedBy   string `json:"generatedBy"`
	Source        string `json:"source"`
}

// CreateItem inserts a new item.
func CreateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		var req createItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), items.CreateParams{
			Name:          req.Name,
			Category:      req.Category,
			PurchasedDate: req.PurchasedDate,
			ExpiryPeriod:  req.ExpiryPeriod,
			Status:        req.Status,
			GeneratedBy:   req.GeneratedBy,
			Source:        req.Source,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// UpdateItem applies the writable fields of the payload to an item. Fields
// outside the writable set are dropped without error.
func UpdateItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		var params items.UpdateParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DeleteItem removes a single item and returns it.
func DeleteItem(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		item, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// DeleteAllItems clears the collection. The deleteAll=true query flag is
// required so a bare DELETE /items cannot wipe the fridge by accident.
func DeleteAllItems(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "item service unavailable"))
			return
		}

		confirm, err := validators.ParseQueryBool(r, "deleteAll")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if confirm == nil || !*confirm {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "deleteAll=true is required to clear all items"))
			return
		}

		result, err := svc.DeleteAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func itemFiltersFromQuery(r *http.Request) (items.Filters, error) {
	filters := items.Filters{
		Category:    strings.TrimSpace(r.URL.Query().Get("category")),
		Status:      strings.TrimSpace(r.URL.Query().Get("status")),
		Source:      strings.TrimSpace(r.URL.Query().Get("source")),
		GeneratedBy: strings.TrimSpace(r.URL.Query().Get("generatedBy")),
	}

	expired, err := validators.ParseQueryBool(r, "expired")
	if err != nil {
		return items.Filters{}, err
	}
	if expired != nil {
		filters.Expired = *expired
	}

	expiring, err := validators.ParseQueryBool(r, "expiring")
	if err != nil {
		return items.Filters{}, err
	}
	if expiring != nil {
		filters.Expiring = *expiring
	}

	days, err := validators.ParseQueryInt(r, "expiringDays", 0, 0, maxExpiringDays)
	if err != nil {
		return items.Filters{}, err
	}
	filters.ExpiringDays = days

	return filters, nil
}

// readImagePart extracts the uploaded image from a multipart form.
func readImagePart(r *http.Request, maxBytes int64) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image upload")
	}
	if len(data) == 0 {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "image file is empty")
	}

	return data, header.Header.Get("Content-Type"), nil
}
