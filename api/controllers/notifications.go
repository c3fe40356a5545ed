package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lucasrivera/fridgekeeper-backend/api/responses"
	"github.com/lucasrivera/fridgekeeper-backend/api/validators"
	"github.com/lucasrivera/fridgekeeper-backend/internal/notifications"
	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
)

// ListNotifications returns notifications, newest first.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		filters := notifications.Filters{
			Type: strings.TrimSpace(r.URL.Query().Get("type")),
		}
		isRead, err := validators.ParseQueryBool(r, "isRead")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.IsRead = isRead

		list, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetNotification returns one notification by id.
func GetNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "notificationId"))
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "notification id is required"))
			return
		}

		note, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

type createNotificationRequest struct {
	Type    string  `json:"type"`
	Message string  `json:"message"`
	ItemID  *string `json:"itemId"`
}

// CreateNotification inserts a notification.
func CreateNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		var req createNotificationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := notifications.CreateParams{
			Type:    req.Type,
			Message: req.Message,
		}
		if req.ItemID != nil {
			params.ItemID = *req.ItemID
		}

		note, err := svc.Create(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, note)
	}
}

// UpdateNotification flips the read flag on one notification. isRead is the
// only writable field.
func UpdateNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "notificationId"))
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "notification id is required"))
			return
		}

		var params notifications.UpdateParams
		if err := validators.DecodeJSONBody(r, &params); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		note, err := svc.Update(r.Context(), id, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

type markAllRequest struct {
	IsRead *bool `json:"isRead"`
}

// MarkAllNotifications bulk-updates the read flag on every mismatched
// notification.
func MarkAllNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		var req markAllRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.IsRead == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "isRead is required").WithDetails(map[string]string{"isRead": "is required"}))
			return
		}

		count, err := svc.MarkAll(r.Context(), *req.IsRead)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"updatedCount": count})
	}
}

type deleteNotificationsRequest struct {
	IDs []string `json:"ids"`
}

// DeleteNotifications removes the named notifications. Unknown ids are
// skipped, not an error.
func DeleteNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		var req deleteNotificationsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(req.IDs) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "ids must not be empty").WithDetails(map[string]string{"ids": "is required"}))
			return
		}

		result, err := svc.DeleteMany(r.Context(), req.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// NotificationStats returns total, unread and read counts.
func NotificationStats(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification service unavailable"))
			return
		}

		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
