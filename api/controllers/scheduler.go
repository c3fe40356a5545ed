package controllers

import (
	"context"
	"net/http"

	"github.com/lucasrivera/fridgekeeper-backend/api/responses"
	"github.com/lucasrivera/fridgekeeper-backend/internal/scheduler"
	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
)

// ExpiryScheduler is the slice of the scheduler the HTTP layer needs.
type ExpiryScheduler interface {
	TriggerCheck(ctx context.Context) (scheduler.Summary, error)
	Status() scheduler.Status
}

// TriggerNotificationCheck runs one reconciliation pass immediately.
func TriggerNotificationCheck(sched ExpiryScheduler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sched == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduler unavailable"))
			return
		}

		summary, err := sched.TriggerCheck(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// SchedulerStatus reports whether the daily trigger is running.
func SchedulerStatus(sched ExpiryScheduler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sched == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scheduler unavailable"))
			return
		}
		responses.WriteSuccess(w, sched.Status())
	}
}
