package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lucasrivera/fridgekeeper-backend/internal/scheduler"
	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
)

type fakeScheduler struct {
	summary scheduler.Summary
	err     error
	status  scheduler.Status
}

func (f *fakeScheduler) TriggerCheck(ctx context.Context) (scheduler.Summary, error) {
	if f.err != nil {
		return scheduler.Summary{}, f.err
	}
	return f.summary, nil
}

func (f *fakeScheduler) Status() scheduler.Status {
	return f.status
}

func TestTriggerNotificationCheck(t *testing.T) {
	sched := &fakeScheduler{summary: scheduler.Summary{WarningsCreated: 2, ExpiredCreated: 1, Errors: []string{}}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/check", nil)
	rec := httptest.NewRecorder()
	TriggerNotificationCheck(sched, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data := body.Data.(map[string]any)
	if data["expiringWarnings"] != float64(2) || data["expiredItems"] != float64(1) {
		t.Fatalf("unexpected summary %v", data)
	}
}

func TestTriggerNotificationCheckPropagatesFailure(t *testing.T) {
	sched := &fakeScheduler{err: pkgerrors.New(pkgerrors.CodePersistence, "disk gone")}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/check", nil)
	rec := httptest.NewRecorder()
	TriggerNotificationCheck(sched, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestSchedulerStatus(t *testing.T) {
	sched := &fakeScheduler{status: scheduler.Status{Running: true, Schedule: "daily at 09:00"}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/scheduler/status", nil)
	rec := httptest.NewRecorder()
	SchedulerStatus(sched, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data := body.Data.(map[string]any)
	if data["isRunning"] != true || data["schedule"] != "daily at 09:00" {
		t.Fatalf("unexpected status %v", data)
	}
}
