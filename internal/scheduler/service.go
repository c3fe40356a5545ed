// Package scheduler reconciles item expiry state into notifications once a
// day, or on demand.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/lucasrivera/fridgekeeper-backend/internal/items"
	"github.com/lucasrivera/fridgekeeper-backend/internal/notifications"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/dates"
	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/metrics"
)

const (
	triggerDaily  = "daily"
	triggerManual = "manual"
)

// itemSource is the slice of the item service the scheduler needs.
type itemSource interface {
	List(ctx context.Context, filters items.Filters) ([]items.Item, error)
}

// notificationStore is the slice of the notification service the scheduler
// needs.
type notificationStore interface {
	List(ctx context.Context, filters notifications.Filters) ([]notifications.Notification, error)
	CreateBatch(ctx context.Context, batch []notifications.CreateParams) ([]notifications.Notification, error)
}

// Summary reports one reconciliation pass. Per-item failures are collected
// here instead of aborting the run.
type Summary struct {
	WarningsCreated int      `json:"expiringWarnings"`
	ExpiredCreated  int      `json:"expiredItems"`
	Errors          []string `json:"errors"`
}

// Status describes the scheduler for the status endpoint.
type Status struct {
	Running  bool   `json:"isRunning"`
	Schedule string `json:"schedule"`
}

// ServiceParams configure the scheduler.
type ServiceParams struct {
	Items         itemSource
	Notifications notificationStore
	Logger        *logger.Logger
	Metrics       *metrics.SchedulerMetrics
	WarningDays   int
	Hour          int
	Minute        int
	CheckTimeout  time.Duration
	Now           func() time.Time
}

// Service owns the scheduler state machine: Stopped or Running. It is an
// injected instance, not a package singleton.
type Service struct {
	itemSvc      itemSource
	noteSvc      notificationStore
	logg         *logger.Logger
	metrics      *metrics.SchedulerMetrics
	warningDays  int
	hour, minute int
	checkTimeout time.Duration
	now          func() time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

const defaultCheckTimeout = time.Minute

// NewService builds a stopped scheduler.
func NewService(params ServiceParams) (*Service, error) {
	if params.Items == nil {
		return nil, fmt.Errorf("item service required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notification service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Hour < 0 || params.Hour > 23 || params.Minute < 0 || params.Minute > 59 {
		return nil, fmt.Errorf("invalid schedule time %02d:%02d", params.Hour, params.Minute)
	}
	warningDays := params.WarningDays
	if warningDays <= 0 {
		warningDays = 3
	}
	checkTimeout := params.CheckTimeout
	if checkTimeout <= 0 {
		checkTimeout = defaultCheckTimeout
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		itemSvc:      params.Items,
		noteSvc:      params.Notifications,
		logg:         params.Logger,
		metrics:      params.Metrics,
		warningDays:  warningDays,
		hour:         params.Hour,
		minute:       params.Minute,
		checkTimeout: checkTimeout,
		now:          now,
	}, nil
}

// Start transitions Stopped -> Running and registers the daily trigger.
// Starting an already running scheduler logs and is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.logg.Info(context.Background(), "scheduler already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true
	go s.loop(ctx)

	s.logg.Info(s.logg.WithField(context.Background(), "schedule", s.scheduleDescription()), "scheduler started")
}

// Stop cancels the daily trigger. A reconciliation pass already in flight is
// not interrupted.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	s.cancel = nil
	s.running = false
	s.logg.Info(context.Background(), "scheduler stopped")
}

// Status reports the current state and the schedule description.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Running: s.running, Schedule: s.scheduleDescription()}
}

func (s *Service) scheduleDescription() string {
	return fmt.Sprintf("daily at %02d:%02d", s.hour, s.minute)
}

func (s *Service) loop(ctx context.Context) {
	for {
		wait := s.untilNextRun()
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		runCtx, cancel := context.WithTimeout(context.Background(), s.checkTimeout)
		if _, err := s.check(runCtx, triggerDaily); err != nil {
			s.logg.Error(runCtx, "daily notification check failed", err)
		}
		cancel()
	}
}

// untilNextRun computes the delay to the next configured wall-clock time.
func (s *Service) untilNextRun() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// TriggerCheck runs one reconciliation pass synchronously, independent of
// the recurring schedule. It works in either state.
func (s *Service) TriggerCheck(ctx context.Context) (Summary, error) {
	return s.check(ctx, triggerManual)
}

func (s *Service) check(ctx context.Context, trigger string) (Summary, error) {
	start := s.now()
	summary, err := s.reconcile(ctx)
	duration := s.now().Sub(start)

	s.metrics.ObserveDuration(trigger, duration)
	if err != nil {
		s.metrics.IncFailure(trigger)
		return Summary{}, err
	}
	s.metrics.IncSuccess(trigger)
	s.metrics.AddCreated(notifications.TypeExpiryWarning, summary.WarningsCreated)
	s.metrics.AddCreated(notifications.TypeExpired, summary.ExpiredCreated)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"trigger":  trigger,
		"warnings": summary.WarningsCreated,
		"expired":  summary.ExpiredCreated,
		"errors":   len(summary.Errors),
	})
	s.logg.Info(logCtx, "notification check completed")
	return summary, nil
}

// reconcile diffs items against existing notifications and inserts the
// missing ones. A failure to load either collection aborts the run; a
// failure on a single item is recorded and skipped.
func (s *Service) reconcile(ctx context.Context) (Summary, error) {
	allItems, err := s.itemSvc.List(ctx, items.Filters{})
	if err != nil {
		return Summary{}, wrapLoad(err, "load items for reconciliation")
	}
	existing, err := s.noteSvc.List(ctx, notifications.Filters{})
	if err != nil {
		return Summary{}, wrapLoad(err, "load notifications for reconciliation")
	}

	warned := map[string]struct{}{}
	expired := map[string]struct{}{}
	for _, note := range existing {
		if note.ItemID == nil {
			continue
		}
		switch note.Type {
		case notifications.TypeExpiryWarning:
			warned[*note.ItemID] = struct{}{}
		case notifications.TypeExpired:
			expired[*note.ItemID] = struct{}{}
		}
	}

	summary := Summary{Errors: []string{}}
	today := dates.Truncate(s.now())
	var itemErrs error
	enqueued := []notifications.CreateParams{}

	for _, item := range allItems {
		expiry, err := dates.Parse(item.ExpiryDate)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("item %s: %v", item.ID, err))
			itemErrs = multierr.Append(itemErrs, err)
			continue
		}

		isExpired := dates.IsInPast(expiry, today)
		isExpiring := !isExpired && dates.IsWithinDays(expiry, today, s.warningDays)

		if isExpiring {
			if _, seen := warned[item.ID]; !seen {
				enqueued = append(enqueued, notifications.CreateParams{
					Type:    notifications.TypeExpiryWarning,
					Message: warningMessage(item.Name, dates.DaysUntil(expiry, today)),
					ItemID:  item.ID,
				})
				summary.WarningsCreated++
			}
		}
		if isExpired {
			if _, seen := expired[item.ID]; !seen {
				enqueued = append(enqueued, notifications.CreateParams{
					Type:    notifications.TypeExpired,
					Message: fmt.Sprintf("%s has expired", item.Name),
					ItemID:  item.ID,
				})
				summary.ExpiredCreated++
			}
		}
	}

	if itemErrs != nil {
		s.logg.Warn(s.logg.WithField(ctx, "failed_items", len(multierr.Errors(itemErrs))), "some items were skipped during reconciliation")
	}

	if len(enqueued) > 0 {
		if _, err := s.noteSvc.CreateBatch(ctx, enqueued); err != nil {
			// Persisting the enqueued batch is a per-run casualty, not a
			// reason to fail the caller: the next pass will retry since the
			// dedupe sets never saw these notifications.
			summary.Errors = append(summary.Errors, fmt.Sprintf("persist notifications: %v", err))
			summary.WarningsCreated = 0
			summary.ExpiredCreated = 0
		}
	}

	return summary, nil
}

func wrapLoad(err error, message string) error {
	code := pkgerrors.CodePersistence
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
	}
	return pkgerrors.Wrap(code, err, message)
}

func warningMessage(name string, days int) string {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%s expires in %d %s", name, days, unit)
}
