package notifications

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
)

// Store is the persistence boundary: whole-collection load and save.
type Store interface {
	Load(ctx context.Context) ([]Notification, error)
	Save(ctx context.Context, records []Notification) error
}

// Service defines notification CRUD, bulk operations and stats.
type Service interface {
	List(ctx context.Context, filters Filters) ([]Notification, error)
	Get(ctx context.Context, id string) (Notification, error)
	Create(ctx context.Context, params CreateParams) (Notification, error)
	CreateBatch(ctx context.Context, batch []CreateParams) ([]Notification, error)
	Update(ctx context.Context, id string, params UpdateParams) (Notification, error)
	MarkAll(ctx context.Context, isRead bool) (int, error)
	DeleteMany(ctx context.Context, ids []string) (DeleteResult, error)
	Stats(ctx context.Context) (Stats, error)
}

// ServiceParams configure the notification service.
type ServiceParams struct {
	Store  Store
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	store Store
	logg  *logger.Logger
	now   func() time.Time
}

// NewService wires notification dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("notifications store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{store: params.Store, logg: params.Logger, now: now}, nil
}

// List returns notifications newest first. The descending createdAt order is
// a contract relied on by clients, not an incidental property.
func (s *service) List(ctx context.Context, filters Filters) ([]Notification, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := []Notification{}
	for _, record := range records {
		if filters.Type != "" && record.Type != filters.Type {
			continue
		}
		if filters.IsRead != nil && record.IsRead != *filters.IsRead {
			continue
		}
		result = append(result, record)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt > result[j].CreatedAt
	})
	return result, nil
}

func (s *service) Get(ctx context.Context, id string) (Notification, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return Notification{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return Notification{}, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
}

func (s *service) Create(ctx context.Context, params CreateParams) (Notification, error) {
	created, err := s.CreateBatch(ctx, []CreateParams{params})
	if err != nil {
		return Notification{}, err
	}
	return created[0], nil
}

// CreateBatch validates and persists several notifications in one write.
// The scheduler uses it so a reconciliation pass costs one save.
func (s *service) CreateBatch(ctx context.Context, batch []CreateParams) ([]Notification, error) {
	created := make([]Notification, 0, len(batch))
	for _, params := range batch {
		if err := validateCreate(params); err != nil {
			return nil, err
		}
		var itemID *string
		if params.ItemID != "" {
			value := params.ItemID
			itemID = &value
		}
		created = append(created, Notification{
			ID:        uuid.NewString(),
			Type:      params.Type,
			Message:   params.Message,
			ItemID:    itemID,
			CreatedAt: s.now().Unix(),
			IsRead:    false,
		})
	}

	if len(created) == 0 {
		return []Notification{}, nil
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	records = append(records, created...)
	if err := s.store.Save(ctx, records); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "count", len(created)), "notifications created")
	return created, nil
}

func validateCreate(params CreateParams) error {
	errs := map[string]string{}
	if strings.TrimSpace(params.Message) == "" {
		errs["message"] = "is required"
	}
	if params.Type == "" {
		errs["type"] = "is required"
	} else if !ValidType(params.Type) {
		errs["type"] = "must be one of: " + strings.Join(validTypes, ", ")
	}
	if len(errs) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(errs)
}

func (s *service) Update(ctx context.Context, id string, params UpdateParams) (Notification, error) {
	if params.IsRead == nil {
		return Notification{}, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"isRead": "is required"})
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return Notification{}, err
	}

	index := -1
	for i, record := range records {
		if record.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return Notification{}, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}

	records[index].IsRead = *params.IsRead
	if err := s.store.Save(ctx, records); err != nil {
		return Notification{}, err
	}
	return records[index], nil
}

// MarkAll flips every notification whose isRead differs from the requested
// value and reports how many changed. It goes through the same isRead-only
// whitelist as Update; no other field is touched.
func (s *service) MarkAll(ctx context.Context, isRead bool) (int, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range records {
		if records[i].IsRead != isRead {
			records[i].IsRead = isRead
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	if err := s.store.Save(ctx, records); err != nil {
		return 0, err
	}
	s.logg.Info(s.logg.WithField(ctx, "count", changed), "notifications bulk updated")
	return changed, nil
}

func (s *service) DeleteMany(ctx context.Context, ids []string) (DeleteResult, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return DeleteResult{}, err
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := records[:0]
	for _, record := range records {
		if _, gone := drop[record.ID]; !gone {
			kept = append(kept, record)
		}
	}

	deleted := len(records) - len(kept)
	if deleted > 0 {
		if err := s.store.Save(ctx, kept); err != nil {
			return DeleteResult{}, err
		}
		s.logg.Info(s.logg.WithField(ctx, "count", deleted), "notifications deleted")
	}
	return DeleteResult{DeletedCount: deleted}, nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(records)}
	for _, record := range records {
		if record.IsRead {
			stats.Read++
		} else {
			stats.Unread++
		}
	}
	return stats, nil
}
