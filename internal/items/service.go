package items

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lucasrivera/fridgekeeper-backend/pkg/dates"
	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
)

// Store is the persistence boundary: whole-collection load and save.
// *jsonfile.Store[Item] satisfies it; tests substitute an in-memory fake.
type Store interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, records []Item) error
}

// Service defines item CRUD with derived-expiry recomputation.
type Service interface {
	List(ctx context.Context, filters Filters) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Create(ctx context.Context, params CreateParams) (Item, error)
	CreateDrafts(ctx context.Context, drafts []Draft) ([]Item, error)
	Update(ctx context.Context, id string, params UpdateParams) (Item, error)
	Delete(ctx context.Context, id string) (Item, error)
	DeleteAll(ctx context.Context) (DeleteAllResult, error)
}

// ServiceParams configure the item service.
type ServiceParams struct {
	Store           Store
	Logger          *logger.Logger
	WarningDays     int
	MaxExpiryPeriod int
	Now             func() time.Time
}

type service struct {
	store           Store
	logg            *logger.Logger
	warningDays     int
	maxExpiryPeriod int
	now             func() time.Time
}

const (
	defaultWarningDays     = 3
	defaultMaxExpiryPeriod = 365
)

// NewService wires item dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("items store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	warningDays := params.WarningDays
	if warningDays <= 0 {
		warningDays = defaultWarningDays
	}
	maxExpiryPeriod := params.MaxExpiryPeriod
	if maxExpiryPeriod <= 0 {
		maxExpiryPeriod = defaultMaxExpiryPeriod
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:           params.Store,
		logg:            params.Logger,
		warningDays:     warningDays,
		maxExpiryPeriod: maxExpiryPeriod,
		now:             now,
	}, nil
}

// recomputeExpiry rederives ExpiryDate from PurchasedDate+ExpiryPeriod.
// Records with an unparsable purchase date (possible in hand-edited legacy
// files) keep their stored value.
func recomputeExpiry(item Item) Item {
	if item.PurchasedDate == "" || item.ExpiryPeriod <= 0 {
		return item
	}
	purchased, err := dates.Parse(item.PurchasedDate)
	if err != nil {
		return item
	}
	item.ExpiryDate = dates.Format(dates.AddDays(purchased, item.ExpiryPeriod))
	return item
}

func (s *service) List(ctx context.Context, filters Filters) ([]Item, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	today := dates.Truncate(s.now())
	result := []Item{}
	for _, record := range records {
		item := recomputeExpiry(record)

		if filters.Category != "" && !strings.EqualFold(item.Category, filters.Category) {
			continue
		}
		if filters.Status != "" && item.Status != filters.Status {
			continue
		}
		if filters.Source != "" && (item.Source == nil || *item.Source != filters.Source) {
			continue
		}
		if filters.GeneratedBy != "" && item.GeneratedBy != filters.GeneratedBy {
			continue
		}

		if filters.Expired || filters.Expiring {
			expiry, err := dates.Parse(item.ExpiryDate)
			if err != nil {
				continue
			}
			if filters.Expired && !dates.IsInPast(expiry, today) {
				continue
			}
			if filters.Expiring {
				window := filters.ExpiringDays
				if window <= 0 {
					window = s.warningDays
				}
				if dates.IsInPast(expiry, today) || !dates.IsWithinDays(expiry, today, window) {
					continue
				}
			}
		}

		result = append(result, item)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id string) (Item, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return Item{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return recomputeExpiry(record), nil
		}
	}
	return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
}

func (s *service) Create(ctx context.Context, params CreateParams) (Item, error) {
	if err := validateCreate(params, s.maxExpiryPeriod); err != nil {
		return Item{}, err
	}

	item := s.buildItem(params)

	records, err := s.store.Load(ctx)
	if err != nil {
		return Item{}, err
	}
	records = append(records, item)
	if err := s.store.Save(ctx, records); err != nil {
		return Item{}, err
	}

	s.logg.Info(s.logg.WithItemID(ctx, item.ID), "item created")
	return item, nil
}

func (s *service) CreateDrafts(ctx context.Context, drafts []Draft) ([]Item, error) {
	created := make([]Item, 0, len(drafts))
	for i, draft := range drafts {
		params := CreateParams{
			Name:         draft.Name,
			Category:     draft.Category,
			ExpiryPeriod: draft.ExpiryPeriod,
			Status:       StatusPending,
			GeneratedBy:  GeneratedByAI,
			Source:       draft.Source,
		}
		if err := validateCreate(params, s.maxExpiryPeriod); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("item %d invalid", i+1)).WithDetails(err.Details())
		}
		created = append(created, s.buildItem(params))
	}

	if len(created) == 0 {
		return []Item{}, nil
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	records = append(records, created...)
	if err := s.store.Save(ctx, records); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "count", len(created)), "pending items created from drafts")
	return created, nil
}

func (s *service) buildItem(params CreateParams) Item {
	now := s.now()
	purchased := params.PurchasedDate
	if purchased == "" {
		purchased = dates.Format(dates.Truncate(now))
	}

	status := params.Status
	if status == "" {
		status = StatusConfirmed
	}
	generatedBy := params.GeneratedBy
	if generatedBy == "" {
		generatedBy = GeneratedByManual
	}
	category := params.Category
	if category == "" {
		category = CategoryOther
	}
	var source *string
	if params.Source != "" {
		value := params.Source
		source = &value
	}

	return recomputeExpiry(Item{
		ID:            uuid.NewString(),
		Name:          NormalizeName(params.Name),
		Category:      category,
		PurchasedDate: purchased,
		ExpiryPeriod:  params.ExpiryPeriod,
		Status:        status,
		GeneratedBy:   generatedBy,
		Source:        source,
		CreatedAt:     now.Unix(),
	})
}

func (s *service) Update(ctx context.Context, id string, params UpdateParams) (Item, error) {
	if err := validateUpdate(params, s.maxExpiryPeriod); err != nil {
		return Item{}, err
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return Item{}, err
	}

	index := -1
	for i, record := range records {
		if record.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	item := records[index]
	if params.Name != nil {
		item.Name = NormalizeName(*params.Name)
	}
	if params.Category != nil {
		item.Category = *params.Category
	}
	if params.ExpiryPeriod != nil {
		item.ExpiryPeriod = *params.ExpiryPeriod
	}
	if params.PurchasedDate != nil {
		item.PurchasedDate = *params.PurchasedDate
	}
	if params.Status != nil {
		item.Status = *params.Status
	}
	item = recomputeExpiry(item)

	records[index] = item
	if err := s.store.Save(ctx, records); err != nil {
		return Item{}, err
	}

	s.logg.Info(s.logg.WithItemID(ctx, item.ID), "item updated")
	return item, nil
}

func (s *service) Delete(ctx context.Context, id string) (Item, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return Item{}, err
	}

	index := -1
	for i, record := range records {
		if record.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return Item{}, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	removed := records[index]
	records = append(records[:index], records[index+1:]...)
	if err := s.store.Save(ctx, records); err != nil {
		return Item{}, err
	}

	s.logg.Info(s.logg.WithItemID(ctx, removed.ID), "item deleted")
	return removed, nil
}

func (s *service) DeleteAll(ctx context.Context) (DeleteAllResult, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return DeleteAllResult{}, err
	}
	if err := s.store.Save(ctx, []Item{}); err != nil {
		return DeleteAllResult{}, err
	}

	s.logg.Info(s.logg.WithField(ctx, "count", len(records)), "all items deleted")
	return DeleteAllResult{DeletedCount: len(records), Items: records}, nil
}
