package notifications

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	pkgerrors "github.com/lucasrivera/fridgekeeper-backend/pkg/errors"
	"github.com/lucasrivera/fridgekeeper-backend/pkg/logger"
)

type fakeStore struct {
	records []Notification
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStore) Load(ctx context.Context) ([]Notification, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]Notification, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeStore) Save(ctx context.Context, records []Notification) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.records = make([]Notification, len(records))
	copy(f.records, records)
	return nil
}

func newTestService(t *testing.T, store *fakeStore) Service {
	t.Helper()
	clock := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc, err := NewService(ServiceParams{
		Store:  store,
		Logger: logger.New(logger.Options{ServiceName: "notifications-test", Output: io.Discard}),
		Now:    func() time.Time { return clock },
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func TestCreateAssignsDefaults(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	created, err := svc.Create(context.Background(), CreateParams{
		Type:    TypeExpiryWarning,
		Message: "Milk expires in 2 days",
		ItemID:  "item-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.IsRead {
		t.Fatal("new notifications start unread")
	}
	if created.ItemID == nil || *created.ItemID != "item-1" {
		t.Fatal("expected item back-reference")
	}
	if created.CreatedAt == 0 {
		t.Fatal("expected createdAt timestamp")
	}
}

func TestCreateWithoutItemIDStoresNull(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	created, err := svc.Create(context.Background(), CreateParams{Type: TypeAddedItems, Message: "Added 3 items"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ItemID != nil {
		t.Fatalf("expected nil itemId, got %v", *created.ItemID)
	}
}

func TestCreateValidatesTypeAndMessage(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	_, err := svc.Create(context.Background(), CreateParams{Type: "nonsense", Message: ""})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if _, ok := details["type"]; !ok {
		t.Fatalf("expected type in details, got %v", details)
	}
	if _, ok := details["message"]; !ok {
		t.Fatalf("expected message in details, got %v", details)
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	store := &fakeStore{records: []Notification{
		{ID: "old", CreatedAt: 100},
		{ID: "newest", CreatedAt: 300},
		{ID: "mid", CreatedAt: 200},
	}}
	svc := newTestService(t, store)

	listed, err := svc.List(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"newest", "mid", "old"}
	for i, id := range want {
		if listed[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, listed[i].ID)
		}
	}
}

func TestListFiltersByTypeAndRead(t *testing.T) {
	store := &fakeStore{records: []Notification{
		{ID: "a", Type: TypeExpiryWarning, IsRead: false, CreatedAt: 1},
		{ID: "b", Type: TypeExpired, IsRead: true, CreatedAt: 2},
		{ID: "c", Type: TypeExpiryWarning, IsRead: true, CreatedAt: 3},
	}}
	svc := newTestService(t, store)
	ctx := context.Background()

	byType, err := svc.List(ctx, Filters{Type: TypeExpiryWarning})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byType) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(byType))
	}

	read := true
	byBoth, err := svc.List(ctx, Filters{Type: TypeExpiryWarning, IsRead: &read})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byBoth) != 1 || byBoth[0].ID != "c" {
		t.Fatalf("unexpected result %v", byBoth)
	}
}

func TestUpdateTogglesIsReadOnly(t *testing.T) {
	store := &fakeStore{records: []Notification{{ID: "a", Type: TypeExpired, Message: "Milk has expired"}}}
	svc := newTestService(t, store)

	read := true
	updated, err := svc.Update(context.Background(), "a", UpdateParams{IsRead: &read})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsRead {
		t.Fatal("expected isRead true")
	}
	if updated.Message != "Milk has expired" || updated.Type != TypeExpired {
		t.Fatal("fields outside the whitelist must not change")
	}
}

func TestUpdateWithoutIsReadIsValidationError(t *testing.T) {
	svc := newTestService(t, &fakeStore{records: []Notification{{ID: "a"}}})
	_, err := svc.Update(context.Background(), "a", UpdateParams{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateMissingNotificationIsNotFound(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)
	read := true
	_, err := svc.Update(context.Background(), "missing", UpdateParams{IsRead: &read})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.saves != 0 {
		t.Fatal("store must not be written on not-found")
	}
}

func TestMarkAllFlipsOnlyMismatched(t *testing.T) {
	store := &fakeStore{records: []Notification{
		{ID: "a", IsRead: false},
		{ID: "b", IsRead: true},
		{ID: "c", IsRead: false},
	}}
	svc := newTestService(t, store)

	changed, err := svc.MarkAll(context.Background(), true)
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if changed != 2 {
		t.Fatalf("expected 2 changed, got %d", changed)
	}
	for _, record := range store.records {
		if !record.IsRead {
			t.Fatalf("notification %s still unread", record.ID)
		}
	}

	changed, err = svc.MarkAll(context.Background(), true)
	if err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if changed != 0 {
		t.Fatalf("second pass should change nothing, changed %d", changed)
	}
}

func TestDeleteManyIgnoresUnknownIDs(t *testing.T) {
	store := &fakeStore{records: []Notification{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	svc := newTestService(t, store)

	result, err := svc.DeleteMany(context.Background(), []string{"a", "c", "ghost"})
	if err != nil {
		t.Fatalf("delete many: %v", err)
	}
	if result.DeletedCount != 2 {
		t.Fatalf("expected 2 deleted, got %d", result.DeletedCount)
	}
	if len(store.records) != 1 || store.records[0].ID != "b" {
		t.Fatalf("unexpected remaining %v", store.records)
	}

	result, err = svc.DeleteMany(context.Background(), []string{"ghost"})
	if err != nil {
		t.Fatalf("zero matches must not be an error, got %v", err)
	}
	if result.DeletedCount != 0 {
		t.Fatalf("expected 0 deleted, got %d", result.DeletedCount)
	}
}

func TestStatsCountsReadState(t *testing.T) {
	store := &fakeStore{records: []Notification{
		{ID: "a", IsRead: true},
		{ID: "b"},
		{ID: "c"},
	}}
	svc := newTestService(t, store)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Read != 1 || stats.Unread != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestCreateBatchPersistsInOneWrite(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store)

	created, err := svc.CreateBatch(context.Background(), []CreateParams{
		{Type: TypeExpiryWarning, Message: "Milk expires in 1 day", ItemID: "i1"},
		{Type: TypeExpired, Message: "Eggs has expired", ItemID: "i2"},
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created, got %d", len(created))
	}
	if store.saves != 1 {
		t.Fatalf("expected a single save, got %d", store.saves)
	}
}

func TestLoadFailurePropagates(t *testing.T) {
	boom := errors.New("io failure")
	svc := newTestService(t, &fakeStore{loadErr: boom})
	if _, err := svc.Stats(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected load failure, got %v", err)
	}
}
