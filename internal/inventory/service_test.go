package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/clock"
	"github.com/eventocaixa/backend/pkg/db/models"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
)

type fakeRepository struct {
	Repository
	createFn   func(ctx context.Context, item *models.InventoryItem) error
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	saveFn     func(ctx context.Context, item *models.InventoryItem) error
	deleteFn   func(ctx context.Context, id uuid.UUID) (int64, error)
}

func (f *fakeRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return f.createFn(ctx, item)
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepository) Save(ctx context.Context, item *models.InventoryItem) error {
	return f.saveFn(ctx, item)
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	return f.deleteFn(ctx, id)
}

type fakeSessionFinder struct {
	findOpenFn func(ctx context.Context, date, operator string) (*models.CashSession, error)
}

func (f *fakeSessionFinder) FindOpen(ctx context.Context, date, operator string) (*models.CashSession, error) {
	if f.findOpenFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.findOpenFn(ctx, date, operator)
}

func newTestService(t *testing.T, repo Repository, sessions sessionFinder) Service {
	t.Helper()
	svc, err := NewService(repo, sessions, clock.NewFixed(time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddLinksToOpenSession(t *testing.T) {
	sessionID := uuid.New()
	var created *models.InventoryItem
	repo := &fakeRepository{
		createFn: func(ctx context.Context, item *models.InventoryItem) error {
			created = item
			return nil
		},
	}
	sessions := &fakeSessionFinder{
		findOpenFn: func(ctx context.Context, date, operator string) (*models.CashSession, error) {
			if date != "2026-03-09" || operator != "maria" {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.CashSession{ID: sessionID}, nil
		},
	}
	svc := newTestService(t, repo, sessions)

	item, err := svc.Add(context.Background(), AddInput{Product: "cerveja", Quantity: 12, Responsible: "maria"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.SessionID == nil || *item.SessionID != sessionID {
		t.Fatal("expected item linked to the open session")
	}
	if created == nil || created.ItemDate != "2026-03-09" {
		t.Fatalf("expected item dated today, got %+v", created)
	}
}

func TestAddWithoutOpenSessionStaysUnlinked(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, item *models.InventoryItem) error { return nil },
	}
	svc := newTestService(t, repo, &fakeSessionFinder{})

	item, err := svc.Add(context.Background(), AddInput{Product: "agua", Quantity: 4, Responsible: "joao", Date: "2026-03-10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.SessionID != nil {
		t.Fatal("expected unlinked item when no session is open")
	}
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, &fakeSessionFinder{})

	cases := []AddInput{
		{Product: "", Quantity: 1, Responsible: "maria"},
		{Product: "cerveja", Quantity: 0, Responsible: "maria"},
		{Product: "cerveja", Quantity: -2, Responsible: "maria"},
		{Product: "cerveja", Quantity: 1, Responsible: ""},
		{Product: "cerveja", Quantity: 1, Responsible: "maria", Date: "10/03/2026"},
	}
	for _, input := range cases {
		_, err := svc.Add(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestUpdateQuantity(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, got uuid.UUID) (*models.InventoryItem, error) {
			if got != id {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.InventoryItem{ID: id, Quantity: 12}, nil
		},
		saveFn: func(ctx context.Context, item *models.InventoryItem) error { return nil },
	}
	svc := newTestService(t, repo, &fakeSessionFinder{})

	item, err := svc.UpdateQuantity(context.Background(), id, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", item.Quantity)
	}

	_, err = svc.UpdateQuantity(context.Background(), id, -1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.UpdateQuantity(context.Background(), uuid.New(), 5)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := &fakeRepository{
		deleteFn: func(ctx context.Context, id uuid.UUID) (int64, error) { return 0, nil },
	}
	svc := newTestService(t, repo, &fakeSessionFinder{})

	err := svc.Delete(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
