package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/pkg/clock"
	"github.com/eventocaixa/backend/pkg/db/models"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
)

type sessionFinder interface {
	FindOpen(ctx context.Context, date, operator string) (*models.CashSession, error)
}

// Service exposes shift inventory bookkeeping.
type Service interface {
	Add(ctx context.Context, input AddInput) (*models.InventoryItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByResponsible(ctx context.Context, responsible string) (int64, error)
	ListByResponsible(ctx context.Context, responsible string) ([]models.InventoryItem, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.InventoryItem, error)
	Stock(ctx context.Context) ([]StockEntry, error)
	SessionsWithInventory(ctx context.Context) ([]SessionSummary, error)
}

type service struct {
	repo     Repository
	sessions sessionFinder
	clock    *clock.Clock
}

// AddInput carries the data for a new inventory item. Date defaults to today.
type AddInput struct {
	Product     string
	Quantity    int
	Responsible string
	Date        string
}

// NewService wires an inventory service with its dependencies.
func NewService(repo Repository, sessions sessionFinder, clk *clock.Clock) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session finder required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock required")
	}
	return &service{repo: repo, sessions: sessions, clock: clk}, nil
}

func (s *service) Add(ctx context.Context, input AddInput) (*models.InventoryItem, error) {
	product := strings.TrimSpace(input.Product)
	if product == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	responsible := strings.TrimSpace(input.Responsible)
	if responsible == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "responsible is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = s.clock.Today()
	} else if !clock.ValidDate(date) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}

	item := &models.InventoryItem{
		ItemDate:    date,
		Product:     product,
		Quantity:    input.Quantity,
		Responsible: responsible,
	}

	// Link immediately when the responsible already has an open session for
	// the date; otherwise the close pass picks the item up later.
	open, err := s.sessions.FindOpen(ctx, date, responsible)
	switch {
	case err == nil:
		item.SessionID = &open.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find open session")
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	return item, nil
}

func (s *service) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup inventory item")
	}

	item.Quantity = quantity
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save inventory item")
	}
	return item, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return nil
}

func (s *service) DeleteByResponsible(ctx context.Context, responsible string) (int64, error) {
	responsible = strings.TrimSpace(responsible)
	if responsible == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "responsible is required")
	}
	affected, err := s.repo.DeleteByResponsible(ctx, responsible)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory items")
	}
	return affected, nil
}

func (s *service) ListByResponsible(ctx context.Context, responsible string) ([]models.InventoryItem, error) {
	responsible = strings.TrimSpace(responsible)
	if responsible == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "responsible is required")
	}
	items, err := s.repo.ListByResponsible(ctx, responsible)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory items")
	}
	return items, nil
}

func (s *service) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.InventoryItem, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	items, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list session inventory")
	}
	return items, nil
}

func (s *service) Stock(ctx context.Context) ([]StockEntry, error) {
	entries, err := s.repo.Stock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate stock")
	}
	return entries, nil
}

func (s *service) SessionsWithInventory(ctx context.Context) ([]SessionSummary, error) {
	summaries, err := s.repo.SessionsWithInventory(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate session inventory")
	}
	return summaries, nil
}
