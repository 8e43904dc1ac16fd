package payables

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/internal/settlements"
	"github.com/eventocaixa/backend/pkg/clock"
	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/enums"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
	"github.com/eventocaixa/backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes supplier registration and payment bookkeeping.
type Service interface {
	RegisterSupplier(ctx context.Context, input RegisterSupplierInput) (*models.Supplier, error)
	RegisterPayment(ctx context.Context, supplierID uuid.UUID, input PaymentInput) (*PaymentResult, error)
	History(ctx context.Context, supplierID uuid.UUID) ([]models.Settlement, error)
	List(ctx context.Context) ([]models.Supplier, error)
}

type service struct {
	repo        Repository
	settlements settlements.Repository
	tx          txRunner
	clock       *clock.Clock
}

// RegisterSupplierInput carries a new obligation, optionally with an initial
// payment recorded in the same call.
type RegisterSupplierInput struct {
	Name           string
	Total          string
	Notes          *string
	InitialPayment *PaymentInput
}

// PaymentInput carries one payment as raw operator input.
type PaymentInput struct {
	Amount string
	Source enums.PaymentSource
	Note   *string
}

// PaymentResult reports the updated supplier, the recorded settlement, and
// how far past the total the supplier is now paid (informational only).
type PaymentResult struct {
	Supplier   *models.Supplier   `json:"supplier"`
	Settlement *models.Settlement `json:"settlement"`
	ExtraPaid  decimal.Decimal    `json:"extra_paid"`
}

// NewService wires a payables service with its dependencies.
func NewService(repo Repository, settlementsRepo settlements.Repository, tx txRunner, clk *clock.Clock) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if settlementsRepo == nil {
		return nil, fmt.Errorf("settlements repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if clk == nil {
		return nil, fmt.Errorf("clock required")
	}
	return &service{repo: repo, settlements: settlementsRepo, tx: tx, clock: clk}, nil
}

func (s *service) RegisterSupplier(ctx context.Context, input RegisterSupplierInput) (*models.Supplier, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	total := money.Parse(input.Total)
	if !total.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total must be positive")
	}
	if input.InitialPayment != nil && !input.InitialPayment.Source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment source")
	}

	supplier := &models.Supplier{
		Name:  name,
		Total: total,
	}
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed != "" {
			supplier.Notes = &trimmed
		}
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}

	if input.InitialPayment != nil {
		if _, err := s.RegisterPayment(ctx, supplier.ID, *input.InitialPayment); err != nil {
			return nil, err
		}
		// Reload so the returned supplier carries the payment effects.
		updated, err := s.repo.FindByID(ctx, supplier.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload supplier")
		}
		supplier = updated
	}
	return supplier, nil
}

func (s *service) RegisterPayment(ctx context.Context, supplierID uuid.UUID, input PaymentInput) (*PaymentResult, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	amount := money.Parse(input.Amount)
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if !input.Source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment source")
	}

	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup supplier")
	}

	today := s.clock.Today()
	settlement := &models.Settlement{
		Direction:    enums.SettlementDirectionPayable,
		ObligationID: supplier.ID,
		Amount:       amount,
		Source:       input.Source,
		SettledOn:    today,
	}
	if input.Note != nil {
		trimmed := strings.TrimSpace(*input.Note)
		if trimmed != "" {
			settlement.Note = &trimmed
		}
	}

	wasPaid := supplier.Paid
	supplier.AmountPaid = supplier.AmountPaid.Add(amount)
	supplier.Paid = supplier.AmountPaid.GreaterThanOrEqual(supplier.Total)
	// Stamped only on the transition, so the date records when the debt was
	// actually settled, not the latest overpayment.
	if supplier.Paid && !wasPaid {
		supplier.LastPaymentDate = &today
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.settlements.WithTx(tx).Create(ctx, settlement); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Save(ctx, supplier)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register payment")
	}

	extra := supplier.AmountPaid.Sub(supplier.Total)
	if extra.IsNegative() {
		extra = decimal.Zero
	}
	return &PaymentResult{
		Supplier:   supplier,
		Settlement: settlement,
		ExtraPaid:  extra,
	}, nil
}

func (s *service) History(ctx context.Context, supplierID uuid.UUID) ([]models.Settlement, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	if _, err := s.repo.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup supplier")
	}
	rows, err := s.settlements.ListByObligation(ctx, enums.SettlementDirectionPayable, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return rows, nil
}

func (s *service) List(ctx context.Context) ([]models.Supplier, error) {
	suppliers, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	return suppliers, nil
}
