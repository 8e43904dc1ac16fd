package payables

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/eventocaixa/backend/internal/settlements"
	"github.com/eventocaixa/backend/pkg/clock"
	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/enums"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
)

type fakeRepository struct {
	createFn   func(ctx context.Context, supplier *models.Supplier) error
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	saveFn     func(ctx context.Context, supplier *models.Supplier) error
	listFn     func(ctx context.Context) ([]models.Supplier, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return f.createFn(ctx, supplier)
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepository) Save(ctx context.Context, supplier *models.Supplier) error {
	return f.saveFn(ctx, supplier)
}

func (f *fakeRepository) List(ctx context.Context) ([]models.Supplier, error) {
	return f.listFn(ctx)
}

type fakeSettlements struct {
	createFn func(ctx context.Context, settlement *models.Settlement) error
	listFn   func(ctx context.Context, direction enums.SettlementDirection, obligationID uuid.UUID) ([]models.Settlement, error)
}

func (f *fakeSettlements) WithTx(tx *gorm.DB) settlements.Repository { return f }

func (f *fakeSettlements) Create(ctx context.Context, settlement *models.Settlement) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, settlement)
}

func (f *fakeSettlements) ListByObligation(ctx context.Context, direction enums.SettlementDirection, obligationID uuid.UUID) ([]models.Settlement, error) {
	return f.listFn(ctx, direction, obligationID)
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository, ledger settlements.Repository) Service {
	t.Helper()
	svc, err := NewService(repo, ledger, fakeTxRunner{}, clock.NewFixed(time.Date(2026, 3, 9, 14, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func dec(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRegisterSupplierParsesTotal(t *testing.T) {
	var created *models.Supplier
	repo := &fakeRepository{
		createFn: func(ctx context.Context, supplier *models.Supplier) error {
			created = supplier
			return nil
		},
	}
	svc := newTestService(t, repo, &fakeSettlements{})

	supplier, err := svc.RegisterSupplier(context.Background(), RegisterSupplierInput{
		Name:  "  Distribuidora Sul  ",
		Total: "R$ 2.500,00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if supplier.Name != "Distribuidora Sul" {
		t.Fatalf("expected trimmed name, got %q", supplier.Name)
	}
	if !supplier.Total.Equal(dec("2500")) {
		t.Fatalf("expected total 2500, got %s", supplier.Total)
	}
	if created == nil {
		t.Fatal("expected repository create to be called")
	}
}

func TestRegisterSupplierValidation(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, &fakeSettlements{})

	cases := []RegisterSupplierInput{
		{Name: "", Total: "100"},
		{Name: "Fornecedor", Total: "0"},
		{Name: "Fornecedor", Total: "abc"},
	}
	for _, input := range cases {
		_, err := svc.RegisterSupplier(context.Background(), input)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestRegisterPaymentSequence(t *testing.T) {
	supplier := &models.Supplier{
		ID:    uuid.New(),
		Name:  "Distribuidora Sul",
		Total: dec("1000"),
	}
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
			if id != supplier.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return supplier, nil
		},
		saveFn: func(ctx context.Context, s *models.Supplier) error { return nil },
	}
	var recorded []*models.Settlement
	ledger := &fakeSettlements{
		createFn: func(ctx context.Context, settlement *models.Settlement) error {
			recorded = append(recorded, settlement)
			return nil
		},
	}
	svc := newTestService(t, repo, ledger)
	ctx := context.Background()

	result, err := svc.RegisterPayment(ctx, supplier.ID, PaymentInput{Amount: "400", Source: enums.PaymentSourceCash})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Supplier.Paid {
		t.Fatal("supplier must not be settled at 400 of 1000")
	}
	if result.Supplier.LastPaymentDate != nil {
		t.Fatal("settled date must wait for the settling payment")
	}
	if !result.Supplier.Remaining().Equal(dec("600")) {
		t.Fatalf("expected remaining 600, got %s", result.Supplier.Remaining())
	}

	result, err = svc.RegisterPayment(ctx, supplier.ID, PaymentInput{Amount: "700", Source: enums.PaymentSourceTransfer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Supplier.Paid {
		t.Fatal("supplier must be settled at 1100 of 1000")
	}
	if result.Supplier.LastPaymentDate == nil || *result.Supplier.LastPaymentDate != "2026-03-09" {
		t.Fatalf("expected settled date stamped, got %v", result.Supplier.LastPaymentDate)
	}
	if !result.ExtraPaid.Equal(dec("100")) {
		t.Fatalf("expected extra 100, got %s", result.ExtraPaid)
	}
	if !result.Supplier.Remaining().IsZero() {
		t.Fatalf("remaining never goes negative, got %s", result.Supplier.Remaining())
	}

	if len(recorded) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(recorded))
	}
	for _, settlement := range recorded {
		if settlement.Direction != enums.SettlementDirectionPayable {
			t.Fatalf("expected payable direction, got %s", settlement.Direction)
		}
	}
}

func TestRegisterPaymentKeepsSettledDateOnOverpayment(t *testing.T) {
	earlier := "2026-03-01"
	supplier := &models.Supplier{
		ID:              uuid.New(),
		Name:            "Distribuidora Sul",
		Total:           dec("100"),
		AmountPaid:      dec("100"),
		Paid:            true,
		LastPaymentDate: &earlier,
	}
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
			return supplier, nil
		},
		saveFn: func(ctx context.Context, s *models.Supplier) error { return nil },
	}
	svc := newTestService(t, repo, &fakeSettlements{})

	result, err := svc.RegisterPayment(context.Background(), supplier.ID, PaymentInput{Amount: "50", Source: enums.PaymentSourceCash})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Supplier.LastPaymentDate == nil || *result.Supplier.LastPaymentDate != earlier {
		t.Fatalf("overpayment must not move the settled date, got %v", result.Supplier.LastPaymentDate)
	}
	if !result.ExtraPaid.Equal(dec("50")) {
		t.Fatalf("expected extra 50, got %s", result.ExtraPaid)
	}
}

func TestRegisterPaymentUnknownSupplier(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo, &fakeSettlements{})

	_, err := svc.RegisterPayment(context.Background(), uuid.New(), PaymentInput{Amount: "50", Source: enums.PaymentSourceCash})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryRequiresExistingSupplier(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo, &fakeSettlements{})

	_, err := svc.History(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
