package totals

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/enums"
	pkgerrors "github.com/eventocaixa/backend/pkg/errors"
	"github.com/eventocaixa/backend/pkg/logger"
)

type fakeSessions struct {
	listClosedFn        func(ctx context.Context) ([]models.CashSession, error)
	listClosedInRangeFn func(ctx context.Context, from, to string) ([]models.CashSession, error)
}

func (f *fakeSessions) ListClosed(ctx context.Context) ([]models.CashSession, error) {
	return f.listClosedFn(ctx)
}

func (f *fakeSessions) ListClosedInRange(ctx context.Context, from, to string) ([]models.CashSession, error) {
	return f.listClosedInRangeFn(ctx, from, to)
}

type fakeReversals struct {
	listBySessionsFn func(ctx context.Context, ids []uuid.UUID) ([]models.Reversal, error)
}

func (f *fakeReversals) ListBySessions(ctx context.Context, ids []uuid.UUID) ([]models.Reversal, error) {
	if f.listBySessionsFn == nil {
		return nil, nil
	}
	return f.listBySessionsFn(ctx, ids)
}

type fakeSuppliers struct {
	listFn func(ctx context.Context) ([]models.Supplier, error)
}

func (f *fakeSuppliers) List(ctx context.Context) ([]models.Supplier, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

type fakeInvestors struct {
	listFn func(ctx context.Context) ([]models.Investor, error)
}

func (f *fakeInvestors) List(ctx context.Context) ([]models.Investor, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func newTestService(t *testing.T, sessions sessionRepository, revs reversalRepository, suppliers supplierRepository, investors investorRepository) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "totals-test", Output: &bytes.Buffer{}})
	svc, err := NewService(sessions, revs, suppliers, investors, logg)
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

func closedSession(date, operator, cash, card, bank, withdrawals string) models.CashSession {
	at := time.Now()
	return models.CashSession{
		ID:          uuid.New(),
		SessionDate: date,
		Operator:    operator,
		OpenedAt:    at,
		ClosedAt:    &at,
		Cash:        dec(cash),
		Card:        dec(card),
		Bank:        dec(bank),
		Withdrawals: dec(withdrawals),
	}
}

func TestComputeTotals(t *testing.T) {
	first := closedSession("2026-03-08", "maria", "1000", "500", "200", "100")
	second := closedSession("2026-03-09", "joao", "800", "300", "0", "0")
	sessions := &fakeSessions{
		listClosedFn: func(ctx context.Context) ([]models.CashSession, error) {
			return []models.CashSession{first, second}, nil
		},
	}
	revs := &fakeReversals{
		listBySessionsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Reversal, error) {
			return []models.Reversal{
				{SessionID: first.ID, Category: enums.ReversalCategoryCash, Amount: dec("100")},
			}, nil
		},
	}
	suppliers := &fakeSuppliers{
		listFn: func(ctx context.Context) ([]models.Supplier, error) {
			return []models.Supplier{
				{Total: dec("1000"), AmountPaid: dec("400")},
				{Total: dec("500"), AmountPaid: dec("600"), Paid: true}, // overpaid
			}, nil
		},
	}
	investors := &fakeInvestors{
		listFn: func(ctx context.Context) ([]models.Investor, error) {
			return []models.Investor{
				{Principal: dec("2000"), AmountReturned: dec("500")},
				{Principal: dec("1000"), AmountReturned: dec("1000"), Returned: true},
			}, nil
		},
	}
	svc := newTestService(t, sessions, revs, suppliers, investors)

	record := svc.ComputeTotals(context.Background())

	// first nets 1300 after the 100 cash reversal, second nets 1100.
	if !record.TotalCashSessions.Equal(dec("2400")) {
		t.Fatalf("expected cash sessions total 2400, got %s", record.TotalCashSessions)
	}
	if !record.TotalBank.Equal(dec("200")) {
		t.Fatalf("expected bank total 200, got %s", record.TotalBank)
	}
	if !record.TotalPayable.Equal(dec("1500")) {
		t.Fatalf("expected payable 1500, got %s", record.TotalPayable)
	}
	if !record.TotalPaid.Equal(dec("1000")) {
		t.Fatalf("expected paid 1000, got %s", record.TotalPaid)
	}
	// Raw difference: the overpaid supplier's -100 offsets the open one's 600.
	if !record.AmountOwed.Equal(dec("500")) {
		t.Fatalf("expected owed 500, got %s", record.AmountOwed)
	}
	if !record.TotalInvested.Equal(dec("3000")) {
		t.Fatalf("expected invested 3000, got %s", record.TotalInvested)
	}
	if !record.AmountToReturn.Equal(dec("1500")) {
		t.Fatalf("expected to return 1500, got %s", record.AmountToReturn)
	}
	// 2400 + 200 - 500 - 1500
	if !record.AvailableBalance.Equal(dec("600")) {
		t.Fatalf("expected available 600, got %s", record.AvailableBalance)
	}

	// Pure function of store state: recomputing yields the same figures.
	again := svc.ComputeTotals(context.Background())
	if !again.AvailableBalance.Equal(record.AvailableBalance) {
		t.Fatal("recompute without writes must match")
	}
}

func TestComputeTotalsFailSoft(t *testing.T) {
	sessions := &fakeSessions{
		listClosedFn: func(ctx context.Context) ([]models.CashSession, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	svc := newTestService(t, sessions, &fakeReversals{}, &fakeSuppliers{}, &fakeInvestors{})

	record := svc.ComputeTotals(context.Background())
	if !record.AvailableBalance.IsZero() || !record.TotalCashSessions.IsZero() {
		t.Fatal("store failure must yield the zero record")
	}
}

func TestSessionReport(t *testing.T) {
	session := closedSession("2026-03-09", "maria", "1000", "500", "200", "100")
	sessions := &fakeSessions{
		listClosedInRangeFn: func(ctx context.Context, from, to string) ([]models.CashSession, error) {
			if from != "2026-03-01" || to != "2026-03-31" {
				t.Fatalf("unexpected range: %s..%s", from, to)
			}
			return []models.CashSession{session}, nil
		},
	}
	revs := &fakeReversals{
		listBySessionsFn: func(ctx context.Context, ids []uuid.UUID) ([]models.Reversal, error) {
			return []models.Reversal{
				{SessionID: session.ID, Category: enums.ReversalCategoryCard, Amount: dec("9999")},
			}, nil
		},
	}
	svc := newTestService(t, sessions, revs, &fakeSuppliers{}, &fakeInvestors{})

	report, err := svc.SessionReport(context.Background(), "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(report.Rows))
	}
	row := report.Rows[0]
	if !row.Card.IsZero() {
		t.Fatalf("oversized card reversal must clamp to zero, got %s", row.Card)
	}
	// 1000 cash - 100 withdrawals, card clamped out.
	if !row.Net.Equal(dec("900")) {
		t.Fatalf("expected net 900, got %s", row.Net)
	}
	if !row.NetWithBank.Equal(dec("1100")) {
		t.Fatalf("expected net with bank 1100, got %s", row.NetWithBank)
	}
	if !report.TotalNet.Equal(dec("900")) || !report.TotalNetWithBank.Equal(dec("1100")) {
		t.Fatal("report totals must match the single row")
	}
}

func TestSessionReportValidation(t *testing.T) {
	svc := newTestService(t, &fakeSessions{}, &fakeReversals{}, &fakeSuppliers{}, &fakeInvestors{})

	cases := [][2]string{
		{"03/01/2026", ""},
		{"", "garbage"},
		{"2026-03-31", "2026-03-01"},
	}
	for _, bounds := range cases {
		_, err := svc.SessionReport(context.Background(), bounds[0], bounds[1])
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %v, got %v", bounds, err)
		}
		if !strings.Contains(typed.Message(), "must") {
			t.Fatalf("unexpected message %q", typed.Message())
		}
	}
}
