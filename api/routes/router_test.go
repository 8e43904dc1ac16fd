package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	internalauth "github.com/eventocaixa/backend/internal/auth"
	"github.com/eventocaixa/backend/internal/cashbox"
	"github.com/eventocaixa/backend/internal/inventory"
	"github.com/eventocaixa/backend/internal/investments"
	"github.com/eventocaixa/backend/internal/payables"
	"github.com/eventocaixa/backend/internal/reversals"
	"github.com/eventocaixa/backend/internal/totals"
	pkgAuth "github.com/eventocaixa/backend/pkg/auth"
	"github.com/eventocaixa/backend/pkg/auth/session"
	"github.com/eventocaixa/backend/pkg/config"
	"github.com/eventocaixa/backend/pkg/db/models"
	"github.com/eventocaixa/backend/pkg/logger"
	"github.com/eventocaixa/backend/pkg/redis"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req internalauth.LoginRequest) (*internalauth.LoginResponse, error) {
	return nil, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubSessionsService struct{}

func (stubSessionsService) Open(ctx context.Context, input cashbox.OpenInput) (*models.CashSession, error) {
	panic("unimplemented")
}

func (stubSessionsService) Close(ctx context.Context, id uuid.UUID, input cashbox.FiguresInput) (*cashbox.CloseResult, error) {
	panic("unimplemented")
}

func (stubSessionsService) Edit(ctx context.Context, id uuid.UUID, input cashbox.FiguresInput) (*cashbox.EditResult, error) {
	panic("unimplemented")
}

func (stubSessionsService) Get(ctx context.Context, id uuid.UUID) (*models.CashSession, error) {
	panic("unimplemented")
}

func (stubSessionsService) ListOpen(ctx context.Context) ([]models.CashSession, error) {
	return []models.CashSession{}, nil
}

func (stubSessionsService) ListByOperator(ctx context.Context, operator string) ([]models.CashSession, error) {
	return []models.CashSession{}, nil
}

func (stubSessionsService) OpenToday(ctx context.Context, operator string) (*models.CashSession, error) {
	panic("unimplemented")
}

type stubInventoryService struct{}

func (stubInventoryService) Add(ctx context.Context, input inventory.AddInput) (*models.InventoryItem, error) {
	panic("unimplemented")
}

func (stubInventoryService) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.InventoryItem, error) {
	panic("unimplemented")
}

func (stubInventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubInventoryService) DeleteByResponsible(ctx context.Context, responsible string) (int64, error) {
	panic("unimplemented")
}

func (stubInventoryService) ListByResponsible(ctx context.Context, responsible string) ([]models.InventoryItem, error) {
	return []models.InventoryItem{}, nil
}

func (stubInventoryService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.InventoryItem, error) {
	return []models.InventoryItem{}, nil
}

func (stubInventoryService) Stock(ctx context.Context) ([]inventory.StockEntry, error) {
	return []inventory.StockEntry{}, nil
}

func (stubInventoryService) SessionsWithInventory(ctx context.Context) ([]inventory.SessionSummary, error) {
	return []inventory.SessionSummary{}, nil
}

type stubReversalsService struct{}

func (stubReversalsService) Record(ctx context.Context, input reversals.RecordInput) (*models.Reversal, error) {
	panic("unimplemented")
}

func (stubReversalsService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.Reversal, error) {
	return []models.Reversal{}, nil
}

func (stubReversalsService) List(ctx context.Context, params reversals.ListParams) (*reversals.ListResult, error) {
	return &reversals.ListResult{Items: []models.Reversal{}}, nil
}

func (stubReversalsService) ComputeEffective(ctx context.Context, sessionID uuid.UUID) (*reversals.EffectiveFigures, error) {
	panic("unimplemented")
}

type stubSuppliersService struct{}

func (stubSuppliersService) RegisterSupplier(ctx context.Context, input payables.RegisterSupplierInput) (*models.Supplier, error) {
	panic("unimplemented")
}

func (stubSuppliersService) RegisterPayment(ctx context.Context, supplierID uuid.UUID, input payables.PaymentInput) (*payables.PaymentResult, error) {
	panic("unimplemented")
}

func (stubSuppliersService) History(ctx context.Context, supplierID uuid.UUID) ([]models.Settlement, error) {
	return []models.Settlement{}, nil
}

func (stubSuppliersService) List(ctx context.Context) ([]models.Supplier, error) {
	return []models.Supplier{}, nil
}

type stubInvestorsService struct{}

func (stubInvestorsService) RegisterInvestor(ctx context.Context, input investments.RegisterInvestorInput) (*models.Investor, error) {
	panic("unimplemented")
}

func (stubInvestorsService) RegisterReturn(ctx context.Context, investorID uuid.UUID, input investments.ReturnInput) (*investments.ReturnResult, error) {
	panic("unimplemented")
}

func (stubInvestorsService) History(ctx context.Context, investorID uuid.UUID) ([]models.Settlement, error) {
	return []models.Settlement{}, nil
}

func (stubInvestorsService) List(ctx context.Context) ([]models.Investor, error) {
	return []models.Investor{}, nil
}

type stubTotalsService struct{}

func (stubTotalsService) ComputeTotals(ctx context.Context) *totals.Record {
	return &totals.Record{}
}

func (stubTotalsService) SessionReport(ctx context.Context, from, to string) (*totals.Report, error) {
	return &totals.Report{}, nil
}

type stubExportService struct{}

func (stubExportService) CSV(ctx context.Context, table string, w io.Writer) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             nil,
		Redis:          (*redis.Client)(nil),
		SessionChecker: stubSessionChecker{},

		Auth:      stubAuthService{},
		Sessions:  stubSessionsService{},
		Inventory: stubInventoryService{},
		Reversals: stubReversalsService{},
		Suppliers: stubSuppliersService{},
		Investors: stubInvestorsService{},
		Totals:    stubTotalsService{},
		Export:    stubExportService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		Username: "admin",
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-EventoCaixa-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestOperatorRoutesNeedNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{
		"/api/v1/sessions/open",
		"/api/v1/inventory/stock",
		"/api/v1/inventory/sessions",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestAdminGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/totals", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, path := range []string{
		"/api/admin/v1/totals",
		"/api/admin/v1/suppliers",
		"/api/admin/v1/investors",
		"/api/admin/v1/reversals",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
