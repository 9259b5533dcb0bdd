package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/internal/customers"
	"github.com/pbertoldo/workshop-backend/internal/finance"
	"github.com/pbertoldo/workshop-backend/internal/inventory"
	"github.com/pbertoldo/workshop-backend/internal/staff"
	"github.com/pbertoldo/workshop-backend/internal/workorders"
	pkgAuth "github.com/pbertoldo/workshop-backend/pkg/auth"
	"github.com/pbertoldo/workshop-backend/pkg/config"
	"github.com/pbertoldo/workshop-backend/pkg/db/models"
	"github.com/pbertoldo/workshop-backend/pkg/enums"
	"github.com/pbertoldo/workshop-backend/pkg/logger"
	"github.com/pbertoldo/workshop-backend/pkg/pagination"
	"github.com/pbertoldo/workshop-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCustomersService struct{}

func (stubCustomersService) Create(ctx context.Context, input customers.CreateCustomerInput) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubCustomersService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubCustomersService) Search(ctx context.Context, query string, params pagination.Params) ([]models.Customer, string, error) {
	return []models.Customer{}, "", nil
}

func (stubCustomersService) Update(ctx context.Context, id uuid.UUID, input customers.UpdateCustomerInput) (*models.Customer, error) {
	panic("unimplemented")
}

func (stubCustomersService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubCustomersService) AddVehicle(ctx context.Context, input customers.CreateVehicleInput) (*models.Vehicle, error) {
	panic("unimplemented")
}

func (stubCustomersService) ListVehicles(ctx context.Context, customerID uuid.UUID) ([]models.Vehicle, error) {
	return []models.Vehicle{}, nil
}

func (stubCustomersService) UpdateVehicle(ctx context.Context, customerID, vehicleID uuid.UUID, input customers.UpdateVehicleInput) (*models.Vehicle, error) {
	panic("unimplemented")
}

func (stubCustomersService) RemoveVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) error {
	return nil
}

type stubInventoryService struct{}

func (stubInventoryService) CreatePart(ctx context.Context, input inventory.CreatePartInput) (*models.Part, error) {
	return &models.Part{ID: uuid.New(), SKU: input.SKU, Name: input.Name}, nil
}

func (stubInventoryService) GetPart(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	panic("unimplemented")
}

func (stubInventoryService) ListParts(ctx context.Context, params pagination.Params) ([]models.Part, string, error) {
	return []models.Part{}, "", nil
}

func (stubInventoryService) ListLowStock(ctx context.Context) ([]models.Part, error) {
	return []models.Part{}, nil
}

func (stubInventoryService) UpdatePart(ctx context.Context, id uuid.UUID, input inventory.UpdatePartInput) (*models.Part, error) {
	panic("unimplemented")
}

func (stubInventoryService) RecordMovement(ctx context.Context, input inventory.RecordMovementInput) (*models.StockMovement, error) {
	panic("unimplemented")
}

func (stubInventoryService) ListMovements(ctx context.Context, partID uuid.UUID, params pagination.Params) ([]models.StockMovement, string, error) {
	return []models.StockMovement{}, "", nil
}

func (stubInventoryService) ListMovementsByReference(ctx context.Context, reference string) ([]models.StockMovement, error) {
	return []models.StockMovement{}, nil
}

func (stubInventoryService) CommitForOrder(ctx context.Context, tx *gorm.DB, lines []inventory.OrderLine, reference string) error {
	return nil
}

func (stubInventoryService) RestoreForOrder(ctx context.Context, tx *gorm.DB, lines []inventory.OrderLine, reference string) error {
	return nil
}

type stubFinanceService struct{}

func (stubFinanceService) RecordEntry(ctx context.Context, input finance.RecordEntryInput) (*models.FinancialRecord, error) {
	panic("unimplemented")
}

func (stubFinanceService) Get(ctx context.Context, id uuid.UUID) (*models.FinancialRecord, error) {
	panic("unimplemented")
}

func (stubFinanceService) List(ctx context.Context, filter finance.ListFilter, params pagination.Params) ([]models.FinancialRecord, string, error) {
	return []models.FinancialRecord{}, "", nil
}

func (stubFinanceService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.FinancialRecord, error) {
	return []models.FinancialRecord{}, nil
}

func (stubFinanceService) MarkPaid(ctx context.Context, id uuid.UUID) (*models.FinancialRecord, error) {
	panic("unimplemented")
}

func (stubFinanceService) Summarize(ctx context.Context, from, to time.Time) (*finance.Summary, error) {
	panic("unimplemented")
}

func (stubFinanceService) RecordOrderIncome(ctx context.Context, tx *gorm.DB, ref finance.OrderRef, amount decimal.Decimal) error {
	return nil
}

func (stubFinanceService) VoidOrderIncome(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	return nil
}

type stubStaffService struct{}

func (stubStaffService) Create(ctx context.Context, input staff.CreateStaffInput) (*models.Staff, error) {
	panic("unimplemented")
}

func (stubStaffService) Get(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	panic("unimplemented")
}

func (stubStaffService) List(ctx context.Context) ([]models.Staff, error) {
	return []models.Staff{}, nil
}

func (stubStaffService) Update(ctx context.Context, id uuid.UUID, input staff.UpdateStaffInput) (*models.Staff, error) {
	panic("unimplemented")
}

func (stubStaffService) VerifyCredentials(ctx context.Context, email, password string) (*models.Staff, error) {
	panic("unimplemented")
}

type stubWorkOrdersService struct{}

func (stubWorkOrdersService) Create(ctx context.Context, input workorders.CreateOrderInput) (*models.WorkOrder, error) {
	panic("unimplemented")
}

func (stubWorkOrdersService) Get(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	panic("unimplemented")
}

func (stubWorkOrdersService) GetByCode(ctx context.Context, code string) (*models.WorkOrder, error) {
	panic("unimplemented")
}

func (stubWorkOrdersService) List(ctx context.Context, filters workorders.ListFilters, params pagination.Params) ([]models.WorkOrder, string, error) {
	return []models.WorkOrder{}, "", nil
}

func (stubWorkOrdersService) Update(ctx context.Context, id uuid.UUID, input workorders.UpdateOrderInput) (*models.WorkOrder, error) {
	panic("unimplemented")
}

func (stubWorkOrdersService) Transition(ctx context.Context, input workorders.TransitionInput) (*models.WorkOrder, error) {
	panic("unimplemented")
}

func (stubWorkOrdersService) AddItem(ctx context.Context, orderID uuid.UUID, input workorders.AddItemInput) (*models.WorkOrder, error) {
	panic("unimplemented")
}

func (stubWorkOrdersService) UpdateItem(ctx context.Context, orderID, itemID uuid.UUID, input workorders.UpdateItemInput) (*models.WorkOrder, error) {
	panic("unimplemented")
}

func (stubWorkOrdersService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.WorkOrder, error) {
	panic("unimplemented")
}

func (stubWorkOrdersService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubWorkOrdersService) History(ctx context.Context, orderID uuid.UUID) ([]models.StatusHistory, error) {
	return []models.StatusHistory{}, nil
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
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		prometheus.NewRegistry(),
		Services{
			Customers:  stubCustomersService{},
			Inventory:  stubInventoryService{},
			Finance:    stubFinanceService{},
			Staff:      stubStaffService{},
			WorkOrders: stubWorkOrdersService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.StaffRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		StaffID: uuid.New(),
		Role:    role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMetricsEndpointIsExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/work-orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestWorkOrderListAllowsAnyStaff(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, role := range []enums.StaffRole{enums.StaffRoleAdmin, enums.StaffRoleMechanic, enums.StaffRoleAttendant} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/work-orders", nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", role, resp.Code)
		}
	}
}

func TestStaffRoutesRequireAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	mechanic := httptest.NewRequest(http.MethodGet, "/api/v1/staff", nil)
	mechanic.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleMechanic))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, mechanic)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for mechanic got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/staff", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestFinanceRoutesRequireFrontDesk(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	mechanic := httptest.NewRequest(http.MethodGet, "/api/v1/finance/records", nil)
	mechanic.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleMechanic))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, mechanic)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for mechanic got %d", resp.Code)
	}

	attendant := httptest.NewRequest(http.MethodGet, "/api/v1/finance/records", nil)
	attendant.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleAttendant))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, attendant)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for attendant got %d", resp.Code)
	}
}

func TestWorkOrderDeleteRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/work-orders/" + uuid.NewString()

	attendant := httptest.NewRequest(http.MethodDelete, target, nil)
	attendant.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleAttendant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, attendant)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for attendant got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodDelete, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestCustomerSearchReturnsEnvelope(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers?q=silva&limit=10", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleAttendant))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type got %q", ct)
	}
}
