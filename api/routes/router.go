package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pbertoldo/workshop-backend/api/controllers"
	"github.com/pbertoldo/workshop-backend/api/middleware"
	"github.com/pbertoldo/workshop-backend/internal/customers"
	"github.com/pbertoldo/workshop-backend/internal/finance"
	"github.com/pbertoldo/workshop-backend/internal/inventory"
	"github.com/pbertoldo/workshop-backend/internal/staff"
	"github.com/pbertoldo/workshop-backend/internal/workorders"
	"github.com/pbertoldo/workshop-backend/pkg/config"
	"github.com/pbertoldo/workshop-backend/pkg/db"
	"github.com/pbertoldo/workshop-backend/pkg/enums"
	"github.com/pbertoldo/workshop-backend/pkg/logger"
	"github.com/pbertoldo/workshop-backend/pkg/redis"
)

// Services bundles the domain services the router depends on.
type Services struct {
	Customers  customers.Service
	Inventory  inventory.Service
	Finance    finance.Service
	Staff      staff.Service
	WorkOrders workorders.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(svcs.Staff, cfg.JWT, logg))
	})

	anyStaff := []enums.StaffRole{enums.StaffRoleAdmin, enums.StaffRoleMechanic, enums.StaffRoleAttendant}
	frontDesk := []enums.StaffRole{enums.StaffRoleAdmin, enums.StaffRoleAttendant}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, anyStaff...))

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", controllers.CustomerSearch(svcs.Customers, logg))
				r.Post("/", controllers.CustomerCreate(svcs.Customers, logg))
				r.Get("/{customerId}", controllers.CustomerGet(svcs.Customers, logg))
				r.Patch("/{customerId}", controllers.CustomerUpdate(svcs.Customers, logg))
				r.Get("/{customerId}/vehicles", controllers.VehicleList(svcs.Customers, logg))
				r.Post("/{customerId}/vehicles", controllers.VehicleAdd(svcs.Customers, logg))
				r.Patch("/{customerId}/vehicles/{vehicleId}", controllers.VehicleUpdate(svcs.Customers, logg))
				r.Delete("/{customerId}/vehicles/{vehicleId}", controllers.VehicleRemove(svcs.Customers, logg))
			})

			r.Route("/parts", func(r chi.Router) {
				r.Get("/", controllers.PartList(svcs.Inventory, logg))
				r.Get("/low-stock", controllers.PartLowStock(svcs.Inventory, logg))
				r.Get("/{partId}", controllers.PartGet(svcs.Inventory, logg))
				r.Get("/{partId}/movements", controllers.MovementList(svcs.Inventory, logg))
			})

			r.Route("/work-orders", func(r chi.Router) {
				r.Get("/", controllers.WorkOrderList(svcs.WorkOrders, logg))
				r.Post("/", controllers.WorkOrderCreate(svcs.WorkOrders, logg))
				r.Get("/lookup", controllers.WorkOrderGetByCode(svcs.WorkOrders, logg))
				r.Get("/{orderId}", controllers.WorkOrderGet(svcs.WorkOrders, logg))
				r.Patch("/{orderId}", controllers.WorkOrderUpdate(svcs.WorkOrders, logg))
				r.Post("/{orderId}/transition", controllers.WorkOrderTransition(svcs.WorkOrders, logg))
				r.Get("/{orderId}/history", controllers.WorkOrderHistory(svcs.WorkOrders, logg))
				r.Post("/{orderId}/items", controllers.WorkOrderAddItem(svcs.WorkOrders, logg))
				r.Patch("/{orderId}/items/{itemId}", controllers.WorkOrderUpdateItem(svcs.WorkOrders, logg))
				r.Delete("/{orderId}/items/{itemId}", controllers.WorkOrderRemoveItem(svcs.WorkOrders, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, frontDesk...))

			r.Post("/parts", controllers.PartCreate(svcs.Inventory, logg))
			r.Patch("/parts/{partId}", controllers.PartUpdate(svcs.Inventory, logg))
			r.Post("/parts/{partId}/movements", controllers.MovementRecord(svcs.Inventory, logg))

			r.Route("/finance", func(r chi.Router) {
				r.Get("/records", controllers.FinanceRecordList(svcs.Finance, logg))
				r.Post("/records", controllers.FinanceRecordCreate(svcs.Finance, logg))
				r.Get("/records/{recordId}", controllers.FinanceRecordGet(svcs.Finance, logg))
				r.Post("/records/{recordId}/pay", controllers.FinanceRecordPay(svcs.Finance, logg))
				r.Get("/summary", controllers.FinanceSummary(svcs.Finance, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.StaffRoleAdmin))

			r.Delete("/customers/{customerId}", controllers.CustomerDelete(svcs.Customers, logg))
			r.Delete("/work-orders/{orderId}", controllers.WorkOrderDelete(svcs.WorkOrders, logg))

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", controllers.StaffList(svcs.Staff, logg))
				r.Post("/", controllers.StaffCreate(svcs.Staff, logg))
				r.Get("/{staffId}", controllers.StaffGet(svcs.Staff, logg))
				r.Patch("/{staffId}", controllers.StaffUpdate(svcs.Staff, logg))
			})
		})
	})

	return r
}
