package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/giftshop-backend/api/controllers"
	admincontrollers "github.com/angelmondragon/giftshop-backend/api/controllers/admin"
	cartcontrollers "github.com/angelmondragon/giftshop-backend/api/controllers/cart"
	"github.com/angelmondragon/giftshop-backend/api/middleware"
	"github.com/angelmondragon/giftshop-backend/internal/budgets"
	"github.com/angelmondragon/giftshop-backend/internal/cart"
	"github.com/angelmondragon/giftshop-backend/internal/categories"
	"github.com/angelmondragon/giftshop-backend/internal/contacts"
	"github.com/angelmondragon/giftshop-backend/internal/customers"
	"github.com/angelmondragon/giftshop-backend/internal/dashboard"
	"github.com/angelmondragon/giftshop-backend/internal/images"
	"github.com/angelmondragon/giftshop-backend/internal/newsletter"
	"github.com/angelmondragon/giftshop-backend/internal/orders"
	"github.com/angelmondragon/giftshop-backend/internal/products"
	"github.com/angelmondragon/giftshop-backend/internal/responsibles"
	"github.com/angelmondragon/giftshop-backend/internal/settings"
	"github.com/angelmondragon/giftshop-backend/pkg/config"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/angelmondragon/giftshop-backend/pkg/logger"
	"github.com/angelmondragon/giftshop-backend/pkg/metrics"
	"github.com/angelmondragon/giftshop-backend/pkg/redis"
)

// Infra carries the clients the router probes or uses directly. Any of them may be nil.
type Infra struct {
	DB       controllers.Pinger
	SQL      controllers.Pinger
	Redis    *redis.Client
	Storage  controllers.Pinger
	Registry *prometheus.Registry
}

type productLookup interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
}

// Services are the domain services behind the HTTP surface.
type Services struct {
	Products      products.Service
	ProductLookup productLookup
	Categories    categories.Service
	Customers     customers.Service
	Responsibles  responsibles.Service
	Budgets       budgets.Service
	Submitter     budgets.Submitter
	Orders        orders.Service
	Newsletter    newsletter.Service
	Contacts      contacts.Service
	Settings      settings.Service
	Images        images.Service
	Dashboard     dashboard.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTPMetrics
	if infra.Registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(infra.Registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
	if cfg.App.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.App.RequestTimeout))
	}

	// A nil *redis.Client must not reach the middlewares as a non-nil interface.
	var idempotencyStore redis.IdempotencyStore
	var limiter *redis.Client
	checks := []controllers.Check{{Name: "db", Pinger: infra.DB}, {Name: "sql", Pinger: infra.SQL}, {Name: "gcs", Pinger: infra.Storage}}
	if infra.Redis != nil {
		idempotencyStore = infra.Redis
		limiter = infra.Redis
		checks = append(checks, controllers.Check{Name: "redis", Pinger: infra.Redis})
	} else {
		checks = append(checks, controllers.Check{Name: "redis"})
	}
	idempotent := middleware.Idempotency(idempotencyStore, cfg.Cart.CookieName, logg)

	rateLimited := func(policy middleware.RateLimitPolicy) func(http.Handler) http.Handler {
		if limiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.RateLimit(policy, limiter, logg)
	}
	submitPolicy := middleware.NewRateLimitPolicy("submit", cfg.RateLimit.SubmitWindow, cfg.RateLimit.SubmitIPLimit, cfg.RateLimit.SubmitEmailLimit)
	contactPolicy := middleware.NewRateLimitPolicy("contact", cfg.RateLimit.ContactWindow, cfg.RateLimit.ContactIPLimit, cfg.RateLimit.ContactEmailLimit)

	cartStore := cart.CookieStore{
		Name:   cfg.Cart.CookieName,
		MaxAge: cfg.Cart.MaxAge(),
		Secure: cfg.Cart.Secure,
		Domain: cfg.Cart.Domain,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})
	if infra.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(infra.Registry))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.PublicProductList(svc.Products, logg))
		r.Get("/products/{slug}", controllers.PublicProductDetail(svc.Products, logg))
		r.Get("/categories", controllers.PublicCategoryList(svc.Categories, logg))
		r.Get("/categories/{slug}", controllers.PublicCategoryDetail(svc.Categories, svc.Products, logg))
		r.Get("/settings", controllers.PublicSettingsFetch(svc.Settings, logg))

		r.Get("/cart", cartcontrollers.CartFetch(cartStore, svc.ProductLookup, logg))
		r.Delete("/cart", cartcontrollers.CartClear(cartStore))
		r.Post("/cart/items", cartcontrollers.CartAdd(cartStore, logg))
		r.Put("/cart/items", cartcontrollers.CartUpdate(cartStore, logg))
		r.Delete("/cart/items/{productId}", cartcontrollers.CartRemove(cartStore, logg))

		r.With(rateLimited(submitPolicy), idempotent).Post("/budgets", controllers.SubmitBudget(svc.Submitter, cartStore, logg))
		r.With(rateLimited(submitPolicy), idempotent).Post("/quotes", controllers.SubmitQuote(svc.Submitter, cartStore, logg))
		r.With(rateLimited(contactPolicy)).Post("/newsletter", controllers.NewsletterSubscribe(svc.Newsletter, logg))
		r.With(rateLimited(contactPolicy), idempotent).Post("/contacts", controllers.ContactCreate(svc.Contacts, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.RoleAdmin.String(), logg))

		r.Get("/dashboard", admincontrollers.DashboardStats(svc.Dashboard, logg))

		r.Get("/products", admincontrollers.ProductList(svc.Products, logg))
		r.Post("/products", admincontrollers.ProductCreate(svc.Products, logg))
		r.Get("/products/export", admincontrollers.ProductExport(svc.Products, logg))
		r.With(idempotent).Post("/products/import", admincontrollers.ProductImport(svc.Products, logg))
		r.Get("/products/{productId}", admincontrollers.ProductDetail(svc.Products, logg))
		r.Put("/products/{productId}", admincontrollers.ProductUpdate(svc.Products, logg))
		r.Delete("/products/{productId}", admincontrollers.ProductDelete(svc.Products, logg))

		r.Get("/categories", admincontrollers.CategoryList(svc.Categories, logg))
		r.Post("/categories", admincontrollers.CategoryCreate(svc.Categories, logg))
		r.Get("/categories/{categoryId}", admincontrollers.CategoryDetail(svc.Categories, logg))
		r.Put("/categories/{categoryId}", admincontrollers.CategoryUpdate(svc.Categories, logg))
		r.Delete("/categories/{categoryId}", admincontrollers.CategoryDelete(svc.Categories, logg))

		r.Get("/customers", admincontrollers.CustomerList(svc.Customers, logg))
		r.Post("/customers", admincontrollers.CustomerCreate(svc.Customers, logg))
		r.Get("/customers/{customerId}", admincontrollers.CustomerDetail(svc.Customers, logg))
		r.Put("/customers/{customerId}", admincontrollers.CustomerUpdate(svc.Customers, logg))
		r.Delete("/customers/{customerId}", admincontrollers.CustomerDelete(svc.Customers, logg))

		r.Get("/responsibles", admincontrollers.ResponsibleList(svc.Responsibles, logg))
		r.Post("/responsibles", admincontrollers.ResponsibleCreate(svc.Responsibles, logg))
		r.Get("/responsibles/{responsibleId}", admincontrollers.ResponsibleDetail(svc.Responsibles, logg))
		r.Put("/responsibles/{responsibleId}", admincontrollers.ResponsibleUpdate(svc.Responsibles, logg))
		r.Delete("/responsibles/{responsibleId}", admincontrollers.ResponsibleDelete(svc.Responsibles, logg))

		r.Get("/budgets", admincontrollers.BudgetList(svc.Budgets, logg))
		r.Get("/budgets/export", admincontrollers.BudgetExport(svc.Budgets, logg))
		r.Get("/budgets/{budgetId}", admincontrollers.BudgetDetail(svc.Budgets, logg))
		r.Patch("/budgets/{budgetId}", admincontrollers.BudgetUpdate(svc.Budgets, logg))
		r.Patch("/budgets/{budgetId}/status", admincontrollers.BudgetStatusUpdate(svc.Budgets, logg))
		r.Delete("/budgets/{budgetId}", admincontrollers.BudgetDelete(svc.Budgets, logg))
		r.Get("/budgets/{budgetId}/pdf", admincontrollers.BudgetPDF(svc.Budgets, logg))
		r.With(idempotent).Post("/budgets/{budgetId}/order", admincontrollers.BudgetConvert(svc.Orders, logg))

		r.Get("/orders", admincontrollers.OrderList(svc.Orders, logg))
		r.With(idempotent).Post("/orders", admincontrollers.OrderCreate(svc.Orders, logg))
		r.Get("/orders/{orderId}", admincontrollers.OrderDetail(svc.Orders, logg))
		r.Patch("/orders/{orderId}", admincontrollers.OrderUpdate(svc.Orders, logg))
		r.Delete("/orders/{orderId}", admincontrollers.OrderDelete(svc.Orders, logg))

		r.Get("/newsletter", admincontrollers.SubscriberList(svc.Newsletter, logg))
		r.Get("/newsletter/export", admincontrollers.SubscriberExport(svc.Newsletter, logg))
		r.Patch("/newsletter/{subscriberId}", admincontrollers.SubscriberSetActive(svc.Newsletter, logg))
		r.Delete("/newsletter/{subscriberId}", admincontrollers.SubscriberDelete(svc.Newsletter, logg))

		r.Get("/contacts", admincontrollers.ContactList(svc.Contacts, logg))
		r.Get("/contacts/{contactId}", admincontrollers.ContactDetail(svc.Contacts, logg))
		r.Patch("/contacts/{contactId}/read", admincontrollers.ContactMarkRead(svc.Contacts, logg))
		r.Delete("/contacts/{contactId}", admincontrollers.ContactDelete(svc.Contacts, logg))

		r.Get("/settings", admincontrollers.SettingsFetch(svc.Settings, logg))
		r.Put("/settings", admincontrollers.SettingsUpdate(svc.Settings, logg))

		r.Get("/media", admincontrollers.ImageList(svc.Images, logg))
		r.Post("/media", admincontrollers.ImageUpload(svc.Images, cfg.Media.MaxUploadBytes(), logg))
		r.Post("/media/sync", admincontrollers.ImageSync(svc.Images, logg))
		r.Get("/media/{imageId}", admincontrollers.ImageDetail(svc.Images, logg))
		r.Patch("/media/{imageId}", admincontrollers.ImageUpdate(svc.Images, logg))
		r.Delete("/media/{imageId}", admincontrollers.ImageDelete(svc.Images, logg))
	})

	return r
}
