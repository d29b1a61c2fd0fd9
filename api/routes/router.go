package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teclegacy/marketplace-backend/api/controllers"
	"github.com/teclegacy/marketplace-backend/api/middleware"
	"github.com/teclegacy/marketplace-backend/internal/cart"
	"github.com/teclegacy/marketplace-backend/internal/catalog"
	"github.com/teclegacy/marketplace-backend/internal/chatbot"
	checkoutsvc "github.com/teclegacy/marketplace-backend/internal/checkout"
	"github.com/teclegacy/marketplace-backend/internal/orders"
	"github.com/teclegacy/marketplace-backend/pkg/config"
	"github.com/teclegacy/marketplace-backend/pkg/db"
	"github.com/teclegacy/marketplace-backend/pkg/logger"
	"github.com/teclegacy/marketplace-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP db.Pinger,
	catalogRepo catalog.Repository,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	chatbotService chatbot.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, cfg.Session, logg))

		r.Get("/categories", controllers.ListCategories(catalogRepo, logg))
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogRepo, logg))
			r.Get("/{categorySlug}/{slug}", controllers.ProductDetail(catalogRepo, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartDetail(cartService, logg))
			r.Get("/add/{productID}", controllers.CartAdd(cartService, logg))
			r.Post("/add/{productID}", controllers.CartAdd(cartService, logg))
			r.Post("/update", controllers.CartUpdate(cartService, logg))
		})

		r.Post("/chatbot/query", controllers.ChatbotQuery(chatbotService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(logg))

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderID}", controllers.OrderDetail(ordersService, logg))
				r.Get("/{orderID}/payment", controllers.PaymentInitiate(ordersService, logg))
				r.Post("/{orderID}/payment/execute", controllers.PaymentExecute(ordersService, logg))
				r.Post("/{orderID}/payment/cancel", controllers.PaymentCancel(ordersService, logg))
			})
		})
	})

	return r
}
