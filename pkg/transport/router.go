package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
)

// Services are the domain collaborators the API exposes.
type Services struct {
	Catalog    service.CatalogService
	Pricing    service.PricingResolver
	Carts      service.CartService
	Checkouts  service.CheckoutService
	Deliveries service.DeliveryService
	Identity   service.IdentityService
	Assistant  service.AssistantService
	Marketing  service.MarketingService
	Reports    service.ReportGenerator
	Payments   service.PaymentRedirector
	// Orders is nil unless the order sink keeps a history.
	Orders service.OrderHistory
}

type Options struct {
	DefaultCountry model.Country
	CORSOrigins    []string
	AssistantRate  rate.Limit
	AssistantBurst int
}

type Handler struct {
	Services
	defaultCountry model.Country
}

func Router(services Services, opts Options) http.Handler {
	if opts.DefaultCountry == "" {
		opts.DefaultCountry = model.US
	}
	if opts.AssistantRate <= 0 {
		opts.AssistantRate = 1
	}
	if opts.AssistantBurst <= 0 {
		opts.AssistantBurst = 5
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	h := &Handler{Services: services, defaultCountry: opts.DefaultCountry}
	limiter := NewRateLimiter(opts.AssistantRate, opts.AssistantBurst)

	r := mux.NewRouter()
	r.HandleFunc("/health", h.healthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/products", h.listProductsHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/new", h.newArrivalsHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/{productID}", h.productHandler).Methods(http.MethodGet)
	api.HandleFunc("/promotions/{country}", h.promotionHandler).Methods(http.MethodGet)

	api.HandleFunc("/carts", h.createCartHandler).Methods(http.MethodPost)
	api.HandleFunc("/carts/{cartID}", h.getCartHandler).Methods(http.MethodGet)
	api.HandleFunc("/carts/{cartID}/items", h.addItemHandler).Methods(http.MethodPost)
	api.HandleFunc("/carts/{cartID}/items/quick", h.quickAddHandler).Methods(http.MethodPost)
	api.HandleFunc("/carts/{cartID}/items", h.changeQuantityHandler).Methods(http.MethodPatch)
	api.HandleFunc("/carts/{cartID}/items", h.removeItemHandler).Methods(http.MethodDelete)

	api.HandleFunc("/checkouts", h.beginCheckoutHandler).Methods(http.MethodPost)
	api.HandleFunc("/checkouts/{checkoutID}", h.getCheckoutHandler).Methods(http.MethodGet)
	api.HandleFunc("/checkouts/{checkoutID}/shipping", h.shippingHandler).Methods(http.MethodPost)
	api.HandleFunc("/checkouts/{checkoutID}/back", h.backToShippingHandler).Methods(http.MethodPost)
	api.HandleFunc("/checkouts/{checkoutID}/country", h.changeCountryHandler).Methods(http.MethodPost)
	api.HandleFunc("/checkouts/{checkoutID}/payment", h.paymentHandler).Methods(http.MethodPost)
	api.HandleFunc("/checkouts/{checkoutID}/payment/qr", h.paymentQRHandler).Methods(http.MethodGet)
	api.HandleFunc("/checkouts/{checkoutID}/deliveries", h.deliveriesHandler).Methods(http.MethodGet)

	api.HandleFunc("/auth/login", h.loginHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", h.registerHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.logoutHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.meHandler).Methods(http.MethodGet)

	assistant := api.PathPrefix("/assistant").Subrouter()
	assistant.Use(limiter.Limit)
	assistant.HandleFunc("/sessions", h.createChatSessionHandler).Methods(http.MethodPost)
	assistant.HandleFunc("/sessions/{sessionID}/messages", h.sendChatMessageHandler).Methods(http.MethodPost)
	assistant.HandleFunc("/sessions/{sessionID}/messages", h.chatHistoryHandler).Methods(http.MethodGet)
	assistant.HandleFunc("/sessions/{sessionID}/ws", h.chatSocketHandler).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.requireAdmin)
	admin.HandleFunc("/marketing", h.marketingHandler).Methods(http.MethodPost)
	admin.HandleFunc("/report", h.reportHandler).Methods(http.MethodGet)
	admin.HandleFunc("/orders", h.ordersHandler).Methods(http.MethodGet)

	withCORS := cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)

	return logMiddleware(withCORS)
}

func (h *Handler) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
