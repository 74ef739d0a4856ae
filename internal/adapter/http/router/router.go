package router

import (
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the public API. m may be nil.
func NewRouter(h *handler.Handler, auth middleware.TokenResolver, m *metrics.MetricsManager, log *logger.Logger) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logger(log.Named("http")))
	mux.Use(chimw.Recoverer)
	if m != nil {
		mux.Use(middleware.Metrics(m))
	}

	mux.NotFound(h.NotFound)
	mux.MethodNotAllowed(h.MethodNotAllowed)

	mux.Get("/", h.Welcome)

	SetupAccountRoutes(mux, h)
	SetupOfferRoutes(mux, h, auth, log)

	return mux
}

func SetupAccountRoutes(mux *chi.Mux, h *handler.Handler) {
	mux.Post("/user/signup", h.Signup)
	mux.Post("/user/login", h.Login)
}

func SetupOfferRoutes(mux *chi.Mux, h *handler.Handler, auth middleware.TokenResolver, log *logger.Logger) {
	mux.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(auth, log.Named("auth")))

		r.Post("/offer/publish", h.PublishOffer)
		r.Put("/offer/{offerId}", h.UpdateOffer)
		r.Delete("/offer/{offerId}", h.RemoveOffer)
	})

	mux.Get("/offers", h.ListOffers)
	mux.Get("/offers/{offerId}", h.GetOffer)
}
