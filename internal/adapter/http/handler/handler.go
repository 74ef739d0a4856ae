package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/respond"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultMaxUploadBytes = 32 << 20

type AccountService interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.Session, error)
	Authenticate(ctx context.Context, email, password string) (*usecase.Session, error)
}

type OfferService interface {
	Publish(ctx context.Context, ownerID string, in domain.OfferInput, files []domain.ImageFile) (*domain.Offer, error)
	Update(ctx context.Context, offerID, requesterID string, in domain.OfferInput, files []domain.ImageFile) (*domain.Offer, error)
	Remove(ctx context.Context, offerID, requesterID string) error
}

type CatalogService interface {
	Search(ctx context.Context, p usecase.SearchParams) (*usecase.SearchResult, error)
	GetByID(ctx context.Context, offerID string) (*domain.OfferView, error)
}

type Handler struct {
	accounts       AccountService
	offers         OfferService
	catalog        CatalogService
	maxUploadBytes int64
	metrics        *metrics.MetricsManager
	logger         *logger.Logger
}

// NewHandler accepts a nil m. A maxUploadBytes of 0 means 32 MiB.
func NewHandler(
	accounts AccountService,
	offers OfferService,
	catalog CatalogService,
	maxUploadBytes int64,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		accounts:       accounts,
		offers:         offers,
		catalog:        catalog,
		maxUploadBytes: maxUploadBytes,
		metrics:        m,
		logger:         log.Named("HTTPHandler"),
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, messageResponse{Message: "Welcome to the marketplace API"})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusNotFound, "This route does not exist")
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// fail translates err to a status code and a {"error": ...} body.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind, err)

	if h.metrics != nil {
		h.metrics.APIErrorsTotal.WithLabelValues(routePattern(r), kind.String()).Inc()
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respond.Error(w, status, "An internal error occurred")
		return
	}
	respond.Error(w, status, err.Error())
}

func statusFor(kind domain.ErrorKind, err error) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuth:
		if errors.Is(err, domain.ErrUnauthorized) {
			return http.StatusUnauthorized
		}
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return "unmatched"
}
