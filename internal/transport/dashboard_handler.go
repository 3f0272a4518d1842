package transport

import (
	"errors"
	"net/http"
	"strconv"

	"shop-admin/internal/domain"
	"shop-admin/internal/middleware"
	"shop-admin/internal/service"
	"shop-admin/internal/upstream"
	"shop-admin/internal/viewmodel"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DashboardHandler handles HTTP requests for the dashboard, catalog and user views
type DashboardHandler struct {
	statsService service.StatsService
	logger       *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(statsService service.StatsService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		statsService: statsService,
		logger:       logger,
	}
}

// RegisterRoutes registers all dashboard routes behind the given middleware
func (h *DashboardHandler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(middlewares...)

		r.Get("/api/dashboard/stats", h.GetDashboardStats)
		r.Get("/api/dashboard/categories", h.RefreshCategoryChart)
		r.Get("/api/products", h.ListProducts)
		r.Get("/api/orders", h.ListOrders)
		r.Get("/api/users", h.ListUsers)
		r.Get("/api/users/{id}", h.GetUser)
		r.Get("/api/categories", h.ListCategories)
	})
}

// GetDashboardStats handles the dashboard page load
func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r)

	report, err := h.statsService.GetDashboardStats(r.Context(), auth)
	if err != nil {
		h.logger.Error("Failed to assemble dashboard", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, service.ErrDashboardStats.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewDashboard(report, h.statsService.CategoryRefreshInFlight()))
}

// RefreshCategoryChart recomputes the category distribution on its own
func (h *DashboardHandler) RefreshCategoryChart(w http.ResponseWriter, r *http.Request) {
	auth := authFrom(r)

	shares, source, err := h.statsService.GenerateCategoryData(r.Context(), auth)
	if err != nil {
		h.logger.Error("Failed to refresh category chart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, "unable to load category distribution")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewCategoryChart(shares, source))
}

// ListProducts handles the product listing
func (h *DashboardHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := h.pageQuery(w, r, service.DefaultProductLimit)
	if !ok {
		return
	}

	result, err := h.statsService.GetProducts(r.Context(), authFrom(r), q.Skip, q.Limit)
	if err != nil {
		h.respondUpstreamError(w, "products", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewProductListing(result))
}

// ListOrders handles the order listing
func (h *DashboardHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q, ok := h.pageQuery(w, r, service.DefaultOrderLimit)
	if !ok {
		return
	}

	result, err := h.statsService.GetOrders(r.Context(), authFrom(r), q.Limit)
	if err != nil {
		h.respondUpstreamError(w, "orders", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewListing(result))
}

// ListUsers handles the user listing
func (h *DashboardHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q, ok := h.pageQuery(w, r, service.DefaultUserLimit)
	if !ok {
		return
	}

	result, err := h.statsService.GetUsers(r.Context(), authFrom(r), q.Limit)
	if err != nil {
		h.respondUpstreamError(w, "users", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewListing(result))
}

// GetUser handles a single user lookup
func (h *DashboardHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, source, err := h.statsService.GetUserByID(r.Context(), authFrom(r), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.respondUpstreamError(w, "user", err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewUserDetail(user, source))
}

// ListCategories returns the static taxonomy
func (h *DashboardHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.statsService.GetCategories(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewListing(service.Result[domain.Category]{
		Records: categories,
		Source:  domain.SourceStatic,
	}))
}

func (h *DashboardHandler) pageQuery(w http.ResponseWriter, r *http.Request, defaultLimit int) (middleware.PageQuery, bool) {
	return decodePageQuery(w, r, defaultLimit, h.logger)
}

func (h *DashboardHandler) respondUpstreamError(w http.ResponseWriter, resource string, err error) {
	respondUpstreamError(w, resource, err, h.logger)
}

func decodePageQuery(w http.ResponseWriter, r *http.Request, defaultLimit int, logger *zap.Logger) (middleware.PageQuery, bool) {
	q, err := middleware.DecodePageQuery(r, defaultLimit)
	if err != nil {
		logger.Debug("Pagination validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return q, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid pagination parameters")
		return q, false
	}
	return q, true
}

// respondUpstreamError is only reached in live mode, where failures are not
// replaced by fallback data.
func respondUpstreamError(w http.ResponseWriter, resource string, err error, logger *zap.Logger) {
	logger.Error("Failed to load resource", zap.String("resource", resource), zap.Error(err))
	middleware.RespondWithUpstreamError(w, resource, err)
}

func authFrom(r *http.Request) upstream.AuthContext {
	auth, _ := middleware.GetAuthContext(r.Context())
	return auth
}
