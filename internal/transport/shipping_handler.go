package transport

import (
	"net/http"

	"shop-admin/internal/middleware"
	"shop-admin/internal/service"
	"shop-admin/internal/viewmodel"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ShippingHandler handles HTTP requests for the shipments views
type ShippingHandler struct {
	shippingService service.ShippingService
	logger          *zap.Logger
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(shippingService service.ShippingService, logger *zap.Logger) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
		logger:          logger,
	}
}

// RegisterRoutes registers all shipping routes behind the given middleware
func (h *ShippingHandler) RegisterRoutes(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.Route("/api/shipping", func(r chi.Router) {
		r.Use(middlewares...)

		r.Get("/", h.GetOverview)
		r.Get("/providers", h.ListProviders)
		r.Get("/orders", h.ListOrders)
		r.Get("/stats", h.GetStats)
	})
}

// GetOverview handles the shipments page load
func (h *ShippingHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	q, ok := decodePageQuery(w, r, service.DefaultShippingOrderLimit, h.logger)
	if !ok {
		return
	}

	overview, err := h.shippingService.GetShippingOverview(r.Context(), authFrom(r), q.Limit)
	if err != nil {
		respondUpstreamError(w, "shipping overview", err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewShipping(overview))
}

// ListProviders handles the carrier listing
func (h *ShippingHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	result, err := h.shippingService.GetShippingProviders(r.Context(), authFrom(r))
	if err != nil {
		respondUpstreamError(w, "shipping providers", err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewListing(result))
}

// ListOrders handles the shipment listing
func (h *ShippingHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q, ok := decodePageQuery(w, r, service.DefaultShippingOrderLimit, h.logger)
	if !ok {
		return
	}

	result, err := h.shippingService.GetShippingOrders(r.Context(), authFrom(r), q.Limit)
	if err != nil {
		respondUpstreamError(w, "shipping orders", err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewListing(result))
}

// GetStats handles the shipping summary
func (h *ShippingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.shippingService.GetShippingStats(r.Context(), authFrom(r))
	if err != nil {
		respondUpstreamError(w, "shipping stats", err, h.logger)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, viewmodel.NewShippingStats(result))
}
