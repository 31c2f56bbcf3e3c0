package handler

import (
	"net/http"

	"gameon/internal/api/v1/dto"
	"gameon/internal/catalog"
	"gameon/internal/middleware"
	"gameon/internal/service"
)

// CatalogHandler serves the zones, tiers and durations for the billing form
type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/catalog", authMw(http.HandlerFunc(h.getCatalog)))
}

// getCatalog godoc
// @Summary Billing catalog
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.CatalogResponseDTO
// @Failure 401 {string} string "Invalid or expired session"
// @Router /catalog [get]
func (h *CatalogHandler) getCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if !service.Authorize(middleware.SessionFromContext(r.Context()), service.ActionViewBillingForm) {
		http.Error(w, service.ErrForbidden.Error(), http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, dto.CatalogResponseDTO{
		Zones:     h.catalog.Zones(),
		Tiers:     h.catalog.Tiers(),
		Durations: h.catalog.Durations(),
	})
}
