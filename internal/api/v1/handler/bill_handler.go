package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gameon/internal/api/v1/dto"
	"gameon/internal/catalog"
	"gameon/internal/middleware"
	"gameon/internal/model"
	"gameon/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// BillHandler handles bill creation, listing, exports and receipts
type BillHandler struct {
	billService    service.BillService
	archiveService service.ArchiveService
	catalog        *catalog.Catalog
	venue          service.Venue
	loc            *time.Location
	now            func() time.Time
	validate       *validator.Validate
	logger         zerolog.Logger
}

func NewBillHandler(
	billService service.BillService,
	archiveService service.ArchiveService,
	cat *catalog.Catalog,
	venue service.Venue,
	loc *time.Location,
	v *validator.Validate,
	logger zerolog.Logger,
) *BillHandler {
	if archiveService == nil {
		archiveService = service.UnavailableArchive{}
	}
	return &BillHandler{
		billService:    billService,
		archiveService: archiveService,
		catalog:        cat,
		venue:          venue,
		loc:            loc,
		now:            time.Now,
		validate:       v,
		logger:         logger,
	}
}

// RegisterRoutes mounts bill routes
func (h *BillHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/bills", authMw(http.HandlerFunc(h.handleBills)))
	mux.Handle("/bills/", authMw(http.HandlerFunc(h.handleBill)))
}

func (h *BillHandler) handleBills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listBills(w, r)
	case http.MethodPost:
		h.createBill(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BillHandler) handleBill(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/bills/")
	switch {
	case rest == "stats" && r.Method == http.MethodGet:
		h.getStats(w, r)
	case rest == "export.csv" && r.Method == http.MethodGet:
		h.exportCSV(w, r)
	case rest == "export/archive" && r.Method == http.MethodPost:
		h.archiveExport(w, r)
	case strings.HasSuffix(rest, "/receipt.pdf") && r.Method == http.MethodGet:
		h.getReceiptPDF(w, r, strings.TrimSuffix(rest, "/receipt.pdf"))
	case strings.HasSuffix(rest, "/receipt/archive") && r.Method == http.MethodPost:
		h.archiveReceipt(w, r, strings.TrimSuffix(rest, "/receipt/archive"))
	case strings.HasSuffix(rest, "/receipt") && r.Method == http.MethodGet:
		h.getReceipt(w, r, strings.TrimSuffix(rest, "/receipt"))
	case rest != "" && !strings.Contains(rest, "/") && r.Method == http.MethodGet:
		h.getBill(w, r, rest)
	case rest != "" && !strings.Contains(rest, "/") && r.Method == http.MethodDelete:
		h.deleteBill(w, r, rest)
	default:
		http.NotFound(w, r)
	}
}

// createBill godoc
// @Summary Create a bill
// @Description Prices a gaming session from the catalog and records it with the next bill number.
// @Tags bills
// @Accept json
// @Produce json
// @Param bill body dto.BillCreateDTO true "Bill creation request"
// @Success 201 {object} model.Bill
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Invalid or expired session"
// @Failure 500 {string} string "Failed to create bill"
// @Router /bills [post]
func (h *BillHandler) createBill(w http.ResponseWriter, r *http.Request) {
	var req dto.BillCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	bill, err := h.billService.Create(r.Context(), middleware.SessionFromContext(r.Context()), service.BillInput{
		CustomerName:          req.CustomerName,
		AdditionalPlayerNames: req.AdditionalPlayerNames,
		ContactNumber:         req.ContactNumber,
		Address:               req.Address,
		Age:                   req.Age,
		GameZoneID:            req.GameZoneID,
		TierID:                req.TierID,
		DurationHours:         req.DurationHours,
		Discount:              req.Discount,
		PaymentMethod:         model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeServiceError(w, h.logger, "Failed to create bill", err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

// listBills godoc
// @Summary List bills
// @Description Lists bills newest first, optionally filtered by player name or contact, zone and date.
// @Tags bills
// @Produce json
// @Param search query string false "Player name or contact number"
// @Param zone query string false "Game zone ID"
// @Param date query string false "Creation date (YYYY-MM-DD)"
// @Success 200 {array} model.Bill
// @Failure 400 {string} string "Invalid date"
// @Failure 401 {string} string "Invalid or expired session"
// @Router /bills [get]
func (h *BillHandler) listBills(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseBillFilter(w, r)
	if !ok {
		return
	}
	bills, err := h.billService.List(r.Context(), middleware.SessionFromContext(r.Context()), filter)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to list bills", err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

// getStats godoc
// @Summary Dashboard statistics
// @Description Revenue and bill counts for today plus all-time revenue. Admin only.
// @Tags bills
// @Produce json
// @Success 200 {object} service.DailyStats
// @Failure 403 {string} string "not permitted for this role"
// @Router /bills/stats [get]
func (h *BillHandler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.billService.Stats(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, "Failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// exportCSV godoc
// @Summary Export bills as CSV
// @Tags bills
// @Produce text/csv
// @Param search query string false "Player name or contact number"
// @Param zone query string false "Game zone ID"
// @Param date query string false "Creation date (YYYY-MM-DD)"
// @Success 200 {string} string "CSV document"
// @Router /bills/export.csv [get]
func (h *BillHandler) exportCSV(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.renderCSV(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// archiveExport godoc
// @Summary Archive a CSV export
// @Description Uploads the filtered CSV export to object storage and returns a 15 minute download link.
// @Tags bills
// @Produce json
// @Success 200 {object} dto.SignedURLResponseDTO
// @Failure 503 {string} string "archive storage is not configured"
// @Router /bills/export/archive [post]
func (h *BillHandler) archiveExport(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.renderCSV(w, r)
	if !ok {
		return
	}
	url, err := h.archiveService.ArchiveExport(r.Context(), filename, data)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to archive export", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SignedURLResponseDTO{URL: url})
}

func (h *BillHandler) renderCSV(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	filter, ok := parseBillFilter(w, r)
	if !ok {
		return "", nil, false
	}
	bills, err := h.billService.List(r.Context(), middleware.SessionFromContext(r.Context()), filter)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to list bills", err)
		return "", nil, false
	}
	var buf bytes.Buffer
	if err := service.WriteBillsCSV(&buf, bills, h.catalog, h.loc); err != nil {
		writeServiceError(w, h.logger, "Failed to write CSV", err)
		return "", nil, false
	}
	return service.ExportFilename(h.now(), h.loc), buf.Bytes(), true
}

// getBill godoc
// @Summary Get a bill
// @Tags bills
// @Produce json
// @Param billId path string true "Bill ID"
// @Success 200 {object} model.Bill
// @Failure 404 {string} string "bill not found"
// @Router /bills/{billId} [get]
func (h *BillHandler) getBill(w http.ResponseWriter, r *http.Request, id string) {
	bill, err := h.billService.Get(r.Context(), middleware.SessionFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to retrieve bill", err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// deleteBill godoc
// @Summary Delete a bill
// @Description Admin only. Deleting a bill that does not exist succeeds.
// @Tags bills
// @Param billId path string true "Bill ID"
// @Success 204
// @Failure 403 {string} string "not permitted for this role"
// @Router /bills/{billId} [delete]
func (h *BillHandler) deleteBill(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.billService.Delete(r.Context(), middleware.SessionFromContext(r.Context()), id); err != nil {
		writeServiceError(w, h.logger, "Failed to delete bill", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getReceipt godoc
// @Summary Receipt layout
// @Tags bills
// @Produce json
// @Param billId path string true "Bill ID"
// @Success 200 {object} service.Receipt
// @Failure 404 {string} string "bill not found"
// @Router /bills/{billId}/receipt [get]
func (h *BillHandler) getReceipt(w http.ResponseWriter, r *http.Request, id string) {
	receipt, ok := h.buildReceipt(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// getReceiptPDF godoc
// @Summary Receipt PDF
// @Tags bills
// @Produce application/pdf
// @Param billId path string true "Bill ID"
// @Success 200 {file} file
// @Failure 404 {string} string "bill not found"
// @Router /bills/{billId}/receipt.pdf [get]
func (h *BillHandler) getReceiptPDF(w http.ResponseWriter, r *http.Request, id string) {
	data, ok := h.renderReceiptPDF(w, r, id)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+service.ReceiptFilename(id))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// archiveReceipt godoc
// @Summary Archive a receipt PDF
// @Description Uploads the receipt to object storage and returns a 15 minute download link.
// @Tags bills
// @Produce json
// @Param billId path string true "Bill ID"
// @Success 200 {object} dto.SignedURLResponseDTO
// @Failure 503 {string} string "archive storage is not configured"
// @Router /bills/{billId}/receipt/archive [post]
func (h *BillHandler) archiveReceipt(w http.ResponseWriter, r *http.Request, id string) {
	data, ok := h.renderReceiptPDF(w, r, id)
	if !ok {
		return
	}
	url, err := h.archiveService.ArchiveReceipt(r.Context(), id, data)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to archive receipt", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SignedURLResponseDTO{URL: url})
}

func (h *BillHandler) buildReceipt(w http.ResponseWriter, r *http.Request, id string) (service.Receipt, bool) {
	bill, err := h.billService.Get(r.Context(), middleware.SessionFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to retrieve bill", err)
		return service.Receipt{}, false
	}
	return service.BuildReceipt(*bill, h.catalog, h.venue, h.loc), true
}

func (h *BillHandler) renderReceiptPDF(w http.ResponseWriter, r *http.Request, id string) ([]byte, bool) {
	receipt, ok := h.buildReceipt(w, r, id)
	if !ok {
		return nil, false
	}
	var buf bytes.Buffer
	if err := service.RenderReceiptPDF(&buf, receipt); err != nil {
		writeServiceError(w, h.logger, "Failed to render receipt", err)
		return nil, false
	}
	return buf.Bytes(), true
}

func parseBillFilter(w http.ResponseWriter, r *http.Request) (service.BillFilter, bool) {
	q := r.URL.Query()
	f := service.BillFilter{
		Search: q.Get("search"),
		ZoneID: q.Get("zone"),
		Date:   q.Get("date"),
	}
	if f.Date != "" {
		if _, err := time.Parse(service.DateLayout, f.Date); err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return f, false
		}
	}
	return f, true
}
