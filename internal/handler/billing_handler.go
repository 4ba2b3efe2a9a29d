package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medibill/internal/domain"
	"medibill/internal/ledger"
	"medibill/internal/service"
)

// BillingHandler handles billing ledger endpoints.
type BillingHandler struct {
	billingService service.BillingService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// Ledger handles GET /api/v1/billing
// @Summary Get the billing ledger
// @Description Unified ledger of approved measurements, approved groups, and imported rows, bucketed by month
// @Tags billing
// @Produce json
// @Param sort query string false "Sort field (date, company, gross_value, net_value, invoice_number)" default(date)
// @Param dir query string false "Sort direction (asc, desc)" default(asc)
// @Success 200 {object} Response{data=[]domain.MonthBucket} "Month-bucketed ledger"
// @Security BearerAuth
// @Router /billing [get]
func (h *BillingHandler) Ledger(c *gin.Context) {
	sortField := ledger.SortField(c.DefaultQuery("sort", string(ledger.SortByDate)))
	dir := domain.SortDirection(c.DefaultQuery("dir", string(domain.SortAsc)))

	buckets, err := h.billingService.Ledger(c.Request.Context(), sortField, dir)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, buckets)
}

// UpsertRow handles PUT /api/v1/billing/rows
// @Summary Edit a ledger row
// @Description Update billing fields for a ledger row; the first edit of a placeholder row creates its record
// @Tags billing
// @Accept json
// @Produce json
// @Param request body service.UpsertBillingInput true "Row reference and field changes"
// @Success 200 {object} Response{data=domain.BillingRecord} "Stored billing record"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Security BearerAuth
// @Router /billing/rows [put]
func (h *BillingHandler) UpsertRow(c *gin.Context) {
	var input service.UpsertBillingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	record, err := h.billingService.UpsertRow(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, record)
}

// SoftDelete handles DELETE /api/v1/billing/:id
// @Summary Remove a ledger row
// @Description Hide a billing record from the ledger; the record is kept for audit
// @Tags billing
// @Produce json
// @Param id path string true "Billing record ID (UUID)"
// @Success 200 {object} Response{data=object} "Row removed"
// @Failure 404 {object} ErrorResponseBody "Record not found"
// @Security BearerAuth
// @Router /billing/{id} [delete]
func (h *BillingHandler) SoftDelete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid billing record ID")
		return
	}

	if err := h.billingService.SoftDelete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "billing record removed"})
}

// Import handles POST /api/v1/billing/import
// @Summary Import billing rows from a spreadsheet
// @Description Parse an uploaded .xlsx workbook into imported ledger rows
// @Tags billing
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook (.xlsx)"
// @Success 201 {object} Response{data=[]domain.BillingRecord} "Imported records"
// @Failure 400 {object} ErrorResponseBody "Missing file or unrecognized layout"
// @Security BearerAuth
// @Router /billing/import [post]
func (h *BillingHandler) Import(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	records, err := h.billingService.ImportSpreadsheet(c.Request.Context(), file)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, records)
}

// Export handles GET /api/v1/billing/export
// @Summary Export the ledger
// @Description Download the full active ledger as a UTF-8 CSV with BOM, or as an .xlsx workbook with format=xlsx
// @Tags billing
// @Produce text/csv
// @Param format query string false "Export format (csv, xlsx)" default(csv)
// @Success 200 {string} string "File content"
// @Failure 400 {object} ErrorResponseBody "Unknown format"
// @Security BearerAuth
// @Router /billing/export [get]
func (h *BillingHandler) Export(c *gin.Context) {
	stamp := time.Now().Format("2006-01-02")

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "billing-ledger-"+stamp+".csv"))
		if err := h.billingService.ExportCSV(c.Request.Context(), c.Writer); err != nil {
			HandleError(c, err)
			return
		}
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "billing-ledger-"+stamp+".xlsx"))
		if err := h.billingService.ExportXLSX(c.Request.Context(), c.Writer); err != nil {
			HandleError(c, err)
			return
		}
	default:
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "format must be csv or xlsx")
		return
	}
	c.Status(http.StatusOK)
}

// AddAttachment handles POST /api/v1/billing/:id/attachments
// @Summary Attach a file to a billing record
// @Description Upload an invoice or receipt (PDF, JPG, PNG) against a billing record
// @Tags billing
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Billing record ID (UUID)"
// @Param file formData file true "File to attach"
// @Success 201 {object} Response{data=object} "Stored attachment key"
// @Failure 400 {object} ErrorResponseBody "Unsupported file type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /billing/{id}/attachments [post]
func (h *BillingHandler) AddAttachment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid billing record ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	key, err := h.billingService.AddAttachment(
		c.Request.Context(), id,
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, gin.H{"key": key})
}

// AttachmentURL handles GET /api/v1/billing/:id/attachments/url?key=...
// @Summary Get a presigned attachment URL
// @Description Returns a short-lived download URL for an attachment of the record
// @Tags billing
// @Produce json
// @Param id path string true "Billing record ID (UUID)"
// @Param key query string true "Attachment storage key"
// @Success 200 {object} Response{data=object} "Presigned URL"
// @Failure 404 {object} ErrorResponseBody "Record or attachment not found"
// @Security BearerAuth
// @Router /billing/{id}/attachments/url [get]
func (h *BillingHandler) AttachmentURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid billing record ID")
		return
	}

	key := c.Query("key")
	if key == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "key query parameter is required")
		return
	}

	url, err := h.billingService.AttachmentURL(c.Request.Context(), id, key)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}
