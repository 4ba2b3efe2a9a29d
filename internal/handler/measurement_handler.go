package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medibill/internal/domain"
	"medibill/internal/service"
)

// MeasurementHandler handles measurement endpoints.
type MeasurementHandler struct {
	measurementService service.MeasurementService
}

// NewMeasurementHandler creates a new MeasurementHandler.
func NewMeasurementHandler(measurementService service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurementService: measurementService}
}

// ProcessMeasurementRequest is the payload for processing or creating a
// measurement from a job's daily reports.
type ProcessMeasurementRequest struct {
	JobID      uuid.UUID               `json:"job_id" binding:"required"`
	ClientName string                  `json:"client_name"`
	ProposalID *uuid.UUID              `json:"proposal_id"`
	StartDate  time.Time               `json:"start_date" binding:"required"`
	EndDate    time.Time               `json:"end_date" binding:"required"`
	Snapshot   domain.ProposalSnapshot `json:"snapshot"`
}

func (r *ProcessMeasurementRequest) toInput() *service.ProcessMeasurementInput {
	return &service.ProcessMeasurementInput{
		JobID:      r.JobID,
		ClientName: r.ClientName,
		ProposalID: r.ProposalID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Snapshot:   r.Snapshot,
	}
}

// Process handles POST /api/v1/measurements/process
// @Summary Preview a measurement
// @Description Reconcile a job's daily reports into measurement details without persisting anything
// @Tags measurements
// @Accept json
// @Produce json
// @Param request body ProcessMeasurementRequest true "Job, period, and rate snapshot"
// @Success 200 {object} Response{data=domain.Measurement} "Reconciled measurement preview"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Security BearerAuth
// @Router /measurements/process [post]
func (h *MeasurementHandler) Process(c *gin.Context) {
	var req ProcessMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	m, err := h.measurementService.Process(c.Request.Context(), req.toInput())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, m)
}

// Create handles POST /api/v1/measurements
// @Summary Create a measurement
// @Description Reconcile a job's daily reports and persist the resulting measurement
// @Tags measurements
// @Accept json
// @Produce json
// @Param request body ProcessMeasurementRequest true "Job, period, and rate snapshot"
// @Success 201 {object} Response{data=domain.Measurement} "Measurement created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Security BearerAuth
// @Router /measurements [post]
func (h *MeasurementHandler) Create(c *gin.Context) {
	var req ProcessMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	m, err := h.measurementService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, m)
}

// GetByID handles GET /api/v1/measurements/:id
// @Summary Get measurement by ID
// @Description Get a measurement with its detail lines and derived totals
// @Tags measurements
// @Produce json
// @Param id path string true "Measurement ID (UUID)"
// @Success 200 {object} Response{data=domain.Measurement} "Measurement details"
// @Failure 404 {object} ErrorResponseBody "Measurement not found"
// @Security BearerAuth
// @Router /measurements/{id} [get]
func (h *MeasurementHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid measurement ID")
		return
	}

	m, err := h.measurementService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, m)
}

// List handles GET /api/v1/measurements
// @Summary List measurements
// @Tags measurements
// @Produce json
// @Param status query string false "Filter by status (open, approved)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Measurement,meta=PagMeta} "List of measurements"
// @Security BearerAuth
// @Router /measurements [get]
func (h *MeasurementHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)
	status := domain.MeasurementStatus(c.Query("status"))

	measurements, total, err := h.measurementService.List(c.Request.Context(), status, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, measurements, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// UpdateMeasurementRequest is the payload for editing an open measurement.
type UpdateMeasurementRequest struct {
	Snapshot    *domain.ProposalSnapshot  `json:"snapshot"`
	DetailEdits []service.EditDetailInput `json:"detail_edits"`
}

// Update handles PUT /api/v1/measurements/:id
// @Summary Edit a measurement
// @Description Apply manual detail edits and/or a replacement rate snapshot; derived fields and totals are recomputed
// @Tags measurements
// @Accept json
// @Produce json
// @Param id path string true "Measurement ID (UUID)"
// @Param request body UpdateMeasurementRequest true "Edits"
// @Success 200 {object} Response{data=domain.Measurement} "Updated measurement"
// @Failure 409 {object} ErrorResponseBody "Measurement is not open"
// @Security BearerAuth
// @Router /measurements/{id} [put]
func (h *MeasurementHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid measurement ID")
		return
	}

	var req UpdateMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	m, err := h.measurementService.Update(c.Request.Context(), &service.UpdateMeasurementInput{
		MeasurementID: id,
		Snapshot:      req.Snapshot,
		DetailEdits:   req.DetailEdits,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, m)
}

// ReapplyGuarantee handles POST /api/v1/measurements/:id/reapply-guarantee
// @Summary Re-apply the minimum hours guarantee
// @Description Recompute every detail line's guarantee and overtime against a new minimum, preserving manual total edits
// @Tags measurements
// @Accept json
// @Produce json
// @Param id path string true "Measurement ID (UUID)"
// @Param request body object true "min_hours_guarantee"
// @Success 200 {object} Response{data=domain.Measurement} "Updated measurement"
// @Failure 409 {object} ErrorResponseBody "Measurement is not open"
// @Security BearerAuth
// @Router /measurements/{id}/reapply-guarantee [post]
func (h *MeasurementHandler) ReapplyGuarantee(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid measurement ID")
		return
	}

	var req struct {
		MinHoursGuarantee float64 `json:"min_hours_guarantee"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	m, err := h.measurementService.ReapplyGuarantee(c.Request.Context(), id, req.MinHoursGuarantee)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, m)
}

// Approve handles POST /api/v1/measurements/:id/approve
// @Summary Approve a measurement
// @Description Freeze the measurement and move it into the billing pipeline
// @Tags measurements
// @Produce json
// @Param id path string true "Measurement ID (UUID)"
// @Success 200 {object} Response{data=domain.Measurement} "Approved measurement"
// @Failure 409 {object} ErrorResponseBody "Measurement is not open"
// @Security BearerAuth
// @Router /measurements/{id}/approve [post]
func (h *MeasurementHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid measurement ID")
		return
	}

	m, err := h.measurementService.Approve(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, m)
}
