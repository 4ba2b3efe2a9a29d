package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medibill/internal/domain"
	"medibill/internal/port"
)

// DailyReportHandler handles daily report endpoints. Reports are thin
// time-entry records, so the handler talks to the repository directly.
type DailyReportHandler struct {
	reportRepo port.DailyReportRepository
}

// NewDailyReportHandler creates a new DailyReportHandler.
func NewDailyReportHandler(reportRepo port.DailyReportRepository) *DailyReportHandler {
	return &DailyReportHandler{reportRepo: reportRepo}
}

// CreateDailyReportRequest is the payload for entering a field report.
type CreateDailyReportRequest struct {
	JobID          uuid.UUID `json:"job_id" binding:"required"`
	ReportNumber   string    `json:"report_number" binding:"required"`
	OperatorName   string    `json:"operator_name"`
	ReportDate     time.Time `json:"report_date" binding:"required"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	LunchStartTime string    `json:"lunch_start_time"`
	LunchEndTime   string    `json:"lunch_end_time"`
	DowntimeHours  float64   `json:"downtime_hours"`
}

// Create handles POST /api/v1/daily-reports
// @Summary Enter a daily report
// @Description Record one operator-shift time entry for a job
// @Tags daily-reports
// @Accept json
// @Produce json
// @Param request body CreateDailyReportRequest true "Report details"
// @Success 201 {object} Response{data=domain.DailyReport} "Report created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Security BearerAuth
// @Router /daily-reports [post]
func (h *DailyReportHandler) Create(c *gin.Context) {
	var req CreateDailyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	report := &domain.DailyReport{
		ID:             uuid.New(),
		JobID:          req.JobID,
		ReportNumber:   req.ReportNumber,
		OperatorName:   req.OperatorName,
		ReportDate:     req.ReportDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		LunchStartTime: req.LunchStartTime,
		LunchEndTime:   req.LunchEndTime,
		DowntimeHours:  req.DowntimeHours,
		CreatedAt:      time.Now(),
	}
	if err := h.reportRepo.Create(c.Request.Context(), report); err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, report)
}

// List handles GET /api/v1/daily-reports
// @Summary List daily reports for a job and date range
// @Tags daily-reports
// @Produce json
// @Param job_id query string true "Job ID (UUID)"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} Response{data=[]domain.DailyReport} "Reports in range"
// @Failure 400 {object} ErrorResponseBody "Invalid parameters"
// @Security BearerAuth
// @Router /daily-reports [get]
func (h *DailyReportHandler) List(c *gin.Context) {
	jobID, err := uuid.Parse(c.Query("job_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid job_id")
		return
	}
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be YYYY-MM-DD")
		return
	}

	reports, err := h.reportRepo.ListByJobAndRange(c.Request.Context(), jobID, from, to)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, reports)
}
