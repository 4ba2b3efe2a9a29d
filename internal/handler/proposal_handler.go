package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medibill/internal/service"
)

// ProposalHandler handles proposal endpoints.
type ProposalHandler struct {
	proposalService service.ProposalService
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(proposalService service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// Create handles POST /api/v1/proposals
// @Summary Create a proposal
// @Description Create a proposal; the sequential number is assigned automatically
// @Tags proposals
// @Accept json
// @Produce json
// @Param request body service.CreateProposalInput true "Proposal details"
// @Success 201 {object} Response{data=domain.Proposal} "Proposal created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 409 {object} ErrorResponseBody "Proposal number already exists"
// @Security BearerAuth
// @Router /proposals [post]
func (h *ProposalHandler) Create(c *gin.Context) {
	var input service.CreateProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	proposal, err := h.proposalService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, proposal)
}

// GetByID handles GET /api/v1/proposals/:id
// @Summary Get proposal by ID
// @Tags proposals
// @Produce json
// @Param id path string true "Proposal ID (UUID)"
// @Success 200 {object} Response{data=domain.Proposal} "Proposal details"
// @Failure 404 {object} ErrorResponseBody "Proposal not found"
// @Security BearerAuth
// @Router /proposals/{id} [get]
func (h *ProposalHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid proposal ID")
		return
	}

	proposal, err := h.proposalService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, proposal)
}

// List handles GET /api/v1/proposals
// @Summary List proposals
// @Tags proposals
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Proposal,meta=PagMeta} "List of proposals"
// @Security BearerAuth
// @Router /proposals [get]
func (h *ProposalHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	proposals, total, err := h.proposalService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, proposals, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/proposals/:id
// @Summary Update a proposal
// @Description Update a proposal's rates and terms; the number never changes
// @Tags proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID (UUID)"
// @Param request body service.CreateProposalInput true "Updated details"
// @Success 200 {object} Response{data=domain.Proposal} "Updated proposal"
// @Failure 404 {object} ErrorResponseBody "Proposal not found"
// @Security BearerAuth
// @Router /proposals/{id} [put]
func (h *ProposalHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid proposal ID")
		return
	}

	var input service.CreateProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	proposal, err := h.proposalService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	proposal.ClientName = input.ClientName
	proposal.Description = input.Description
	proposal.Mobilization = input.Mobilization
	proposal.Demobilization = input.Demobilization
	proposal.MinHoursGuarantee = input.MinHoursGuarantee
	proposal.HourValue = input.HourValue
	proposal.ExtraHourValue = input.ExtraHourValue
	proposal.PeriodsQuantity = input.PeriodsQuantity
	proposal.Discount = input.Discount
	proposal.IgnoreLunchBreak = input.IgnoreLunchBreak

	if err := h.proposalService.Update(c.Request.Context(), proposal); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, proposal)
}

// NextNumber handles GET /api/v1/proposals/next-number
// @Summary Get the next proposal number
// @Description Returns the next sequential number in N/YYYY form without reserving it
// @Tags proposals
// @Produce json
// @Success 200 {object} Response{data=object} "Next number"
// @Security BearerAuth
// @Router /proposals/next-number [get]
func (h *ProposalHandler) NextNumber(c *gin.Context) {
	number, err := h.proposalService.NextNumber(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"number": number})
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
