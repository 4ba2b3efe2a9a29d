package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medibill/internal/service"
)

// GroupHandler handles measurement group endpoints.
type GroupHandler struct {
	groupService service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// Create handles POST /api/v1/groups
// @Summary Create a measurement group
// @Description Combine open measurements into a group billed as a single unit
// @Tags groups
// @Accept json
// @Produce json
// @Param request body service.CreateGroupInput true "Group name and member IDs"
// @Success 201 {object} Response{data=domain.MeasurementGroup} "Group created"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 409 {object} ErrorResponseBody "A member is not an open measurement"
// @Security BearerAuth
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var input service.CreateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, group)
}

// GetByID handles GET /api/v1/groups/:id
// @Summary Get group by ID
// @Tags groups
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Success 200 {object} Response{data=domain.MeasurementGroup} "Group details"
// @Failure 404 {object} ErrorResponseBody "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *GroupHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, group)
}

// List handles GET /api/v1/groups
// @Summary List measurement groups
// @Tags groups
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.MeasurementGroup,meta=PagMeta} "List of groups"
// @Security BearerAuth
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	groups, total, err := h.groupService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, groups, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Approve handles POST /api/v1/groups/:id/approve
// @Summary Approve a group
// @Description Approve every member measurement, then the group, then open its billing entry. Steps run in order and stop at the first failure.
// @Tags groups
// @Produce json
// @Param id path string true "Group ID (UUID)"
// @Success 200 {object} Response{data=domain.MeasurementGroup} "Approved group"
// @Failure 409 {object} ErrorResponseBody "Group is not open"
// @Security BearerAuth
// @Router /groups/{id}/approve [post]
func (h *GroupHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid group ID")
		return
	}

	group, err := h.groupService.Approve(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, group)
}
