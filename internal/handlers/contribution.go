package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/njeri-dev/tafsiri/internal/middleware"
	"github.com/njeri-dev/tafsiri/internal/services"
	"github.com/njeri-dev/tafsiri/pkg/response"
	"gorm.io/gorm"
)

type ContributionHandler struct {
	contributionService *services.ContributionService
}

func NewContributionHandler(db *gorm.DB) *ContributionHandler {
	return &ContributionHandler{
		contributionService: services.NewContributionService(db),
	}
}

// List returns paginated contributions
// GET /api/contributions
func (h *ContributionHandler) List(c *gin.Context) {
	var req services.ContributionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.contributionService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// GetByID returns a contribution by ID
// GET /api/contributions/:id
func (h *ContributionHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid contribution id")
		return
	}

	contribution, err := h.contributionService.GetByID(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, contribution)
}

// Create stores a new pending contribution
// POST /api/contributions
func (h *ContributionHandler) Create(c *gin.Context) {
	var req services.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	contribution, err := h.contributionService.Create(&req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, contribution)
}

// Update edits a pending contribution owned by the caller
// PUT /api/contributions/:id
func (h *ContributionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid contribution id")
		return
	}

	var req services.UpdateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	contribution, err := h.contributionService.Update(uint(id), &req, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, contribution)
}

// Delete removes a pending contribution owned by the caller
// DELETE /api/contributions/:id
func (h *ContributionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid contribution id")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.contributionService.Delete(uint(id), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "contribution deleted"})
}
