package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/njeri-dev/tafsiri/internal/config"
	"github.com/njeri-dev/tafsiri/internal/middleware"
	"github.com/njeri-dev/tafsiri/internal/models"
	"github.com/njeri-dev/tafsiri/internal/services"
	"github.com/njeri-dev/tafsiri/internal/utils"
	"github.com/njeri-dev/tafsiri/pkg/logger"
	"github.com/njeri-dev/tafsiri/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db          *gorm.DB
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:          db,
		authService: services.NewAuthService(db, &cfg.JWT),
	}
}

// Login authenticates a user
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetCurrentUser returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.authService.GetUser(userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.Success(c, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword updates the caller's password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.authService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "password changed"})
}

// CreateAdminIfNotExists seeds the default admin account on first startup.
func (h *AuthHandler) CreateAdminIfNotExists() error {
	var admin models.User
	err := h.db.Where("role = ?", models.RoleAdmin).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	admin = models.User{
		Username: "admin",
		Password: hash,
		Nickname: "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := h.db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Warn().Msg("created default admin user (admin/admin123), change the password immediately")
	return nil
}
