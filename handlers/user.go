package handlers

import (
	"errors"
	"net/http"

	"sahara/models"
	"sahara/services/user"
	"sahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves the user directory endpoints.
type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}

// SyncUserHandler handles POST /api/users/sync.
func (h *UserHandler) SyncUserHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.UserSync
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	usr, err := h.UserService.Sync(c.Request.Context(), req)
	if errors.Is(err, user.ErrMissingFirebaseUID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		logger.Error("User sync failed", zap.String("firebaseUid", req.FirebaseUID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync user"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// GetUserByIDHandler handles GET /api/users/:id. A missing user is 200 with null.
func (h *UserHandler) GetUserByIDHandler(c *gin.Context) {
	id := c.Param("id")
	usr, err := h.UserService.GetByID(c.Request.Context(), id)
	if err != nil {
		getLogger(c).Error("User lookup failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateUserHandler handles PATCH /api/users/:id.
func (h *UserHandler) UpdateUserHandler(c *gin.Context) {
	id := c.Param("id")

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	usr, err := h.UserService.Update(c.Request.Context(), id, req)
	if errors.Is(err, user.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		getLogger(c).Error("User update failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, usr)
}
