package handlers

import (
	"errors"
	"net/http"

	"sahara/models"
	"sahara/services/appointment"
	"sahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler serves the appointment endpoints.
type AppointmentHandler struct {
	AppointmentService appointment.AppointmentService
}

func NewAppointmentHandler(svc appointment.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{AppointmentService: svc}
}

// CreateAppointmentHandler handles POST /api/appointments.
func (h *AppointmentHandler) CreateAppointmentHandler(c *gin.Context) {
	var req models.AppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	appt, err := h.AppointmentService.Create(c.Request.Context(), req)
	switch {
	case errors.Is(err, appointment.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, appointment.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		getLogger(c).Error("Appointment creation failed", zap.String("userId", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
	default:
		c.JSON(http.StatusCreated, appt)
	}
}

// ListUserAppointmentsHandler handles GET /api/appointments/user/:userId.
func (h *AppointmentHandler) ListUserAppointmentsHandler(c *gin.Context) {
	userID := c.Param("userId")
	appts, err := h.AppointmentService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		getLogger(c).Error("Appointment listing failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list appointments"})
		return
	}
	c.JSON(http.StatusOK, appts)
}
