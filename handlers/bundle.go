package handlers

import (
	"sahara/services/auth"
	"sahara/utils"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	AuthService auth.AuthService
	Health      *utils.HealthMonitor

	// Chat endpoints
	ChatHandler gin.HandlerFunc

	// Appointment endpoints
	CreateAppointmentHandler    gin.HandlerFunc
	ListUserAppointmentsHandler gin.HandlerFunc

	// Ticket endpoints
	SearchBusHandler    gin.HandlerFunc
	SearchMovieHandler  gin.HandlerFunc
	SearchFlightHandler gin.HandlerFunc

	// User endpoints
	SyncUserHandler    gin.HandlerFunc
	GetUserByIDHandler gin.HandlerFunc
	UpdateUserHandler  gin.HandlerFunc

	// Auth endpoints
	MeHandler gin.HandlerFunc
}
