package handlers

import (
	"net/http"

	"sahara/middleware"

	"github.com/gin-gonic/gin"
)

// MeHandler handles GET /api/auth/me behind middleware.RequireAuth.
func MeHandler(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, identity)
}
