package handlers

import (
	"net/http"

	"sahara/models"
	"sahara/services/tickets"
	"sahara/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// TicketHandler exposes the ticket search facade. Query parameters on GET
// and a JSON body on POST carry the same fields.
type TicketHandler struct {
	TicketService tickets.TicketService
}

func NewTicketHandler(svc tickets.TicketService) *TicketHandler {
	return &TicketHandler{TicketService: svc}
}

func bindTicketQuery(c *gin.Context, q any) bool {
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(q)
	} else {
		err = c.ShouldBindWith(q, binding.JSON)
	}
	if err != nil {
		utils.BindError(c, err)
		return false
	}
	return true
}

// SearchBusHandler handles GET /api/tickets/bus and POST /api/tickets/bus/search.
func (h *TicketHandler) SearchBusHandler(c *gin.Context) {
	var q models.BusQuery
	if !bindTicketQuery(c, &q) {
		return
	}
	c.JSON(http.StatusOK, h.TicketService.SearchBus(c.Request.Context(), q))
}

// SearchMovieHandler handles GET /api/tickets/movie and POST /api/tickets/movie/search.
func (h *TicketHandler) SearchMovieHandler(c *gin.Context) {
	var q models.MovieQuery
	if !bindTicketQuery(c, &q) {
		return
	}
	c.JSON(http.StatusOK, h.TicketService.SearchMovie(c.Request.Context(), q))
}

// SearchFlightHandler handles GET /api/tickets/flight and POST /api/tickets/flight/search.
func (h *TicketHandler) SearchFlightHandler(c *gin.Context) {
	var q models.FlightQuery
	if !bindTicketQuery(c, &q) {
		return
	}
	c.JSON(http.StatusOK, h.TicketService.SearchFlight(c.Request.Context(), q))
}
