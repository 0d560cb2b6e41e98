package tickets

import (
	"context"
	"net/http"
	"strings"
	"time"

	"sahara/models"

	"go.uber.org/zap"
)

// TicketService searches the external ticket providers. Failures are
// absorbed into a tagged empty result and never surface as errors.
type TicketService interface {
	SearchBus(ctx context.Context, q models.BusQuery) models.TicketResult
	SearchMovie(ctx context.Context, q models.MovieQuery) models.TicketResult
	SearchFlight(ctx context.Context, q models.FlightQuery) models.TicketResult
}

// ProviderConfig holds the provider base URLs.
type ProviderConfig struct {
	BusBaseURL    string
	MovieBaseURL  string
	FlightBaseURL string
	Timeout       time.Duration
}

// DefaultTicketService calls the providers over HTTP.
type DefaultTicketService struct {
	client *http.Client
	bases  map[models.TicketKind]string
	logger *zap.Logger
}

func NewDefaultTicketService(cfg ProviderConfig, logger *zap.Logger) *DefaultTicketService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DefaultTicketService{
		client: &http.Client{Timeout: timeout},
		bases: map[models.TicketKind]string{
			models.TicketBus:    strings.TrimRight(cfg.BusBaseURL, "/"),
			models.TicketMovie:  strings.TrimRight(cfg.MovieBaseURL, "/"),
			models.TicketFlight: strings.TrimRight(cfg.FlightBaseURL, "/"),
		},
		logger: logger,
	}
}
