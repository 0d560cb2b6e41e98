package tickets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"sahara/models"

	"go.uber.org/zap"
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 4 << 20

// FailureTag is the error value reported for a failed search of kind.
func FailureTag(kind models.TicketKind) string {
	return string(kind) + "_SEARCH_FAILED"
}

func (s *DefaultTicketService) SearchBus(ctx context.Context, q models.BusQuery) models.TicketResult {
	v := url.Values{}
	set(v, "from", q.From)
	set(v, "to", q.To)
	set(v, "date", q.Date)
	setInt(v, "passengers", q.Passengers)
	set(v, "busType", q.BusType)
	return s.search(ctx, models.TicketBus, v)
}

func (s *DefaultTicketService) SearchMovie(ctx context.Context, q models.MovieQuery) models.TicketResult {
	v := url.Values{}
	set(v, "city", q.City)
	set(v, "cinemaName", q.CinemaName)
	set(v, "movieName", q.MovieName)
	set(v, "date", q.Date)
	set(v, "showTime", q.ShowTime)
	setInt(v, "seats", q.Seats)
	set(v, "seatType", q.SeatType)
	return s.search(ctx, models.TicketMovie, v)
}

func (s *DefaultTicketService) SearchFlight(ctx context.Context, q models.FlightQuery) models.TicketResult {
	v := url.Values{}
	set(v, "from", q.From)
	set(v, "to", q.To)
	set(v, "date", q.Date)
	setInt(v, "passengers", q.Passengers)
	set(v, "cabinClass", q.CabinClass)
	set(v, "preferredAirline", q.PreferredAirline)
	return s.search(ctx, models.TicketFlight, v)
}

func set(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value *int) {
	if value != nil {
		v.Set(key, strconv.Itoa(*value))
	}
}

func (s *DefaultTicketService) search(ctx context.Context, kind models.TicketKind, params url.Values) models.TicketResult {
	body, err := s.fetch(ctx, s.bases[kind]+"/search", params)
	if err != nil {
		s.logger.Warn("ticket search failed",
			zap.String("kind", string(kind)),
			zap.String("query", params.Encode()),
			zap.Error(err))
		return models.TicketResult{Error: FailureTag(kind)}
	}
	return models.TicketResult{Body: body}
}

func (s *DefaultTicketService) fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("malformed provider response (%d bytes)", len(raw))
	}
	return json.RawMessage(raw), nil
}
