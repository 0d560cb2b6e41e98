package ai

import (
	"context"
	"errors"
	"time"

	"sahara/models"
	"sahara/services/appointment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Side-effect error codes for appointment actions.
const (
	codeUserNotFound       = "USER_NOT_FOUND"
	codeAppointmentInvalid = "APPOINTMENT_INVALID"
	codeAppointmentFailed  = "APPOINTMENT_CREATE_FAILED"
)

// HandleMessage classifies the message, executes the resulting actions in
// order and composes the reply.
func (s *DefaultChatService) HandleMessage(ctx context.Context, req models.ChatRequest, identity *models.Identity) *models.ChatResponse {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var d decision
	if s.useLLM {
		d = s.classifyLLM(ctx, req.Message, s.conversation(ctx, req))
	} else {
		d = classifyRules(req.Message, s.now())
		d.reply = ruleReply(d, req.Message, identity)
		d.metadata = models.SessionMetadata{MissingFields: []string{}}
	}

	sideEffects := s.executeActions(ctx, d.actions, identity)
	s.remember(ctx, sessionID, req.Message, d.reply)

	return &models.ChatResponse{
		Reply:           d.reply,
		Intent:          d.intent,
		Actions:         d.actions,
		SessionID:       sessionID,
		SessionMetadata: d.metadata,
		SideEffects:     sideEffects,
	}
}

// conversation returns the client-supplied history, or the stored one when
// the client sent a session id without history.
func (s *DefaultChatService) conversation(ctx context.Context, req models.ChatRequest) []models.ChatHistoryItem {
	if len(req.History) > 0 || req.SessionID == "" || s.history == nil {
		return req.History
	}
	stored, err := s.history.Load(ctx, req.SessionID)
	if err != nil {
		s.logger.Warn("failed to load chat history", zap.String("sessionId", req.SessionID), zap.Error(err))
		return nil
	}
	return stored
}

func (s *DefaultChatService) remember(ctx context.Context, sessionID, message, reply string) {
	if s.history == nil {
		return
	}
	err := s.history.Append(context.WithoutCancel(ctx), sessionID,
		models.ChatHistoryItem{Role: models.RoleUser, Content: message},
		models.ChatHistoryItem{Role: models.RoleAssistant, Content: reply},
	)
	if err != nil {
		s.logger.Warn("failed to store chat history", zap.String("sessionId", sessionID), zap.Error(err))
	}
}

// executeActions runs each action sequentially. A failing action is
// recorded and does not stop the rest.
func (s *DefaultChatService) executeActions(ctx context.Context, actions models.Actions, identity *models.Identity) []models.SideEffect {
	effects := []models.SideEffect{}
	for _, action := range actions {
		switch a := action.(type) {
		case models.BookTicketAction:
			effects = append(effects, s.searchTickets(ctx, a.Payload))
		case models.BookAppointmentAction:
			if identity == nil {
				continue
			}
			effects = append(effects, s.bookAppointment(ctx, a.Payload, identity))
		case models.InfoLookupAction:
			s.logger.Info("info lookup", zap.String("topic", a.Payload.Topic), zap.String("category", string(a.Payload.Category)))
			effects = append(effects, models.SideEffect{
				Type:     models.ActionInfoLookup,
				Topic:    a.Payload.Topic,
				Category: a.Payload.Category,
			})
		}
	}
	return effects
}

func (s *DefaultChatService) searchTickets(ctx context.Context, p models.BookTicketPayload) models.SideEffect {
	effect := models.SideEffect{Type: models.ActionBookTicket, Kind: p.Kind}
	var result models.TicketResult

	switch p.Kind {
	case models.TicketBus:
		q := models.BusQuery{From: p.From, To: p.To, Date: p.Date, Passengers: p.Passengers, BusType: p.BusType}
		effect.Params = q
		result = s.tickets.SearchBus(ctx, q)
	case models.TicketMovie:
		q := models.MovieQuery{City: p.City, MovieName: p.MovieName, Date: p.Date, Seats: p.Seats, SeatType: p.SeatType}
		effect.Params = q
		result = s.tickets.SearchMovie(ctx, q)
	case models.TicketFlight:
		q := models.FlightQuery{From: p.From, To: p.To, Date: p.Date, Passengers: p.Passengers, CabinClass: p.CabinClass, PreferredAirline: p.PreferredAirline}
		effect.Params = q
		result = s.tickets.SearchFlight(ctx, q)
	}

	s.logger.Debug("ticket options", zap.String("kind", string(p.Kind)), zap.Bool("failed", result.Failed()))
	effect.Result = &result
	return effect
}

func (s *DefaultChatService) bookAppointment(ctx context.Context, p models.BookAppointmentPayload, identity *models.Identity) models.SideEffect {
	date := p.Date
	if _, err := appointment.ParseDate(date); date == "" || err != nil {
		date = s.now().UTC().Format(time.RFC3339)
	}

	appt, err := s.appointments.Create(ctx, models.AppointmentInput{
		UserID:      identity.ID,
		ServiceType: p.ServiceType,
		Date:        date,
	})
	if err != nil {
		code := codeAppointmentFailed
		switch {
		case errors.Is(err, appointment.ErrUserNotFound):
			code = codeUserNotFound
		case errors.Is(err, appointment.ErrInvalidInput):
			code = codeAppointmentInvalid
		}
		s.logger.Warn("appointment action failed", zap.String("userID", identity.ID), zap.Error(err))
		created := false
		return models.SideEffect{Type: models.ActionBookAppointment, Created: &created, Error: code}
	}

	created := true
	return models.SideEffect{
		Type:    models.ActionBookAppointment,
		Created: &created,
		Payload: &models.AppointmentEffect{
			ServiceType: appt.ServiceType,
			Date:        appt.Date.Format(time.RFC3339),
		},
	}
}
