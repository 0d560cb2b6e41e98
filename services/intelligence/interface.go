package ai

import (
	"context"
	"time"

	"sahara/models"
	"sahara/services/appointment"
	"sahara/services/tickets"

	"go.uber.org/zap"
)

// ChatService answers chat messages. It never fails on internal faults.
type ChatService interface {
	HandleMessage(ctx context.Context, req models.ChatRequest, identity *models.Identity) *models.ChatResponse
}

// Completer sends the system prompt, prior turns and the new message to an
// LLM and returns the raw text of its answer.
type Completer interface {
	Complete(ctx context.Context, system string, history []models.ChatHistoryItem, message string) (string, error)
}

// HistoryStore persists chat turns per session.
type HistoryStore interface {
	Load(ctx context.Context, sessionID string) ([]models.ChatHistoryItem, error)
	Append(ctx context.Context, sessionID string, items ...models.ChatHistoryItem) error
}

// ChatOptions configures DefaultChatService.
type ChatOptions struct {
	// UseLLM selects LLM routing instead of keyword rules.
	UseLLM bool
	// LLM is nil when no credential is configured.
	LLM        Completer
	LLMTimeout time.Duration

	Tickets      tickets.TicketService
	Appointments appointment.AppointmentService
	// History is optional.
	History HistoryStore

	Logger *zap.Logger
	Now    func() time.Time
}

// DefaultChatService is the production implementation.
type DefaultChatService struct {
	useLLM     bool
	llm        Completer
	llmTimeout time.Duration

	tickets      tickets.TicketService
	appointments appointment.AppointmentService
	history      HistoryStore

	logger *zap.Logger
	now    func() time.Time
}

func NewDefaultChatService(opts ChatOptions) *DefaultChatService {
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 8 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &DefaultChatService{
		useLLM:       opts.UseLLM,
		llm:          opts.LLM,
		llmTimeout:   opts.LLMTimeout,
		tickets:      opts.Tickets,
		appointments: opts.Appointments,
		history:      opts.History,
		logger:       opts.Logger,
		now:          opts.Now,
	}
}
