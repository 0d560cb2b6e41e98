package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Intent is the high-level classification of a chat message.
type Intent string

const (
	IntentBookAppointment Intent = "BOOK_APPOINTMENT"
	IntentBookTicket      Intent = "BOOK_TICKET"
	IntentInfoQuery       Intent = "INFO_QUERY"
	IntentSmallTalk       Intent = "SMALL_TALK"
	IntentFeedback        Intent = "FEEDBACK"
	IntentConversation    Intent = "CONVERSATION"
	IntentUnknown         Intent = "UNKNOWN"
)

// Valid reports whether i is one of the seven supported intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentBookAppointment, IntentBookTicket, IntentInfoQuery, IntentSmallTalk,
		IntentFeedback, IntentConversation, IntentUnknown:
		return true
	}
	return false
}

// ActionType tags the variants of Action.
type ActionType string

const (
	ActionBookTicket      ActionType = "BOOK_TICKET"
	ActionBookAppointment ActionType = "BOOK_APPOINTMENT"
	ActionInfoLookup      ActionType = "INFO_LOOKUP"
)

// InfoCategory groups info lookups by domain.
type InfoCategory string

const (
	InfoGov       InfoCategory = "GOV"
	InfoTravel    InfoCategory = "TRAVEL"
	InfoGeneral   InfoCategory = "GENERAL"
	InfoTransport InfoCategory = "TRANSPORT"
)

func (c InfoCategory) Valid() bool {
	switch c {
	case InfoGov, InfoTravel, InfoGeneral, InfoTransport:
		return true
	}
	return false
}

// BookTicketPayload describes a bus, movie or flight search.
type BookTicketPayload struct {
	Kind       TicketKind `json:"kind"`
	Date       string     `json:"date,omitempty"`
	Passengers *int       `json:"passengers,omitempty"`

	// bus / flight
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	BusType string `json:"busType,omitempty"`

	// movie
	City      string `json:"city,omitempty"`
	MovieName string `json:"movieName,omitempty"`
	Seats     *int   `json:"seats,omitempty"`
	SeatType  string `json:"seatType,omitempty"`

	// flight
	CabinClass       string `json:"cabinClass,omitempty"`
	PreferredAirline string `json:"preferredAirline,omitempty"`

	ProviderID string `json:"providerId,omitempty"`
	Raw        string `json:"raw,omitempty"`
}

// BookAppointmentPayload describes an appointment request. ServiceType is required.
type BookAppointmentPayload struct {
	ServiceType string `json:"serviceType"`
	Date        string `json:"date,omitempty"`
	LocationID  string `json:"locationId,omitempty"`
	Location    string `json:"location,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Raw         string `json:"raw,omitempty"`
}

// InfoLookupPayload describes an informational request.
type InfoLookupPayload struct {
	Topic    string       `json:"topic"`
	Category InfoCategory `json:"category"`
	Raw      string       `json:"raw,omitempty"`
}

// Action is a typed instruction produced by the chat router. The concrete
// types are BookTicketAction, BookAppointmentAction and InfoLookupAction.
type Action interface {
	ActionType() ActionType
	isAction()
}

type BookTicketAction struct{ Payload BookTicketPayload }

type BookAppointmentAction struct{ Payload BookAppointmentPayload }

type InfoLookupAction struct{ Payload InfoLookupPayload }

func (BookTicketAction) ActionType() ActionType      { return ActionBookTicket }
func (BookAppointmentAction) ActionType() ActionType { return ActionBookAppointment }
func (InfoLookupAction) ActionType() ActionType      { return ActionInfoLookup }

func (BookTicketAction) isAction()      {}
func (BookAppointmentAction) isAction() {}
func (InfoLookupAction) isAction()      {}

type actionEnvelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func marshalAction(t ActionType, payload any) ([]byte, error) {
	p, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(actionEnvelope{Type: t, Payload: p})
}

func (a BookTicketAction) MarshalJSON() ([]byte, error) {
	return marshalAction(a.ActionType(), a.Payload)
}

func (a BookAppointmentAction) MarshalJSON() ([]byte, error) {
	return marshalAction(a.ActionType(), a.Payload)
}

func (a InfoLookupAction) MarshalJSON() ([]byte, error) {
	return marshalAction(a.ActionType(), a.Payload)
}

// ErrInvalidAction is returned when an action envelope has an unknown tag
// or a payload that does not fit its tag.
var ErrInvalidAction = errors.New("invalid action")

// DecodeAction turns a {type, payload} envelope into its concrete Action.
func DecodeAction(t ActionType, payload json.RawMessage) (Action, error) {
	if len(payload) == 0 || string(payload) == "null" {
		return nil, fmt.Errorf("%w: %s without payload", ErrInvalidAction, t)
	}
	switch t {
	case ActionBookTicket:
		var p BookTicketPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAction, t, err)
		}
		if !p.Kind.Valid() {
			return nil, fmt.Errorf("%w: unknown ticket kind %q", ErrInvalidAction, p.Kind)
		}
		return BookTicketAction{Payload: p}, nil
	case ActionBookAppointment:
		var p BookAppointmentPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAction, t, err)
		}
		if p.ServiceType == "" {
			return nil, fmt.Errorf("%w: appointment without serviceType", ErrInvalidAction)
		}
		return BookAppointmentAction{Payload: p}, nil
	case ActionInfoLookup:
		var p InfoLookupPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAction, t, err)
		}
		if p.Topic == "" || !p.Category.Valid() {
			return nil, fmt.Errorf("%w: info lookup needs topic and category, got %q/%q", ErrInvalidAction, p.Topic, p.Category)
		}
		return InfoLookupAction{Payload: p}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAction, t)
	}
}

// Actions is an ordered action list. It always marshals as an array.
type Actions []Action

func (as Actions) MarshalJSON() ([]byte, error) {
	if len(as) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal([]Action(as))
}

func (as *Actions) UnmarshalJSON(data []byte) error {
	var envelopes []actionEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return err
	}
	out := make(Actions, 0, len(envelopes))
	for i, env := range envelopes {
		a, err := DecodeAction(env.Type, env.Payload)
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		out = append(out, a)
	}
	*as = out
	return nil
}

// ChatRole is the speaker of a history entry.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatHistoryItem is one prior turn supplied by the client.
type ChatHistoryItem struct {
	Role    ChatRole `json:"role" binding:"required,oneof=user assistant"`
	Content string   `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string            `json:"message" binding:"required"`
	SessionID string            `json:"sessionId"`
	History   []ChatHistoryItem `json:"history" binding:"omitempty,dive"`
}

// SessionMetadata tells the client whether more input is needed.
type SessionMetadata struct {
	NeedsClarification bool     `json:"needsClarification"`
	MissingFields      []string `json:"missingFields"`
}

// AppointmentEffect echoes the appointment request that was executed.
type AppointmentEffect struct {
	ServiceType string `json:"serviceType"`
	Date        string `json:"date,omitempty"`
}

// SideEffect records one executed action. Only the fields relevant to
// Type are set.
type SideEffect struct {
	Type ActionType `json:"type"`

	// BOOK_TICKET
	Kind   TicketKind    `json:"kind,omitempty"`
	Params any           `json:"params,omitempty"`
	Result *TicketResult `json:"result,omitempty"`

	// BOOK_APPOINTMENT
	Created *bool              `json:"created,omitempty"`
	Payload *AppointmentEffect `json:"payload,omitempty"`
	Error   string             `json:"error,omitempty"`

	// INFO_LOOKUP
	Topic    string       `json:"topic,omitempty"`
	Category InfoCategory `json:"category,omitempty"`
}

// ChatResponse is returned by POST /api/chat.
type ChatResponse struct {
	Reply           string          `json:"reply"`
	Intent          Intent          `json:"intent"`
	Actions         Actions         `json:"actions"`
	SessionID       string          `json:"sessionId"`
	SessionMetadata SessionMetadata `json:"sessionMetadata"`
	SideEffects     []SideEffect    `json:"sideEffects"`
}
