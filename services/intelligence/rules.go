package ai

import (
	"regexp"
	"strings"
	"time"

	"sahara/models"
)

// decision is the outcome of classifying one message.
type decision struct {
	intent   models.Intent
	actions  models.Actions
	reply    string
	metadata models.SessionMetadata
}

// greeting matches anywhere in the lower-cased text, so "heyyy" and "this" count.
var greeting = regexp.MustCompile(`(hi|hello|hey|namaste)`)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func intPtr(n int) *int { return &n }

// classifyRules maps message to an intent with keyword rules. The first
// matching rule wins.
func classifyRules(message string, now time.Time) decision {
	text := strings.ToLower(message)
	now = now.UTC()
	today := now.Format("2006-01-02")

	busTicket := func() decision {
		return decision{
			intent: models.IntentBookTicket,
			actions: models.Actions{models.BookTicketAction{Payload: models.BookTicketPayload{
				Kind:       models.TicketBus,
				From:       "Kathmandu",
				To:         "Pokhara",
				Date:       today,
				Passengers: intPtr(1),
				BusType:    "Deluxe",
				Raw:        message,
			}}},
		}
	}

	switch {
	case strings.Contains(text, "appointment"):
		return decision{
			intent: models.IntentBookAppointment,
			actions: models.Actions{models.BookAppointmentAction{Payload: models.BookAppointmentPayload{
				ServiceType: "doctor",
				Date:        now.Format(isoMillis),
				Raw:         message,
			}}},
		}
	case strings.Contains(text, "bus"):
		return busTicket()
	case strings.Contains(text, "flight"):
		return decision{
			intent: models.IntentBookTicket,
			actions: models.Actions{models.BookTicketAction{Payload: models.BookTicketPayload{
				Kind:       models.TicketFlight,
				From:       "Kathmandu",
				To:         "Pokhara",
				Date:       today,
				Passengers: intPtr(1),
				CabinClass: "Economy",
				Raw:        message,
			}}},
		}
	case strings.Contains(text, "movie"), strings.Contains(text, "cinema"):
		return decision{
			intent: models.IntentBookTicket,
			actions: models.Actions{models.BookTicketAction{Payload: models.BookTicketPayload{
				Kind:     models.TicketMovie,
				City:     "Kathmandu",
				Date:     today,
				Seats:    intPtr(1),
				SeatType: "Regular",
				Raw:      message,
			}}},
		}
	case strings.Contains(text, "ticket"):
		return busTicket()
	case strings.Contains(text, "passport"), strings.Contains(text, "visa"):
		return decision{
			intent: models.IntentInfoQuery,
			actions: models.Actions{models.InfoLookupAction{Payload: models.InfoLookupPayload{
				Topic:    message,
				Category: models.InfoGov,
				Raw:      message,
			}}},
		}
	case greeting.MatchString(text):
		return decision{intent: models.IntentSmallTalk, actions: models.Actions{}}
	default:
		return decision{intent: models.IntentUnknown, actions: models.Actions{}}
	}
}

// ruleReply renders the canned reply for a rule-routed decision.
func ruleReply(d decision, message string, identity *models.Identity) string {
	name := ""
	if identity != nil && identity.Name != nil && *identity.Name != "" {
		name = " " + *identity.Name
	}

	switch d.intent {
	case models.IntentBookAppointment:
		return "Okay" + name + ", I created an appointment request for you."
	case models.IntentBookTicket:
		if len(d.actions) > 0 {
			if t, ok := d.actions[0].(models.BookTicketAction); ok {
				switch t.Payload.Kind {
				case models.TicketBus:
					return "Got it" + name + ", I'll check bus tickets for you."
				case models.TicketMovie:
					return "Nice choice" + name + ", I'll look for movie shows."
				case models.TicketFlight:
					return "Alright" + name + ", I'll search available flights."
				}
			}
		}
		return "Got it" + name + ", I'll check ticket options for you."
	case models.IntentInfoQuery:
		if len(d.actions) > 0 {
			if info, ok := d.actions[0].(models.InfoLookupAction); ok {
				return "Here's what I found about: " + info.Payload.Topic
			}
		}
		return "I'll look up that information for you."
	case models.IntentSmallTalk:
		return "Hello" + name + "! I'm SAHARA, your assistant."
	default:
		return `I received: "` + message + `". Try asking me to book an appointment or a ticket.`
	}
}
