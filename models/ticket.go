package models

import "encoding/json"

// TicketKind selects one of the ticket providers.
type TicketKind string

const (
	TicketBus    TicketKind = "BUS"
	TicketMovie  TicketKind = "MOVIE"
	TicketFlight TicketKind = "FLIGHT"
)

// Valid reports whether k is a known ticket kind.
func (k TicketKind) Valid() bool {
	switch k {
	case TicketBus, TicketMovie, TicketFlight:
		return true
	}
	return false
}

// BusQuery holds the optional bus search fields.
type BusQuery struct {
	From       string `form:"from" json:"from,omitempty"`
	To         string `form:"to" json:"to,omitempty"`
	Date       string `form:"date" json:"date,omitempty"`
	Passengers *int   `form:"passengers" json:"passengers,omitempty"`
	BusType    string `form:"busType" json:"busType,omitempty"`
}

// MovieQuery holds the optional movie search fields.
type MovieQuery struct {
	City       string `form:"city" json:"city,omitempty"`
	CinemaName string `form:"cinemaName" json:"cinemaName,omitempty"`
	MovieName  string `form:"movieName" json:"movieName,omitempty"`
	Date       string `form:"date" json:"date,omitempty"`
	ShowTime   string `form:"showTime" json:"showTime,omitempty"`
	Seats      *int   `form:"seats" json:"seats,omitempty"`
	SeatType   string `form:"seatType" json:"seatType,omitempty"`
}

// FlightQuery holds the optional flight search fields.
type FlightQuery struct {
	From             string `form:"from" json:"from,omitempty"`
	To               string `form:"to" json:"to,omitempty"`
	Date             string `form:"date" json:"date,omitempty"`
	Passengers       *int   `form:"passengers" json:"passengers,omitempty"`
	CabinClass       string `form:"cabinClass" json:"cabinClass,omitempty"`
	PreferredAirline string `form:"preferredAirline" json:"preferredAirline,omitempty"`
}

// TicketResult is a provider response. On success Body is the provider
// payload passed through untouched; on failure Error carries the tag
// (e.g. BUS_SEARCH_FAILED) and the result marshals as an empty result set.
type TicketResult struct {
	Body  json.RawMessage
	Error string
}

type ticketFailure struct {
	Results []json.RawMessage `json:"results"`
	Error   string            `json:"error"`
}

// Failed reports whether the provider call was swallowed.
func (r TicketResult) Failed() bool { return r.Error != "" }

func (r TicketResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(ticketFailure{Results: []json.RawMessage{}, Error: r.Error})
	}
	if len(r.Body) == 0 {
		return []byte("null"), nil
	}
	return r.Body, nil
}

func (r *TicketResult) UnmarshalJSON(data []byte) error {
	var failure struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
		r.Error = failure.Error
		r.Body = nil
		return nil
	}
	r.Body = append(r.Body[:0], data...)
	return nil
}
