package tickets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sahara/models"

	"go.uber.org/zap"
)

func newService(base string) *DefaultTicketService {
	return NewDefaultTicketService(ProviderConfig{
		BusBaseURL:    base,
		MovieBaseURL:  base,
		FlightBaseURL: base,
		Timeout:       time.Second,
	}, zap.NewNop())
}

func TestSearchBusPassesThrough(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"operator":"Sajha Yatayat"}]}`))
	}))
	defer srv.Close()

	two := 2
	res := newService(srv.URL).SearchBus(context.Background(), models.BusQuery{From: "Kathmandu", To: "Pokhara", Passengers: &two})
	if res.Failed() {
		t.Fatalf("unexpected failure %q", res.Error)
	}
	if gotQuery != "from=Kathmandu&passengers=2&to=Pokhara" {
		t.Errorf("query = %q", gotQuery)
	}

	out, _ := json.Marshal(res)
	if string(out) != `{"results":[{"operator":"Sajha Yatayat"}]}` {
		t.Errorf("body = %s", out)
	}
}

func TestSearchFailuresAreTagged(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		search  func(*DefaultTicketService) models.TicketResult
		want    string
	}{
		{
			name:    "bus 500",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			search: func(s *DefaultTicketService) models.TicketResult {
				return s.SearchBus(context.Background(), models.BusQuery{})
			},
			want: "BUS_SEARCH_FAILED",
		},
		{
			name:    "movie malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) },
			search: func(s *DefaultTicketService) models.TicketResult {
				return s.SearchMovie(context.Background(), models.MovieQuery{City: "Kathmandu"})
			},
			want: "MOVIE_SEARCH_FAILED",
		},
		{
			name: "flight timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(1500 * time.Millisecond)
				_, _ = w.Write([]byte(`{}`))
			},
			search: func(s *DefaultTicketService) models.TicketResult {
				return s.SearchFlight(context.Background(), models.FlightQuery{})
			},
			want: "FLIGHT_SEARCH_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			res := tt.search(newService(srv.URL))
			if res.Error != tt.want {
				t.Fatalf("error = %q, want %q", res.Error, tt.want)
			}
			out, _ := json.Marshal(res)
			want := `{"results":[],"error":"` + tt.want + `"}`
			if string(out) != want {
				t.Errorf("json = %s, want %s", out, want)
			}
		})
	}
}

func TestSearchUnreachableProvider(t *testing.T) {
	res := newService("http://127.0.0.1:1").SearchBus(context.Background(), models.BusQuery{})
	if res.Error != "BUS_SEARCH_FAILED" {
		t.Fatalf("error = %q", res.Error)
	}
}
