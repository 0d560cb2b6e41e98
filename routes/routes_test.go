package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appointmentRepo "sahara/database/repository/appointment"
	userRepo "sahara/database/repository/user"
	"sahara/handlers"
	"sahara/services/appointment"
	"sahara/services/auth"
	ai "sahara/services/intelligence"
	"sahara/services/tickets"
	"sahara/services/user"
	"sahara/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const testSecret = "routes-test-secret"

func newRouter(t *testing.T, origins []string) (*gin.Engine, *userRepo.MemoryUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := userRepo.NewMemoryUserRepo()
	apptSvc := &appointment.DefaultAppointmentService{Repo: appointmentRepo.NewMemoryAppointmentRepo(), Users: users}
	ticketSvc := tickets.NewDefaultTicketService(tickets.ProviderConfig{}, zap.NewNop())
	chat := handlers.NewChatHandler(ai.NewDefaultChatService(ai.ChatOptions{Tickets: ticketSvc, Appointments: apptSvc}))
	uh := handlers.NewUserHandler(&user.DefaultUserService{Repo: users})
	ah := handlers.NewAppointmentHandler(apptSvc)
	th := handlers.NewTicketHandler(ticketSvc)

	hb := &handlers.HandlerBundle{
		AuthService:                 &auth.DefaultAuthService{Verifier: auth.NewJWTVerifier(testSecret), Users: users},
		Health:                      utils.NewHealthMonitor(nil, time.Minute),
		ChatHandler:                 chat.HandleChat,
		CreateAppointmentHandler:    ah.CreateAppointmentHandler,
		ListUserAppointmentsHandler: ah.ListUserAppointmentsHandler,
		SearchBusHandler:            th.SearchBusHandler,
		SearchMovieHandler:          th.SearchMovieHandler,
		SearchFlightHandler:         th.SearchFlightHandler,
		SyncUserHandler:             uh.SyncUserHandler,
		GetUserByIDHandler:          uh.GetUserByIDHandler,
		UpdateUserHandler:           uh.UpdateUserHandler,
		MeHandler:                   handlers.MeHandler,
	}

	r := gin.New()
	RegisterRoutes(r, hb, origins)
	return r, users
}

func token(t *testing.T, subject string) string {
	t.Helper()
	tok, err := utils.GenerateToken([]byte(testSecret), subject, utils.DevClaims{Email: "priya@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func TestAuthMe(t *testing.T) {
	r, users := newRouter(t, []string{"*"})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + token(t, "fb-me"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body)
			}
			if tt.want != http.StatusOK {
				return
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["firebaseUid"] != "fb-me" || body["email"] != "priya@example.com" || body["name"] != "priya" {
				t.Errorf("identity = %v", body)
			}
			if _, leaked := body["exp"]; leaked {
				t.Errorf("raw claims leaked: %v", body)
			}
		})
	}
	if users.Count() != 1 {
		t.Errorf("users provisioned = %d", users.Count())
	}
}

func TestChatUsesOptionalIdentity(t *testing.T) {
	r, _ := newRouter(t, nil)

	for _, header := range []string{"", "Bearer garbage", "Bearer " + token(t, "fb-chat")} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("auth %q: status = %d", header, w.Code)
		}
	}
}

func TestHealthAndCORS(t *testing.T) {
	r, _ := newRouter(t, []string{"https://app.sahara.example"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.sahara.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.sahara.example" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("disallowed origin status = %d", w.Code)
	}
}
