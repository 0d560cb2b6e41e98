package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appointmentRepo "sahara/database/repository/appointment"
	userRepo "sahara/database/repository/user"
	"sahara/models"
	"sahara/services/appointment"
)

type fakeTickets struct {
	calls []models.TicketKind
}

func (f *fakeTickets) SearchBus(_ context.Context, _ models.BusQuery) models.TicketResult {
	f.calls = append(f.calls, models.TicketBus)
	return models.TicketResult{Body: json.RawMessage(`{"results":[{"id":"bus-1"}]}`)}
}

func (f *fakeTickets) SearchMovie(_ context.Context, _ models.MovieQuery) models.TicketResult {
	f.calls = append(f.calls, models.TicketMovie)
	return models.TicketResult{Error: "MOVIE_SEARCH_FAILED"}
}

func (f *fakeTickets) SearchFlight(_ context.Context, _ models.FlightQuery) models.TicketResult {
	f.calls = append(f.calls, models.TicketFlight)
	return models.TicketResult{Body: json.RawMessage(`[]`)}
}

type fakeCompleter struct {
	content string
	err     error
	history []models.ChatHistoryItem
	calls   int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, history []models.ChatHistoryItem, _ string) (string, error) {
	f.calls++
	f.history = history
	return f.content, f.err
}

type fixture struct {
	tickets *fakeTickets
	users   *userRepo.MemoryUserRepo
	appts   *appointmentRepo.MemoryAppointmentRepo
	opts    ChatOptions
}

func newFixture() *fixture {
	f := &fixture{
		tickets: &fakeTickets{},
		users:   userRepo.NewMemoryUserRepo(),
		appts:   appointmentRepo.NewMemoryAppointmentRepo(),
	}
	f.opts = ChatOptions{
		Tickets:      f.tickets,
		Appointments: &appointment.DefaultAppointmentService{Repo: f.appts, Users: f.users},
		Now:          func() time.Time { return fixedNow },
	}
	return f
}

func (f *fixture) identity(t *testing.T) *models.Identity {
	t.Helper()
	u, err := f.users.Upsert(context.Background(), models.UserSync{FirebaseUID: "fb-chat"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	return models.IdentityFromUser(u)
}

func TestHandleMessageBusEndToEnd(t *testing.T) {
	f := newFixture()
	svc := NewDefaultChatService(f.opts)

	resp := svc.HandleMessage(context.Background(), models.ChatRequest{
		Message: "Book me a bus ticket from Kathmandu to Pokhara for tomorrow",
	}, nil)

	if resp.Intent != models.IntentBookTicket {
		t.Fatalf("intent = %s", resp.Intent)
	}
	if resp.SessionID == "" {
		t.Error("session id not generated")
	}
	if len(resp.SideEffects) != 1 || resp.SideEffects[0].Type != models.ActionBookTicket || resp.SideEffects[0].Kind != models.TicketBus {
		t.Fatalf("side effects = %+v", resp.SideEffects)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out struct {
		Actions []struct {
			Type    string `json:"type"`
			Payload struct {
				Kind string `json:"kind"`
			} `json:"payload"`
		} `json:"actions"`
		SideEffects []struct {
			Result struct {
				Results []map[string]string `json:"results"`
			} `json:"result"`
		} `json:"sideEffects"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Actions[0].Type != "BOOK_TICKET" || out.Actions[0].Payload.Kind != "BUS" {
		t.Errorf("actions json = %s", body)
	}
	if out.SideEffects[0].Result.Results[0]["id"] != "bus-1" {
		t.Errorf("provider body not passed through: %s", body)
	}
}

func TestHandleMessageKeepsSessionID(t *testing.T) {
	svc := NewDefaultChatService(newFixture().opts)
	resp := svc.HandleMessage(context.Background(), models.ChatRequest{Message: "hi", SessionID: "s-42"}, nil)
	if resp.SessionID != "s-42" {
		t.Errorf("session id = %q", resp.SessionID)
	}
	if resp.Actions == nil || resp.SideEffects == nil || resp.SessionMetadata.MissingFields == nil {
		t.Errorf("collections must be empty, not nil: %+v", resp)
	}
}

func TestHandleMessageLLMWithoutCredential(t *testing.T) {
	f := newFixture()
	f.opts.UseLLM = true
	svc := NewDefaultChatService(f.opts)

	resp := svc.HandleMessage(context.Background(), models.ChatRequest{Message: "bus please"}, nil)
	if resp.Intent != models.IntentUnknown || len(resp.Actions) != 0 || len(resp.SideEffects) != 0 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Reply != `I received: "bus please", but no AI backend is connected.` {
		t.Errorf("reply = %q", resp.Reply)
	}
}

func TestHandleMessageLLMDegrades(t *testing.T) {
	tests := map[string]*fakeCompleter{
		"call error":     {err: errors.New("connection refused")},
		"empty content":  {content: ""},
		"malformed json": {content: `{"intent": "BOOK_TICKET", "actions": [`},
		"unknown action": {content: `{"intent":"BOOK_TICKET","actions":[{"type":"CANCEL_TICKET","payload":{"kind":"BUS"}}],"reply":"ok"}`},
	}
	for name, llm := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.opts.UseLLM = true
			f.opts.LLM = llm
			resp := NewDefaultChatService(f.opts).HandleMessage(context.Background(), models.ChatRequest{Message: "bus"}, nil)

			if resp.Intent != models.IntentUnknown || len(resp.Actions) != 0 {
				t.Fatalf("resp = %+v", resp)
			}
			if resp.Reply != replyLLMDown {
				t.Errorf("reply = %q", resp.Reply)
			}
			if len(f.tickets.calls) != 0 {
				t.Errorf("actions executed on degraded response: %v", f.tickets.calls)
			}
		})
	}
}

func TestHandleMessageLLMTimeout(t *testing.T) {
	f := newFixture()
	f.opts.UseLLM = true
	f.opts.LLMTimeout = 50 * time.Millisecond
	f.opts.LLM = completerFunc(func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	resp := NewDefaultChatService(f.opts).HandleMessage(context.Background(), models.ChatRequest{Message: "flight"}, nil)
	if resp.Reply != replyLLMDown {
		t.Errorf("reply = %q", resp.Reply)
	}
}

type completerFunc func(ctx context.Context) (string, error)

func (fn completerFunc) Complete(ctx context.Context, _ string, _ []models.ChatHistoryItem, _ string) (string, error) {
	return fn(ctx)
}

func TestExecuteActionsIsolatesFailures(t *testing.T) {
	f := newFixture()
	f.opts.UseLLM = true
	f.opts.LLM = &fakeCompleter{content: `{
		"intent": "BOOK_APPOINTMENT",
		"actions": [
			{"type": "BOOK_APPOINTMENT", "payload": {"serviceType": "dentist", "date": "2025-12-10T10:00:00Z"}},
			{"type": "BOOK_TICKET", "payload": {"kind": "MOVIE", "city": "Lalitpur"}},
			{"type": "INFO_LOOKUP", "payload": {"topic": "clinic hours", "category": "GENERAL"}}
		],
		"reply": "Booking your dentist visit.",
		"sessionMetadata": {"needsClarification": false, "missingFields": []}
	}`}
	svc := NewDefaultChatService(f.opts)

	// Identity whose user row does not exist.
	ghost := &models.Identity{ID: "ghost"}
	resp := svc.HandleMessage(context.Background(), models.ChatRequest{Message: "dentist"}, ghost)

	if len(resp.SideEffects) != 3 {
		t.Fatalf("side effects = %+v", resp.SideEffects)
	}
	appt := resp.SideEffects[0]
	if appt.Created == nil || *appt.Created || appt.Error != "USER_NOT_FOUND" {
		t.Errorf("appointment effect = %+v", appt)
	}
	if resp.SideEffects[1].Result == nil || resp.SideEffects[1].Result.Error != "MOVIE_SEARCH_FAILED" {
		t.Errorf("movie effect = %+v", resp.SideEffects[1])
	}
	if resp.SideEffects[2].Topic != "clinic hours" || resp.SideEffects[2].Category != models.InfoGeneral {
		t.Errorf("info effect = %+v", resp.SideEffects[2])
	}
	if resp.Reply != "Booking your dentist visit." {
		t.Errorf("reply = %q", resp.Reply)
	}
}

func TestAppointmentActionRequiresIdentity(t *testing.T) {
	f := newFixture()
	svc := NewDefaultChatService(f.opts)

	resp := svc.HandleMessage(context.Background(), models.ChatRequest{Message: "appointment tomorrow"}, nil)
	if len(resp.SideEffects) != 0 || f.appts.Len() != 0 {
		t.Fatalf("anonymous appointment executed: %+v", resp.SideEffects)
	}

	who := f.identity(t)
	resp = svc.HandleMessage(context.Background(), models.ChatRequest{Message: "appointment tomorrow"}, who)
	if len(resp.SideEffects) != 1 || resp.SideEffects[0].Created == nil || !*resp.SideEffects[0].Created {
		t.Fatalf("side effects = %+v", resp.SideEffects)
	}
	if resp.SideEffects[0].Payload.ServiceType != "doctor" {
		t.Errorf("payload = %+v", resp.SideEffects[0].Payload)
	}
	if f.appts.Len() != 1 {
		t.Errorf("appointments = %d, want 1", f.appts.Len())
	}
}

func TestHistoryPersistedAndReused(t *testing.T) {
	f := newFixture()
	llm := &fakeCompleter{content: `{"intent":"CONVERSATION","actions":[],"reply":"Sure."}`}
	f.opts.UseLLM = true
	f.opts.LLM = llm
	f.opts.History = NewMemoryHistoryStore(20, 100, time.Hour)
	svc := NewDefaultChatService(f.opts)

	first := svc.HandleMessage(context.Background(), models.ChatRequest{Message: "first"}, nil)
	svc.HandleMessage(context.Background(), models.ChatRequest{Message: "second", SessionID: first.SessionID}, nil)

	if len(llm.history) != 2 || llm.history[0].Content != "first" || llm.history[1].Content != "Sure." {
		t.Fatalf("history = %+v", llm.history)
	}

	explicit := []models.ChatHistoryItem{{Role: models.RoleUser, Content: "client side"}}
	svc.HandleMessage(context.Background(), models.ChatRequest{Message: "third", SessionID: first.SessionID, History: explicit}, nil)
	if len(llm.history) != 1 || llm.history[0].Content != "client side" {
		t.Errorf("client history not preferred: %+v", llm.history)
	}
}

func TestMemoryHistoryStoreTrims(t *testing.T) {
	store := NewMemoryHistoryStore(3, 10, time.Hour)
	ctx := context.Background()
	for _, c := range []string{"a", "b", "c", "d"} {
		_ = store.Append(ctx, "s", models.ChatHistoryItem{Role: models.RoleUser, Content: c})
	}
	items, _ := store.Load(ctx, "s")
	if len(items) != 3 || items[0].Content != "b" {
		t.Errorf("items = %+v", items)
	}
}

func TestMemoryHistoryStoreBoundsSessions(t *testing.T) {
	f := newFixture()
	store := NewMemoryHistoryStore(20, 50, time.Hour)
	f.opts.History = store
	svc := NewDefaultChatService(f.opts)

	for i := 0; i < 1000; i++ {
		svc.HandleMessage(context.Background(), models.ChatRequest{Message: "hello"}, nil)
	}
	if store.Len() > 50 {
		t.Fatalf("sessions = %d, want at most 50", store.Len())
	}
}

func TestMemoryHistoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	clock := fixedNow
	store := NewMemoryHistoryStore(10, 10, 30*time.Minute)
	store.now = func() time.Time { return clock }

	_ = store.Append(ctx, "old", models.ChatHistoryItem{Role: models.RoleUser, Content: "a"})
	clock = clock.Add(31 * time.Minute)

	if items, _ := store.Load(ctx, "old"); len(items) != 0 {
		t.Errorf("expired session loaded: %+v", items)
	}
	_ = store.Append(ctx, "new", models.ChatHistoryItem{Role: models.RoleUser, Content: "b"})
	if store.Len() != 1 {
		t.Errorf("sessions = %d, want 1", store.Len())
	}
}

func TestMemoryHistoryStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	clock := fixedNow
	store := NewMemoryHistoryStore(10, 2, 0)
	store.now = func() time.Time { return clock }

	for _, id := range []string{"a", "b", "c"} {
		_ = store.Append(ctx, id, models.ChatHistoryItem{Role: models.RoleUser, Content: id})
		clock = clock.Add(time.Second)
	}
	if items, _ := store.Load(ctx, "a"); len(items) != 0 {
		t.Errorf("oldest session kept: %+v", items)
	}
	if items, _ := store.Load(ctx, "c"); len(items) != 1 {
		t.Errorf("newest session lost: %+v", items)
	}
}

func TestOpenRouterClient(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer or-key" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Title") != "XCODENAME-SAHARA" || r.Header.Get("HTTP-Referer") != "https://sahara.example" {
			t.Errorf("attribution headers = %v", r.Header)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","model":"openai/gpt-4o","choices":[{"index":0,"message":{"role":"assistant","content":"{\"intent\":\"BOOK_TICKET\",\"actions\":[{\"type\":\"BOOK_TICKET\",\"payload\":{\"kind\":\"BUS\",\"from\":\"Kathmandu\",\"to\":\"Chitwan\"}}],\"reply\":\"On it.\"}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:   "or-key",
		URL:      srv.URL + "/chat/completions",
		Model:    "openai/gpt-4o",
		SiteURL:  "https://sahara.example",
		SiteName: "XCODENAME-SAHARA",
	})

	f := newFixture()
	f.opts.UseLLM = true
	f.opts.LLM = client
	history := []models.ChatHistoryItem{{Role: models.RoleUser, Content: "earlier"}, {Role: models.RoleAssistant, Content: "reply"}}
	resp := NewDefaultChatService(f.opts).HandleMessage(context.Background(), models.ChatRequest{Message: "bus to chitwan", History: history}, nil)

	if resp.Intent != models.IntentBookTicket || resp.Reply != "On it." {
		t.Fatalf("resp = %+v", resp)
	}
	if len(f.tickets.calls) != 1 || f.tickets.calls[0] != models.TicketBus {
		t.Errorf("ticket calls = %v", f.tickets.calls)
	}

	if got["model"] != "openai/gpt-4o" || got["max_tokens"] != float64(400) || got["temperature"] != 0.2 {
		t.Errorf("request = %v", got)
	}
	if rf, _ := got["response_format"].(map[string]any); rf["type"] != "json_object" {
		t.Errorf("response_format = %v", got["response_format"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 4 {
		t.Fatalf("messages = %v", msgs)
	}
	if m0 := msgs[0].(map[string]any); m0["role"] != "system" {
		t.Errorf("first message role = %v", m0["role"])
	}
	if m3 := msgs[3].(map[string]any); m3["role"] != "user" || m3["content"] != "bus to chitwan" {
		t.Errorf("last message = %v", m3)
	}
}
