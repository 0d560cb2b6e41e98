package ai

import (
	"context"
	"errors"
	"os"
	"testing"

	"sahara/models"

	genai "github.com/google/generative-ai-go/genai"
)

func TestGeminiHistoryRoles(t *testing.T) {
	got := geminiHistory([]models.ChatHistoryItem{
		{Role: models.RoleUser, Content: "bus to pokhara"},
		{Role: models.RoleAssistant, Content: "Sure."},
	})
	if len(got) != 2 || got[0].Role != "user" || got[1].Role != "model" {
		t.Fatalf("history = %+v", got)
	}
	if text, ok := got[1].Parts[0].(genai.Text); !ok || string(text) != "Sure." {
		t.Errorf("part = %#v", got[1].Parts[0])
	}
}

func TestCandidateText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"intent":`), genai.Text(`"SMALL_TALK"}`)}},
	}}}
	text, err := candidateText(resp)
	if err != nil || text != `{"intent":"SMALL_TALK"}` {
		t.Fatalf("candidateText = %q, %v", text, err)
	}

	for name, empty := range map[string]*genai.GenerateContentResponse{
		"nil":        nil,
		"no content": {Candidates: []*genai.Candidate{{}}},
		"no text":    {Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
	} {
		if _, err := candidateText(empty); !errors.Is(err, errEmptyCompletion) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestGeminiClientLive(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	ctx := context.Background()
	client, err := NewGeminiClient(ctx, key, "gemini-1.5-pro")
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	defer client.Close()

	raw, err := client.Complete(ctx, systemPrompt, nil, "hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if _, err := parseLLMResponse(raw); err != nil {
		t.Errorf("unparseable answer %q: %v", raw, err)
	}
}
