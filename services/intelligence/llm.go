package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sahara/models"

	"go.uber.org/zap"
)

const (
	replyNoBackend = `I received: "%s", but no AI backend is connected.`
	replyLLMDown   = "I'm having trouble talking to my AI brain right now, but you can still ask me to book tickets or appointments."
	replyDefault   = "Okay."
)

var errEmptyCompletion = errors.New("empty LLM response")

// llmResponse is the JSON object the LLM is instructed to return.
type llmResponse struct {
	Intent          models.Intent  `json:"intent"`
	Actions         models.Actions `json:"actions"`
	Reply           string         `json:"reply"`
	SessionMetadata *struct {
		NeedsClarification bool     `json:"needsClarification"`
		MissingFields      []string `json:"missingFields"`
	} `json:"sessionMetadata"`
}

// stripCodeFence removes a surrounding ```json ... ``` block if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseLLMResponse decodes and validates raw LLM output. Any invalid part
// rejects the whole response.
func parseLLMResponse(raw string) (decision, error) {
	content := stripCodeFence(raw)
	if content == "" {
		return decision{}, errEmptyCompletion
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return decision{}, fmt.Errorf("decode LLM response: %w", err)
	}
	if !resp.Intent.Valid() {
		return decision{}, fmt.Errorf("unknown intent %q", resp.Intent)
	}

	d := decision{
		intent:   resp.Intent,
		actions:  resp.Actions,
		reply:    strings.TrimSpace(resp.Reply),
		metadata: models.SessionMetadata{MissingFields: []string{}},
	}
	if d.actions == nil {
		d.actions = models.Actions{}
	}
	if d.reply == "" {
		d.reply = replyDefault
	}
	if resp.SessionMetadata != nil {
		d.metadata.NeedsClarification = resp.SessionMetadata.NeedsClarification
		if resp.SessionMetadata.MissingFields != nil {
			d.metadata.MissingFields = resp.SessionMetadata.MissingFields
		}
	}
	return d, nil
}

func degraded(reply string) decision {
	return decision{
		intent:   models.IntentUnknown,
		actions:  models.Actions{},
		reply:    reply,
		metadata: models.SessionMetadata{MissingFields: []string{}},
	}
}

// classifyLLM asks the configured LLM to route message. The call is
// detached from ctx cancellation and bounded by the LLM timeout.
func (s *DefaultChatService) classifyLLM(ctx context.Context, message string, history []models.ChatHistoryItem) decision {
	if s.llm == nil {
		return degraded(fmt.Sprintf(replyNoBackend, message))
	}

	llmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.llmTimeout)
	defer cancel()

	raw, err := s.llm.Complete(llmCtx, systemPrompt, history, message)
	if err != nil {
		s.logger.Error("LLM call failed", zap.Error(err))
		return degraded(replyLLMDown)
	}

	d, err := parseLLMResponse(raw)
	if err != nil {
		s.logger.Warn("LLM response rejected", zap.Error(err), zap.Int("length", len(raw)))
		return degraded(replyLLMDown)
	}
	return d
}
