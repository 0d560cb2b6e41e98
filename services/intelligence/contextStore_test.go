package ai

import (
	"context"
	"os"
	"testing"
	"time"

	"sahara/models"
	"sahara/utils"

	"github.com/google/uuid"
)

func TestRedisHistoryStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := utils.NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	store := NewRedisHistoryStore(client, time.Minute, 3)
	session := "test-" + uuid.NewString()
	defer client.Del(ctx, sessionPrefix+session)

	if items, err := store.Load(ctx, session); err != nil || len(items) != 0 {
		t.Fatalf("empty Load = %+v, %v", items, err)
	}
	for _, c := range []string{"a", "b"} {
		err := store.Append(ctx, session,
			models.ChatHistoryItem{Role: models.RoleUser, Content: c},
			models.ChatHistoryItem{Role: models.RoleAssistant, Content: c + "!"})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	items, err := store.Load(ctx, session)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || items[0].Content != "a!" || items[2].Content != "b!" || items[2].Role != models.RoleAssistant {
		t.Errorf("items = %+v", items)
	}
	if ttl := client.TTL(ctx, sessionPrefix+session).Val(); ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v", ttl)
	}
}
