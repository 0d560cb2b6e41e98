package ai

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"sahara/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "chat:session:"

// RedisHistoryStore keeps the last limit turns of each session in a Redis list.
type RedisHistoryStore struct {
	client *redis.Client
	ttl    time.Duration
	limit  int
}

func NewRedisHistoryStore(client *redis.Client, ttl time.Duration, limit int) *RedisHistoryStore {
	return &RedisHistoryStore{client: client, ttl: ttl, limit: limit}
}

func (s *RedisHistoryStore) Load(ctx context.Context, sessionID string) ([]models.ChatHistoryItem, error) {
	entries, err := s.client.LRange(ctx, sessionPrefix+sessionID, 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items := make([]models.ChatHistoryItem, 0, len(entries))
	for _, e := range entries {
		var item models.ChatHistoryItem
		if err := json.Unmarshal([]byte(e), &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RedisHistoryStore) Append(ctx context.Context, sessionID string, items ...models.ChatHistoryItem) error {
	if len(items) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return err
		}
		values = append(values, b)
	}

	key := sessionPrefix + sessionID
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if s.limit > 0 {
			pipe.LTrim(ctx, key, int64(-s.limit), -1)
		}
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

// MemoryHistoryStore is an in-process HistoryStore for tests and single-node
// development. Sessions expire after ttl and at most maxSessions are kept;
// the least recently touched session is evicted first.
type MemoryHistoryStore struct {
	mu          sync.Mutex
	limit       int
	maxSessions int
	ttl         time.Duration
	now         func() time.Time
	sessions    map[string]*memorySession
}

type memorySession struct {
	items   []models.ChatHistoryItem
	touched time.Time
}

func NewMemoryHistoryStore(limit, maxSessions int, ttl time.Duration) *MemoryHistoryStore {
	if maxSessions <= 0 {
		maxSessions = 1000
	}
	return &MemoryHistoryStore{
		limit:       limit,
		maxSessions: maxSessions,
		ttl:         ttl,
		now:         time.Now,
		sessions:    make(map[string]*memorySession),
	}
}

func (s *MemoryHistoryStore) expired(sess *memorySession, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.touched) > s.ttl
}

func (s *MemoryHistoryStore) Load(_ context.Context, sessionID string) ([]models.ChatHistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if s.expired(sess, s.now()) {
		delete(s.sessions, sessionID)
		return nil, nil
	}
	return append([]models.ChatHistoryItem(nil), sess.items...), nil
}

func (s *MemoryHistoryStore) Append(_ context.Context, sessionID string, items ...models.ChatHistoryItem) error {
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[sessionID]
	if ok && s.expired(sess, now) {
		delete(s.sessions, sessionID)
		ok = false
	}
	if !ok {
		s.evict(now)
		sess = &memorySession{}
		s.sessions[sessionID] = sess
	}

	h := append(sess.items, items...)
	if s.limit > 0 && len(h) > s.limit {
		h = h[len(h)-s.limit:]
	}
	sess.items = h
	sess.touched = now
	return nil
}

// evict drops expired sessions, then the oldest ones until a new session fits.
func (s *MemoryHistoryStore) evict(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
	for len(s.sessions) >= s.maxSessions {
		oldestID := ""
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldestID == "" || sess.touched.Before(oldest) {
				oldestID, oldest = id, sess.touched
			}
		}
		delete(s.sessions, oldestID)
	}
}

// Len returns the number of stored sessions.
func (s *MemoryHistoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
