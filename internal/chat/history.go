package chat

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message is one turn of a user's conversation.
type Message struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// HistoryStore persists conversation history per user.
type HistoryStore interface {
	Append(ctx context.Context, userID string, msg Message) error
	History(ctx context.Context, userID string, limit int) ([]Message, error)
}

// RedisHistoryStore keeps each message as a hash under chat:{user}:{nanos}.
// The timestamp in the key gives chronological order without a secondary
// index, and a per-message TTL keeps old conversations from accumulating.
type RedisHistoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

// DefaultHistoryTTL is how long chat messages are retained.
const DefaultHistoryTTL = 30 * 24 * time.Hour

// NewRedisHistoryStore creates a history store on the given Redis client.
func NewRedisHistoryStore(client *redis.Client) *RedisHistoryStore {
	return &RedisHistoryStore{
		client: client,
		ttl:    DefaultHistoryTTL,
	}
}

func historyKey(userID string, ts time.Time) string {
	return fmt.Sprintf("chat:%s:%d", userID, ts.UnixNano())
}

// Append stores one message.
func (s *RedisHistoryStore) Append(ctx context.Context, userID string, msg Message) error {
	key := historyKey(userID, msg.SentAt)
	fields := map[string]any{
		"role":    msg.Role,
		"content": msg.Content,
		"sent_at": msg.SentAt.UnixNano(),
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to store chat message: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set chat message TTL: %w", err)
	}
	return nil
}

// History returns the user's most recent messages in chronological order,
// capped at limit (0 means no cap).
func (s *RedisHistoryStore) History(ctx context.Context, userID string, limit int) ([]Message, error) {
	pattern := fmt.Sprintf("chat:%s:*", userID)

	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan chat history: %w", err)
	}

	// Keys embed the send time, so lexicographic order is not chronological
	// across nanosecond widths; sort by the parsed timestamp instead.
	sort.Slice(keys, func(i, j int) bool {
		return keyTimestamp(keys[i]) < keyTimestamp(keys[j])
	})

	if limit > 0 && len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}

	messages := make([]Message, 0, len(keys))
	for _, key := range keys {
		fields, err := s.client.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read chat message: %w", err)
		}
		if len(fields) == 0 {
			// Expired between scan and read.
			continue
		}
		msg := Message{
			Role:    fields["role"],
			Content: fields["content"],
		}
		if nanos, err := strconv.ParseInt(fields["sent_at"], 10, 64); err == nil {
			msg.SentAt = time.Unix(0, nanos)
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func keyTimestamp(key string) int64 {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == ':' {
			ts, _ := strconv.ParseInt(key[i+1:], 10, 64)
			return ts
		}
	}
	return 0
}

var _ HistoryStore = (*RedisHistoryStore)(nil)
