// Package session persists per-conversation ephemeral state in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/desmitry/urfu-teamfinder/internal/config"
)

// State is the finite menu state of one conversation.
type State string

const (
	StateRegistering        State = "registering"
	StateMenu               State = "menu"
	StateBrowsing           State = "browsing"
	StateEditingName        State = "editing_name"
	StateEditingDescription State = "editing_description"
	StateEditingImage       State = "editing_image"
)

// Session is the conversation-scoped state kept between updates.
// Page is the browse cursor (index into the ranked candidate list);
// MenuMessageID identifies the last rendered menu message so stale
// keyboards can be rejected.
type Session struct {
	State         State  `json:"state"`
	Locale        string `json:"locale"`
	Page          int    `json:"page"`
	MenuMessageID int    `json:"menu_message_id"`
}

// TTL bounds how long an idle conversation keeps its state.
const TTL = 30 * 24 * time.Hour

// Store is a Redis-backed session store keyed by chat id. Values are JSON;
// conflicts cannot occur because updates within one conversation are
// serialized by the dispatcher.
type Store struct {
	Client *redis.Client
}

// NewStore initializes a Redis-backed store from config.
// Only Addr is mandatory, Password/DB are optional.
func NewStore(cfg *config.Config) *Store {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &Store{Client: redis.NewClient(opts)}
}

// NewStoreWithClient wraps an existing client (tests).
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{Client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func key(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}

// Get loads a conversation's session. A missing key yields a zero Session,
// not an error.
func (s *Store) Get(ctx context.Context, chatID int64) (Session, error) {
	var sess Session
	val, err := s.Client.Get(ctx, key(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return sess, nil
	}
	if err != nil {
		return sess, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return sess, nil
}

// Put stores a conversation's session, refreshing the TTL.
func (s *Store) Put(ctx context.Context, chatID int64, sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.Client.Set(ctx, key(chatID), b, TTL).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Delete removes a conversation's session.
func (s *Store) Delete(ctx context.Context, chatID int64) error {
	return s.Client.Del(ctx, key(chatID)).Err()
}
