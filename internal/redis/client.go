package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/cart"
	"github.com/go-redis/redis/v8"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrTempDataNotFound = errors.New("temp data not found")
	ErrRoleNotCached    = errors.New("role not cached")
)

type Client struct {
	rdb     *redis.Client
	cartTTL time.Duration
}

type SessionData struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func Initialize(redisURL string, cartTTL time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, cartTTL: cartTTL}, nil
}

// New wraps an existing go-redis client.
func New(rdb *redis.Client, cartTTL time.Duration) *Client {
	return &Client{rdb: rdb, cartTTL: cartTTL}
}

// Session management
func (c *Client) SetSession(ctx context.Context, data *SessionData, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return c.rdb.Set(ctx, "session:"+data.SessionID, jsonData, ttl).Err()
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionData, error) {
	val, err := c.rdb.Get(ctx, "session:"+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, "session:"+sessionID).Err()
}

// Role cache. Invalidated on sign in, sign out and role changes.
func (c *Client) SetRole(ctx context.Context, userID, role string, ttl time.Duration) error {
	return c.rdb.Set(ctx, "role:"+userID, role, ttl).Err()
}

func (c *Client) GetRole(ctx context.Context, userID string) (string, error) {
	val, err := c.rdb.Get(ctx, "role:"+userID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrRoleNotCached
		}
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return val, nil
}

func (c *Client) InvalidateRole(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, "role:"+userID).Err()
}

// Temporary data management
func (c *Client) SetTempData(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal temp data: %w", err)
	}

	return c.rdb.Set(ctx, "temp:"+key, jsonData, ttl).Err()
}

func (c *Client) GetTempData(ctx context.Context, key string, dest interface{}) error {
	val, err := c.rdb.Get(ctx, "temp:"+key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrTempDataNotFound
		}
		return fmt.Errorf("failed to get temp data: %w", err)
	}

	return json.Unmarshal([]byte(val), dest)
}

// TakeTempData reads and deletes the key in one step. Of concurrent callers only one gets the value.
func (c *Client) TakeTempData(ctx context.Context, key string, dest interface{}) error {
	val, err := c.rdb.GetDel(ctx, "temp:"+key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrTempDataNotFound
		}
		return fmt.Errorf("failed to take temp data: %w", err)
	}

	return json.Unmarshal([]byte(val), dest)
}

func (c *Client) DeleteTempData(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, "temp:"+key).Err()
}

// Cart storage, one key per client profile
func (c *Client) LoadCart(ctx context.Context, clientID string) ([]byte, error) {
	val, err := c.rdb.Get(ctx, "cart:"+clientID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, cart.ErrNoCart
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return val, nil
}

func (c *Client) SaveCart(ctx context.Context, clientID string, data []byte) error {
	return c.rdb.Set(ctx, "cart:"+clientID, data, c.cartTTL).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
