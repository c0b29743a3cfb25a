// Package notify pushes game state changes to Redis for external renderers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LatestTTL bounds how long the last event of an idle game is kept
const LatestTTL = 24 * time.Hour

const dialTimeout = 5 * time.Second

// Event kinds
const (
	KindCreated  = "created"
	KindStarted  = "started"
	KindEnded    = "ended"
	KindSelected = "selected"
	KindMoved    = "moved"
	KindRejected = "rejected"
	KindGameOver = "game_over"
	KindDeleted  = "deleted"
)

type Event struct {
	GameID    string    `json:"gameId"`
	Kind      string    `json:"kind"`
	Version   uint64    `json:"version"`
	Phase     string    `json:"phase"`
	Turn      string    `json:"turn"`
	Winner    string    `json:"winner,omitempty"`
	Placement string    `json:"placement"`
	Time      time.Time `json:"time"`
}

func channelKey(gameID string) string { return "pickchess:events:" + gameID }
func latestKey(gameID string) string  { return "pickchess:game:" + gameID }

// RedisPublisher publishes events on a per-game channel and keeps the last
// one under a per-game key
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher connects to redisURL and pings it
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, errors.New("redis url required for publisher")
	}
	opts, err := redisOptions(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisPublisher{rdb: rdb}, nil
}

// Publish stores ev as the latest event and broadcasts it
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pipe := p.rdb.TxPipeline()
	if ev.Kind == KindDeleted {
		pipe.Del(ctx, latestKey(ev.GameID))
	} else {
		pipe.Set(ctx, latestKey(ev.GameID), raw, LatestTTL)
	}
	pipe.Publish(ctx, channelKey(ev.GameID), raw)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Kind, err)
	}
	return nil
}

// Latest returns the last stored event for gameID, or nil if none
func (p *RedisPublisher) Latest(ctx context.Context, gameID string) (*Event, error) {
	raw, err := p.rdb.Get(ctx, latestKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Subscribe returns a subscription to gameID's event channel. Callers must
// Close it.
func (p *RedisPublisher) Subscribe(ctx context.Context, gameID string) *redis.PubSub {
	return p.rdb.Subscribe(ctx, channelKey(gameID))
}

func (p *RedisPublisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}

// redisOptions parses a redis:// or rediss:// URL. rediss enables TLS;
// query parameters such as dial_timeout override the defaults.
func redisOptions(raw string) (*redis.Options, error) {
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = dialTimeout
	}
	return opts, nil
}
