package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aerotrack/partledger/internal/domain"
)

// Claims elects a single consumer per scan event across instances sharing
// one bus. The first SETNX on the event's key wins.
type Claims struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewClaims creates a claimer whose keys live under prefix and expire
// after ttl.
func NewClaims(client *goredis.Client, prefix string, ttl time.Duration) *Claims {
	return &Claims{client: client, prefix: prefix, ttl: ttl}
}

// Claim reports whether the caller won event.
func (c *Claims) Claim(ctx context.Context, event domain.ScanEvent) (bool, error) {
	ok, err := c.client.SetNX(ctx, c.key(event), 1, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim scan event %s: %w", event.QRID, err)
	}
	return ok, nil
}

func (c *Claims) key(event domain.ScanEvent) string {
	session := ""
	if event.SessionID != nil {
		session = event.SessionID.String()
	}
	return c.prefix + ":claim:" + session + ":" + event.QRID + ":" +
		strconv.FormatInt(event.ScannedAt.UnixNano(), 10)
}
