package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Ledger.validate(); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}

	if c.Broadcast.BufferSize <= 0 {
		return fmt.Errorf("broadcast.buffer_size must be > 0 (got %d)", c.Broadcast.BufferSize)
	}
	if c.Redis.Enabled() && c.Broadcast.Channel == "" {
		return fmt.Errorf("broadcast.channel is required when redis is configured")
	}
	if c.Redis.Enabled() && c.Broadcast.ClaimTTL <= 0 {
		return fmt.Errorf("broadcast.claim_ttl must be > 0 (got %v)", c.Broadcast.ClaimTTL)
	}

	if c.Server.ScanRateLimit <= 0 {
		return fmt.Errorf("server.scan_rate_limit must be > 0 (got %d)", c.Server.ScanRateLimit)
	}

	return nil
}

func (l *LedgerConfig) validate() error {
	loc, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", l.Timezone, err)
	}
	l.Location = loc

	openAt, err := ParseClock(l.OpenAt)
	if err != nil {
		return fmt.Errorf("open_at: %w", err)
	}
	closeAt, err := ParseClock(l.CloseAt)
	if err != nil {
		return fmt.Errorf("close_at: %w", err)
	}
	if closeAt <= openAt {
		return fmt.Errorf("close_at %s must be after open_at %s", l.CloseAt, l.OpenAt)
	}

	if l.CatchUpInterval <= 0 {
		return fmt.Errorf("catch_up_interval must be > 0 (got %v)", l.CatchUpInterval)
	}
	if l.MaxCatchUpAttempts <= 0 {
		return fmt.Errorf("max_catch_up_attempts must be > 0 (got %d)", l.MaxCatchUpAttempts)
	}

	return nil
}

// ParseClock parses an "HH:MM" wall-clock time into the offset from
// midnight.
func ParseClock(raw string) (time.Duration, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", raw)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}
