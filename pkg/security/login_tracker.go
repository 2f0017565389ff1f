package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // how long failed attempts are remembered
	BlockDuration time.Duration // how long a block lasts
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed logins per email in Redis and blocks further
// attempts once MaxAttempts is reached. Unknown and known emails are counted
// alike so a block reveals nothing about registration. Without Redis every
// method is a no-op.
type LoginTracker struct {
	client *goredis.Client
	config LoginTrackerConfig
	logger *SecurityLogger
}

const (
	failLoginPrefix    = "fail:login:"
	blockedLoginPrefix = "blocked:login:"
)

// KEYS[1] = counter key, ARGV[1] = TTL seconds; returns the new count.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config = DefaultLoginTrackerConfig()
	}
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{client: client, config: config, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsBlocked reports whether email is currently locked out.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email string) (bool, error) {
	if lt.client == nil {
		return false, nil
	}
	n, err := lt.client.Exists(ctx, blockedLoginPrefix+normalizeEmail(email)).Result()
	if err != nil {
		return false, fmt.Errorf("check login block: %w", err)
	}
	return n > 0, nil
}

// RecordFailure counts a failed attempt and returns true when it caused a block.
func (lt *LoginTracker) RecordFailure(ctx context.Context, email, ip, requestID string) (bool, error) {
	lt.logger.LogLoginFailed(ctx, email, ip, requestID, "invalid_credentials")
	if lt.client == nil {
		return false, nil
	}

	key := normalizeEmail(email)
	res, err := lt.client.Eval(ctx, incrWithTTLScript, []string{failLoginPrefix + key}, int(lt.config.AttemptWindow.Seconds())).Result()
	if err != nil {
		return false, fmt.Errorf("count failed login: %w", err)
	}
	count, ok := res.(int64)
	if !ok {
		return false, errors.New("unexpected result type from Lua script")
	}
	if int(count) < lt.config.MaxAttempts {
		return false, nil
	}

	if err := lt.client.Set(ctx, blockedLoginPrefix+key, "1", lt.config.BlockDuration).Err(); err != nil {
		return false, fmt.Errorf("set login block: %w", err)
	}
	lt.logger.Log(ctx, SecurityEvent{
		Event:        EventBlockCreated,
		SubjectType:  "email",
		SubjectValue: email,
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]any{"duration_minutes": int(lt.config.BlockDuration.Minutes())},
	})
	return true, nil
}

// Reset clears the failure counter after a successful login.
func (lt *LoginTracker) Reset(ctx context.Context, email string) error {
	if lt.client == nil {
		return nil
	}
	if err := lt.client.Del(ctx, failLoginPrefix+normalizeEmail(email)).Err(); err != nil {
		return fmt.Errorf("clear failed logins: %w", err)
	}
	return nil
}
