package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoginTracker_WithoutRedis(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lt := NewLoginTracker(nil, LoginTrackerConfig{}, NewSecurityLogger(zap.New(core)))
	ctx := context.Background()

	assert.Equal(t, DefaultLoginTrackerConfig(), lt.config)

	for i := 0; i < 10; i++ {
		blocked, err := lt.RecordFailure(ctx, "jane@example.com", "10.0.0.1", "req")
		require.NoError(t, err)
		assert.False(t, blocked)
	}

	blocked, err := lt.IsBlocked(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.NoError(t, lt.Reset(ctx, "jane@example.com"))

	assert.Equal(t, 10, logs.FilterMessage(string(EventLoginFailed)).Len())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", normalizeEmail("  Jane@Example.COM "))
}
