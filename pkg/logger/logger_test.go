package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	l, err := Init("debug", "console")
	require.NoError(t, err)
	assert.Same(t, l, L())

	_, err = Init("loud", "json")
	assert.Error(t, err)

	_, err = Init("info", "xml")
	assert.Error(t, err)
}

func TestLBeforeInit(t *testing.T) {
	Set(nil)
	assert.NotNil(t, L())
	assert.NotPanics(t, func() { L().Info("dropped") })
}

func TestSetObserved(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	core, logs := observer.New(zap.InfoLevel)
	Set(zap.New(core))

	L().Info("hello", zap.String("k", "v"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
}
