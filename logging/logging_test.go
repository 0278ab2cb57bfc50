package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestSetGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	SetGlobalLogger(nil)
	_, ok := GetGlobalLogger().(*NoOpLogger)
	require.True(t, ok)

	// Package-level functions route through the no-op logger without
	// panicking.
	Debug("debug message")
	Info("info message", Fields{"k": 1})
	Warn("warn message")
	Error(errors.New("boom"), "error message")
	SetLevel(ErrorLevel)

	custom := NewDefaultLogger()
	SetGlobalLogger(custom)
	require.Equal(t, custom, GetGlobalLogger())
}

func TestWithFieldsReturnsIndependentLogger(t *testing.T) {
	base := NewDefaultLogger()
	scoped := base.WithFields(Fields{"component": "test"})
	require.NotNil(t, scoped)
	require.NotSame(t, base, scoped)

	// Chained fields do not leak back into the parent.
	scoped.WithFields(Fields{"extra": true})
	assert.NotContains(t, base.fields, "extra")
}

func TestNoOpLoggerImplementsInterface(t *testing.T) {
	var l Logger = &NoOpLogger{}
	l.Debug("ignored")
	l.Info("ignored")
	l.Warn("ignored")
	l.Error(errors.New("ignored"), "ignored")
	l.SetLevel(DebugLevel)
	require.NotNil(t, l.WithFields(Fields{"k": "v"}))
}
