package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		development bool
		wantErr     bool
	}{
		{name: "debug production", level: "debug"},
		{name: "info production", level: "info"},
		{name: "warn development", level: "warn", development: true},
		{name: "invalid level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.level, tt.development)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, l)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.level, l.GetLevel())
			require.Empty(t, l.GetComponent())
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	l, err := NewLogger("info", false)
	require.NoError(t, err)

	require.NoError(t, l.SetLevel("error"))
	require.Equal(t, "error", l.GetLevel())
	require.False(t, l.atomicLevel.Enabled(zapcore.WarnLevel))

	require.Error(t, l.SetLevel("nope"))
	require.Equal(t, "error", l.GetLevel())
}

func TestLogger_ComponentsShareLevel(t *testing.T) {
	base, err := NewLogger("info", false)
	require.NoError(t, err)

	listener := base.WithComponent("listener")
	writer := base.WithComponent("writer")
	require.Equal(t, "listener", listener.GetComponent())
	require.Equal(t, "writer", writer.GetComponent())

	require.Same(t, listener, listener.WithComponent("listener"))

	require.NoError(t, base.SetLevel("debug"))
	require.Equal(t, "debug", listener.GetLevel())
	require.Equal(t, "debug", writer.GetLevel())
}

func TestNewComponentLogger_PanicsOnInvalidLevel(t *testing.T) {
	require.Panics(t, func() {
		_ = NewComponentLogger("monitor", "verbose", false)
	})

	l := NewComponentLogger("monitor", "warn", true)
	require.Equal(t, "monitor", l.GetComponent())
	require.Equal(t, "warn", l.GetLevel())
}

type stubLoggingConfig struct {
	defaultLevel    string
	componentLevels map[string]string
}

func (s *stubLoggingConfig) GetComponentLevel(component string) string {
	if level, ok := s.componentLevels[component]; ok {
		return level
	}
	return s.defaultLevel
}

func (s *stubLoggingConfig) GetDefaultLevel() string { return s.defaultLevel }
func (s *stubLoggingConfig) IsDevelopment() bool     { return false }

func TestNewComponentLoggerFromConfig(t *testing.T) {
	cfg := &stubLoggingConfig{
		defaultLevel:    "warn",
		componentLevels: map[string]string{"writer": "debug"},
	}

	require.Equal(t, "debug", NewComponentLoggerFromConfig("writer", cfg).GetLevel())
	require.Equal(t, "warn", NewComponentLoggerFromConfig("listener", cfg).GetLevel())

	nilCfg := NewComponentLoggerFromConfig("monitor", nil)
	require.Equal(t, "info", nilCfg.GetLevel())
	require.Equal(t, "monitor", nilCfg.GetComponent())
}

func TestNewNopLogger(t *testing.T) {
	l := NewNopLogger()
	require.NotPanics(t, func() {
		l.Debug("debug")
		l.Infow("info", "key", "value")
		l.Errorf("error %d", 1)
	})
}
