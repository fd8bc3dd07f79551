package logging

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"travel-etl/internal/config"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.Log
		enabled zapcore.Level
		off     zapcore.Level
		wantErr bool
	}{
		{name: "defaults", cfg: config.Log{}, enabled: zapcore.InfoLevel, off: zapcore.DebugLevel},
		{name: "debug_console", cfg: config.Log{Level: "debug", Format: "console"}, enabled: zapcore.DebugLevel, off: zapcore.DebugLevel - 1},
		{name: "warn_json", cfg: config.Log{Level: "warn", Format: "json"}, enabled: zapcore.WarnLevel, off: zapcore.InfoLevel},
		{name: "bad_level", cfg: config.Log{Level: "chatty"}, wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			log, err := New(tc.cfg)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tc.enabled))
			assert.False(t, log.Core().Enabled(tc.off))
		})
	}
}

func TestWithRun(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	log, id := WithRun(zap.New(core), "travel_etl")

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	log.Info("hello")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "travel_etl", fields["job"])
	assert.Equal(t, id, fields["run_id"])

	_, id2 := WithRun(Nop(), "travel_etl")
	assert.NotEqual(t, id, id2)
}

func TestSanitizeDSN(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                                     "",
		"travel.sqlite":                        "travel.sqlite",
		"postgres://etl:s3cret@db:5432/travel": "postgres://[REDACTED]@db:5432/travel",
		"sqlserver://sa:p@ss@host?database=x":  "sqlserver://[REDACTED]@host?database=x",
		"host=db user=etl password=s3cret":     "host=db user=etl password=[REDACTED]",
		"server=h;user id=sa;Password=x;db=t":  "server=h;user id=sa;Password=[REDACTED];db=t",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeDSN(in), in)
	}
}
