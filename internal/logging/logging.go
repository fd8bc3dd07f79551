// Package logging builds the zap logger used by the travel ETL run.
package logging

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"travel-etl/internal/config"
)

// New returns a zap logger for cfg. Format "json" uses the production
// encoder; anything else uses the console encoder. Timestamps are ISO8601
// under the "timestamp" key.
func New(cfg config.Log) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = level > zapcore.DebugLevel

	return zc.Build()
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }

// WithRun tags log with job and a fresh run_id and returns the id.
func WithRun(log *zap.Logger, job string) (*zap.Logger, string) {
	id := uuid.NewString()
	return log.With(zap.String("job", job), zap.String("run_id", id)), id
}

const redacted = "[REDACTED]"

var (
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)
	userinfoPattern = regexp.MustCompile(`://[^:/@\s]+:\S+@`)
)

// SanitizeDSN masks credentials in a connection string before it is logged.
func SanitizeDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	s := passwordPattern.ReplaceAllString(dsn, "${1}="+redacted)
	return userinfoPattern.ReplaceAllString(s, "://"+redacted+"@")
}
