/*
Package logger builds the application's zap logger.

The whole app logs through one production JSON logger; components take
named children (journal, api) so log lines carry their origin. Nothing
here is configurable at runtime: a local record-keeping server has no
log pipeline to feed, so readable defaults beat knobs.
*/
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the production logger: JSON output, ISO8601 timestamps,
// no sampling. Sampling would silently drop the persistence warnings
// the degraded mode depends on.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	return cfg.Build()
}

// Must panics when the logger cannot be built. Only for use in main,
// where running without logging is worse than not running.
func Must(log *zap.Logger, err error) *zap.Logger {
	if err != nil {
		panic(err)
	}
	return log
}
