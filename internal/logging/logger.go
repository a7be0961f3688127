// Package logging builds the zap-backed logr.Logger used for diagnostics.
// User-facing progress is printed separately on stdout.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger.
type Options struct {
	// JSON selects the production JSON encoder instead of the console encoder.
	JSON bool

	// Debug enables V(1) messages such as individual API requests.
	Debug bool

	// Output receives log lines. Defaults to stderr.
	Output io.Writer
}

// New creates a logger and the zap logger backing it. Callers should Sync
// the zap logger before exiting.
func New(opts Options) (logr.Logger, *zap.Logger) {
	var encoderConfig zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if opts.JSON {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), zap.NewAtomicLevelAt(level))
	zl := zap.New(core)
	return zapr.NewLogger(zl), zl
}

// IntoContext attaches logger to ctx.
func IntoContext(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// FromContext returns the logger in ctx, or a discarding logger.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
