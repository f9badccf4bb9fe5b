// Package logging provides the zap logger used across opsx-one and carries
// it through context.Context.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger behavior.
type Options struct {
	// Verbose enables debug output.
	Verbose bool
	// Quiet limits output to errors. Verbose wins if both are set.
	Quiet bool
	// JSON switches from the console encoder to JSON.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// Level returns the minimum level implied by the options.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Verbose:
		return zapcore.DebugLevel
	case o.Quiet:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// New creates a logger for one CLI invocation. Every entry carries a run_id.
func New(opts Options) *zap.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	var enc zapcore.Encoder
	if opts.JSON {
		encCfg = zap.NewProductionEncoderConfig()
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), zap.NewAtomicLevelAt(opts.Level()))
	return zap.New(core).With(zap.String(KeyRunID, uuid.NewString()))
}

type loggerKey struct{}

// NewContext returns a context with the logger attached.
func NewContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return zap.NewNop()
}

// Common field keys.
const (
	KeyRunID       = "run_id"
	KeyPath        = "path"
	KeySource      = "source"
	KeyStrategy    = "strategy"
	KeyStatus      = "status"
	KeyMode        = "mode"
	KeyFlavor      = "flavor"
	KeyOperation   = "operation"
	KeyCount       = "count"
	KeyConfigLayer = "config_layer"
)

// Path returns a field for a file path.
func Path(p string) zap.Field {
	return zap.String(KeyPath, p)
}

// Operation returns a field for the operation being performed.
func Operation(op string) zap.Field {
	return zap.String(KeyOperation, op)
}

// Count returns a field for item counts.
func Count(n int) zap.Field {
	return zap.Int(KeyCount, n)
}
