// Package cascadectx carries request-scoped values - the active logger and
// viper instance - through a load call without threading extra parameters
// through every function in pkg/cascade.
package cascadectx

import (
	"context"
	"log/slog"

	"github.com/spf13/viper"
	slogctx "github.com/veqryn/slog-context"
)

type contextKey struct{ name string }

var viperKey = contextKey{"viper"}

// Logger returns the logger stored in ctx (or slog's default, via
// slog-context's fallback) with args appended as attributes.
func Logger(ctx context.Context, args ...any) *slog.Logger {
	return slogctx.FromCtx(ctx).With(args...)
}

// NewViper creates an owned viper instance bound to the CASCADE_ env prefix.
func NewViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetEnvPrefix("cascade")
	v.AutomaticEnv()
	return v
}

// ContextWithViper returns a context carrying v.
func ContextWithViper(ctx context.Context, v *viper.Viper) context.Context {
	return context.WithValue(ctx, viperKey, v)
}

// Viper returns the viper instance stored in ctx. Panics if none was set -
// that's a wiring bug in the command that built ctx, not a runtime
// condition callers should handle.
func Viper(ctx context.Context) *viper.Viper {
	v, ok := ctx.Value(viperKey).(*viper.Viper)
	if !ok {
		panic("cascadectx: viper not found in context - must call ContextWithViper first")
	}
	return v
}
