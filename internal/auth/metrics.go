package auth

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/auth-session/internal/serviceerr"
)

const instrumentationName = "github.com/openkcm/auth-session/internal/auth"

type instruments struct {
	tracer   trace.Tracer
	attempts metric.Int64Counter
	logouts  metric.Int64Counter
}

// newInstruments leaves a counter nil when the meter cannot create it.
func newInstruments(ctx context.Context) instruments {
	meter := otel.Meter(instrumentationName)

	attempts, err := meter.Int64Counter(
		"auth.login_attempts",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("attempt"),
	)
	if err != nil {
		slogctx.Warn(ctx, "Failed to create login attempts counter", "error", err)
	}

	logouts, err := meter.Int64Counter(
		"auth.logouts",
		metric.WithDescription("Logouts by outcome"),
		metric.WithUnit("logout"),
	)
	if err != nil {
		slogctx.Warn(ctx, "Failed to create logouts counter", "error", err)
	}

	return instruments{
		tracer:   otel.Tracer(instrumentationName),
		attempts: attempts,
		logouts:  logouts,
	}
}

func outcome(code serviceerr.Code) attribute.KeyValue {
	if code == "" {
		return attribute.String("outcome", "ok")
	}

	return attribute.String("outcome", string(code))
}

func (i instruments) recordLogin(ctx context.Context, code serviceerr.Code) {
	if i.attempts != nil {
		i.attempts.Add(ctx, 1, metric.WithAttributes(outcome(code)))
	}
}

func (i instruments) recordLogout(ctx context.Context, code serviceerr.Code) {
	if i.logouts != nil {
		i.logouts.Add(ctx, 1, metric.WithAttributes(outcome(code)))
	}
}
