package tracer

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestNewSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{rate: 1, want: sdktrace.AlwaysSample().Description()},
		{rate: 2, want: sdktrace.AlwaysSample().Description()},
		{rate: 0, want: sdktrace.NeverSample().Description()},
		{rate: -1, want: sdktrace.NeverSample().Description()},
		{rate: 0.25, want: sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tt := range tests {
		if got := newSampler(tt.rate).Description(); got != tt.want {
			t.Fatalf("newSampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{ServiceName: "test", Enabled: false})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() error = %v", err)
	}
}

func TestTraceAndSpanID(t *testing.T) {
	if got := TraceID(context.Background()); got != "" {
		t.Fatalf("TraceID() without span = %q, want empty", got)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	sc := trace.SpanContextFromContext(ctx)
	if got := TraceID(ctx); got != sc.TraceID().String() {
		t.Fatalf("TraceID() = %q, want %q", got, sc.TraceID().String())
	}
	if got := SpanID(ctx); got != sc.SpanID().String() {
		t.Fatalf("SpanID() = %q, want %q", got, sc.SpanID().String())
	}
}
