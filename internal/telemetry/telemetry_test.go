package telemetry_test

import (
	"context"
	"testing"

	"github.com/ukaji3/rtplot-go/internal/telemetry"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		enabled  bool
	}{
		{"no endpoint", "", true},
		{"disabled", "http://localhost:4318", false},
		// Non-routable, so nothing is exported.
		{"endpoint set", "http://192.0.2.1:4318", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shutdown, err := telemetry.Setup(context.Background(), "rtplot-test", tt.endpoint, tt.enabled)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown error: %v", err)
			}
		})
	}
}

func TestNoopShutdownIgnoresCancelledContext(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), "noop-test", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestTracer(t *testing.T) {
	_, span := telemetry.Tracer("rtplot-test").Start(context.Background(), "span")
	defer span.End()
	if span == nil {
		t.Fatal("Tracer returned a nil span")
	}
}
