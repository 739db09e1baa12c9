package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestWithLoggerAndFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	got := FromContext(ctx)

	got.Info().Msg("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("expected context logger to write to buffer, got: %s", buf.String())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Error("expected default logger for bare context")
	}
	if FromContext(nil) == nil { //nolint:staticcheck // nil context fallback is part of the contract
		t.Error("expected default logger for nil context")
	}
}

func TestWithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	ctx = WithSource(ctx, "hotel-export")

	Ctx(ctx).Info().Msg("tagged")
	if !strings.Contains(buf.String(), "hotel-export") {
		t.Errorf("expected source field in output, got: %s", buf.String())
	}
}
