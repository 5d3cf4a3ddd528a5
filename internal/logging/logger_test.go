package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	// events must chain straight off the accessor return value
	FromContext(ctx).Info().Str("field", "value").Msg("stored logger")

	if got := buf.String(); !strings.Contains(got, "stored logger") {
		t.Errorf("context logger not used, output: %q", got)
	}
}

func TestFromContextFallback(t *testing.T) {
	t.Parallel()

	if FromContext(context.Background()) != DefaultLogger() {
		t.Error("background context did not fall back to the default logger")
	}
}
