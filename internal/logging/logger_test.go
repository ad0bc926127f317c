package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFromContextPrefersStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	stored := zerolog.New(&buf).With().Str("request_id", "r-1").Logger()
	ctx := IntoContext(context.Background(), stored)

	logger := FromContext(ctx, zerolog.Nop())
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"r-1"`)
}

func TestFromContextFallsBack(t *testing.T) {
	var buf bytes.Buffer
	fallback := zerolog.New(&buf)

	logger := FromContext(context.Background(), fallback)
	logger.Info().Msg("fallback")
	assert.Contains(t, buf.String(), "fallback")
}
