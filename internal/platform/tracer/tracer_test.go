package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

func TestInitTracer_WithoutEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "", "virtucasa-test", logger.NewNop())
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}
