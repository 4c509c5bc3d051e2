package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/daydaylx/gamex-sub000/config"
	"github.com/daydaylx/gamex-sub000/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), logger.Nop(), config.TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	prev := stdoutWriter
	stdoutWriter = &buf
	prevProvider := otel.GetTracerProvider()
	t.Cleanup(func() {
		stdoutWriter = prev
		otel.SetTracerProvider(prevProvider)
	})

	shutdown, err := Init(context.Background(), logger.Nop(), config.TracingConfig{
		Enabled: true, ServiceName: "gamex-test", SampleRatio: 1,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "compare")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"compare"`)
	assert.Contains(t, buf.String(), "gamex-test")
}
