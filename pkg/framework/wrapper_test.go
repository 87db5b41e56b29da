package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitglue/coursemap/pkg/bootstrap"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRun_Success(t *testing.T) {
	var buf bytes.Buffer
	svc := &bootstrap.Service{Logger: bootstrap.NewLogger(&buf, "coursemap", slog.LevelInfo)}

	var seenID string
	err := Run(context.Background(), "coursemap", svc, func(ctx context.Context, fwCtx *FrameworkContext) (map[string]interface{}, error) {
		seenID = fwCtx.ExecutionID
		assert.Same(t, svc, fwCtx.Service)
		fwCtx.Logger.Info("working")
		return map[string]interface{}{"samples": 42}, nil
	})
	require.NoError(t, err)

	lines := logLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "Execution started", lines[0]["message"])
	assert.Equal(t, "Execution completed successfully", lines[2]["message"])
	assert.Equal(t, float64(42), lines[2]["samples"])
	assert.Contains(t, lines[2], "duration_ms")
	assert.Len(t, seenID, 36)
	for _, l := range lines {
		assert.Equal(t, seenID, l["execution_id"])
		assert.Equal(t, "coursemap", l["service"])
	}
}

func TestRun_Failure(t *testing.T) {
	var buf bytes.Buffer
	svc := &bootstrap.Service{Logger: bootstrap.NewLogger(&buf, "coursemap", slog.LevelInfo)}
	boom := errors.New("boom")

	err := Run(context.Background(), "coursemap", svc, func(ctx context.Context, fwCtx *FrameworkContext) (map[string]interface{}, error) {
		return map[string]interface{}{"input": "run.fit"}, boom
	})
	assert.ErrorIs(t, err, boom)

	lines := logLines(t, &buf)
	last := lines[len(lines)-1]
	assert.Equal(t, "Execution failed", last["message"])
	assert.Equal(t, "ERROR", last["severity"])
	assert.Equal(t, "boom", last["error"])
}

func TestRun_NilService(t *testing.T) {
	called := false
	err := Run(context.Background(), "fit-gen", nil, func(ctx context.Context, fwCtx *FrameworkContext) (map[string]interface{}, error) {
		called = true
		assert.NotNil(t, fwCtx.Logger)
		return nil, nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}
