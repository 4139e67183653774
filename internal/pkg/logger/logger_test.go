package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ asynq.Logger = Asynq{}

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("production", &buf)
	l.Debug("hidden")
	l.Info("stored", "fileId", "f1")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "stored", rec["msg"])
	assert.Equal(t, "f1", rec["fileId"])
}

func TestNew_DevelopmentWritesTextAtDebug(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("development", &buf)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestAsynq_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	a := Asynq{L: newWithWriter("production", &buf)}
	a.Warn("lease ", "expired")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "lease expired", rec["msg"])
	assert.Equal(t, "asynq", rec["component"])
	assert.Equal(t, "WARN", rec["level"])
}
