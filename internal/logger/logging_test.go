package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFollowsOutputAndFormatter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormatter(log.JSONFormatter)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetFormatter(log.TextFormatter)
	})

	l := New("ipc")
	l.Error("boom", "id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["msg"])
	assert.Contains(t, fmt.Sprint(entry["prefix"]), "ipc")
	assert.Equal(t, float64(7), entry["id"])
}

func TestNewWithConfigLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	l := NewWithConfig("banner", log.WarnLevel, false, false, log.TextFormatter)
	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
