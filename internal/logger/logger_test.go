package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withCapturedOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return buf
}

func TestQuietModeSuppressesDebug(t *testing.T) {
	buf := withCapturedOutput(t)
	SetVerbose(false)

	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestVerboseModePrints(t *testing.T) {
	buf := withCapturedOutput(t)
	SetVerbose(true)

	assert.True(t, IsVerbose())

	Debug("chunks: %d", 42)
	Info("done")
	Warn("careful")
	Section("Ingest")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] chunks: 42")
	assert.Contains(t, out, "[INFO] done")
	assert.Contains(t, out, "[WARN] careful")
	assert.Contains(t, out, "=== Ingest ===")
}

func TestErrorPrintsRegardlessOfVerbose(t *testing.T) {
	buf := withCapturedOutput(t)
	SetVerbose(false)

	Error("broke: %s", "badly")
	assert.Contains(t, buf.String(), "[ERROR] broke: badly")
}
