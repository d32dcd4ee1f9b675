package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l, flush := New(Options{Level: "warn", JSON: true, Out: zapcore.AddSync(&buf)})

	l.Info("dropped")
	l.Warn("kept", zap.String("sweet", "fudge"))
	flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "fudge", entry["sweet"])
	assert.Contains(t, entry, "ts")
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, flush := New(Options{Level: "loud", JSON: true, Out: zapcore.AddSync(&buf)})
	l.Debug("no")
	l.Info("yes")
	flush()
	assert.NotContains(t, buf.String(), `"no"`)
	assert.Contains(t, buf.String(), `"yes"`)
}

func TestNew_RotatedFileSink(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, flush := New(Options{
		Level:  "info",
		Out:    zapcore.AddSync(&buf),
		Rotate: FileRotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("to both")
	flush()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"to both"`)
	assert.Contains(t, buf.String(), "to both")
}

func TestToWriterAndRedirect(t *testing.T) {
	var buf bytes.Buffer
	l, flush := New(Options{Level: "debug", JSON: true, Out: zapcore.AddSync(&buf)})

	_, _ = fmt.Fprintln(ToWriter(l, zapcore.InfoLevel), "[GIN-debug] listening")
	undo := RedirectStdLog(l, zapcore.WarnLevel)
	log.Print("from std log")
	undo()
	flush()

	out := buf.String()
	assert.Contains(t, out, `"msg":"[GIN-debug] listening"`)
	assert.Contains(t, out, `"msg":"from std log"`)
	assert.Contains(t, out, `"level":"warn"`)
}
