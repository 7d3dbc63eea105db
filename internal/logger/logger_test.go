package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	Info("response", map[string]any{"status": 201, "path": "/api/companies"})

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log line is not JSON: %v; raw=%s", err, buf.String())
	}
	if line["msg"] != "response" || line["level"] != "info" {
		t.Fatalf("unexpected envelope: %v", line)
	}
	if _, ok := line["ts"]; !ok {
		t.Fatalf("missing ts: %v", line)
	}
	if line["status"] != float64(201) {
		t.Fatalf("missing field: %v", line)
	}
}

func TestDebugSuppressedUntilEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})
	defer SetDebug(false)

	Debug("sql", nil)
	if buf.Len() != 0 {
		t.Fatalf("debug written while disabled: %s", buf.String())
	}
	SetDebug(true)
	Debug("sql", map[string]any{"args": []any{1}})
	if !strings.Contains(buf.String(), `"level":"debug"`) {
		t.Fatalf("debug line missing: %s", buf.String())
	}
}
