package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nainya/ftsconfig/pkg/config"
	"github.com/nainya/ftsconfig/pkg/settings"
)

var (
	_ config.Logger   = (*Logger)(nil)
	_ config.Observer = (*ConfigObserver)(nil)
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Failed to decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestWarnWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Output: &buf})

	l.Warn("Couldn't find config file", map[string]any{"path": "/srv/a.config"})

	entry := decodeLine(t, &buf)
	if entry["level"] != "warn" {
		t.Errorf("Expected level warn, got %v", entry["level"])
	}
	if entry["path"] != "/srv/a.config" {
		t.Errorf("Expected path field, got %v", entry["path"])
	}
	if entry["service"] != "ftsconfig" {
		t.Errorf("Expected service field, got %v", entry["service"])
	}
}

func TestErrorWritesCause(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Output: &buf})

	l.Error(errors.New("disk full"), "Error saving config", nil)

	entry := decodeLine(t, &buf)
	if entry["level"] != "error" {
		t.Errorf("Expected level error, got %v", entry["level"])
	}
	if entry["error"] != "disk full" {
		t.Errorf("Expected error field, got %v", entry["error"])
	}
	if entry["message"] != "Error saving config" {
		t.Errorf("Expected message, got %v", entry["message"])
	}
}

func TestLevelFiltersWarnings(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "error", Output: &buf})

	l.Warn("ignored", nil)
	if buf.Len() != 0 {
		t.Errorf("Expected warn to be filtered at error level, got %q", buf.String())
	}
}

func TestLogConfigOperation(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Output: &buf}).StoreLogger("/srv/a.config")

	l.LogConfigOperation("save", 5*time.Millisecond, errors.New("denied"))

	entry := decodeLine(t, &buf)
	if entry["operation"] != "save" || entry["component"] != "config" {
		t.Errorf("Unexpected entry: %v", entry)
	}
	if entry["path"] != "/srv/a.config" {
		t.Errorf("Expected store path on sub-logger, got %v", entry["path"])
	}
}

func TestConfigObserverLogsOperations(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Output: &buf})
	store := config.New(l, config.StaticSettings{}, config.DirResolver(t.TempDir()),
		config.WithObserver(NewConfigObserver(l)))

	if !store.Save() {
		t.Fatal("Save failed")
	}

	var ops []string
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("Failed to decode log line %q: %v", line, err)
		}
		if op, ok := entry["operation"].(string); ok {
			ops = append(ops, op)
		}
	}
	if len(ops) != 2 || ops[0] != config.OperationLoad || ops[1] != config.OperationSave {
		t.Errorf("Expected load then save operations, got %v", ops)
	}
}

func TestConfigObserverLogsSettingsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	obs := NewConfigObserver(NewLogger(Config{Level: "debug", Output: &buf}))

	s := settings.Defaults()
	s.XPathsToRemove = []string{"//a", "//b"}
	obs.ObserveSettings(s)

	entry := decodeLine(t, &buf)
	if entry["level"] != "debug" || entry["xpaths_to_remove"] != float64(2) {
		t.Errorf("Unexpected entry: %v", entry)
	}

	buf.Reset()
	NewConfigObserver(NewLogger(Config{Level: "info", Output: &buf})).ObserveSettings(s)
	if buf.Len() != 0 {
		t.Errorf("Expected settings log to be filtered at info level, got %q", buf.String())
	}
}
