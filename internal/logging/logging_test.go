package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhle/todo-way/internal/model"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todoway.log")
	l, err := New(model.LogConfig{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	Component(l, "store").Info("hello")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"hello"`) || !strings.Contains(out, `"component":"store"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoway.log")
	l, err := New(model.LogConfig{Level: "warn", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Info("dropped")
	l.Warn("kept")
	_ = l.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "dropped") || !strings.Contains(string(data), "kept") {
		t.Fatalf("unexpected log output: %s", data)
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	if _, err := New(model.LogConfig{Level: "loud", Format: "console", Output: "stderr"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestComponentNilLogger(t *testing.T) {
	if Component(nil, "x") == nil {
		t.Fatalf("expected a no-op logger")
	}
}

func TestDetachedRedirectsTerminalOutput(t *testing.T) {
	dir := t.TempDir()
	for _, out := range []string{"", "stderr", "stdout"} {
		cfg := Detached(model.LogConfig{Level: "warn", Format: "console", Output: out}, dir)
		if cfg.Output != filepath.Join(dir, "todoway.log") {
			t.Errorf("%q: expected file output, got %q", out, cfg.Output)
		}
		if cfg.Level != "warn" || cfg.Format != "console" {
			t.Errorf("%q: level or format changed: %+v", out, cfg)
		}
	}

	file := filepath.Join(dir, "custom.log")
	if got := Detached(model.LogConfig{Output: file}, dir).Output; got != file {
		t.Fatalf("file output should be kept, got %q", got)
	}
}

func TestDetachedLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New(Detached(model.LogConfig{Level: "warn", Format: "json", Output: "stderr"}, dir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Warn("load failed")
	_ = l.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "todoway.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "load failed") {
		t.Fatalf("warning not in log file: %s", data)
	}
}
