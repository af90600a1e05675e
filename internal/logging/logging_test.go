package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesLogfmt(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, "debug")
	l.Debug("fetch todos", "status", 200)

	out := buf.String()
	if !strings.Contains(out, "fetch todos") || !strings.Contains(out, "status=200") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, "error")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at error level; got %q", buf.String())
	}
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	t.Parallel()

	l, c, err := Open("", "debug")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()
	l.Info("nowhere")
}

func TestOpen_AppendsToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	l, c, err := Open(path, "debug")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Warn("auth check failed", "err", "boom")
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "auth check failed") {
		t.Fatalf("expected message in log file; got %q", string(b))
	}
}
