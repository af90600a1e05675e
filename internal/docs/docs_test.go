package docs

import (
	"strings"
	"testing"
)

func TestTopicsAndGet(t *testing.T) {
	t.Parallel()

	topics := Topics()
	want := map[string]bool{"config": false, "export": false, "keys": false, "login": false}
	for _, topic := range topics {
		if _, ok := want[topic]; ok {
			want[topic] = true
		}
		if _, ok := Get(topic); !ok {
			t.Fatalf("listed topic %q not readable", topic)
		}
	}
	for topic, seen := range want {
		if !seen {
			t.Fatalf("missing topic %q in %v", topic, topics)
		}
	}

	if _, ok := Get("  KEYS "); !ok {
		t.Fatalf("expected case/space-insensitive lookup")
	}
	if _, ok := Get("../docs"); ok {
		t.Fatalf("expected path-like topics rejected")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("expected unknown topic")
	}
}

func TestTitleAndTUIHelp(t *testing.T) {
	t.Parallel()

	if got := Title("login"); got != "Logging in" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := Title("nope"); got != "nope" {
		t.Fatalf("expected topic name fallback, got %q", got)
	}
	if !strings.Contains(TUIHelp(), "toggle done") {
		t.Fatalf("expected keys doc in TUI help")
	}
}
