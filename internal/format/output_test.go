package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"todo-cli/internal/model"

	"gopkg.in/yaml.v3"
)

func sample() []model.Todo {
	return []model.Todo{
		{ID: 1, Title: "Buy milk", Status: model.StatusTodo},
		{ID: 2, Title: "Call mom", Status: model.StatusDone},
	}
}

func TestWrite_JSONAndYAMLAgree(t *testing.T) {
	t.Parallel()

	v := map[string]any{"data": sample()}

	var jb bytes.Buffer
	if err := Write(&jb, v, "json", false); err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON struct {
		Data []model.Todo `json:"data"`
	}
	if err := json.Unmarshal(jb.Bytes(), &fromJSON); err != nil {
		t.Fatalf("decode json: %v\n%s", err, jb.String())
	}

	var yb bytes.Buffer
	if err := Write(&yb, v, "yaml", false); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML struct {
		Data []model.Todo `yaml:"data"`
	}
	if err := yaml.Unmarshal(yb.Bytes(), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, yb.String())
	}

	if len(fromJSON.Data) != 2 || len(fromYAML.Data) != 2 || fromYAML.Data[1].Status != model.StatusDone {
		t.Fatalf("unexpected decode: json=%#v yaml=%#v", fromJSON.Data, fromYAML.Data)
	}
}

func TestWrite_PrettyJSONIndents(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	if err := Write(&b, map[string]int{"a": 1}, "", true); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(b.String(), "\n  \"a\": 1") {
		t.Fatalf("expected indented json, got %q", b.String())
	}
}

func TestWriteText_Table(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	if err := Write(&b, sample(), "text", false); err != nil {
		t.Fatalf("text: %v", err)
	}
	out := b.String()
	for _, want := range []string{"ID", "STATUS", "TITLE", "Buy milk", "[x] done", "[ ] todo"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	b.Reset()
	if err := WriteText(&b, []model.Todo{}); err != nil || strings.TrimSpace(b.String()) != "No tasks" {
		t.Fatalf("expected empty note, got %q err=%v", b.String(), err)
	}

	b.Reset()
	sess := &model.Session{User: model.User{Email: "a@example.com", Name: "A"}}
	if err := WriteText(&b, sess); err != nil || strings.TrimSpace(b.String()) != "a@example.com (A)" {
		t.Fatalf("unexpected session line %q err=%v", b.String(), err)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if Valid("edn") || !Valid("YAML") || !Valid("") {
		t.Fatalf("unexpected Valid results")
	}
}
