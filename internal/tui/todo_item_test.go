package tui

import (
	"strings"
	"testing"

	"todo-cli/internal/i18n"
	"todo-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestTodoItemView_RendersStatus(t *testing.T) {
	cases := []struct {
		status model.Status
		box    string
		badge  string
	}{
		{model.StatusTodo, "[ ]", "(todo)"},
		{model.StatusDoing, "[ ]", "(doing)"},
		{model.StatusDone, "[x]", "(done)"},
	}
	for _, tc := range cases {
		v := todoItemView{
			todo:  model.Todo{ID: 1, Title: "Task", Status: tc.status},
			width: 40,
			msgs:  i18n.Default(),
		}
		out := v.Render()
		if !strings.Contains(out, tc.box) || !strings.Contains(out, tc.badge) {
			t.Fatalf("%s: expected %s and %s, got %q", tc.status, tc.box, tc.badge, out)
		}
		if w := xansi.StringWidth(out); w != 40 {
			t.Fatalf("%s: expected width 40, got %d", tc.status, w)
		}
	}
}

func TestTodoItemView_LongTitleTruncated(t *testing.T) {
	v := todoItemView{
		todo:     model.Todo{ID: 1, Title: strings.Repeat("long ", 30), Status: model.StatusTodo},
		width:    30,
		selected: true,
		msgs:     i18n.Default(),
	}
	out := v.Render()
	if !strings.Contains(out, "…") || xansi.StringWidth(out) != 30 {
		t.Fatalf("expected truncated row of width 30, got %q", out)
	}
	if !strings.Contains(out, "›") {
		t.Fatalf("expected cursor marker on selected row")
	}
}

func TestTodoItemView_EditingShowsHint(t *testing.T) {
	v := todoItemView{
		todo:     model.Todo{ID: 1, Title: "Task", Status: model.StatusTodo},
		editing:  true,
		editView: "Task",
		width:    60,
		msgs:     i18n.Default(),
	}
	if out := v.Render(); !strings.Contains(out, "enter: save") {
		t.Fatalf("expected edit hint, got %q", out)
	}
	v.saving = true
	if out := v.Render(); !strings.Contains(out, "Saving...") {
		t.Fatalf("expected saving hint, got %q", out)
	}
}

func TestItemActionFor(t *testing.T) {
	keys := defaultKeyMap()
	cases := []struct {
		msg     tea.KeyMsg
		editing bool
		want    itemAction
	}{
		{runes("x"), false, itemActionToggle},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, false, itemActionToggle},
		{runes("e"), false, itemActionEdit},
		{keyEnter, false, itemActionEdit},
		{runes("d"), false, itemActionDelete},
		{runes("z"), false, itemActionNone},
		{keyEnter, true, itemActionSave},
		{keyEsc, true, itemActionCancel},
		{runes("d"), true, itemActionNone},
	}
	for _, tc := range cases {
		if got := itemActionFor(tc.msg, tc.editing, keys); got != tc.want {
			t.Fatalf("%q editing=%v: expected %v, got %v", tc.msg.String(), tc.editing, tc.want, got)
		}
	}
}

func TestConfirmModal_FocusMarker(t *testing.T) {
	out := renderConfirmModal(80, "Delete this task?", "Trash", "Delete", "Cancel", confirmFocusCancel)
	if !strings.Contains(out, "> Cancel") || strings.Contains(out, "> Delete") {
		t.Fatalf("expected cancel focused, got:\n%s", out)
	}
	if confirmFocusCancel.toggled() != confirmFocusConfirm {
		t.Fatalf("expected toggle to confirm")
	}
}

func TestFitLine(t *testing.T) {
	if got := fitLine("abc", 5); got != "abc  " {
		t.Fatalf("expected padding, got %q", got)
	}
	if got := fitLine("abcdef", 4); got != "abc…" {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if got := fitLine("a\nb", 3); got != "a b" {
		t.Fatalf("expected newline flattened, got %q", got)
	}
	if contentWidth(0) != maxContentWidth || contentWidth(10) != minContentWidth {
		t.Fatalf("unexpected content width bounds")
	}
}
