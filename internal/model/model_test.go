package model

import "testing"

func TestStatusToggled_TwiceReturnsOriginal(t *testing.T) {
	t.Parallel()

	for _, st := range []Status{StatusTodo, StatusDone} {
		if got := st.Toggled().Toggled(); got != st {
			t.Fatalf("toggle twice from %q: got %q", st, got)
		}
	}
	if got := StatusDoing.Toggled(); got != StatusDone {
		t.Fatalf("expected doing to toggle to done; got %q", got)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "todo", want: StatusTodo},
		{in: " DOING ", want: StatusDoing},
		{in: "done", want: StatusDone},
		{in: "finished", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseStatus(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
