package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"todo-cli/internal/model"
)

type RenderOptions struct {
	// Title heads the document; empty means "Todos".
	Title string
	// GroupByStatus writes one section per status instead of a single checklist.
	GroupByStatus bool
	// Now stamps the export; zero omits the line.
	Now time.Time
}

// RenderListMarkdown renders todos as a GitHub-style task list. Order is
// kept as the backend returned it.
func RenderListMarkdown(todos []model.Todo, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Todos"
	}
	writeLn("# " + title)
	writeLn("")
	if !opt.Now.IsZero() {
		writeLn("_Exported " + opt.Now.UTC().Format(time.RFC3339) + "_")
		writeLn("")
	}

	if len(todos) == 0 {
		writeLn("No tasks.")
		return buf.String()
	}

	if !opt.GroupByStatus {
		for _, t := range todos {
			writeLn(taskLine(t))
		}
		return buf.String()
	}

	for _, st := range model.Statuses {
		var group []model.Todo
		for _, t := range todos {
			if t.Status == st {
				group = append(group, t)
			}
		}
		if len(group) == 0 {
			continue
		}
		writeLn(fmt.Sprintf("## %s (%d)", st, len(group)))
		writeLn("")
		for _, t := range group {
			writeLn(taskLine(t))
		}
		writeLn("")
	}
	return strings.TrimRight(buf.String(), "\n") + "\n"
}

func taskLine(t model.Todo) string {
	box := "[ ]"
	if t.Done() {
		box = "[x]"
	}
	title := strings.ReplaceAll(strings.TrimSpace(t.Title), "\n", " ")
	line := fmt.Sprintf("- %s %s", box, title)
	if t.Status == model.StatusDoing {
		line += " _(doing)_"
	}
	return line + fmt.Sprintf(" <!-- id:%d -->", t.ID)
}
