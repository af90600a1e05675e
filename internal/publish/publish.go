package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"todo-cli/internal/model"
)

const listFileName = "todos.md"

type WriteOptions struct {
	Render    RenderOptions
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written" yaml:"written"`
	Count   int      `json:"count" yaml:"count"`
}

// WriteList renders todos into <toDir>/todos.md.
func WriteList(todos []model.Todo, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	outPath := filepath.Join(toDir, listFileName)
	md := RenderListMarkdown(todos, opt.Render)
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}, Count: len(todos)}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
