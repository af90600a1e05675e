package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"todo-cli/internal/model"
	"todo-cli/internal/store"
	"todo-cli/internal/testutil"
)

type cliEnv struct {
	t       *testing.T
	dir     string
	backend *testutil.Backend
	srv     *httptest.Server
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	return newCLIEnvWithDelay(t, "0s")
}

// newCLIEnvWithDelay stores session_delay in config.toml before any command runs.
func newCLIEnvWithDelay(t *testing.T, delay string) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	if err := store.SaveConfigTo(dir, &store.Config{SessionDelay: delay}); err != nil {
		t.Fatalf("seed config: %v", err)
	}
	b := testutil.NewBackend()
	return &cliEnv{t: t, dir: dir, backend: b, srv: b.Start(t)}
}

func runCLI(t *testing.T, args []string, stdin io.Reader) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	if stdin != nil {
		cmd.SetIn(stdin)
	} else {
		cmd.SetIn(strings.NewReader(""))
	}
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func (e *cliEnv) args(args ...string) []string {
	return append([]string{"--config-dir", e.dir, "--api-url", e.srv.URL}, args...)
}

func (e *cliEnv) run(stdin string, args ...string) ([]byte, []byte, error) {
	e.t.Helper()
	var in io.Reader
	if stdin != "" {
		in = strings.NewReader(stdin)
	}
	return runCLI(e.t, e.args(args...), in)
}

// mustRun runs a command that must succeed and decodes the data field of
// its JSON envelope into out.
func (e *cliEnv) mustRun(out any, args ...string) {
	e.t.Helper()
	stdout, stderr, err := e.run("", args...)
	if err != nil {
		e.t.Fatalf("command failed: todo %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(stdout, &env); err != nil {
		e.t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, args)
	}
	if len(env.Data) == 0 {
		e.t.Fatalf("expected JSON envelope to contain data key; stdout:\n%s", stdout)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			e.t.Fatalf("decode data: %v\n%s", err, env.Data)
		}
	}
}

func (e *cliEnv) login() {
	e.t.Helper()
	e.backend.SeedUser("a@example.com", "secret1", "A")
	var sess model.Session
	e.mustRun(&sess, "login", "--email", "a@example.com", "--password", "secret1")
	if sess.User.Email != "a@example.com" {
		e.t.Fatalf("unexpected session: %#v", sess)
	}
}

func TestCLI_TaskLifecycle(t *testing.T) {
	e := newCLIEnv(t)
	e.login()

	var list []model.Todo
	e.mustRun(&list, "list")
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %#v", list)
	}

	var created model.Todo
	e.mustRun(&created, "add", "Buy", "milk")
	if created.Title != "Buy milk" || created.Status != model.StatusTodo || created.ID == 0 {
		t.Fatalf("unexpected created task: %#v", created)
	}
	id := fmt.Sprint(created.ID)

	e.mustRun(&list, "list")
	if len(list) != 1 || list[0].Title != "Buy milk" {
		t.Fatalf("expected the new task once, got %#v", list)
	}

	var updated model.Todo
	e.mustRun(&updated, "toggle", id)
	if updated.Status != model.StatusDone {
		t.Fatalf("expected done after toggle, got %q", updated.Status)
	}
	e.mustRun(&updated, "toggle", id)
	if updated.Status != model.StatusTodo {
		t.Fatalf("expected todo after second toggle, got %q", updated.Status)
	}

	e.mustRun(&updated, "set-status", id, "doing")
	if updated.Status != model.StatusDoing {
		t.Fatalf("expected doing, got %q", updated.Status)
	}
	e.mustRun(&updated, "edit", id, "--title", "Buy oat milk")
	if updated.Title != "Buy oat milk" || updated.Status != model.StatusDoing {
		t.Fatalf("expected title change with status kept, got %#v", updated)
	}

	e.mustRun(&list, "list", "--status", "done")
	if len(list) != 0 {
		t.Fatalf("expected status filter to exclude the task, got %#v", list)
	}

	var del struct {
		Deleted bool `json:"deleted"`
	}
	e.mustRun(&del, "rm", "--yes", id)
	if !del.Deleted {
		t.Fatalf("expected deleted")
	}
	if got := e.backend.Todos("a@example.com"); len(got) != 0 {
		t.Fatalf("expected backend empty, got %#v", got)
	}
}

func TestCLI_RmAsksForConfirmation(t *testing.T) {
	e := newCLIEnv(t)
	e.login()
	todo := e.backend.SeedTodo("a@example.com", "Trash", model.StatusTodo)
	id := fmt.Sprint(todo.ID)

	stdout, stderr, err := e.run("n\n", "rm", id)
	if err != nil {
		t.Fatalf("rm: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), `"deleted":false`) {
		t.Fatalf("expected not deleted, got %s", stdout)
	}
	if !strings.Contains(string(stderr), "Delete this task?") {
		t.Fatalf("expected prompt on stderr, got %q", stderr)
	}
	if e.backend.CallCount("DELETE /users/"+id) != 0 {
		t.Fatalf("expected no delete request")
	}

	if _, stderr, err := e.run("y\n", "rm", id); err != nil {
		t.Fatalf("rm: %v\n%s", err, stderr)
	}
	if e.backend.CallCount("DELETE /users/"+id) != 1 {
		t.Fatalf("expected one delete request")
	}
}

func TestCLI_LoginPromptsForMissingValues(t *testing.T) {
	e := newCLIEnv(t)
	e.backend.SeedUser("p@example.com", "secret1", "P")

	stdout, stderr, err := e.run("p@example.com\nsecret1\n", "login")
	if err != nil {
		t.Fatalf("login: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), "p@example.com") {
		t.Fatalf("expected session output, got %s", stdout)
	}
}

func TestCLI_SignupDefaultsNameAndValidates(t *testing.T) {
	e := newCLIEnv(t)

	_, stderr, err := e.run("", "login", "--signup", "--email", "new@example.com", "--password", "123")
	if ExitCode(err) != exitUser {
		t.Fatalf("expected user error for short password, got %d (%v)", ExitCode(err), err)
	}
	if !strings.Contains(string(stderr), "at least 6") {
		t.Fatalf("expected password message, got %q", stderr)
	}

	var sess model.Session
	e.mustRun(&sess, "login", "--signup", "--email", "new.user@example.com", "--password", "secret1")
	if sess.User.Name != "new.user" {
		t.Fatalf("expected name from email, got %q", sess.User.Name)
	}

	_, stderr, err = e.run("", "login", "--signup", "--email", "new.user@example.com", "--password", "secret1")
	if ExitCode(err) != exitAuth || !strings.Contains(string(stderr), "User already exists") {
		t.Fatalf("expected duplicate sign-up rejection, code=%d stderr=%q", ExitCode(err), stderr)
	}
}

func TestCLI_WrongPassword(t *testing.T) {
	e := newCLIEnv(t)
	e.backend.SeedUser("a@example.com", "secret1", "A")

	_, stderr, err := e.run("", "login", "--email", "a@example.com", "--password", "wrongpass")
	if ExitCode(err) != exitAuth {
		t.Fatalf("expected exit %d, got %d (%v)", exitAuth, ExitCode(err), err)
	}
	if !strings.Contains(string(stderr), "Invalid email or password") {
		t.Fatalf("expected server message, got %q", stderr)
	}
	if !isReported(err) {
		t.Fatalf("expected error already reported")
	}
}

func TestCLI_SessionMissingAfterLogin(t *testing.T) {
	e := newCLIEnv(t)
	e.backend.SeedUser("a@example.com", "secret1", "A")
	e.backend.NoSessionAfterSignIn = true

	_, stderr, err := e.run("", "login", "--email", "a@example.com", "--password", "secret1")
	if ExitCode(err) != exitAuth || !strings.Contains(string(stderr), "session could not be retrieved") {
		t.Fatalf("expected session-missing failure, code=%d stderr=%q", ExitCode(err), stderr)
	}
}

func TestCLI_LogoutAndAuthRequired(t *testing.T) {
	e := newCLIEnv(t)
	e.login()

	var sess model.Session
	e.mustRun(&sess, "whoami")

	e.mustRun(nil, "logout")

	_, stderr, err := e.run("", "whoami")
	if ExitCode(err) != exitAuth {
		t.Fatalf("expected auth exit after logout, got %d (%v)", ExitCode(err), err)
	}
	if !strings.Contains(string(stderr), "todo login") {
		t.Fatalf("expected login hint, got %q", stderr)
	}

	_, stderr, err = e.run("", "list")
	if ExitCode(err) != exitAuth || !strings.Contains(string(stderr), "Authentication required") {
		t.Fatalf("expected 401 to map to auth exit, code=%d stderr=%q", ExitCode(err), stderr)
	}
}

func TestCLI_ExpiredSessionIsAuthError(t *testing.T) {
	e := newCLIEnv(t)
	e.login()
	e.backend.ExpireSessions()

	_, _, err := e.run("", "add", "Late")
	if ExitCode(err) != exitAuth {
		t.Fatalf("expected auth exit, got %d (%v)", ExitCode(err), err)
	}
}

func TestCLI_BackendErrors(t *testing.T) {
	e := newCLIEnv(t)
	e.login()

	e.backend.Override("POST /users", 500, `{"success":false,"error":"Database unavailable"}`)
	_, stderr, err := e.run("", "add", "Anything")
	if ExitCode(err) != exitBackend {
		t.Fatalf("expected backend exit, got %d (%v)", ExitCode(err), err)
	}
	if !strings.Contains(string(stderr), "Database unavailable") {
		t.Fatalf("expected backend message, got %q", stderr)
	}
	e.backend.ClearOverride("POST /users")

	_, _, err = e.run("", "toggle", "999")
	if ExitCode(err) != exitUser {
		t.Fatalf("expected not-found user error, got %d (%v)", ExitCode(err), err)
	}

	// A 2xx the client cannot decode is still the backend's fault.
	e.backend.Override("GET /users", 200, "<html>gateway</html>")
	_, stderr, err = e.run("", "list")
	if ExitCode(err) != exitBackend {
		t.Fatalf("expected backend exit for undecodable list, got %d (%v)", ExitCode(err), err)
	}
	if !strings.Contains(string(stderr), "HTTP error! status: 200") {
		t.Fatalf("expected localized fallback, got %q", stderr)
	}
}

func TestCLI_LoginWaitsSessionDelay(t *testing.T) {
	e := newCLIEnvWithDelay(t, "150ms")
	e.backend.SeedUser("a@example.com", "secret1", "A")

	start := time.Now()
	var sess model.Session
	e.mustRun(&sess, "login", "--email", "a@example.com", "--password", "secret1")
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Fatalf("expected login to wait the session delay, took %v", elapsed)
	}
	if sess.User.Email != "a@example.com" {
		t.Fatalf("unexpected session: %#v", sess)
	}
}

func TestCLI_Unreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, stderr, err := runCLI(t, []string{"--config-dir", t.TempDir(), "--api-url", url, "list"}, nil)
	if ExitCode(err) != exitBackend {
		t.Fatalf("expected backend exit, got %d (%v)", ExitCode(err), err)
	}
	if !strings.Contains(string(stderr), "Cannot connect") {
		t.Fatalf("expected connectivity message, got %q", stderr)
	}
}

func TestCLI_TextAndYAMLFormats(t *testing.T) {
	e := newCLIEnv(t)
	e.login()
	e.backend.SeedTodo("a@example.com", "Read book", model.StatusDone)

	stdout, stderr, err := e.run("", "--format", "text", "list")
	if err != nil {
		t.Fatalf("list text: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), "Read book") || !strings.Contains(string(stdout), "[x] done") {
		t.Fatalf("expected table row, got:\n%s", stdout)
	}

	stdout, stderr, err = e.run("", "--format", "yaml", "list")
	if err != nil {
		t.Fatalf("list yaml: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), "data:") || !strings.Contains(string(stdout), "title: Read book") {
		t.Fatalf("expected yaml envelope, got:\n%s", stdout)
	}

	_, _, err = e.run("", "--format", "edn", "list")
	if ExitCode(err) != exitUser {
		t.Fatalf("expected unknown format to be a user error, got %d", ExitCode(err))
	}
}

func TestCLI_InvalidArgs(t *testing.T) {
	e := newCLIEnv(t)

	for _, args := range [][]string{
		{"toggle", "abc"},
		{"set-status", "1", "blocked"},
		{"add", "  "},
		{"list", "--status", "nope"},
	} {
		_, _, err := e.run("", args...)
		if err == nil || ExitCode(err) != exitUser {
			t.Fatalf("todo %v: expected user error, got %v", args, err)
		}
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	e := newCLIEnv(t)

	stdout, stderr, err := runCLI(t, []string{"--config-dir", e.dir, "config", "set", "api_base_url", "https://todo.example.com/"}, nil)
	if err != nil {
		t.Fatalf("config set: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), "https://todo.example.com") {
		t.Fatalf("unexpected output: %s", stdout)
	}
	if _, err := os.Stat(filepath.Join(e.dir, "config.toml")); err != nil {
		t.Fatalf("expected config.toml: %v", err)
	}

	var show struct {
		Effective map[string]any `json:"effective"`
	}
	stdout, _, err = runCLI(t, []string{"--config-dir", e.dir, "config", "show"}, nil)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(stdout, &env); err != nil || json.Unmarshal(env.Data, &show) != nil {
		t.Fatalf("decode config show: %s", stdout)
	}
	if show.Effective["apiBaseUrl"] != "https://todo.example.com" {
		t.Fatalf("expected stored base url, got %#v", show.Effective)
	}

	// The flag wins over the file.
	stdout, _, _ = runCLI(t, []string{"--config-dir", e.dir, "--api-url", "http://flag:1", "config", "show"}, nil)
	if !strings.Contains(string(stdout), "http://flag:1") {
		t.Fatalf("expected flag override, got %s", stdout)
	}

	_, _, err = runCLI(t, []string{"--config-dir", e.dir, "config", "set", "format", "edn"}, nil)
	if ExitCode(err) != exitUser {
		t.Fatalf("expected invalid value rejected, got %v", err)
	}
}

func TestCLI_Export(t *testing.T) {
	e := newCLIEnv(t)
	e.login()
	e.backend.SeedTodo("a@example.com", "Ship it", model.StatusDone)
	out := filepath.Join(t.TempDir(), "export")

	e.mustRun(nil, "export", "--to", out)
	b, err := os.ReadFile(filepath.Join(out, "todos.md"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(b), "- [x] Ship it") {
		t.Fatalf("unexpected export:\n%s", b)
	}

	_, _, err = e.run("", "export", "--to", out)
	if ExitCode(err) != exitUser {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
}

func TestCLI_Docs(t *testing.T) {
	stdout, _, err := runCLI(t, []string{"--config-dir", t.TempDir(), "docs", "keys", "--raw"}, nil)
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# Keys") {
		t.Fatalf("expected raw markdown, got %q", stdout)
	}

	stdout, _, err = runCLI(t, []string{"--config-dir", t.TempDir(), "docs", "login"}, nil)
	if err != nil {
		t.Fatalf("docs render: %v", err)
	}
	if !strings.Contains(string(stdout), "Logging in") {
		t.Fatalf("expected rendered doc, got %q", stdout)
	}

	_, _, err = runCLI(t, []string{"--config-dir", t.TempDir(), "docs", "nope"}, nil)
	if ExitCode(err) != exitUser {
		t.Fatalf("expected unknown topic user error")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	if ExitCode(nil) != exitOK {
		t.Fatalf("nil should be success")
	}
	if ExitCode(fmt.Errorf("plain")) != exitUser {
		t.Fatalf("plain errors are user errors")
	}
	if ExitCode(reportedError{err: notLoggedInError{msg: "x"}}) != exitAuth {
		t.Fatalf("expected wrapped not-logged-in to be auth")
	}
}
