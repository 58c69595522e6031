package commands_test

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mstodo/internal/commands"
	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/service"
	"mstodo/internal/testutil"
	"mstodo/internal/todo"
)

// newOrch builds an orchestrator over a FakeService with "list-1"
// pre-selected and in-memory settings.
func newOrch(svc *testutil.FakeService) *todo.Orchestrator {
	settings := config.DefaultSettings("")
	settings.SelectedTaskListID = "list-1"
	settings.SelectedTaskListTitle = "Tasks"
	settings.TaskLists = []service.TaskList{{ID: "list-1", Title: "Tasks"}}
	return todo.New(svc, nil, nil, settings, nil)
}

// newFlagSet builds the flag set the dispatcher would hand the command.
func newFlagSet(cmd commands.Command) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	return fs
}

// runCommand runs a command with the given orchestrator.
func runCommand(t *testing.T, cmd commands.Command, orch *todo.Orchestrator, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}
	code = cmd.Run(context.Background(), cfg, orch, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "mstodo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("help output should contain 'Usage:'")
	}
}

func TestListsCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("list-2", "Groceries")

	stdout, stderr, code := runCommand(t, &commands.ListsCmd{}, newOrch(svc), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "Tasks [selected]\nGroceries\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestTasksCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("list-1", "Buy milk", service.StatusNotStarted)
	svc.AddTask("list-1", "Call mom", service.StatusCompleted)

	stdout, _, code := runCommand(t, &commands.TasksCmd{}, newOrch(svc), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "Tasks [selected]") {
		t.Errorf("expected list header, got %q", stdout)
	}
	if !strings.Contains(stdout, "[ ]  Buy milk") {
		t.Errorf("expected open task line, got %q", stdout)
	}
	// showComplete defaults to true.
	if !strings.Contains(stdout, "[x]  Call mom") {
		t.Errorf("expected completed task line, got %q", stdout)
	}
}

func TestTasksCommand_OpenFlagHidesCompleted(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("list-1", "Open one", service.StatusNotStarted)
	svc.AddTask("list-1", "Done one", service.StatusCompleted)

	var outBuf, errBuf bytes.Buffer
	cmd := &commands.TasksCmd{}
	// Parse through the flag set the dispatcher would build.
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--open"}); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{Dir: t.TempDir()}
	code := cmd.Run(context.Background(), cfg, newOrch(svc), fs.Args(), &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if strings.Contains(outBuf.String(), "Done one") {
		t.Errorf("completed task should be hidden with --open, got %q", outBuf.String())
	}
	if !strings.Contains(outBuf.String(), "Open one") {
		t.Errorf("open task missing, got %q", outBuf.String())
	}
}

func TestTasksCommand_AllAndOpenConflict(t *testing.T) {
	cmd := &commands.TasksCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--all", "--open"}); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}
	code := cmd.Run(context.Background(), cfg, newOrch(testutil.NewFakeService()), fs.Args(), &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
}

func TestTasksCommand_NoListSelected(t *testing.T) {
	orch := todo.New(testutil.NewFakeService(), nil, nil, config.DefaultSettings(""), nil)

	_, stderr, code := runCommand(t, &commands.TasksCmd{}, orch, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "no task list selected") {
		t.Errorf("expected selection hint, got %q", stderr)
	}
}

func TestUseCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList("list-2", "Groceries")
	orch := newOrch(svc)

	stdout, stderr, code := runCommand(t, &commands.UseCmd{}, orch, []string{"Groceries"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "using Groceries\n" {
		t.Errorf("expected selection confirmation, got %q", stdout)
	}
	if orch.Settings().SelectedTaskListID != "list-2" {
		t.Errorf("expected list-2 selected, got %q", orch.Settings().SelectedTaskListID)
	}
}

func TestUseCommand_MissingArgument(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.UseCmd{}, newOrch(testutil.NewFakeService()), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "list name required") {
		t.Errorf("expected usage error, got %q", stderr)
	}
}

func TestUseCommand_UnknownList(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.UseCmd{}, newOrch(testutil.NewFakeService()), []string{"nope"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "not found") {
		t.Errorf("expected not-found error, got %q", stderr)
	}
}

func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, newOrch(svc), []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	tasks := svc.RawTasks("list-1")
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Errorf("expected one task titled 'Buy milk', got %+v", tasks)
	}
}

func TestAddCommand_ExistingTitleIsNoop(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("list-1", "Buy milk", service.StatusNotStarted)

	_, _, code := runCommand(t, &commands.AddCmd{}, newOrch(svc), []string{"Buy milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if svc.CreateCalls != 0 {
		t.Errorf("expected no create for duplicate title, got %d", svc.CreateCalls)
	}
}

func TestAddCommand_InvalidDueDate(t *testing.T) {
	cmd := &commands.AddCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--due", "not-a-date", "X"}); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}
	code := cmd.Run(context.Background(), cfg, newOrch(testutil.NewFakeService()), fs.Args(), &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(errBuf.String(), "invalid due date") {
		t.Errorf("expected due date error, got %q", errBuf.String())
	}
}

func TestDoneCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("list-1", "Buy milk", service.StatusNotStarted)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, newOrch(svc), []string{"Buy milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "completed\n" {
		t.Errorf("expected completed, got %q", stdout)
	}
}

func TestDoneCommand_Confetti(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("list-1", "Buy milk", service.StatusNotStarted)
	orch := newOrch(svc)
	orch.Settings().EnableConfetti = true

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, orch, []string{"Buy milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "completed 🎉\n" {
		t.Errorf("expected confetti, got %q", stdout)
	}
}

func TestDoneCommand_ReopensCompleted(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("list-1", "Buy milk", service.StatusCompleted)

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, newOrch(svc), []string{"Buy milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "reopened\n" {
		t.Errorf("expected reopened, got %q", stdout)
	}
}

func TestDoneCommand_NotFound(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, newOrch(testutil.NewFakeService()), []string{"ghost"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "not found") {
		t.Errorf("expected not-found error, got %q", stderr)
	}
}

func TestCleanCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("list-1", "A", service.StatusCompleted)
	svc.AddTask("list-1", "B", service.StatusNotStarted)
	svc.AddTask("list-1", "C", service.StatusCompleted)

	stdout, _, code := runCommand(t, &commands.CleanCmd{}, newOrch(svc), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "deleted 2 task(s)\n" {
		t.Errorf("expected deletion count, got %q", stdout)
	}
}

func TestPushCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	notePath := filepath.Join(t.TempDir(), "today.md")
	if err := os.WriteFile(notePath, []byte("- [ ] A\n- [x] B\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCommand(t, &commands.PushCmd{}, newOrch(svc), []string{notePath}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "created 2 task(s)\n" {
		t.Errorf("expected created count, got %q", stdout)
	}
}

func TestPushCommand_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.md")

	_, stderr, code := runCommand(t, &commands.PushCmd{}, newOrch(testutil.NewFakeService()), []string{missing}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr == "" {
		t.Error("expected an error message")
	}
}

func TestPushCommand_NoArgument(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.PushCmd{}, newOrch(testutil.NewFakeService()), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "note file required") {
		t.Errorf("expected usage error, got %q", stderr)
	}
}

func TestGatherCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.md"), []byte("- [ ] One\n- [x] Two\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, code := runCommand(t, &commands.GatherCmd{}, newOrch(testutil.NewFakeService()), []string{dir}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "- [ ] One\n- [x] Two\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestGatherCommand_EmptyDirectory(t *testing.T) {
	_, _, code := runCommand(t, &commands.GatherCmd{}, newOrch(testutil.NewFakeService()), []string{t.TempDir()}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
}

func TestRenameCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	orch := newOrch(svc)

	stdout, stderr, code := runCommand(t, &commands.RenameCmd{}, orch, []string{"Inbox"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if orch.Settings().SelectedTaskListTitle != "Inbox" {
		t.Errorf("expected settings title updated, got %q", orch.Settings().SelectedTaskListTitle)
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected not logged in, got %q", stdout)
	}
}

func TestLogoutCommand_RemovesTokenCache(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}
	if err := os.WriteFile(cfg.TokenCachePath(), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := &commands.LogoutCmd{}
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if cfg.HasTokenCache() {
		t.Error("token cache should be gone after logout")
	}
}

func TestQuietSuppressesConfirmation(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, newOrch(svc), []string{"X"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output with --quiet, got %q", stdout)
	}
}
