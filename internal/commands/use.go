package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/todo"
)

func init() {
	Register(&UseCmd{})
}

// UseCmd selects a task list by title or id. The selection persists
// across sessions by id.
type UseCmd struct{}

func (c *UseCmd) Name() string       { return "use" }
func (c *UseCmd) Aliases() []string  { return []string{"select"} }
func (c *UseCmd) Synopsis() string   { return "Select the task list to work with" }
func (c *UseCmd) Usage() string      { return "mstodo use [common flags] <list-name-or-id>" }
func (c *UseCmd) NeedsService() bool { return true }

func (c *UseCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UseCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	// Refresh the stored lists first so a freshly created remote list is
	// selectable without a separate lists invocation.
	if _, err := orch.LoadAvailableTaskLists(ctx); err != nil {
		return fail(errOut, err)
	}
	if err := orch.SelectTaskList(name); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "using %s\n", orch.Settings().SelectedTaskListTitle)
	}
	return exitcode.Success
}
