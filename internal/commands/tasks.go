package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/output"
	"mstodo/internal/todo"
)

func init() {
	Register(&TasksCmd{})
}

// TasksCmd prints the tasks of the selected list. Completed tasks are
// shown or hidden per the showComplete setting; --all and --open
// override it for one invocation.
type TasksCmd struct {
	all     bool
	open    bool
	refresh bool
}

func (c *TasksCmd) Name() string       { return "tasks" }
func (c *TasksCmd) Aliases() []string  { return []string{"list"} }
func (c *TasksCmd) Synopsis() string   { return "Print tasks from the selected list" }
func (c *TasksCmd) Usage() string      { return "mstodo tasks [common flags] [--all|--open] [--refresh]" }
func (c *TasksCmd) NeedsService() bool { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.all, "all", false, "")
	fs.BoolVar(&c.open, "open", false, "")
	fs.BoolVar(&c.refresh, "refresh", false, "")
}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	if c.all && c.open {
		fmt.Fprintln(errOut, "error: cannot use both --all and --open")
		return exitcode.UserError
	}

	tasks, err := orch.GetTasksFromSelectedList(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	if c.refresh {
		if tasks, err = orch.RefreshTaskCache(ctx); err != nil {
			return fail(errOut, err)
		}
	}

	settings := orch.Settings()
	showComplete := settings.ShowComplete
	if c.all {
		showComplete = true
	}
	if c.open {
		showComplete = false
	}

	output.FormatListHeader(out, settings.SelectedTaskListTitle, true)
	shown := 0
	for _, task := range tasks.Items() {
		if task.Completed() && !showComplete {
			continue
		}
		output.FormatTask(out, task, settings.ShowDueDate)
		shown++
	}
	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks")
	}
	return exitcode.Success
}
