package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/todo"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd pushes a single task. Creation is skipped when a task with the
// same title already exists remotely.
type AddCmd struct {
	due string
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "mstodo add [common flags] [--due YYYY-MM-DD] <title...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	var due *time.Time
	if c.due != "" {
		parsed, err := time.Parse("2006-01-02", c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid due date: %s\n", c.due)
			return exitcode.UserError
		}
		due = &parsed
	}

	if err := orch.PushOneTask(ctx, title, due); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
