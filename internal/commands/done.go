package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/service"
	"mstodo/internal/todo"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd toggles a task's completion by title. The cached copy is
// flipped immediately; the follow-up refresh reconciles with the remote
// state.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string      { return "mstodo done [common flags] <title...>" }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	item, err := orch.ToggleTask(ctx, title)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		if item.Status == service.StatusCompleted {
			msg := "completed"
			if orch.Settings().EnableConfetti {
				msg += " 🎉"
			}
			fmt.Fprintln(out, msg)
		} else {
			fmt.Fprintln(out, "reopened")
		}
	}
	return exitcode.Success
}
