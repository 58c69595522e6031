package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/todo"
)

func init() {
	Register(&CleanCmd{})
}

// CleanCmd deletes every completed task in the selected list.
type CleanCmd struct{}

func (c *CleanCmd) Name() string       { return "clean" }
func (c *CleanCmd) Aliases() []string  { return nil }
func (c *CleanCmd) Synopsis() string   { return "Delete all completed tasks" }
func (c *CleanCmd) Usage() string      { return "mstodo clean [common flags]" }
func (c *CleanCmd) NeedsService() bool { return true }

func (c *CleanCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CleanCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	deleted, err := orch.DeleteAllCompletedTasks(ctx)
	if err != nil {
		if deleted > 0 {
			fmt.Fprintf(errOut, "deleted %d task(s) before failing\n", deleted)
		}
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "deleted %d task(s)\n", deleted)
	}
	return exitcode.Success
}
