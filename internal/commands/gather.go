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
	Register(&GatherCmd{})
}

// GatherCmd collects checklist items across every note in a directory
// and prints them as one merged checklist. It never touches the remote
// service.
type GatherCmd struct{}

func (c *GatherCmd) Name() string       { return "gather" }
func (c *GatherCmd) Aliases() []string  { return nil }
func (c *GatherCmd) Synopsis() string   { return "Collect checklist items across notes" }
func (c *GatherCmd) Usage() string      { return "mstodo gather [common flags] <notes-dir>" }
func (c *GatherCmd) NeedsService() bool { return true }

func (c *GatherCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *GatherCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: notes directory required")
		return exitcode.UserError
	}

	titles, states, err := orch.GatherTasksAcrossNotes(args[0])
	if err != nil {
		return fail(errOut, err)
	}

	for _, title := range titles {
		output.FormatGathered(out, title, states[title])
	}
	return exitcode.Success
}
