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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "mstodo help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  mstodo tasks [common flags] [--all|--open] [--refresh]   Print tasks from the selected list
  mstodo push [common flags] <note-file|->                 Push a note's checklist items
  mstodo add [common flags] [--due YYYY-MM-DD] <title...>  Create a task
  mstodo done [common flags] <title...>                    Toggle a task's completion
  mstodo clean [common flags]                              Delete all completed tasks
  mstodo gather [common flags] <notes-dir>                 Collect checklist items across notes
  mstodo lists [common flags]                              Fetch and print all task lists
  mstodo use [common flags] <list-name-or-id>              Select the task list to work with
  mstodo rename [common flags] <new-name...>               Rename the selected list
  mstodo panel [common flags]                              Open the interactive task panel
  mstodo login [common flags]                              Sign in to Microsoft To Do
  mstodo refresh [common flags]                            Refresh the access token
  mstodo logout [common flags]                             Remove the stored token cache
  mstodo help
  mstodo version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
