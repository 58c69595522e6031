package commands

import (
	"context"
	"flag"
	"io"

	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/output"
	"mstodo/internal/todo"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd fetches the available task lists and stores them in the
// settings for later selection.
type ListsCmd struct{}

func (c *ListsCmd) Name() string       { return "lists" }
func (c *ListsCmd) Aliases() []string  { return nil }
func (c *ListsCmd) Synopsis() string   { return "Fetch and print all task lists" }
func (c *ListsCmd) Usage() string      { return "mstodo lists [common flags]" }
func (c *ListsCmd) NeedsService() bool { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	lists, err := orch.LoadAvailableTaskLists(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	selected := orch.Settings().SelectedTaskListID
	for _, list := range lists {
		output.FormatListName(out, list, list.ID == selected)
	}
	return exitcode.Success
}
