package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/todo"
	"mstodo/internal/ui"
)

func init() {
	Register(&PanelCmd{})
}

// PanelCmd opens the interactive task panel.
type PanelCmd struct{}

func (c *PanelCmd) Name() string       { return "panel" }
func (c *PanelCmd) Aliases() []string  { return nil }
func (c *PanelCmd) Synopsis() string   { return "Open the interactive task panel" }
func (c *PanelCmd) Usage() string      { return "mstodo panel [common flags]" }
func (c *PanelCmd) NeedsService() bool { return true }

func (c *PanelCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PanelCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	if !orch.Settings().HasSelectedList() {
		fmt.Fprintln(errOut, "error: no task list selected (run: mstodo use <list>)")
		return exitcode.UserError
	}

	program := tea.NewProgram(ui.NewModel(ctx, orch), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
