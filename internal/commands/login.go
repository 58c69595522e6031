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
	Register(&LoginCmd{})
}

// LoginCmd runs the interactive sign-in flow. The flow waits for the
// browser redirect with no timeout; Ctrl-C is the only local abort.
type LoginCmd struct{}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Sign in to Microsoft To Do" }
func (c *LoginCmd) Usage() string      { return "mstodo login [common flags]" }
func (c *LoginCmd) NeedsService() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := orch.Login(ctx); err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
