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
	Register(&RefreshCmd{})
}

// RefreshCmd exchanges the cached refresh token for a new access token.
// A failed refresh does not fall back to interactive login; the user is
// told to run login again instead.
type RefreshCmd struct{}

func (c *RefreshCmd) Name() string       { return "refresh" }
func (c *RefreshCmd) Aliases() []string  { return nil }
func (c *RefreshCmd) Synopsis() string   { return "Refresh the access token" }
func (c *RefreshCmd) Usage() string      { return "mstodo refresh [common flags]" }
func (c *RefreshCmd) NeedsService() bool { return true }

func (c *RefreshCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RefreshCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	if err := orch.RefreshToken(ctx); err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
