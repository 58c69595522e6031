package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/service"
	"mstodo/internal/todo"
)

func init() {
	Register(&PushCmd{})
}

// PushCmd pushes the checklist items of a note to the selected list.
// "-" reads the note from stdin. Items are processed independently but
// the first failure aborts the rest; the created-so-far count is still
// reported.
type PushCmd struct{}

func (c *PushCmd) Name() string       { return "push" }
func (c *PushCmd) Aliases() []string  { return nil }
func (c *PushCmd) Synopsis() string   { return "Push a note's checklist items" }
func (c *PushCmd) Usage() string      { return "mstodo push [common flags] <note-file|->" }
func (c *PushCmd) NeedsService() bool { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PushCmd) Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: note file required")
		return exitcode.UserError
	}

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
		if os.IsNotExist(err) {
			return fail(errOut, service.ErrNoActiveNote)
		}
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	created, err := orch.PushTasksFromNote(ctx, string(data))
	if err != nil {
		if created > 0 {
			fmt.Fprintf(errOut, "created %d task(s) before failing\n", created)
		}
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "created %d task(s)\n", created)
	}
	return exitcode.Success
}
