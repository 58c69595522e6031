// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"mstodo/internal/config"
	"mstodo/internal/todo"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService reports whether the command needs the orchestrator
	// (and therefore configured credentials). help, version and logout
	// return false.
	NeedsService() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command. cfg is always provided; orch is nil
	// when NeedsService() returns false. args holds positional
	// arguments after flag parsing. Returns an exit code.
	Run(ctx context.Context, cfg *config.Config, orch *todo.Orchestrator, args []string, out, errOut io.Writer) int
}
