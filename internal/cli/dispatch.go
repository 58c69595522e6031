// Package cli parses arguments and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"mstodo/internal/commands"
	"mstodo/internal/config"
	"mstodo/internal/exitcode"
	"mstodo/internal/service"
	"mstodo/internal/todo"
)

// Factory builds the orchestrator for commands that need it. Tests
// inject a factory backed by a fake service.
type Factory func(ctx context.Context, cfg *config.Config) (*todo.Orchestrator, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  Factory
}

// NewDispatcher creates a dispatcher with the given registry and
// factory.
func NewDispatcher(registry *commands.Registry, factory Factory) *Dispatcher {
	return &Dispatcher{registry: registry, factory: factory}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code. No arguments means "tasks".
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	cmdName := "tasks"
	if len(args) > 0 {
		cmdName = args[0]
		if strings.HasPrefix(cmdName, "-") {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
			return exitcode.UserError
		}
		args = args[1:]
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Common flags
	var configDir string
	var quiet bool
	var debug bool
	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return flagError(errOut, err)
	}

	// A leading dash in the positionals means an unknown flag slipped
	// past the parser.
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	var orch *todo.Orchestrator
	if cmd.NeedsService() {
		orch, err = d.factory(ctx, cfg)
		if err != nil {
			var configErr *service.ConfigError
			if errors.As(err, &configErr) {
				fmt.Fprintf(errOut, "error: %v\n", err)
				fmt.Fprintf(errOut, "set MSTODO_CLIENT_ID / MSTODO_CLIENT_SECRET / MSTODO_REDIRECT_URL or edit %s\n", cfg.SettingsPath())
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, cfg, orch, positional, out, errOut)
}

func flagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	if strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		flagPart := strings.TrimSpace(parts[0])
		flagPart = strings.TrimPrefix(flagPart, "flag ")
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
		return exitcode.UserError
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
