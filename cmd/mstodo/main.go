// Package main is the entry point for the mstodo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"mstodo/internal/auth"
	"mstodo/internal/backend/graphtodo"
	"mstodo/internal/cache"
	"mstodo/internal/cli"
	"mstodo/internal/commands"
	"mstodo/internal/config"
	"mstodo/internal/todo"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config) (*todo.Orchestrator, error) {
		log := zap.NewNop()
		if cfg.Debug {
			if dev, err := zap.NewDevelopment(); err == nil {
				log = dev
			}
		}

		settings, err := config.LoadSettings(cfg)
		if err != nil {
			return nil, err
		}
		creds, err := settings.Credentials()
		if err != nil {
			return nil, err
		}

		opener := &auth.LocalOpener{RedirectURL: creds.RedirectURL, Out: os.Stderr}
		manager, err := auth.New(creds, cfg.TokenCachePath(), opener, log)
		if err != nil {
			return nil, err
		}

		taskCache := cache.New(cfg.TaskCachePath())
		if err := taskCache.Load(); err != nil {
			log.Warn("ignoring unreadable task cache", zap.Error(err))
		}

		client := graphtodo.New(manager, log)
		return todo.New(client, manager, taskCache, settings, log), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	os.Exit(dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}
