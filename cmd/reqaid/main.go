package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/reqaid/internal/app"
	"github.com/samvad-hq/reqaid/internal/config"
	"github.com/samvad-hq/reqaid/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reqaid: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.DebugObj("reqaid starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The runner is opened lazily so `reqaid --help` works without a profiles file.
	var runner *app.Runner
	open := func() (*app.Runner, error) {
		if runner != nil {
			return runner, nil
		}
		r, err := app.NewRunner(cfg, log)
		if err != nil {
			return nil, err
		}
		runner = r
		return r, nil
	}
	defer func() {
		if runner != nil {
			if err := runner.Close(); err != nil {
				log.WarnObj("failed to close history store", "error", err)
			}
		}
	}()

	root := newRootCmd(open)
	return root.ExecuteContext(ctx)
}

func newRootCmd(open func() (*app.Runner, error)) *cobra.Command {
	root := &cobra.Command{
		Use:           "reqaid",
		Short:         "Issue HTTP requests against preconfigured base URLs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRequestCmd(open),
		newHistoryCmd(open),
		newProfilesCmd(open),
	)
	return root
}
