package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordscape/internal/logger"
	"github.com/bastiangx/wordscape/internal/tui"
	"github.com/bastiangx/wordscape/pkg/client"
	"github.com/bastiangx/wordscape/pkg/widget"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var errNoTTY = errors.New("the widget needs an interactive terminal; use 'wordscape find' instead")

type widgetOptions struct {
	endpoint string
	local    bool
	slots    int
	logFile  string
}

func newWidgetCmd(root *rootOptions) *cobra.Command {
	opts := &widgetOptions{}

	cmd := &cobra.Command{
		Use:   "widget",
		Short: "Open the interactive word finder in the terminal",
		Long: `Open the interactive word finder in the terminal.

Type the bank of letters, then fill the template slots. Open slots match any
letter. Results refresh while typing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errNoTTY
			}

			closeLog, err := redirectLogs(opts.logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, _, err := root.loadConfig()
			if err != nil {
				return err
			}
			if opts.endpoint != "" {
				cfg.Widget.Endpoint = opts.endpoint
			}
			slots := cfg.Widget.DefaultSlots
			if cmd.Flags().Changed("slots") {
				slots = opts.slots
			}

			var searcher widget.Searcher
			if opts.local {
				engine, err := newEngine(cfg)
				if err != nil {
					return err
				}
				searcher = client.NewLocal(engine)
			} else {
				if searcher, err = newRemote(cfg.Widget); err != nil {
					return err
				}
			}
			return tui.Run(ctx, searcher, slots)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.endpoint, "endpoint", "", "Search service base URL, overrides [widget] endpoint")
	f.BoolVar(&opts.local, "local", false, "Search an in-process dictionary instead of the service")
	f.IntVar(&opts.slots, "slots", widget.DefaultSlots, fmt.Sprintf("Initial number of template slots (%d-%d)", widget.MinSlots, widget.MaxSlots))
	f.StringVar(&opts.logFile, "log-file", "", "Write logs to this file while the widget owns the screen")
	return cmd
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// redirectLogs sends logs to path, or discards them when path is empty.
func redirectLogs(path string) (func(), error) {
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
