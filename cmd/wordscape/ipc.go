package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordscape/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newIPCCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ipc",
		Short: "Answer MessagePack search requests on stdin/stdout",
		Long: `Answer MessagePack search requests on stdin/stdout.

The server writes {"status": "ready"} once the dictionary is loaded and then
answers requests in order until stdin is closed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, _, err := root.loadConfig()
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg)
			if err != nil {
				return err
			}
			log.Debug("spawning IPC")
			return server.NewIPCServer(engine, cmd.InOrStdin(), cmd.OutOrStdout()).Serve(ctx)
		},
	}
}
