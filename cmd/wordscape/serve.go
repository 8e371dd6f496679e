package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordscape/pkg/config"
	"github.com/bastiangx/wordscape/pkg/search"
	"github.com/bastiangx/wordscape/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var host string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, path, err := root.loadConfig()
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			return serve(ctx, root, cfg, path)
		},
	}
	cmd.Flags().StringVarP(&host, "host", "l", "", "Address to listen on, overrides [server] host")
	return cmd
}

func serve(ctx context.Context, root *rootOptions, cfg *config.Config, path string) error {
	engine, err := newEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}
	srv := server.New(engine, cfg.Server)
	showStartupInfo(cfg, path, engine)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		watchConfig(ctx, root, cfg, path, srv, engine)
		return nil
	})
	return g.Wait()
}

// watchConfig applies config file changes until ctx is done. A watcher that
// cannot start only disables live reload.
func watchConfig(ctx context.Context, root *rootOptions, cfg *config.Config, path string, srv *server.Server, engine *search.Engine) {
	current := cfg.Dict
	err := config.Watch(ctx, path, func(next *config.Config) {
		root.applyFlags(next)
		next.Server.Host = cfg.Server.Host
		srv.ApplyConfig(next.Server)
		if next.Dict != current {
			reloadDictionary(engine, next.Dict)
			current = next.Dict
		}
	})
	if err != nil {
		log.Errorf("Live config reload disabled: %v", err)
	}
}

// reloadDictionary swaps the engine's index; a failed load keeps the old one.
func reloadDictionary(engine *search.Engine, dict config.DictConfig) {
	idx, err := loadIndex(dict)
	if err != nil {
		log.Errorf("Keeping current dictionary, reload failed: %v", err)
		return
	}
	engine.SetIndex(idx)
	log.Infof("Dictionary reloaded: %d words", idx.Len())
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(cfg *config.Config, configPath string, engine *search.Engine) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	stats := engine.Stats()
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " WordScape ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", configPath)
	log.Infof("wordlist: ( %s ) %d words", cfg.Dict.WordList, stats["totalWords"])
	log.Infof("listening: http://%s/api/search", cfg.Server.Host)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}
