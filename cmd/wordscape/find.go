package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/wordscape/internal/cli"
	"github.com/bastiangx/wordscape/pkg/client"
	"github.com/bastiangx/wordscape/pkg/config"
	"github.com/bastiangx/wordscape/pkg/widget"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type findOptions struct {
	letters  string
	template string
	remote   bool
	limit    int
}

func newFindCmd(root *rootOptions) *cobra.Command {
	opts := &findOptions{}

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search once, or start the line-mode finder",
		Long: `Search once and print one word per line, or start the line-mode finder
when neither --letters nor --template is given.

The template uses '.' (or any character outside a-z) for an open position.`,
		Example: "  wordscape find -l tca -t c..\n  wordscape find --remote -l retsam -t m.....",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, _, err := root.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				opts.limit = cfg.CLI.DefaultLimit
			}

			searcher, err := opts.searcher(cfg)
			if err != nil {
				return err
			}

			if opts.letters == "" && opts.template == "" {
				log.SetReportTimestamp(false)
				h := cli.NewInputHandler(searcher, cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Widget.DefaultSlots, opts.limit)
				return h.Start(ctx)
			}
			return findOnce(ctx, cmd.OutOrStdout(), searcher, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.letters, "letters", "l", "", "Bank of letters to build words from")
	f.StringVarP(&opts.template, "template", "t", "", "Template, e.g. c..")
	f.BoolVar(&opts.remote, "remote", false, "Query the configured [widget] endpoint instead of loading the dictionary")
	f.IntVar(&opts.limit, "limit", 0, "Number of words to print, 0 for all (default from config)")
	return cmd
}

func (o *findOptions) searcher(cfg *config.Config) (widget.Searcher, error) {
	if o.remote {
		return newRemote(cfg.Widget)
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}
	return client.NewLocal(engine), nil
}

func newRemote(w config.WidgetConfig) (*client.Client, error) {
	return client.New(w.Endpoint,
		client.WithTimeout(time.Duration(w.TimeoutMS)*time.Millisecond),
		client.WithMsgpack(w.Msgpack),
	)
}

var errNoQuery = errors.New("both --letters and --template are required")

func findOnce(ctx context.Context, out io.Writer, searcher widget.Searcher, opts *findOptions) error {
	if opts.letters == "" || opts.template == "" {
		return errNoQuery
	}
	words, err := searcher.Search(ctx, widget.Query{Letters: opts.letters, Pattern: opts.template})
	if err != nil {
		return err
	}
	if opts.limit > 0 && len(words) > opts.limit {
		words = words[:opts.limit]
	}
	for _, w := range words {
		fmt.Fprintln(out, w)
	}
	log.Debugf("%d words for %q in %q", len(words), opts.template, opts.letters)
	return nil
}
