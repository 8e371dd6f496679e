package main

import (
	"fmt"

	"github.com/bastiangx/wordscape/internal/logger"
	"github.com/bastiangx/wordscape/pkg/config"
	"github.com/bastiangx/wordscape/pkg/dictionary"
	"github.com/bastiangx/wordscape/pkg/search"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	wordList   string
	freqList   string
	debug      bool
	logJSON    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Find the words that fit a template using a bank of letters",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.setupLogging()
			return nil
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default ~/.config/wordscape/config.toml)")
	f.StringVarP(&opts.wordList, "wordlist", "w", "", "Word list, one word per line")
	f.StringVar(&opts.freqList, "freqlist", "", "Frequency list, 'word count' per line")
	f.BoolVarP(&opts.debug, "debug", "d", false, "Toggle debug mode")
	f.BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON lines")

	cmd.AddCommand(
		newServeCmd(opts),
		newIPCCmd(opts),
		newFindCmd(opts),
		newWidgetCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) setupLogging() {
	if o.logJSON {
		logger.SetFormatter(log.JSONFormatter)
	}
	if o.debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		gin.SetMode(gin.DebugMode)
		return
	}
	log.SetLevel(log.WarnLevel)
	gin.SetMode(gin.ReleaseMode)
}

// loadConfig resolves the config file and applies the dictionary flags on top.
func (o *rootOptions) loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadConfigWithPriority(o.configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	o.applyFlags(cfg)
	log.Debugf("Using config file: (%s)", path)
	return cfg, path, nil
}

func (o *rootOptions) applyFlags(cfg *config.Config) {
	if o.wordList != "" {
		cfg.Dict.WordList = o.wordList
	}
	if o.freqList != "" {
		cfg.Dict.FreqList = o.freqList
	}
}

func loadIndex(dict config.DictConfig) (*dictionary.Index, error) {
	log.Debugf("Loading dictionary: wordlist=[%s] freqlist=[%s]", dict.WordList, dict.FreqList)
	return dictionary.LoadIndex(dictionary.LoadOptions{
		WordList:  dict.WordList,
		FreqList:  dict.FreqList,
		MinLength: dict.MinLength,
		MaxLength: dict.MaxLength,
	})
}

// newEngine loads the dictionary named by cfg and wraps it in a search engine.
func newEngine(cfg *config.Config) (*search.Engine, error) {
	idx, err := loadIndex(cfg.Dict)
	if err != nil {
		return nil, err
	}
	cacheSize := 0
	if cfg.Server.EnableCache {
		cacheSize = cfg.Server.CacheSize
	}
	return search.NewEngine(idx,
		search.WithCache(cacheSize),
		search.WithMaxResults(cfg.Server.MaxResults),
	), nil
}
