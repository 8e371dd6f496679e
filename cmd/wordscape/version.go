package main

import (
	"github.com/bastiangx/wordscape/internal/logger"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show current version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			l := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)
			l.SetOutput(cmd.ErrOrStderr())

			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
				Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			l.SetStyles(styles)

			l.Print("")
			l.Print("[ WordScape ] Finds the words that fit!")
			l.Print("", "version", Version)
			l.Print("")
			l.Print("use -h or --help to see available options")
			l.Print("Github Repo", "gh", gh)
		},
	}
}
