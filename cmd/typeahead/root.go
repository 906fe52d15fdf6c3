package main

import (
	"os"

	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	modelPath  string
	debugMode  bool

	appConfig  *config.Config
	activePath string
)

var rootCmd = &cobra.Command{
	Use:           AppName,
	Short:         "Next word prediction with spelling correction",
	Long:          "Typeahead suggests the next word, or completes the current one, from an n-gram model fused with a spell corrector.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Setup(debugMode)
		if cmd.Name() == "version" {
			return nil
		}

		cfg, path, err := config.LoadConfigWithPriority(configPath)
		if err != nil {
			return err
		}
		if modelPath != "" {
			cfg.Model.Path = modelPath
		}
		appConfig, activePath = cfg, path
		log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(path))
		log.Debugf("Using model: (%s)", cfg.Model.Path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current version",
	Run: func(cmd *cobra.Command, args []string) {
		l := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		l.SetStyles(styles)

		l.Print("")
		l.Print("[ Typeahead ] next word suggestions with spelling correction")
		l.Print("", "version", Version)
		l.Print("")
		l.Print("use -h or --help to see available commands")
		l.Print("Github Repo", "gh", gh)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&modelPath, "model", "", "Path to the model store, overrides [model].path")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Toggle debug mode")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(httpCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(configCmd)
}
