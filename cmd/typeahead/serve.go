package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/typeahead/internal/cli"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	httpAddr  string
	replLimit int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve suggestions over msgpack IPC on stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine(appConfig)
		if err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.NewServer(engine, appConfig, os.Stdin, os.Stdout)
		watchConfig(ctx, srv.UpdateConfig)

		done := make(chan error, 1)
		go func() { done <- srv.Start() }()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			log.Debug("Signal received, shutting down")
			return nil
		}
	},
}

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if httpAddr != "" {
			appConfig.HTTP.Addr = httpAddr
		}
		engine, err := buildEngine(appConfig)
		if err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.NewHTTPServer(engine, appConfig)
		watchConfig(ctx, srv.UpdateConfig)
		return srv.ListenAndServe(ctx)
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Try suggestions interactively in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine(appConfig)
		if err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}
		limit := appConfig.CLI.DefaultLimit
		if replLimit > 0 {
			limit = replLimit
		}

		userWords := appConfig.Spell.UserWords
		onAdd := func(word string) error {
			engine.AddWord(word)
			if userWords == "" {
				return nil
			}
			return dictionary.AppendWord(userWords, word)
		}
		return cli.NewInputHandler(engine, limit, os.Stdin, os.Stdout, onAdd).Start()
	},
}

func init() {
	httpCmd.Flags().StringVar(&httpAddr, "addr", "", "Listen address, overrides [http].addr")
	replCmd.Flags().IntVarP(&replLimit, "limit", "n", 0, "Number of suggestions (default: [cli].default_limit)")
}

// watchConfig forwards config file changes to apply while ctx is live.
func watchConfig(ctx context.Context, apply func(*config.Config)) {
	if activePath == "" {
		return
	}
	if err := config.Watch(ctx, activePath, apply); err != nil {
		log.Warnf("Config changes need a restart: %v", err)
	}
}
