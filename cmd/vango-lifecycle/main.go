package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/lifecycle/internal/config"
	vangoerrors "github.com/vango-dev/lifecycle/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		var verr *vangoerrors.Error
		if errors.As(err, &verr) {
			fmt.Fprint(os.Stderr, verr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "vango-lifecycle",
		Short: "Render, hydrate and serve component trees",
		Long: `vango-lifecycle runs the demo component tree through the
component lifecycle runtime.

  render    server render the tree to stdout, a file or S3
  hydrate   server render, then hydrate the markup and print the hooks
  serve     serve the tree with a live WebSocket session per browser`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&dir, "config", "c", ".", "Directory containing lifecycle.json or lifecycle.yaml")

	cmd.AddCommand(
		initCmd(&dir),
		renderCmd(&dir),
		hydrateCmd(&dir),
		serveCmd(&dir),
		versionCmd(),
	)
	return cmd
}

// loadConfig reads the configuration in dir. A directory without one
// runs on defaults.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if errors.Is(err, vangoerrors.New("E121")) {
		return config.New(), nil
	}
	return cfg, err
}

// newLogger builds the slog logger described by cfg.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
