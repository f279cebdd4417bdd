package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkforge/pkforge/internal/config"
	"github.com/pkforge/pkforge/internal/driver"
	"github.com/pkforge/pkforge/internal/execx"
	"github.com/pkforge/pkforge/internal/report"
)

var (
	logLevel  string
	logFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pkforge",
		Short: "Multi-builder package construction driver",
		Long: "pkforge builds a package from a pinned source revision through a fixed phase\n" +
			"pipeline, dispatching each phase to a builder default (pip, maven, bazel, cmake)\n" +
			"unless the project overrides it. Configuration is read from the environment.",
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the package described by the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := driver.New(config.FromEnv(), execx.NewSystem(), newLogger(os.Stderr))
			return d.Build(cmd.Context())
		},
	}

	foreachCmd := &cobra.Command{
		Use:   "foreach",
		Short: "Invoke a command per requirements-manifest entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := driver.New(config.FromEnv(), execx.NewSystem(), newLogger(os.Stderr))
			return d.ForEach(cmd.Context())
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report [file]",
		Short: "List packages recorded in a build report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FromEnv().ReportFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no report file: pass a path or set PKG_REPORT_FILE")
			}
			return printReport(cmd.OutOrStdout(), path)
		},
	}

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(foreachCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the slog logger from the global flags.
func newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if logFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func printReport(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()

	records, err := report.NewParser(f).Parse()
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s\tbuilder=%s\trepotag=%s\tartifact=%s\n",
			r.Name, r.Builder, r.Repotag, r.Artifact)
	}
	return nil
}
