package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odysseus0/feedsync/internal/config"
	"github.com/odysseus0/feedsync/internal/store"
)

func Execute() error {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	cmd := NewRootCmd(cfg)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

func NewRootCmd(cfg config.Config) *cobra.Command {
	var output string
	var verbose bool
	var outFmt OutputFormat
	var app *App

	output = string(OutputTable)

	getApp := func() *App { return app }
	getOutput := func() OutputFormat { return outFmt }

	cmd := &cobra.Command{
		Use:           "feedsync",
		Short:         "Keep a local cache of a paged posts feed in sync",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			parsedFmt, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			outFmt = parsedFmt
			if !requiresApp(cmd) {
				return nil
			}
			if app != nil {
				return nil
			}
			if err := config.ValidateBaseURL(cfg.BaseURL); err != nil {
				return fmt.Errorf("%w: base url: %v", store.ErrInvalidInput, err)
			}
			appCfg := cfg
			if verbose {
				appCfg.LogLevel = "debug"
			}
			a, err := NewApp(appCfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Close()
				app = nil
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	cmd.PersistentFlags().StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Posts API base URL")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every load step to stderr")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", output, "Output format: table, wide, json, yaml")

	cmd.AddCommand(newLoadCmd(getApp, getOutput))
	cmd.AddCommand(newSyncCmd(getApp, getOutput))
	cmd.AddCommand(newGetCmd(getApp, getOutput))

	return cmd
}

func parseOutputFormat(raw string) (OutputFormat, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch OutputFormat(s) {
	case OutputTable, OutputJSON, OutputWide, OutputYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("%w: invalid output format %q (expected table|wide|json|yaml)", store.ErrInvalidInput, raw)
	}
}

func requiresApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		name := c.Name()
		if name == "help" || name == "completion" {
			return false
		}
	}
	return true
}
