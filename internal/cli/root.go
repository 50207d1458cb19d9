// Package cli holds the grephl commands.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"grephl/internal/app"
	"grephl/internal/config"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the grephl command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "grephl [FILE]",
		Short: "Filter a file by terms and color the matches",
		Long: `grephl keeps the lines of a file that contain any of your grep terms
and paints highlight words in their own colors. Term and highlight sets
can be saved by name, loaded again, exported and imported.

Without a subcommand it opens the interactive editor on FILE.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runTUI(cmd, opts, path)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (TOML or YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newGrepCommand(opts),
		newSettingsCommand(opts),
		newServeCommand(opts),
	)
	return cmd
}

// Execute runs the root command
func Execute() error {
	err := NewRootCommand().Execute()
	if err != nil && !errors.Is(err, errNoMatches) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	svc := config.NewConfigService()
	load := svc.Load
	if o.configPath != "" {
		svc = config.NewConfigServiceAt(o.configPath)
		load = func() (*config.Config, error) { return svc.LoadFromPath(o.configPath) }
	}

	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func (o *rootOptions) openApp() (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}
