// Package cli wires the docpatch commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docpatch/docpatch/internal/config"
	"github.com/docpatch/docpatch/store"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("DOCPATCH_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type rootFlags struct {
	configPath string
	root       string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "docpatch",
		Short:         "Path-addressed JSON document editing for agents",
		Long: `docpatch reads, writes, deletes and merges values in JSON documents
(e.g. translation catalogs) addressed by dot-notation paths, and serves
the same operations to automated agents over MCP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (default: standard locations)")
	root.PersistentFlags().StringVar(&flags.root, "root", "", "document store root directory (overrides config)")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newGetCmd(flags))
	root.AddCommand(newSetCmd(flags))
	root.AddCommand(newDeleteCmd(flags))
	root.AddCommand(newMergeCmd(flags))
	root.AddCommand(newReconcileCmd(flags))
	root.AddCommand(newListCmd(flags))
	root.AddCommand(newSearchCmd(flags))
	root.AddCommand(newAuditCmd(flags))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "docpatch: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	var cfg config.Config
	var err error
	if flags.configPath != "" {
		cfg, err = config.LoadFrom(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if flags.root != "" {
		cfg.Root = flags.root
	}
	return cfg, nil
}

func newDocStore(cfg config.Config, logger *slog.Logger) *store.Store {
	opts := []store.Option{store.WithLogger(logger)}
	if cfg.Extension != "" {
		opts = append(opts, store.WithExtension(cfg.Extension))
	}
	if cfg.Indent != "" {
		opts = append(opts, store.WithIndent(cfg.Indent))
	}
	return store.New(cfg.EffectiveRoot(), opts...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docpatch %s (%s)\n", Version, Commit)
		},
	}
}
