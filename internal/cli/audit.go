package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docpatch/docpatch/audit"
	"github.com/docpatch/docpatch/internal/config"
)

func newAuditCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the edit audit trail",
	}
	cmd.AddCommand(newAuditRecentCmd(flags))
	cmd.AddCommand(newAuditStatsCmd(flags))
	return cmd
}

func newAuditRecentCmd(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent edits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auditor, err := openAuditor(flags)
			if err != nil {
				return err
			}
			defer func() { _ = auditor.Close() }()

			edits, err := auditor.Recent(limit)
			if err != nil {
				return err
			}
			for _, e := range edits {
				line := fmt.Sprintf("%s  %-14s %-12s %-24s %s",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Tool, e.Document, e.Path, e.Outcome)
				if e.Detail != "" {
					line += "  " + e.Detail
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of edits to show")
	return cmd
}

func newAuditStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate audit statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auditor, err := openAuditor(flags)
			if err != nil {
				return err
			}
			defer func() { _ = auditor.Close() }()

			stats, err := auditor.QueryStats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total edits: %d\n", stats.TotalEdits)
			if stats.TotalEdits == 0 {
				return nil
			}
			fmt.Fprintf(out, "oldest:      %s\n", stats.OldestEntry.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "newest:      %s\n", stats.NewestEntry.Format("2006-01-02 15:04:05"))
			for outcome, n := range stats.CountByOutcome {
				fmt.Fprintf(out, "outcome %-8s %d\n", outcome+":", n)
			}
			for tool, n := range stats.CountByTool {
				fmt.Fprintf(out, "tool %-14s %d\n", tool+":", n)
			}
			return nil
		},
	}
}

func openAuditor(flags *rootFlags) (*audit.SQLiteAuditor, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	dbPath := auditDBPath(cfg)
	return audit.Open(dbPath)
}

func auditDBPath(cfg config.Config) string {
	if cfg.Audit != nil && cfg.Audit.DBPath != "" {
		return cfg.Audit.DBPath
	}
	return audit.DefaultDBPath()
}
