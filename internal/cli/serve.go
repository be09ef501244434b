package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/docpatch/docpatch/audit"
	"github.com/docpatch/docpatch/registry"
	"github.com/docpatch/docpatch/search"
	"github.com/docpatch/docpatch/value"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var httpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document tools over MCP (stdio by default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			st := newDocStore(cfg, logger)

			regCfg := registry.Config{
				ServerInfo: registry.ServerInfo{
					Name:    serverName(cfg.Server.Name),
					Version: serverVersion(cfg.Server.Version),
				},
				Store:  st,
				Logger: logger,
			}

			// Audit is fail-open even at startup: a broken database logs a
			// warning and serving continues without a trail.
			if cfg.AuditEnabled() {
				dbPath := audit.DefaultDBPath()
				if cfg.Audit != nil && cfg.Audit.DBPath != "" {
					dbPath = cfg.Audit.DBPath
				}
				auditor, err := audit.Open(dbPath)
				if err != nil {
					logger.Warn("audit disabled", "err", err)
				} else {
					regCfg.Auditor = auditor
				}
			}

			if cfg.SearchEnabled() {
				idx, err := search.New()
				if err != nil {
					return err
				}
				if err := seedIndex(idx, st); err != nil {
					return err
				}
				regCfg.SearchIndex = idx
			}

			reg := registry.New(regCfg)
			defer func() { _ = reg.Close() }()

			if httpAddr != "" {
				logger.Info("serving MCP over HTTP", "addr", httpAddr)
				return http.ListenAndServe(httpAddr, registry.ServeHTTP(reg))
			}
			return registry.ServeStdio(cmd.Context(), reg)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve over HTTP on this address instead of stdio (e.g. :8080)")
	return cmd
}

// storeLoader is the slice of the store seedIndex needs; tests stub it.
type storeLoader interface {
	List() ([]string, error)
	Load(name string) (*value.Value, error)
}

// seedIndex indexes every existing document so json_search works before the
// first edit.
func seedIndex(idx *search.Index, st storeLoader) error {
	names, err := st.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		tree, err := st.Load(name)
		if err != nil {
			return fmt.Errorf("index %s: %w", name, err)
		}
		if err := idx.IndexDocument(name, tree); err != nil {
			return err
		}
	}
	return nil
}

func serverName(name string) string {
	if name == "" {
		return "docpatch"
	}
	return name
}

func serverVersion(v string) string {
	if v == "" {
		return Version
	}
	return v
}
