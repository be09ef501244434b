package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docpatch/docpatch/jsonpath"
	"github.com/docpatch/docpatch/merge"
	"github.com/docpatch/docpatch/search"
	"github.com/docpatch/docpatch/value"
)

func newGetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the value at a dot-notation path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			st := newDocStore(cfg, newLogger())

			tree, err := st.Load(args[0])
			if err != nil {
				return err
			}
			v, err := jsonpath.Get(tree, args[1])
			if err != nil {
				return err
			}
			out, err := value.Encode(v, "  ")
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newSetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Write a value at a dot-notation path, creating missing objects",
		Long: `Write a value at a dot-notation path.

The value argument is parsed as JSON; anything that is not valid JSON is
written as a plain string, so both 'set en common.welcome Hello' and
'set en common '{"welcome":"Hello"}' do what they look like.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			st := newDocStore(cfg, newLogger())

			tree, err := st.Load(args[0])
			if err != nil {
				return err
			}
			if err := jsonpath.Set(tree, args[1], parseValueArg(args[2])); err != nil {
				return err
			}
			return st.Save(args[0], tree)
		},
	}
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file> <path>",
		Short: "Delete the value at a dot-notation path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			st := newDocStore(cfg, newLogger())

			tree, err := st.Load(args[0])
			if err != nil {
				return err
			}
			if err := jsonpath.Delete(tree, args[1]); err != nil {
				return err
			}
			return st.Save(args[0], tree)
		},
	}
}

func newMergeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <file> <json>",
		Short: "Deep-merge a JSON object into a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			st := newDocStore(cfg, newLogger())

			src, err := value.Decode([]byte(args[1]))
			if err != nil {
				return fmt.Errorf("parse merge value: %w", err)
			}
			target, err := st.Load(args[0])
			if err != nil {
				return err
			}
			return st.Save(args[0], merge.Merge(target, src))
		},
	}
}

func newReconcileCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <file>",
		Short: "Fold duplicate keys in a document and rewrite it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			st := newDocStore(cfg, newLogger())

			raw, err := st.LoadRaw(args[0])
			if err != nil {
				return err
			}
			return st.Save(args[0], merge.ReconcileDuplicates(raw))
		},
	}
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the documents in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			st := newDocStore(cfg, newLogger())

			names, err := st.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search keys and values across all documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			st := newDocStore(cfg, newLogger())

			idx, err := search.New()
			if err != nil {
				return err
			}
			defer func() { _ = idx.Close() }()

			if err := seedIndex(idx, st); err != nil {
				return err
			}

			hits, err := idx.Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			for _, h := range hits {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", h.Document, h.Path, h.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of hits")
	return cmd
}

// parseValueArg parses a CLI value argument as JSON, falling back to a
// plain string for convenience.
func parseValueArg(arg string) *value.Value {
	if v, err := value.Decode([]byte(arg)); err == nil {
		return v
	}
	return value.NewString(arg)
}
