package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"travel-etl/internal/datasource/sqlite"
	"travel-etl/internal/join"
)

// tablesCmd lists the source catalog with row counts and flags the tables the
// join plan needs but the source lacks.
func tablesCmd(root *rootFlags) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the source tables and the join plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := root.load()
			if err != nil {
				return err
			}
			if source != "" {
				p.Source.DSN = source
			}

			ctx := cmd.Context()
			store, err := sqlite.Open(ctx, sqlite.Config{DSN: p.Source.DSN})
			if err != nil {
				return err
			}
			defer store.Close()

			names, err := store.TableNames(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TABLE\tROWS\tCOLUMNS")
			have := make(map[string]bool, len(names))
			for _, name := range names {
				t, err := store.LoadTable(ctx, name)
				if err != nil {
					return err
				}
				have[name] = true
				fmt.Fprintf(tw, "%s\t%d\t%d\n", name, t.Len(), len(t.Columns))
			}
			_ = tw.Flush()

			plan := join.DefaultPlan()
			fmt.Fprintf(out, "\njoin plan:\n%s\n", plan)
			for _, name := range plan.Tables() {
				if !have[name] {
					fmt.Fprintf(out, "missing: %s\n", name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "SQLite source file or URI (overrides source.dsn)")
	return cmd
}
