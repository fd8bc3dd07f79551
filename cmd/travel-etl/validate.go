package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"travel-etl/internal/config"
	"travel-etl/internal/pipeline"
)

func validateCmd(root *rootFlags) *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the pipeline configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := root.load()
			if err != nil {
				return err
			}

			issues := config.ValidatePipeline(p)
			printIssues(cmd.ErrOrStderr(), issues)
			if config.HasErrors(issues) {
				return fmt.Errorf("configuration is invalid")
			}
			chain, err := pipeline.BuildChain(p.Transform, locale)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "configuration is valid")
			for i, name := range chain.Names() {
				fmt.Fprintf(out, "  %d. %s\n", i+1, name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "locale to check localize steps against")
	return cmd
}
