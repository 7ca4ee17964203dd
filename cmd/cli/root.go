package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/summit/internal/importer"
)

var rootCmd = &cobra.Command{
	Use:          "summit",
	Short:        "Debt payoff planner",
	Long:         "Simulate paying off your debts with the snowball or avalanche strategy.",
	SilenceUsage: true,
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a CSV template for importing debts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tmpl, err := importer.NewService().Template(importer.FormatCSV)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), tmpl)

		return err
	},
}

func init() {
	rootCmd.AddCommand(planCmd, templateCmd)
}
