package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var patternsFile string

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show the effective sanitization rule tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRules(patternsFile)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rules.Describe())
		return nil
	},
}

func init() {
	patternsCmd.Flags().StringVar(&patternsFile, "patterns", "", "TOML pattern file merged over the built-in tables")
	rootCmd.AddCommand(patternsCmd)
}
