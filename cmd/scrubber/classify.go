package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var classifyPatterns string

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Report token types found in text, without redacting",
	Long: "classify checks text (an argument, or stdin when omitted) against the " +
		"token-type tables and prints the labels found. It never modifies anything; " +
		"a label here does not by itself mean the sanitizer would redact the value.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRules(classifyPatterns)
		if err != nil {
			return err
		}

		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			text = string(data)
		}

		labels := rules.DetectLabels(text)
		if len(labels) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no known token shapes found")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(labels, "\n"))
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyPatterns, "patterns", "", "TOML pattern file merged over the built-in tables")
	rootCmd.AddCommand(classifyCmd)
}
