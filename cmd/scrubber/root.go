package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moinsen-dev/scrubber/internal/pattern"
)

var rootCmd = &cobra.Command{
	Use:   "scrubber",
	Short: "Configuration credential sanitizer",
	Long:  "scrubber redacts credential values and home-directory paths from configuration files before they enter a backup repository.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRules returns the effective rule tables: built-in defaults, with an
// optional operator pattern file merged on top. A malformed table is fatal;
// it means the deployment is broken, not one input file.
func loadRules(patternsFile string) (*pattern.Ruleset, error) {
	rules, err := pattern.Default()
	if err != nil {
		return nil, err
	}
	if patternsFile == "" {
		return rules, nil
	}
	override, err := pattern.Load(patternsFile)
	if err != nil {
		return nil, err
	}
	return pattern.Merge(rules, override)
}
