package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/moinsen-dev/scrubber/internal/fsutil"
	"github.com/moinsen-dev/scrubber/internal/sanitize"
	"github.com/moinsen-dev/scrubber/internal/tui"
)

var (
	sanitizeDryRun      bool
	sanitizeQuiet       bool
	sanitizePaths       bool
	sanitizePatterns    string
	sanitizeInteractive bool
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize <file>...",
	Short: "Redact credentials from configuration files in place",
	Long: "sanitize parses each file as JSON (falling back to plain text), replaces " +
		"sensitive values with a placeholder, and rewrites the file atomically. " +
		"A file that cannot be read or written is recorded and the run continues.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRules(sanitizePatterns)
		if err != nil {
			return err
		}

		files := make([]string, len(args))
		for i, a := range args {
			files[i] = fsutil.ExpandHome(a)
		}

		if sanitizeInteractive {
			files, err = selectFiles(files)
			if err != nil {
				return err
			}
			if files == nil {
				return nil // cancelled
			}
		}

		home, _ := os.UserHomeDir()
		engine := sanitize.New(rules, home)

		var report sanitize.ProgressFunc
		if !sanitizeQuiet {
			report = newReportWriter(cmd.OutOrStdout(), sanitizeDryRun)
		}

		sum := engine.Run(files, sanitize.Options{
			DryRun: sanitizeDryRun,
			Paths:  sanitizePaths,
		}, report)

		if !sanitizeQuiet {
			printSummary(cmd.OutOrStdout(), sum, sanitizeDryRun)
		}
		if !sum.OK() {
			return fmt.Errorf("%d file(s) failed", len(sum.FailedFiles()))
		}
		return nil
	},
}

// selectFiles opens the interactive picker. A nil result means the user
// cancelled the run.
func selectFiles(paths []string) ([]string, error) {
	items := make([]tui.FileItem, len(paths))
	for i, p := range paths {
		items[i] = tui.FileItem{Path: p, Missing: !fsutil.FileExists(p)}
	}

	final, err := tea.NewProgram(tui.NewFileSelectModel(items)).Run()
	if err != nil {
		return nil, fmt.Errorf("interactive selection: %w", err)
	}
	m := final.(tui.FileSelectModel)
	if m.Quitted() {
		return nil, nil
	}
	return m.Selected(), nil
}

func init() {
	sanitizeCmd.Flags().BoolVar(&sanitizeDryRun, "dry-run", false, "Report what would change without modifying files")
	sanitizeCmd.Flags().BoolVarP(&sanitizeQuiet, "quiet", "q", false, "Suppress output; exit status only")
	sanitizeCmd.Flags().BoolVar(&sanitizePaths, "paths", false, "Also rewrite home-directory paths to ~/ form")
	sanitizeCmd.Flags().StringVar(&sanitizePatterns, "patterns", "", "TOML pattern file merged over the built-in tables")
	sanitizeCmd.Flags().BoolVarP(&sanitizeInteractive, "interactive", "i", false, "Interactively select which files to sanitize")
	rootCmd.AddCommand(sanitizeCmd)
}
