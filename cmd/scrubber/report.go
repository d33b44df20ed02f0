package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/moinsen-dev/scrubber/internal/sanitize"
)

var (
	dimStyle     = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
	fileStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4")) // blue
)

// newReportWriter returns a ProgressFunc that writes per-file and per-event
// lines to w. Event lines carry the locator and label only, never the value.
func newReportWriter(w io.Writer, dryRun bool) sanitize.ProgressFunc {
	return func(p sanitize.Progress) {
		switch {
		case p.Event != nil:
			label := ""
			if p.Event.Label != "" {
				label = dimStyle.Render(" (" + p.Event.Label + ")")
			}
			fmt.Fprintf(w, "  %s %s%s\n", successStyle.Render("redacted"), p.Event.Locator(), label)
		case !p.Done:
			fmt.Fprintf(w, "%s %s\n", fileStyle.Render("Processing"), p.File)
		default:
			writeResult(w, p.Result, dryRun)
		}
	}
}

func writeResult(w io.Writer, r *sanitize.FileResult, dryRun bool) {
	switch r.Status {
	case sanitize.StatusFailed:
		fmt.Fprintf(w, "  %s %s\n", errorStyle.Render("failed:"), r.Err)
	case sanitize.StatusSkipped:
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("skipped: "+r.Reason))
	default:
		switch {
		case !r.Modified:
			fmt.Fprintf(w, "  %s\n", dimStyle.Render("clean"))
		case dryRun:
			fmt.Fprintf(w, "  %s\n", dimStyle.Render("would update (dry-run)"))
		default:
			fmt.Fprintf(w, "  %s\n", successStyle.Render("updated"))
		}
	}
}

// printSummary writes the aggregate result for the caller's backup log.
func printSummary(w io.Writer, sum *sanitize.Summary, dryRun bool) {
	fmt.Fprintln(w)

	modified := sum.ModifiedFiles()
	if len(modified) == 0 && sum.OK() {
		fmt.Fprintln(w, "Summary: no files modified (all clean)")
		return
	}

	verb := "modified"
	if dryRun {
		verb = "would be modified"
	}
	fmt.Fprintf(w, "Summary: %d redaction(s), %d file(s) %s\n", sum.TotalRedactions(), len(modified), verb)
	for _, f := range modified {
		fmt.Fprintf(w, "  - %s\n", f)
	}
	if labels := sum.Labels(); len(labels) > 0 {
		fmt.Fprintf(w, "Token types: %s\n", strings.Join(labels, ", "))
	}
	if failed := sum.FailedFiles(); len(failed) > 0 {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Failed:"), strings.Join(failed, ", "))
	}
}
