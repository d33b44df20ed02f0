// Package sanitize implements the sanitization engine: a key-pattern pass
// and a value-pattern pass over each input file, an advisory token
// classifier, and an optional home-path normalizer, orchestrated per file
// with atomic write-back.
package sanitize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/moinsen-dev/scrubber/internal/document"
	"github.com/moinsen-dev/scrubber/internal/fsutil"
	"github.com/moinsen-dev/scrubber/internal/pattern"
	"github.com/moinsen-dev/scrubber/internal/security"
)

// Engine applies the sanitization passes. It holds only immutable
// configuration and may be reused across runs.
type Engine struct {
	rules *pattern.Ruleset
	home  string
}

// New creates an Engine with the given rule tables. home is the absolute
// home directory used by path normalization.
func New(rules *pattern.Ruleset, home string) *Engine {
	return &Engine{rules: rules, home: home}
}

// Options selects the run mode. Quiet is a reporting concern and lives with
// the caller: passing a nil ProgressFunc silences everything.
type Options struct {
	// DryRun computes and reports every change without writing anything back.
	DryRun bool
	// Paths enables home-directory path normalization.
	Paths bool
}

// Run sanitizes each file in order, one file fully before the next. A failed
// file is recorded and the run continues; the Summary carries the verdict.
func (e *Engine) Run(files []string, opts Options, onProgress ProgressFunc) *Summary {
	sum := &Summary{}
	for _, f := range files {
		if onProgress != nil {
			onProgress(Progress{File: f})
		}
		res := e.sanitizeFile(f, opts, onProgress)
		sum.Results = append(sum.Results, res)
		if onProgress != nil {
			onProgress(Progress{File: f, Done: true, Result: &sum.Results[len(sum.Results)-1]})
		}
	}
	return sum
}

// sanitizeFile runs the full pass pipeline on one file. Content class is
// decided by attempted parse, not extension: JSON documents get the
// structured walk, everything else the line scanner.
func (e *Engine) sanitizeFile(path string, opts Options, onProgress ProgressFunc) FileResult {
	res := FileResult{Path: path, Status: StatusProcessed}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Status = StatusSkipped
			res.Reason = "not found"
			return res
		}
		res.Status = StatusFailed
		res.Err = fmt.Errorf("read: %w", err)
		return res
	}
	if security.IsEncrypted(data) {
		res.Status = StatusSkipped
		res.Reason = "age-encrypted"
		return res
	}

	out := data
	if doc, perr := document.Parse(data); perr == nil {
		res.Structured = true
		res.Events = e.redactKeys(doc, "", path)
		res.Events = append(res.Events, e.scanTree(doc, "", path)...)
		if len(res.Events) > 0 {
			encoded, err := doc.Encode()
			if err != nil {
				res.Status = StatusFailed
				res.Err = fmt.Errorf("serialize: %w", err)
				return res
			}
			out = encoded
		}
	} else {
		text, evs := e.scanText(string(data), path)
		res.Events = evs
		if len(evs) > 0 {
			out = []byte(text)
		}
	}

	if onProgress != nil {
		for i := range res.Events {
			onProgress(Progress{File: path, Event: &res.Events[i]})
		}
	}

	if opts.Paths {
		if normalized, changed := NormalizeHomePaths(string(out), e.home); changed {
			out = []byte(normalized)
			res.PathsRewritten = true
		}
	}

	res.Modified = len(res.Events) > 0 || res.PathsRewritten
	if res.Modified && !opts.DryRun {
		if err := fsutil.WriteFileAtomic(path, out, fileMode(path)); err != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("write: %w", err)
		}
	}
	return res
}

// fileMode returns the file's current permissions, so the rewrite keeps them.
func fileMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}
