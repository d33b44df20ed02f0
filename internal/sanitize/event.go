package sanitize

import (
	"fmt"
	"sort"
)

// Status is the per-file outcome of a run.
type Status int

const (
	// StatusProcessed means every pass ran; the file may or may not have been modified.
	StatusProcessed Status = iota
	// StatusSkipped means the file was not sanitized (missing, or already encrypted).
	StatusSkipped
	// StatusFailed means the file could not be read, serialized, or written.
	StatusFailed
)

// String returns the lowercase string representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event records one redaction. It deliberately carries no value: the secret
// itself must never reach a log line or report.
type Event struct {
	File  string
	Path  string // dotted key path for structured documents, e.g. env.MY_API_KEY or servers[0].token
	Line  int    // 1-based line number for text documents, 0 otherwise
	Rule  string // name of the rule that fired
	Label string // token classification, empty for non-string values
}

// Locator renders the position of the event inside its file.
func (e Event) Locator() string {
	if e.Path != "" {
		return e.Path
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d", e.Line)
	}
	return "(document)"
}

// FileResult is the outcome of sanitizing one file.
type FileResult struct {
	Path           string
	Status         Status
	Structured     bool // parsed as JSON rather than scanned as text
	Modified       bool
	PathsRewritten bool
	Events         []Event
	Reason         string // why the file was skipped
	Err            error
}

// Summary aggregates results across a whole invocation. It lives only for
// the duration of the run and is handed to the caller at the end.
type Summary struct {
	Results []FileResult
}

// TotalRedactions returns the number of redaction events across all files.
func (s *Summary) TotalRedactions() int {
	n := 0
	for _, r := range s.Results {
		n += len(r.Events)
	}
	return n
}

// Labels returns the distinct token-type labels observed, sorted.
func (s *Summary) Labels() []string {
	seen := make(map[string]bool)
	for _, r := range s.Results {
		for _, e := range r.Events {
			if e.Label != "" {
				seen[e.Label] = true
			}
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// ModifiedFiles returns the paths of files that were (or in dry-run mode,
// would be) changed.
func (s *Summary) ModifiedFiles() []string {
	var paths []string
	for _, r := range s.Results {
		if r.Modified {
			paths = append(paths, r.Path)
		}
	}
	return paths
}

// FailedFiles returns the paths of files that hit an I/O or serialization error.
func (s *Summary) FailedFiles() []string {
	var paths []string
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			paths = append(paths, r.Path)
		}
	}
	return paths
}

// OK reports whether no file failed. Zero redactions is still a success.
func (s *Summary) OK() bool {
	return len(s.FailedFiles()) == 0
}

// Progress describes a reportable moment during a run: a file starting
// (zero value), a single redaction (Event set), or a file finishing (Done
// set with its Result).
type Progress struct {
	File   string
	Done   bool
	Event  *Event
	Result *FileResult
}

// ProgressFunc receives Progress notices as the run advances. A nil
// ProgressFunc silences all reporting.
type ProgressFunc func(p Progress)
