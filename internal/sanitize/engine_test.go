package sanitize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moinsen-dev/scrubber/internal/pattern"
	"github.com/moinsen-dev/scrubber/internal/security"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_EndToEnd(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.json", `{"mcpServers":{"s1":{"env":{"MY_API_KEY":"sk-abc123"}}}}`)

	sum := e.Run([]string{path}, Options{}, nil)
	require.Len(t, sum.Results, 1)

	res := sum.Results[0]
	assert.Equal(t, StatusProcessed, res.Status)
	assert.True(t, res.Structured)
	assert.True(t, res.Modified)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "mcpServers.s1.env.MY_API_KEY", res.Events[0].Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `{
  "mcpServers": {
    "s1": {
      "env": {
        "MY_API_KEY": "PLACEHOLDER"
      }
    }
  }
}
`
	assert.Equal(t, want, string(data))
	assert.True(t, sum.OK())
	assert.Equal(t, 1, sum.TotalRedactions())
}

func TestRun_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.json", `{"API_TOKEN":"tok123","db":"postgres://u:p@h/db"}`)

	first := e.Run([]string{path}, Options{}, nil)
	require.True(t, first.OK())
	require.Equal(t, 2, first.TotalRedactions())

	afterFirst, err := os.ReadFile(path)
	require.NoError(t, err)

	second := e.Run([]string{path}, Options{}, nil)
	assert.Zero(t, second.TotalRedactions(), "sanitizing sanitized output must produce no events")
	assert.False(t, second.Results[0].Modified)

	afterSecond, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, afterFirst, afterSecond, "output must be byte-identical")
}

func TestRun_DryRunNoSideEffects(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	content := `{"MY_API_KEY":"sk-abc123"}`
	path := writeFile(t, dir, "cfg.json", content)

	before, err := os.Stat(path)
	require.NoError(t, err)

	dry := e.Run([]string{path}, Options{DryRun: true}, nil)
	require.Len(t, dry.Results, 1)
	assert.True(t, dry.Results[0].Modified, "dry-run still reports what would change")
	assert.Equal(t, 1, dry.TotalRedactions())

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	// The dry run reports exactly the events a real run produces.
	wet := e.Run([]string{path}, Options{}, nil)
	assert.Equal(t, dry.Results[0].Events, wet.Results[0].Events)
}

func TestRun_TextFallback(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "env.sh", "export DATABASE_URL=postgres://svc:pw@db/app\nexport EDITOR=vim\n")

	sum := e.Run([]string{path}, Options{}, nil)
	res := sum.Results[0]
	assert.Equal(t, StatusProcessed, res.Status)
	assert.False(t, res.Structured)
	require.Len(t, res.Events, 1)
	assert.Equal(t, 1, res.Events[0].Line)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export DATABASE_URL=postgres://PLACEHOLDER\nexport EDITOR=vim\n", string(data))
}

func TestRun_MissingFileSkipped(t *testing.T) {
	e := newTestEngine(t)

	sum := e.Run([]string{"/nonexistent/cfg.json"}, Options{}, nil)
	res := sum.Results[0]
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, "not found", res.Reason)
	assert.True(t, sum.OK(), "a missing file is not a failure")
}

func TestRun_FailedFileDoesNotAbortRun(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"MY_API_KEY":"sk-abc"}`)

	// A directory cannot be read as a file.
	sum := e.Run([]string{dir, good}, Options{}, nil)
	require.Len(t, sum.Results, 2)

	assert.Equal(t, StatusFailed, sum.Results[0].Status)
	assert.Error(t, sum.Results[0].Err)
	assert.Equal(t, StatusProcessed, sum.Results[1].Status)
	assert.True(t, sum.Results[1].Modified)

	assert.False(t, sum.OK())
	assert.Equal(t, []string{dir}, sum.FailedFiles())
}

func TestRun_EncryptedFileSkipped(t *testing.T) {
	rules, err := pattern.Default()
	require.NoError(t, err)
	e := New(rules, "")

	dir := t.TempDir()
	encrypted, err := security.Encrypt([]byte(`{"MY_API_KEY":"sk-abc"}`), "pw")
	require.NoError(t, err)
	path := filepath.Join(dir, "secrets.age")
	require.NoError(t, os.WriteFile(path, encrypted, 0o600))

	sum := e.Run([]string{path}, Options{}, nil)
	res := sum.Results[0]
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, "age-encrypted", res.Reason)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, encrypted, data)
}

func TestRun_PathNormalization(t *testing.T) {
	e := newTestEngine(t) // home is /Users/alice
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "project lives in /Users/alice/projects/foo\n")

	// Disabled: untouched.
	sum := e.Run([]string{path}, Options{}, nil)
	assert.False(t, sum.Results[0].Modified)

	// Enabled: rewritten.
	sum = e.Run([]string{path}, Options{Paths: true}, nil)
	res := sum.Results[0]
	assert.True(t, res.Modified)
	assert.True(t, res.PathsRewritten)
	assert.Empty(t, res.Events, "path rewrites are not redactions")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "project lives in ~/projects/foo\n", string(data))
}

func TestRun_PathNormalizationAppliesToJSON(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.json", `{"workdir":"/Users/alice/projects/foo"}`)

	sum := e.Run([]string{path}, Options{Paths: true}, nil)
	require.True(t, sum.Results[0].Modified)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"workdir":"~/projects/foo"}`, string(data))
}

func TestRun_PreservesFileMode(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "private.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"MY_API_KEY":"sk-abc"}`), 0o600))

	sum := e.Run([]string{path}, Options{}, nil)
	require.True(t, sum.OK())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRun_ProgressCallback(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.json", `{"MY_API_KEY":"sk-abc","OTHER_TOKEN":"tok"}`)

	var starts, events, dones int
	e.Run([]string{path}, Options{}, func(p Progress) {
		switch {
		case p.Event != nil:
			events++
		case p.Done:
			dones++
			require.NotNil(t, p.Result)
		default:
			starts++
		}
	})

	assert.Equal(t, 1, starts)
	assert.Equal(t, 2, events)
	assert.Equal(t, 1, dones)
}

func TestSummary_Labels(t *testing.T) {
	e := newTestEngine(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "cfg.json",
		`{"GITHUB_TOKEN":"ghp_abcdefghij1234567890","SLACK_TOKEN":"xoxb-123-abc","plain_SECRET":"nothing fancy"}`)

	sum := e.Run([]string{path}, Options{}, nil)
	assert.Equal(t, []string{"github_pat", "slack_token", "unknown"}, sum.Labels())
}
