package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHomePaths(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		home        string
		want        string
		wantChanged bool
	}{
		{
			name:        "home prefix rewritten",
			content:     "project at /Users/alice/projects/foo",
			home:        "/Users/alice",
			want:        "project at ~/projects/foo",
			wantChanged: true,
		},
		{
			name:        "linux home rewritten",
			content:     "cache: /home/alice/.cache/tool",
			home:        "/home/alice",
			want:        "cache: ~/.cache/tool",
			wantChanged: true,
		},
		{
			name:        "other users untouched",
			content:     "shared at /Users/bob/stuff",
			home:        "/Users/alice",
			want:        "shared at /Users/bob/stuff",
			wantChanged: false,
		},
		{
			name:        "sibling prefix untouched",
			content:     "shared at /Users/alicesmith/stuff",
			home:        "/Users/alice",
			want:        "shared at /Users/alicesmith/stuff",
			wantChanged: false,
		},
		{
			name:        "bare home at end of text",
			content:     "workdir is /Users/alice",
			home:        "/Users/alice",
			want:        "workdir is ~",
			wantChanged: true,
		},
		{
			name:        "quoted json value",
			content:     `{"cwd": "/Users/alice/projects", "bin": "/Users/alice"}`,
			home:        "/Users/alice",
			want:        `{"cwd": "~/projects", "bin": "~"}`,
			wantChanged: true,
		},
		{
			name:        "multiple occurrences",
			content:     "/Users/alice/a and /Users/alice/b",
			home:        "/Users/alice",
			want:        "~/a and ~/b",
			wantChanged: true,
		},
		{
			name:        "trailing slash on home",
			content:     "/Users/alice/projects",
			home:        "/Users/alice/",
			want:        "~/projects",
			wantChanged: true,
		},
		{
			name:        "empty home is a no-op",
			content:     "/Users/alice/projects",
			home:        "",
			want:        "/Users/alice/projects",
			wantChanged: false,
		},
		{
			name:        "root home is a no-op",
			content:     "anything /at/all",
			home:        "/",
			want:        "anything /at/all",
			wantChanged: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := NormalizeHomePaths(tt.content, tt.home)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}
