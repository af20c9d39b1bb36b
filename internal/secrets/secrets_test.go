// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ContactEmail, "  ops@example.org  \n")
				writeFile(t, dir, BotUser, "LibraryDataBot")
				return dir
			},
			want: map[string]string{
				ContactEmail: "ops@example.org",
				BotUser:      "LibraryDataBot",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files, dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ContactEmail, "ops@example.org")
				writeFile(t, dir, BotUser, "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				ContactEmail: "ops@example.org",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDirectoryIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "not-a-dir", "x")
	_, err := Load(filepath.Join(dir, "not-a-dir"))
	assert.Error(t, err)
}

func TestUserAgent(t *testing.T) {
	s := map[string]string{ContactEmail: "ops@example.org"}
	assert.Equal(t, "biblioteksdata/0.1 (ops@example.org)", UserAgent("biblioteksdata/0.1", s))
	assert.Equal(t, "bd/1 (other@example.org)", UserAgent("bd/1 (other@example.org)", s))
	assert.Equal(t, "biblioteksdata/0.1", UserAgent("biblioteksdata/0.1", nil))
}

func TestEditSummary(t *testing.T) {
	assert.Equal(t, "#LibraryData_KB (User:LibraryDataBot)",
		EditSummary("#LibraryData_KB", map[string]string{BotUser: "LibraryDataBot"}))
	assert.Equal(t, "#LibraryData_KB", EditSummary("#LibraryData_KB", map[string]string{}))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
