// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCampaignName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"assets/newsletters/2024-05.pdf", "2024-05"},
		{"spring.issue.pdf", "spring.issue"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, CampaignName(tt.path))
		})
	}
}

func TestNewNewsletters(t *testing.T) {
	root := t.TempDir()
	assets := filepath.Join(root, "assets", "newsletters")
	out := filepath.Join(root, "newsletters")

	touch(t, filepath.Join(assets, "2024-05.pdf"))
	touch(t, filepath.Join(assets, "2024-03.pdf"))
	touch(t, filepath.Join(assets, "2024-04.PDF"))
	touch(t, filepath.Join(assets, "notes.txt"))
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "drafts.pdf"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(out, "2024-03", "img"), 0o755))
	touch(t, filepath.Join(out, "2024-05"))

	got, err := NewNewsletters(assets, out)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(assets, "2024-04.PDF"),
		filepath.Join(assets, "2024-05.pdf"),
	}, got, "published stems are skipped and a plain file does not count as a campaign")
}

func TestNewNewsletters_NothingPublished(t *testing.T) {
	root := t.TempDir()
	assets := filepath.Join(root, "assets")
	touch(t, filepath.Join(assets, "a.pdf"))

	got, err := NewNewsletters(assets, filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(assets, "a.pdf")}, got)
}

func TestNewNewsletters_MissingAssets(t *testing.T) {
	_, err := NewNewsletters(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading assets directory")
}

func TestCountCampaigns(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(out, "b"), 0o755))
	touch(t, filepath.Join(out, "registry.db"))

	n, err := CountCampaigns(out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = CountCampaigns(filepath.Join(out, "missing"))
	require.NoError(t, err)
	assert.Zero(t, n)
}
