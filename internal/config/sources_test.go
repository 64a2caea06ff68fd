package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSources_EmbeddedDefault(t *testing.T) {
	srcs, err := LoadSources("")
	require.NoError(t, err)
	require.NotEmpty(t, srcs)

	var sports int
	for _, s := range srcs {
		if s.Category == "sports" {
			sports++
		}
	}
	assert.Equal(t, 1, sports)
}

func TestLoadSourcesFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - name: Local Sport
    feed_url: https://local.example/sport.xml
    category: Sports
`), 0o600))
	t.Setenv("SOURCES_FILE", path)

	srcs, err := LoadSourcesFromEnv()
	require.NoError(t, err)
	require.Len(t, srcs, 1)
	assert.Equal(t, "sports", srcs[0].Category)
}

func TestLoadSources_MissingFile(t *testing.T) {
	_, err := LoadSources(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseSources_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "sources: []"},
		{"not yaml", "sources: [\n"},
		{"unknown field", "sources:\n  - name: A\n    feed_url: https://a.example/rss\n    category: x\n    weight: 3\n"},
		{"missing name", "sources:\n  - feed_url: https://a.example/rss\n    category: x\n"},
		{"relative url", "sources:\n  - name: A\n    feed_url: /rss\n    category: x\n"},
		{"ftp url", "sources:\n  - name: A\n    feed_url: ftp://a.example/rss\n    category: x\n"},
		{"missing category", "sources:\n  - name: A\n    feed_url: https://a.example/rss\n"},
		{"duplicate feed", `
sources:
  - name: A
    feed_url: https://a.example/rss
    category: world
  - name: B
    feed_url: https://a.example/rss
    category: sports
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSources([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
