package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/infra/generator"
	"newsdesk/internal/usecase/draft"
)

type nopStore struct{}

func (nopStore) Save(context.Context, *entity.NewsArticle) error     { return nil }
func (nopStore) SourceDrafted(context.Context, string) (bool, error) { return false, nil }

func writeSources(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	doc := "sources:\n" +
		"  - name: Example World\n    feed_url: https://example.com/world.xml\n    category: world\n" +
		"  - name: Example Sports\n    feed_url: https://example.com/sports.xml\n    category: sports\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestNewDraftService_WithoutProviderKeyFallsBackToSentinel(t *testing.T) {
	t.Setenv("SOURCES_FILE", writeSources(t))
	t.Setenv("DRAFT_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DRAFT_PERSIST_SENTINEL", "true")
	t.Setenv("DRAFT_SKIP_EXISTING", "false")

	var buf bytes.Buffer
	svc, err := NewDraftService(nopStore{}, slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, err)
	assert.Len(t, svc.Sources, 2)
	assert.IsType(t, generator.Unavailable{}, svc.Generator)
	assert.True(t, svc.Options.PersistSentinel)
	assert.False(t, svc.Options.SkipExisting)
	assert.Contains(t, buf.String(), "draft generator disabled")
}

func TestNewDraftService_WithProvider(t *testing.T) {
	t.Setenv("SOURCES_FILE", "")
	t.Setenv("DRAFT_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	svc, err := NewDraftService(nopStore{}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	require.NoError(t, err)
	assert.NotEmpty(t, svc.Sources, "embedded registry")
	assert.IsType(t, &generator.OpenAI{}, svc.Generator)
	assert.True(t, svc.Options.SkipExisting)
	assert.Equal(t, draft.DefaultRunTimeout, svc.Options.RunTimeout)
}

func TestApplyOptions(t *testing.T) {
	t.Run("valid overrides", func(t *testing.T) {
		t.Setenv("DRAFT_PERSIST_SENTINEL", "1")
		t.Setenv("DRAFT_SKIP_EXISTING", "false")
		t.Setenv("DRAFT_RUN_TIMEOUT", "90s")

		opts := draft.DefaultOptions()
		var buf bytes.Buffer
		applyOptions(&opts, slog.New(slog.NewJSONHandler(&buf, nil)))

		assert.True(t, opts.PersistSentinel)
		assert.False(t, opts.SkipExisting)
		assert.Equal(t, 90*time.Second, opts.RunTimeout)
		assert.Empty(t, buf.String())
	})

	t.Run("bad values keep defaults", func(t *testing.T) {
		t.Setenv("DRAFT_PERSIST_SENTINEL", "maybe")
		t.Setenv("DRAFT_SKIP_EXISTING", "")
		t.Setenv("DRAFT_RUN_TIMEOUT", "-5m")

		opts := draft.DefaultOptions()
		var buf bytes.Buffer
		applyOptions(&opts, slog.New(slog.NewJSONHandler(&buf, nil)))

		assert.Equal(t, draft.DefaultOptions(), opts)
		// 不正値ごとに一件ずつ警告が出る
		assert.Contains(t, buf.String(), "DRAFT_PERSIST_SENTINEL")
		assert.Contains(t, buf.String(), "DRAFT_RUN_TIMEOUT")
		assert.NotContains(t, buf.String(), "DRAFT_SKIP_EXISTING")
	})
}

func TestNewDraftService_BadRegistry(t *testing.T) {
	t.Setenv("SOURCES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := NewDraftService(nopStore{}, slog.Default())
	assert.Error(t, err)
}
