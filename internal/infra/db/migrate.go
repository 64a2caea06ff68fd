package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
var schema = []struct {
	name string
	stmt string
}{
	{"news", `CREATE TABLE IF NOT EXISTS news (
    id           BIGSERIAL PRIMARY KEY,
    title        TEXT        NOT NULL,
    slug         TEXT        NOT NULL,
    category     TEXT        NOT NULL,
    sub_category TEXT        NOT NULL DEFAULT '',
    summary      TEXT        NOT NULL DEFAULT '',
    content      TEXT        NOT NULL DEFAULT '',
    image        TEXT        NOT NULL DEFAULT '',
    tags         TEXT[]      NOT NULL DEFAULT '{}',
    status       TEXT        NOT NULL DEFAULT 'draft',
    source_url   TEXT        NOT NULL DEFAULT '',
    published_at TIMESTAMPTZ,
    is_latest    BOOLEAN     NOT NULL DEFAULT FALSE,
    is_trending  BOOLEAN     NOT NULL DEFAULT FALSE,
    is_hidden    BOOLEAN     NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"breaking_news", `CREATE TABLE IF NOT EXISTS breaking_news (
    id         BIGSERIAL PRIMARY KEY,
    title      TEXT        NOT NULL,
    link       TEXT,
    is_active  BOOLEAN     NOT NULL DEFAULT TRUE,
    priority   INTEGER     NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"mail_outbox", `CREATE TABLE IF NOT EXISTS mail_outbox (
    id            BIGSERIAL PRIMARY KEY,
    recipient     TEXT        NOT NULL,
    subject       TEXT        NOT NULL,
    body          TEXT        NOT NULL,
    status        TEXT        NOT NULL DEFAULT 'pending',
    attempts      INTEGER     NOT NULL DEFAULT 0,
    max_attempts  INTEGER     NOT NULL DEFAULT 5,
    last_error    TEXT        NOT NULL DEFAULT '',
    next_retry_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    sent_at       TIMESTAMPTZ
)`},
	{"maintenance_checkpoints", `CREATE TABLE IF NOT EXISTS maintenance_checkpoints (
    job          TEXT PRIMARY KEY,
    last_id      BIGINT      NOT NULL DEFAULT 0,
    completed_at TIMESTAMPTZ,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	// slug is not unique at the storage level: legacy imports may carry
	// duplicates that the maintenance job repairs.
	{"idx_news_category_slug", `CREATE INDEX IF NOT EXISTS idx_news_category_slug ON news(category, slug)`},
	{"idx_news_slug", `CREATE INDEX IF NOT EXISTS idx_news_slug ON news(slug)`},
	{"idx_news_status_created", `CREATE INDEX IF NOT EXISTS idx_news_status_created ON news(status, created_at DESC)`},
	{"idx_news_source_url", `CREATE INDEX IF NOT EXISTS idx_news_source_url ON news(source_url) WHERE source_url <> ''`},
	{"idx_breaking_active_priority", `CREATE INDEX IF NOT EXISTS idx_breaking_active_priority ON breaking_news(is_active, priority DESC)`},
	{"idx_outbox_due", `CREATE INDEX IF NOT EXISTS idx_outbox_due ON mail_outbox(status, next_retry_at)`},
}

// MigrateUp creates the newsdesk schema. It is safe to run on every start.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
	}
	return nil
}
