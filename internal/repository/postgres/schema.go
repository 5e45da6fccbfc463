package postgres

import (
	"context"
	"fmt"

	"newsdesk/internal/domain/repositories"
)

// Migrate creates every table and index if missing. Idempotent.
//
// Collections (tags, keywords, security tips, related ids, fact-check sources)
// are JSON arrays stored as TEXT so their order survives round trips.
func Migrate(ctx context.Context, db repositories.DBTX, tables *TableNames, prefix string) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Authors + ` (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT ` + prefix + `authors_email_key UNIQUE (email)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Categories + ` (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT ` + prefix + `categories_slug_key UNIQUE (slug)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Tags + ` (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT ` + prefix + `tags_slug_key UNIQUE (slug)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Articles + ` (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			excerpt TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'news',
			category TEXT NOT NULL DEFAULT '',
			level TEXT,
			sentiment TEXT NOT NULL DEFAULT 'neutral',
			content_type TEXT,
			warning_level TEXT,
			project_highlight BOOLEAN NOT NULL DEFAULT FALSE,
			read_time TEXT NOT NULL,
			cover_image TEXT,
			cover_image_alt TEXT,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			fact_check_score INTEGER CHECK (fact_check_score BETWEEN 0 AND 100),
			fact_check_sources TEXT NOT NULL DEFAULT '[]',
			fact_check_status TEXT,
			fact_check_date TIMESTAMPTZ,
			tags TEXT NOT NULL DEFAULT '[]',
			keywords TEXT NOT NULL DEFAULT '[]',
			security_tips TEXT NOT NULL DEFAULT '[]',
			related_article_ids TEXT NOT NULL DEFAULT '[]',
			author_id TEXT NOT NULL REFERENCES ` + tables.Authors + `(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT ` + prefix + `articles_slug_key UNIQUE (slug)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Citations + ` (
			id TEXT PRIMARY KEY,
			article_id TEXT NOT NULL REFERENCES ` + tables.Articles + `(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			domain TEXT NOT NULL,
			position INTEGER NOT NULL,
			seq INTEGER NOT NULL DEFAULT 0,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`ALTER TABLE ` + tables.Citations + ` ADD COLUMN IF NOT EXISTS seq INTEGER NOT NULL DEFAULT 0`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `articles_published_created ON ` + tables.Articles + `(published, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `articles_type ON ` + tables.Articles + `(type)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `articles_category ON ` + tables.Articles + `(category)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `articles_author ON ` + tables.Articles + `(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `citations_article_position ON ` + tables.Citations + `(article_id, position)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// DropAll drops every table (children first)
func DropAll(ctx context.Context, db repositories.DBTX, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := db.Exec(ctx, "DROP TABLE IF EXISTS "+all[i]+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}

// ClearArticles removes all articles and citations, keeping the catalog
func ClearArticles(ctx context.Context, db repositories.DBTX, tables *TableNames) error {
	if _, err := db.Exec(ctx, "TRUNCATE "+tables.Citations+", "+tables.Articles); err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}
	return nil
}
