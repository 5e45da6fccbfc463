package config

import "time"

const (
	// MaxBulkSize is the hard ceiling on ids per bulk operation.
	// Larger batches are rejected before touching storage.
	MaxBulkSize = 50

	// DefaultPageSize is used when a list request omits pageSize.
	DefaultPageSize = 12

	// MaxPageSize caps pageSize; larger requests are clamped, not rejected.
	MaxPageSize = 100

	// MaxTitleLength / MinTitleLength bound article titles.
	MinTitleLength = 10
	MaxTitleLength = 200

	// MinSlugLength / MaxSlugLength bound article slugs.
	MinSlugLength = 3
	MaxSlugLength = 100

	// MaxExcerptLength bounds stored excerpts.
	MaxExcerptLength = 500

	// MaxCitations is the most citations one article may carry.
	MaxCitations = 20

	// MaxTags is the most tag ids accepted on create/update.
	MaxTags = 10

	// MaxRelatedArticles is the most related article ids per article.
	MaxRelatedArticles = 5

	// MaxReadTimeMinutes bounds an explicit read-time override.
	MaxReadTimeMinutes = 120

	// DefaultStatsCacheTTL is how long a cached stats snapshot is served.
	DefaultStatsCacheTTL = 30 * time.Second
)
