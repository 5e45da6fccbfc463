package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
)

// firstQuery returns the first non-empty value among keys, so aliases like
// pageSize/limit and search/query both work.
func firstQuery(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// queryInt parses an optional integer parameter; absent means 0
func queryInt(q url.Values, keys ...string) (int, error) {
	raw := firstQuery(q, keys...)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidation(keys[0], fmt.Sprintf("must be an integer, got %q", raw))
	}
	return n, nil
}

// queryBool parses an optional tri-state boolean parameter
func queryBool(q url.Values, key string) (*bool, error) {
	raw := firstQuery(q, key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidation(key, fmt.Sprintf("must be true or false, got %q", raw))
	}
	return &b, nil
}

// parseListFilters reads list parameters from the query string.
// Range checks happen in the query service; only syntax is checked here.
func parseListFilters(r *http.Request) (*models.ListFilters, error) {
	q := r.URL.Query()

	page, err := queryInt(q, "page")
	if err != nil {
		return nil, err
	}
	pageSize, err := queryInt(q, "pageSize", "limit")
	if err != nil {
		return nil, err
	}
	highlight, err := queryBool(q, "projectHighlight")
	if err != nil {
		return nil, err
	}
	published, err := models.ParsePublishedFilter(q.Get("published"))
	if err != nil {
		return nil, domain.NewValidation("published", err.Error())
	}

	return &models.ListFilters{
		Page:             page,
		PageSize:         pageSize,
		Published:        published,
		Type:             models.ArticleType(firstQuery(q, "type")),
		Category:         firstQuery(q, "category"),
		AuthorID:         firstQuery(q, "authorId"),
		Sentiment:        models.Sentiment(firstQuery(q, "sentiment")),
		Level:            models.Level(firstQuery(q, "level")),
		ProjectHighlight: highlight,
		Search:           firstQuery(q, "search", "query"),
		SortBy:           models.SortField(firstQuery(q, "sortBy")),
		SortOrder:        models.SortOrder(strings.ToLower(firstQuery(q, "sortOrder"))),
	}, nil
}
