package articles

import (
	"fmt"
	"strings"
)

// SortField is a column the list can be ordered by
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByTitle     SortField = "title"
)

// SortOrder is the list direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Default list configuration values
const (
	DefaultPage      = 1
	DefaultSortField = SortByCreatedAt
	DefaultSortOrder = SortDesc
	MaxSearchLength  = 200
)

// PublishedFilter is the tri-state publication filter
type PublishedFilter string

const (
	PublishedAll   PublishedFilter = "all"
	PublishedOnly  PublishedFilter = "true"
	PublishedDraft PublishedFilter = "false"
)

// ParsePublishedFilter maps the query-string forms onto the tri-state.
// Empty input means "all".
func ParsePublishedFilter(raw string) (PublishedFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return PublishedAll, nil
	case "true", "1", "yes":
		return PublishedOnly, nil
	case "false", "0", "no":
		return PublishedDraft, nil
	default:
		return "", fmt.Errorf("invalid published filter %q (supported: all, true, false)", raw)
	}
}

// Bool returns the concrete value to filter on, or nil for "all"
func (f PublishedFilter) Bool() *bool {
	switch f {
	case PublishedOnly:
		v := true
		return &v
	case PublishedDraft:
		v := false
		return &v
	default:
		return nil
	}
}

// ListFilters configures a paginated article listing.
// Zero values mean "no constraint" for every filter field.
type ListFilters struct {
	Page     int
	PageSize int

	Published        PublishedFilter
	Type             ArticleType
	Category         string
	AuthorID         string
	Sentiment        Sentiment
	Level            Level
	ProjectHighlight *bool
	Search           string

	SortBy    SortField
	SortOrder SortOrder
}

// ApplyDefaults saturates pagination into range and fills sort defaults
func (f *ListFilters) ApplyDefaults(defaultPageSize, maxPageSize int) {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	if f.Published == "" {
		f.Published = PublishedAll
	}
	if f.SortBy == "" {
		f.SortBy = DefaultSortField
	}
	if f.SortOrder == "" {
		f.SortOrder = DefaultSortOrder
	}
	f.Search = strings.TrimSpace(f.Search)
}

// Validate rejects values that cannot be saturated into range
func (f *ListFilters) Validate() error {
	switch f.SortBy {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle:
	default:
		return fmt.Errorf("invalid sortBy %q (supported: createdAt, updatedAt, title)", f.SortBy)
	}
	switch f.SortOrder {
	case SortAsc, SortDesc:
	default:
		return fmt.Errorf("invalid sortOrder %q (supported: asc, desc)", f.SortOrder)
	}
	switch f.Published {
	case PublishedAll, PublishedOnly, PublishedDraft:
	default:
		return fmt.Errorf("invalid published filter %q", f.Published)
	}
	if f.Type != "" && !containsType(f.Type) {
		return fmt.Errorf("invalid type %q", f.Type)
	}
	if f.Sentiment != "" && !containsSentiment(f.Sentiment) {
		return fmt.Errorf("invalid sentiment %q", f.Sentiment)
	}
	if f.Level != "" && !containsLevel(f.Level) {
		return fmt.Errorf("invalid level %q", f.Level)
	}
	if len([]rune(f.Search)) > MaxSearchLength {
		return fmt.Errorf("search cannot exceed %d characters", MaxSearchLength)
	}
	return nil
}

// Offset is the number of rows skipped for the current page
func (f *ListFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Page is one slice of a listing plus the metadata to navigate it
type Page struct {
	Items      []Article `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalPages int       `json:"totalPages"`
	HasMore    bool      `json:"hasMore"`
}

// NewPage computes totalPages and hasMore for a result slice
func NewPage(items []Article, total int, f *ListFilters) *Page {
	if items == nil {
		items = []Article{}
	}
	totalPages := 0
	if f.PageSize > 0 {
		totalPages = (total + f.PageSize - 1) / f.PageSize
	}
	return &Page{
		Items:      items,
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: totalPages,
		HasMore:    f.Page < totalPages,
	}
}

func containsType(t ArticleType) bool {
	for _, v := range AllTypes {
		if v == t {
			return true
		}
	}
	return false
}

func containsSentiment(s Sentiment) bool {
	for _, v := range AllSentiments {
		if v == s {
			return true
		}
	}
	return false
}

func containsLevel(l Level) bool {
	for _, v := range AllLevels {
		if v == l {
			return true
		}
	}
	return false
}
