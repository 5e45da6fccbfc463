package articles

import (
	"strings"
	"time"
)

// ArticleType classifies an article
type ArticleType string

const (
	TypeNews        ArticleType = "news"
	TypeEducational ArticleType = "educational"
	TypeResource    ArticleType = "resource"
)

// Level is the difficulty of an educational article
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Sentiment is the editorial tone of a news article
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// WarningLevel marks articles that carry a risk notice
type WarningLevel string

const (
	WarningInfo    WarningLevel = "info"
	WarningWarning WarningLevel = "warning"
	WarningDanger  WarningLevel = "danger"
)

// AllTypes lists every article type in display order
var AllTypes = []ArticleType{TypeNews, TypeEducational, TypeResource}

// AllLevels lists every level
var AllLevels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

// AllSentiments lists every sentiment
var AllSentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// AllWarningLevels lists every warning level
var AllWarningLevels = []WarningLevel{WarningInfo, WarningWarning, WarningDanger}

// Article is the core content entity
type Article struct {
	ID               string        `json:"id"`
	Slug             string        `json:"slug"`
	Title            string        `json:"title"`
	Content          string        `json:"content"`
	Excerpt          string        `json:"excerpt"`
	Type             ArticleType   `json:"type"`
	Category         string        `json:"category"`
	Level            *Level        `json:"level,omitempty"`
	Sentiment        Sentiment     `json:"sentiment"`
	ContentType      *string       `json:"contentType,omitempty"`
	WarningLevel     *WarningLevel `json:"warningLevel,omitempty"`
	ProjectHighlight bool          `json:"projectHighlight"`
	ReadTime         string        `json:"readTime"`
	CoverImage       *string       `json:"coverImage,omitempty"`
	CoverImageAlt    *string       `json:"coverImageAlt,omitempty"`
	Published        bool          `json:"published"`

	FactCheckScore   *int       `json:"factCheckScore,omitempty"`
	FactCheckSources []string   `json:"factCheckSources"`
	FactCheckStatus  *string    `json:"factCheckStatus,omitempty"`
	FactCheckDate    *time.Time `json:"factCheckDate,omitempty"`

	Tags              []string `json:"tags"`
	Keywords          []string `json:"keywords"`
	SecurityTips      []string `json:"securityTips"`
	RelatedArticleIDs []string `json:"relatedArticleIds"`

	AuthorID  string     `json:"authorId"`
	Author    *Author    `json:"author,omitempty"`
	Citations []Citation `json:"citations,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Author is the read-only projection of the article's author
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderedSet drops blanks and duplicates while keeping first-occurrence order.
// Always returns a non-nil slice so JSON renders [] rather than null.
func OrderedSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// NextUpdatedAt returns a timestamp strictly after prev.
// Postgres stores microseconds, so the bump is one microsecond.
func NextUpdatedAt(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}
