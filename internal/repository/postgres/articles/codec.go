package articles

import (
	"encoding/json"
	"fmt"
	"time"

	models "newsdesk/internal/domain/models/articles"
)

// articleColumns is the projection shared by every article read.
// The author columns come from a LEFT JOIN and may be NULL.
const articleColumns = `a.id, a.slug, a.title, a.content, a.excerpt, a.type, a.category, a.level,
	a.sentiment, a.content_type, a.warning_level, a.project_highlight, a.read_time,
	a.cover_image, a.cover_image_alt, a.published, a.fact_check_score, a.fact_check_sources,
	a.fact_check_status, a.fact_check_date, a.tags, a.keywords, a.security_tips,
	a.related_article_ids, a.author_id, a.created_at, a.updated_at, au.name, au.email`

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*models.Article, error) {
	var (
		a                                              models.Article
		articleType, sentiment                         string
		level, warningLevel                            *string
		factSources, tags, keywords, tips, relatedJSON string
		authorName, authorEmail                        *string
	)

	err := row.Scan(
		&a.ID,
		&a.Slug,
		&a.Title,
		&a.Content,
		&a.Excerpt,
		&articleType,
		&a.Category,
		&level,
		&sentiment,
		&a.ContentType,
		&warningLevel,
		&a.ProjectHighlight,
		&a.ReadTime,
		&a.CoverImage,
		&a.CoverImageAlt,
		&a.Published,
		&a.FactCheckScore,
		&factSources,
		&a.FactCheckStatus,
		&a.FactCheckDate,
		&tags,
		&keywords,
		&tips,
		&relatedJSON,
		&a.AuthorID,
		&a.CreatedAt,
		&a.UpdatedAt,
		&authorName,
		&authorEmail,
	)
	if err != nil {
		return nil, err
	}

	a.Type = models.ArticleType(articleType)
	a.Sentiment = models.Sentiment(sentiment)
	if level != nil {
		l := models.Level(*level)
		a.Level = &l
	}
	if warningLevel != nil {
		w := models.WarningLevel(*warningLevel)
		a.WarningLevel = &w
	}

	for _, f := range []struct {
		raw  string
		dest *[]string
		name string
	}{
		{factSources, &a.FactCheckSources, "fact_check_sources"},
		{tags, &a.Tags, "tags"},
		{keywords, &a.Keywords, "keywords"},
		{tips, &a.SecurityTips, "security_tips"},
		{relatedJSON, &a.RelatedArticleIDs, "related_article_ids"},
	} {
		values, err := decodeList(f.raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s of article %s: %w", f.name, a.ID, err)
		}
		*f.dest = values
	}

	if authorName != nil {
		a.Author = &models.Author{ID: a.AuthorID, Name: *authorName}
		if authorEmail != nil {
			a.Author.Email = *authorEmail
		}
	}

	return &a, nil
}

// encodeList serializes an ordered collection as a JSON array
func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	b, err := json.Marshal(values)
	if err != nil {
		// []string always marshals
		return "[]"
	}
	return string(b)
}

func decodeList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func levelValue(l *models.Level) *string {
	if l == nil {
		return nil
	}
	s := string(*l)
	return &s
}

func warningValue(w *models.WarningLevel) *string {
	if w == nil {
		return nil
	}
	s := string(*w)
	return &s
}

func timeValue(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
