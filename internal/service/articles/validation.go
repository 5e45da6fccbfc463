package articles

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"newsdesk/internal/config"
	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	articlesSvc "newsdesk/internal/domain/services/articles"
	"newsdesk/internal/service/content"
)

var (
	typeRule      = validation.In(toAny(models.AllTypes)...).Error("must be one of: news, educational, resource")
	sentimentRule = validation.In(toAny(models.AllSentiments)...).Error("must be one of: positive, neutral, negative")
	levelRule     = validation.In(toAny(models.AllLevels)...).Error("must be one of: beginner, intermediate, advanced")
	warningRule   = validation.In(toAny(models.AllWarningLevels)...).Error("must be one of: info, warning, danger")

	// Optional* fields carry plain strings, so the enum values are compared as strings
	levelNameRule   = validation.In(toStrings(models.AllLevels)...).Error("must be one of: beginner, intermediate, advanced")
	warningNameRule = validation.In(toStrings(models.AllWarningLevels)...).Error("must be one of: info, warning, danger")

	slugRules = []validation.Rule{
		validation.Length(config.MinSlugLength, config.MaxSlugLength),
		validation.Match(content.SlugPattern).Error("must contain only lowercase letters, digits and single hyphens"),
	}
)

func validateCreate(req *articlesSvc.CreateArticleRequest) error {
	errs := validation.Errors{
		"title":             validation.Validate(req.Title, validation.Required, validation.RuneLength(config.MinTitleLength, config.MaxTitleLength)),
		"slug":              validation.Validate(req.Slug, slugRules...),
		"content":           validation.Validate(req.Content, validation.Required),
		"excerpt":           validation.Validate(req.Excerpt, validation.RuneLength(0, config.MaxExcerptLength)),
		"type":              validation.Validate(req.Type, typeRule),
		"sentiment":         validation.Validate(req.Sentiment, sentimentRule),
		"level":             validation.Validate(req.Level, levelRule),
		"warningLevel":      validation.Validate(req.WarningLevel, warningRule),
		"factCheckScore":    validation.Validate(req.FactCheckScore, validation.Min(0), validation.Max(100)),
		"readTime":          validation.Validate(req.ReadTime, validation.Min(1), validation.Max(config.MaxReadTimeMinutes)),
		"tagIds":            validation.Validate(req.TagIDs, validation.Length(0, config.MaxTags)),
		"relatedArticleIds": validation.Validate(req.RelatedArticleIDs, validation.Length(0, config.MaxRelatedArticles)),
		"citations":         validation.Validate(req.Citations, validation.Length(0, config.MaxCitations)),
	}
	return toDomainError(errs.Filter())
}

func validateUpdate(req *articlesSvc.UpdateArticleRequest) error {
	errs := validation.Errors{
		"title":             validation.Validate(req.Title, validation.NilOrNotEmpty, validation.RuneLength(config.MinTitleLength, config.MaxTitleLength)),
		"slug":              validation.Validate(req.Slug, append([]validation.Rule{validation.NilOrNotEmpty}, slugRules...)...),
		"content":           validation.Validate(req.Content, validation.NilOrNotEmpty),
		"excerpt":           validation.Validate(req.Excerpt, validation.RuneLength(0, config.MaxExcerptLength)),
		"type":              validation.Validate(req.Type, typeRule),
		"sentiment":         validation.Validate(req.Sentiment, sentimentRule),
		"level":             validation.Validate(req.Level.Value, levelNameRule),
		"warningLevel":      validation.Validate(req.WarningLevel.Value, warningNameRule),
		"factCheckScore":    validation.Validate(req.FactCheckScore.Value, validation.Min(0), validation.Max(100)),
		"readTime":          validation.Validate(req.ReadTime, validation.Min(1), validation.Max(config.MaxReadTimeMinutes)),
		"tagIds":            validation.Validate(req.TagIDs, validation.Length(0, config.MaxTags)),
		"relatedArticleIds": validation.Validate(req.RelatedArticleIDs, validation.Length(0, config.MaxRelatedArticles)),
		"citations":         validation.Validate(req.Citations, validation.Length(0, config.MaxCitations)),
		"authorId":          validation.Validate(req.AuthorID, validation.NilOrNotEmpty),
	}
	return toDomainError(errs.Filter())
}

// toDomainError converts ozzo errors into a *domain.ValidationError.
// A single failing field is reported by name; several are listed in the message.
func toDomainError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &domain.ValidationError{Message: err.Error()}
	}

	if len(errs) == 1 {
		for field, fieldErr := range errs {
			return domain.NewValidation(field, fieldErr.Error())
		}
	}

	return &domain.ValidationError{Message: errs.Error()}
}

func toAny[T any](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func toStrings[T ~string](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
