package articles

import (
	"context"
	"fmt"

	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
)

// relationshipInput lists the ids a write wants to reference.
// Nil fields are not checked.
type relationshipInput struct {
	CategoryID *string
	TagIDs     []string
	RelatedIDs []string
}

// resolvedRelationships is what a successful check found
type resolvedRelationships struct {
	Category *models.Category
	Tags     []models.Tag // in request order
}

// RelationshipVerifier checks that referenced catalog rows and articles exist
type RelationshipVerifier struct {
	articleRepo articlesRepo.ArticleRepository
	catalogRepo articlesRepo.CatalogRepository
	authorRepo  articlesRepo.AuthorRepository
}

// NewRelationshipVerifier creates a new verifier
func NewRelationshipVerifier(
	articleRepo articlesRepo.ArticleRepository,
	catalogRepo articlesRepo.CatalogRepository,
	authorRepo articlesRepo.AuthorRepository,
) *RelationshipVerifier {
	return &RelationshipVerifier{
		articleRepo: articleRepo,
		catalogRepo: catalogRepo,
		authorRepo:  authorRepo,
	}
}

// Verify fails with a NotFoundError naming exactly the missing ids
func (v *RelationshipVerifier) Verify(ctx context.Context, in relationshipInput) (*resolvedRelationships, error) {
	out := &resolvedRelationships{}

	if in.CategoryID != nil {
		categories, err := v.catalogRepo.CategoriesByIDs(ctx, []string{*in.CategoryID})
		if err != nil {
			return nil, fmt.Errorf("verify category: %w", err)
		}
		if len(categories) == 0 {
			return nil, domain.NewNotFound("category", *in.CategoryID)
		}
		out.Category = &categories[0]
	}

	if len(in.TagIDs) > 0 {
		tags, err := v.catalogRepo.TagsByIDs(ctx, in.TagIDs)
		if err != nil {
			return nil, fmt.Errorf("verify tags: %w", err)
		}
		byID := make(map[string]models.Tag, len(tags))
		for _, t := range tags {
			byID[t.ID] = t
		}
		var missing []string
		for _, id := range in.TagIDs {
			t, ok := byID[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			out.Tags = append(out.Tags, t)
		}
		if len(missing) > 0 {
			return nil, domain.NewNotFound("tags", missing...)
		}
	}

	if len(in.RelatedIDs) > 0 {
		existing, err := v.articleRepo.ExistingIDs(ctx, in.RelatedIDs)
		if err != nil {
			return nil, fmt.Errorf("verify related articles: %w", err)
		}
		if missing := difference(in.RelatedIDs, existing); len(missing) > 0 {
			return nil, domain.NewNotFound("related articles", missing...)
		}
	}

	return out, nil
}

// Author resolves the author directory entry for id
func (v *RelationshipVerifier) Author(ctx context.Context, id string) (*models.AuthorRecord, error) {
	author, err := v.authorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("verify author: %w", err)
	}
	return author, nil
}

// difference returns the entries of want not present in have, keeping order
func difference(want, have []string) []string {
	seen := make(map[string]struct{}, len(have))
	for _, id := range have {
		seen[id] = struct{}{}
	}
	var missing []string
	for _, id := range want {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
