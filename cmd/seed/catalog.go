package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"newsdesk/internal/auth"
	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
)

// seedCatalog is the YAML file describing reference data
type seedCatalog struct {
	Categories  []models.Category `yaml:"categories"`
	Tags        []models.Tag      `yaml:"tags"`
	Authors     []seedAuthor      `yaml:"authors"`
	ArticlesDir string            `yaml:"articles_dir"`
}

// seedAuthor is an author row plus the optional login provisioned for it
type seedAuthor struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

func loadCatalog(path string) (*seedCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c seedCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	// articles_dir is relative to the catalog file
	if c.ArticlesDir != "" && !filepath.IsAbs(c.ArticlesDir) {
		c.ArticlesDir = filepath.Join(filepath.Dir(path), c.ArticlesDir)
	}
	return &c, nil
}

func (c *seedCatalog) validate() error {
	slugs := make(map[string]bool)
	for i, cat := range c.Categories {
		if cat.Slug == "" || cat.Name == "" {
			return fmt.Errorf("categories[%d]: slug and name are required", i)
		}
		if slugs[cat.Slug] {
			return fmt.Errorf("categories[%d]: duplicate slug %q", i, cat.Slug)
		}
		slugs[cat.Slug] = true
	}

	slugs = make(map[string]bool)
	for i, tag := range c.Tags {
		if tag.Slug == "" || tag.Name == "" {
			return fmt.Errorf("tags[%d]: slug and name are required", i)
		}
		if slugs[tag.Slug] {
			return fmt.Errorf("tags[%d]: duplicate slug %q", i, tag.Slug)
		}
		slugs[tag.Slug] = true
	}

	emails := make(map[string]bool)
	for i, a := range c.Authors {
		email := strings.ToLower(strings.TrimSpace(a.Email))
		if email == "" || a.Name == "" {
			return fmt.Errorf("authors[%d]: name and email are required", i)
		}
		if emails[email] {
			return fmt.Errorf("authors[%d]: duplicate email %q", i, a.Email)
		}
		emails[email] = true
	}
	return nil
}

// upsertCatalog writes categories, tags and authors.
// Category and tag ids default to "category-<slug>" / "tag-<slug>" so reruns are stable.
// With an admin client, author ids come from the auth provider so tokens
// issued to them map onto their rows.
func upsertCatalog(ctx context.Context, c *seedCatalog, catalogRepo articlesRepo.CatalogRepository, authorRepo articlesRepo.AuthorRepository, admin *auth.AdminClient, adminRole string) error {
	for i := range c.Categories {
		cat := &c.Categories[i]
		if cat.ID == "" {
			cat.ID = "category-" + cat.Slug
		}
		if err := catalogRepo.UpsertCategory(ctx, cat); err != nil {
			return fmt.Errorf("category %s: %w", cat.Slug, err)
		}
	}
	log.Printf("Upserted %d categories", len(c.Categories))

	for i := range c.Tags {
		tag := &c.Tags[i]
		if tag.ID == "" {
			tag.ID = "tag-" + tag.Slug
		}
		if err := catalogRepo.UpsertTag(ctx, tag); err != nil {
			return fmt.Errorf("tag %s: %w", tag.Slug, err)
		}
	}
	log.Printf("Upserted %d tags", len(c.Tags))

	for i := range c.Authors {
		a := &c.Authors[i]
		if admin != nil && a.Password != "" {
			role := a.Role
			if role == "" {
				role = adminRole
			}
			id, err := admin.EnsureUser(ctx, a.Email, a.Name, a.Password, role)
			if err != nil {
				return fmt.Errorf("provision login for %s: %w", a.Email, err)
			}
			a.ID = id
		}
		if a.ID == "" {
			existing, err := authorRepo.GetByEmail(ctx, a.Email)
			switch {
			case err == nil:
				a.ID = existing.ID
			case errors.Is(err, domain.ErrNotFound):
				a.ID = uuid.NewString()
			default:
				return fmt.Errorf("look up author %s: %w", a.Email, err)
			}
		}
		record := &models.AuthorRecord{ID: a.ID, Name: a.Name, Email: a.Email}
		if err := authorRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("author %s: %w", a.Email, err)
		}
	}
	log.Printf("Upserted %d authors", len(c.Authors))
	return nil
}

// markdownFiles lists the .md files of dir in name order
func markdownFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
