package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/auth"
	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
)

type memoryCatalog struct {
	categories []models.Category
	tags       []models.Tag
}

func (m *memoryCatalog) CategoriesByIDs(context.Context, []string) ([]models.Category, error) {
	return m.categories, nil
}

func (m *memoryCatalog) TagsByIDs(context.Context, []string) ([]models.Tag, error) {
	return m.tags, nil
}

func (m *memoryCatalog) UpsertCategory(_ context.Context, c *models.Category) error {
	m.categories = append(m.categories, *c)
	return nil
}

func (m *memoryCatalog) UpsertTag(_ context.Context, t *models.Tag) error {
	m.tags = append(m.tags, *t)
	return nil
}

type memoryAuthors map[string]models.AuthorRecord

func (m memoryAuthors) GetByID(_ context.Context, id string) (*models.AuthorRecord, error) {
	if a, ok := m[id]; ok {
		return &a, nil
	}
	return nil, domain.NewNotFound("author", id)
}

func (m memoryAuthors) GetByEmail(_ context.Context, email string) (*models.AuthorRecord, error) {
	for _, a := range m {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, domain.NewNotFound("author", email)
}

func (m memoryAuthors) Upsert(_ context.Context, a *models.AuthorRecord) error {
	m[a.ID] = *a
	return nil
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const catalogYAML = `
categories:
  - slug: bitcoin
    name: Bitcoin
  - id: cat-7
    slug: defi
    name: DeFi
tags:
  - slug: etf
    name: ETF
authors:
  - name: Editor
    email: editor@newsdesk.local
    password: secret
  - id: fixed-id
    name: Research
    email: research@newsdesk.local
articles_dir: articles
`

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", catalogYAML)

	c, err := loadCatalog(path)
	require.NoError(t, err)

	assert.Len(t, c.Categories, 2)
	assert.Equal(t, "cat-7", c.Categories[1].ID)
	assert.Equal(t, "etf", c.Tags[0].Slug)
	require.Len(t, c.Authors, 2)
	assert.Equal(t, "secret", c.Authors[0].Password)
	assert.Equal(t, filepath.Join(dir, "articles"), c.ArticlesDir)
}

func TestLoadCatalog_Rejects(t *testing.T) {
	tests := map[string]string{
		"category without name": "categories:\n  - slug: bitcoin\n",
		"duplicate tag":         "tags:\n  - {slug: etf, name: ETF}\n  - {slug: etf, name: Funds}\n",
		"author without email":  "authors:\n  - name: Editor\n",
		"duplicate email":       "authors:\n  - {name: A, email: a@x.io}\n  - {name: B, email: A@X.io}\n",
		"not yaml":              "categories: [unclosed\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "catalog.yaml", body)
			_, err := loadCatalog(path)
			assert.Error(t, err)
		})
	}
}

func TestUpsertCatalog_WithoutAdminClient(t *testing.T) {
	c := &seedCatalog{
		Categories: []models.Category{{Slug: "bitcoin", Name: "Bitcoin"}},
		Tags:       []models.Tag{{Slug: "etf", Name: "ETF"}},
		Authors: []seedAuthor{
			{Name: "Editor", Email: "editor@newsdesk.local", Password: "ignored"},
			{ID: "fixed-id", Name: "Research", Email: "research@newsdesk.local"},
		},
	}
	catalog := &memoryCatalog{}
	authors := memoryAuthors{"existing": {ID: "existing", Name: "Old name", Email: "Editor@newsdesk.local"}}

	require.NoError(t, upsertCatalog(context.Background(), c, catalog, authors, nil, "admin"))

	assert.Equal(t, "category-bitcoin", catalog.categories[0].ID)
	assert.Equal(t, "tag-etf", catalog.tags[0].ID)

	// an author already stored under the same email keeps its id
	assert.Equal(t, "existing", c.Authors[0].ID)
	assert.Equal(t, "Editor", authors["existing"].Name)
	assert.Contains(t, authors, "fixed-id")
	assert.Len(t, authors, 2)
}

func TestUpsertCatalog_ProvisionsLogins(t *testing.T) {
	var created map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"users":[]}`))
		case http.MethodPost:
			_ = json.NewDecoder(r.Body).Decode(&created)
			_, _ = w.Write([]byte(`{"id":"auth-user-1","email":"editor@newsdesk.local"}`))
		}
	}))
	defer srv.Close()

	c := &seedCatalog{Authors: []seedAuthor{{Name: "Editor", Email: "editor@newsdesk.local", Password: "secret"}}}
	authors := memoryAuthors{}

	err := upsertCatalog(context.Background(), c, &memoryCatalog{}, authors, auth.NewAdminClient(srv.URL, "service-key"), "admin")
	require.NoError(t, err)

	assert.Equal(t, "auth-user-1", c.Authors[0].ID)
	assert.Contains(t, authors, "auth-user-1")
	require.NotNil(t, created)
	assert.Equal(t, map[string]interface{}{"role": "admin"}, created["app_metadata"])
}

func TestMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "b")
	writeFile(t, dir, "a.MD", "a")
	writeFile(t, dir, "notes.txt", "skip")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.md"), 0o755))

	files, err := markdownFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.MD"), filepath.Join(dir, "b.md")}, files)
}
