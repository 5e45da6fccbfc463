package articles

import "time"

// Category is a catalog entry an article can be filed under
type Category struct {
	ID        string    `json:"id" yaml:"id"`
	Slug      string    `json:"slug" yaml:"slug"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
}

// Tag is a catalog label
type Tag struct {
	ID        string    `json:"id" yaml:"id"`
	Slug      string    `json:"slug" yaml:"slug"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
}

// AuthorRecord is a row of the author directory
type AuthorRecord struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	CreatedAt time.Time `json:"createdAt" yaml:"-"`
}

// Projection returns the read-only author view embedded in articles
func (a *AuthorRecord) Projection() *Author {
	return &Author{ID: a.ID, Name: a.Name, Email: a.Email}
}
