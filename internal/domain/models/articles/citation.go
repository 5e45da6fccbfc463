package articles

import "time"

// Citation is a source reference owned by exactly one article
type Citation struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"articleId"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Domain    string    `json:"domain"`
	Order     int       `json:"order"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// CitationInput is a raw citation as supplied by callers
type CitationInput struct {
	URL      string  `json:"url"`
	Title    *string `json:"title,omitempty"`
	Order    *int    `json:"order,omitempty"`
	Verified *bool   `json:"verified,omitempty"`
}
