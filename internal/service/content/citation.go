package content

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
)

// ExtractDomain returns the URL host without a leading "www.".
func ExtractDomain(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("missing host")
	}
	return strings.TrimPrefix(host, "www."), nil
}

// NormalizeCitation turns raw input at position index into a canonical citation.
// Title defaults to the domain, order to index, verified to false.
// ID, ArticleID and CreatedAt are left for the caller to stamp.
func NormalizeCitation(in models.CitationInput, index int) (models.Citation, error) {
	field := fmt.Sprintf("citations[%d].url", index)

	rawURL := strings.TrimSpace(in.URL)
	if rawURL == "" {
		return models.Citation{}, domain.NewValidation(field, "is required")
	}
	host, err := ExtractDomain(rawURL)
	if err != nil {
		return models.Citation{}, domain.NewValidation(field, fmt.Sprintf("must be an absolute http(s) URL: %v", err))
	}

	c := models.Citation{
		URL:    rawURL,
		Domain: host,
		Title:  host,
		Order:  index,
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		c.Title = strings.TrimSpace(*in.Title)
	}
	if in.Order != nil {
		c.Order = *in.Order
	}
	if in.Verified != nil {
		c.Verified = *in.Verified
	}
	return c, nil
}

// NormalizeCitations normalizes every input and sorts the result by order.
// Ties keep their input position.
func NormalizeCitations(inputs []models.CitationInput) ([]models.Citation, error) {
	citations := make([]models.Citation, 0, len(inputs))
	for i, in := range inputs {
		c, err := NormalizeCitation(in, i)
		if err != nil {
			return nil, err
		}
		citations = append(citations, c)
	}
	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Order < citations[j].Order
	})
	return citations, nil
}
