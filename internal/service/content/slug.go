package content

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength caps derived slugs
const MaxSlugLength = 100

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s_-]`)
	slugSeparators = regexp.MustCompile(`[\s_]+`)
	slugDashes     = regexp.MustCompile(`-{2,}`)

	// SlugPattern is the shape every stored slug must have
	SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify derives a URL-safe slug from a title.
// Accents are folded ("Análise" → "analise"), anything else outside
// [a-z0-9] is dropped, and runs of whitespace or underscores become one dash.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(title) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}

	slug := slugDisallowed.ReplaceAllString(b.String(), "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// SlugFromFilename turns "btc-rally.md" into "btc-rally"
func SlugFromFilename(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(strings.TrimSuffix(base, ".md"), ".markdown")
	return Slugify(base)
}
