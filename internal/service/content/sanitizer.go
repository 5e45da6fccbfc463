package content

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// htmlTag matches one tag or comment; quoted attribute values may contain ">"
	htmlTag = regexp.MustCompile(`<(?:!--[\s\S]*?--|[a-zA-Z!/](?:"[^"]*"|'[^']*'|[^'">])*)>`)
	tagName = regexp.MustCompile(`^<([a-zA-Z][a-zA-Z0-9-]*)`)
)

// rawTextElements lose their whole body, not just the tags
var rawTextElements = map[string]*regexp.Regexp{}

func init() {
	for _, name := range []string{"script", "style", "iframe", "object", "embed", "noscript", "noembed", "noframes", "template", "textarea", "title", "xmp", "svg", "math"} {
		rawTextElements[name] = regexp.MustCompile(`(?i)</` + name + `\s*>`)
	}
}

// Sanitizer strips dangerous HTML from article bodies.
// Thread-safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer uses the UGC policy: formatting, headings, lists, links, images
// and tables survive; scripts, event handlers and javascript: URLs do not.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span", "div")
	return &Sanitizer{policy: policy}
}

// NewStrictSanitizer strips all HTML
func NewStrictSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns content with unsafe markup removed.
// Only the tags go through the policy. The markdown between them is returned
// as written, since bluemonday would entity-escape ">", "&" and quotes that
// markdown depends on.
func (s *Sanitizer) Sanitize(content string) string {
	if !htmlTag.MatchString(content) {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))
	rest := content
	for {
		loc := htmlTag.FindStringIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:loc[0]])
		tag := rest[loc[0]:loc[1]]
		rest = rest[loc[1]:]

		if closer := rawTextCloser(tag); closer != nil {
			end := closer.FindStringIndex(rest)
			if end == nil {
				// unterminated: a browser would swallow the rest too
				return b.String()
			}
			rest = rest[end[1]:]
			continue
		}
		b.WriteString(s.policy.Sanitize(tag))
	}
}

// rawTextCloser returns the closing-tag pattern when tag opens a raw text element
func rawTextCloser(tag string) *regexp.Regexp {
	if strings.HasSuffix(tag, "/>") {
		return nil
	}
	m := tagName.FindStringSubmatch(tag)
	if m == nil {
		return nil
	}
	return rawTextElements[strings.ToLower(m[1])]
}
