package content

import (
	"regexp"
	"strings"

	models "newsdesk/internal/domain/models/articles"
)

// Defaults for generated-content post-processing
const (
	MaxExcerptLength    = 200
	MaxExtractedTags    = 7
	minExcerptParagraph = 20
	defaultNewsSection  = "## Context"
)

var (
	leadingTitle     = regexp.MustCompile(`^\s*#\s+[^\n]+\n+`)
	sourcesHeading   = regexp.MustCompile(`(?im)^#{1,6}[ \t]*(?:fontes?|refer[eê]ncias?|sources?|references?)[ \t]*:?[ \t]*$`)
	transparencyNote = regexp.MustCompile(`(?im)^#{1,6}[ \t]*(?:📊[ \t]*)?(?:nota de transpar[eê]ncia|transparency note)\b`)
	referenceLine    = regexp.MustCompile(`(?m)^\[[\d\]\[ ]+\].*$`)
	referenceMarker  = regexp.MustCompile(`\[\s*\d+\s*\]`)
	markdownHeading  = regexp.MustCompile(`(?m)^#+\s+.+$`)
	boldPhrase       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	extraBlankLines  = regexp.MustCompile(`\n{3,}`)
)

// StripLeadingTitle removes a leading "# Title" line; the page header already shows it
func StripLeadingTitle(content string) string {
	return leadingTitle.ReplaceAllString(content, "")
}

// StripSourcesSection cuts everything from a Sources/References heading to the end,
// plus footnote lines such as "[1] https://...".
func StripSourcesSection(content string) string {
	if loc := sourcesHeading.FindStringIndex(content); loc != nil {
		content = content[:loc[0]]
	}
	content = referenceLine.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// StripTransparencyNote removes a trailing transparency-note section
func StripTransparencyNote(content string) string {
	if loc := transparencyNote.FindStringIndex(content); loc != nil {
		content = content[:loc[0]]
	}
	return strings.TrimSpace(content)
}

// StripReferenceMarkers removes inline numeric markers like "[1]" or "[ 2 ]"
func StripReferenceMarkers(content string) string {
	return referenceMarker.ReplaceAllString(content, "")
}

// EnsureLeadingSection makes news content open with an H2.
// A leading H1 is demoted; leading prose gets a generic section heading.
func EnsureLeadingSection(content string) string {
	trimmed := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(trimmed, "##"):
		return trimmed
	case strings.HasPrefix(trimmed, "#"):
		return "## " + strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
	case trimmed == "":
		return trimmed
	default:
		return defaultNewsSection + "\n\n" + trimmed
	}
}

// ProcessGenerated applies every clean-up step to content produced by the
// generation pipeline before it is stored.
func ProcessGenerated(content string, articleType models.ArticleType) string {
	processed := StripLeadingTitle(content)
	processed = StripSourcesSection(processed)
	processed = StripTransparencyNote(processed)
	processed = StripReferenceMarkers(processed)
	if articleType == models.TypeNews {
		processed = EnsureLeadingSection(processed)
	}
	processed = extraBlankLines.ReplaceAllString(processed, "\n\n")
	return strings.TrimSpace(processed)
}

// Excerpt takes the first substantial paragraph, stripped of markup, and
// truncates it at a word boundary with "..." when it exceeds maxLength runes.
func Excerpt(content string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = MaxExcerptLength
	}

	withoutHeadings := markdownHeading.ReplaceAllString(content, "")
	var paragraph string
	for _, p := range strings.Split(withoutHeadings, "\n\n") {
		p = strings.Join(strings.Fields(PlainText(p)), " ")
		if len([]rune(p)) > minExcerptParagraph {
			paragraph = p
			break
		}
	}
	if paragraph == "" {
		return ""
	}

	runes := []rune(paragraph)
	if len(runes) <= maxLength {
		return paragraph
	}

	cut := string(runes[:maxLength])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}

// ExtractTags merges suggested tags with up to five bold phrases from the
// content, lower-cased and de-duplicated, capped at seven.
func ExtractTags(content string, suggestions []string) []string {
	candidates := make([]string, 0, len(suggestions)+5)
	for _, s := range suggestions {
		candidates = append(candidates, strings.ToLower(s))
	}

	matches := boldPhrase.FindAllStringSubmatch(content, 5)
	for _, m := range matches {
		candidates = append(candidates, strings.ToLower(m[1]))
	}

	tags := models.OrderedSet(candidates)
	if len(tags) > MaxExtractedTags {
		tags = tags[:MaxExtractedTags]
	}
	return tags
}
