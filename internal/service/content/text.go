package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed used for every read-time estimate
const WordsPerMinute = 200

var (
	markdownImage = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	markdownLink  = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
)

// PlainText extracts readable text from HTML or markdown. Script and style
// bodies are dropped and block boundaries become spaces so words never fuse.
func PlainText(content string) string {
	if strings.ContainsAny(content, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
			doc.Find("script, style").Remove()
			var b strings.Builder
			writeText(&b, doc.Find("body"))
			content = b.String()
		}
	}
	return CleanMarkdown(content)
}

// blockElements end a run of words
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "figure": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true,
}

// writeText walks sel depth-first so text keeps document order
func writeText(b *strings.Builder, sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == "#text":
			b.WriteString(child.Text())
		case blockElements[name]:
			b.WriteByte(' ')
			writeText(b, child)
			b.WriteByte(' ')
		default:
			writeText(b, child)
		}
	})
}

// CountWords counts whitespace-separated words after stripping markup
func CountWords(content string) int {
	return len(strings.FieldsFunc(PlainText(content), unicode.IsSpace))
}

// ReadTimeMinutes estimates reading time as ceil(words / 200), never below 1
func ReadTimeMinutes(content string) int {
	words := CountWords(content)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// FormatReadTime renders minutes the way articles store it
func FormatReadTime(minutes int) string {
	return fmt.Sprintf("%d min", minutes)
}

// ReadTime is FormatReadTime(ReadTimeMinutes(content))
func ReadTime(content string) string {
	return FormatReadTime(ReadTimeMinutes(content))
}

// CleanMarkdown removes markdown syntax from text
func CleanMarkdown(markdown string) string {
	text := removeCodeBlocks(markdown)

	text = markdownImage.ReplaceAllString(text, "$1")
	text = markdownLink.ReplaceAllString(text, "$1")

	text = strings.ReplaceAll(text, "`", "")
	for _, marker := range []string{"**", "__", "~~", "*"} {
		text = strings.ReplaceAll(text, marker, "")
	}

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#>")
		line = strings.TrimSpace(line)
		switch {
		case line == "---" || line == "***":
			continue
		case strings.HasPrefix(line, "- "):
			line = strings.TrimPrefix(line, "- ")
		case len(line) > 2 && unicode.IsDigit(rune(line[0])) && line[1] == '.':
			line = strings.TrimSpace(line[2:])
		}
		cleaned = append(cleaned, line)
	}

	return strings.Join(cleaned, " ")
}

// removeCodeBlocks removes ```...``` fences and their bodies
func removeCodeBlocks(text string) string {
	for {
		start := strings.Index(text, "```")
		if start == -1 {
			return text
		}
		end := strings.Index(text[start+3:], "```")
		if end == -1 {
			return text
		}
		text = text[:start] + text[start+end+6:]
	}
}
