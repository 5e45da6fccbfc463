package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoFrontmatter is returned when a document does not open with '---'
var ErrNoFrontmatter = errors.New("missing frontmatter: document must start with '---'")

// ParseFrontmatter splits a markdown document into its YAML frontmatter
// (decoded into dest) and the markdown body.
// Expected format:
// ---
// title: Bitcoin rally continues
// tags: [bitcoin, etf]
// ---
// ## Context
func ParseFrontmatter(content []byte, dest any) (string, error) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return "", ErrNoFrontmatter
	}

	lines := bytes.Split(content, []byte("\n"))

	// Skip the opening "---" line
	closingDelim := 0
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			closingDelim = i
			break
		}
	}
	if closingDelim == 0 {
		return "", errors.New("missing closing frontmatter delimiter '---'")
	}

	yamlContent := bytes.Join(lines[1:closingDelim], []byte("\n"))
	if err := yaml.Unmarshal(yamlContent, dest); err != nil {
		return "", fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}

	body := string(bytes.Join(lines[closingDelim+1:], []byte("\n")))
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.TrimSpace(body), nil
}

// StringList decodes either a YAML sequence or a comma-separated scalar.
// Generated frontmatter uses both forms for tags.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = trimAll(items)
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = trimAll(strings.Split(node.Value, ","))
		return nil
	default:
		return fmt.Errorf("line %d: expected a list or comma-separated string", node.Line)
	}
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
