package content

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of a content file.
type Frontmatter struct {
	Title       string    `yaml:"title"`
	Date        DateField `yaml:"date"`
	Description string    `yaml:"description"`
	Draft       bool      `yaml:"draft"`
}

// DateField keeps the date exactly as written, whether YAML would resolve it
// as a timestamp or a string.
type DateField struct {
	Raw string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *DateField) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("date must be a scalar, got %v", value.Tag)
	}
	d.Raw = value.Value
	return nil
}

const fence = "---"

// SplitFrontmatter separates a leading "---" fenced YAML block from the
// markdown body. Files without a fence have empty frontmatter.
func SplitFrontmatter(src string) (Frontmatter, string, error) {
	var fm Frontmatter
	src = strings.TrimPrefix(src, "\ufeff")
	src = strings.ReplaceAll(src, "\r\n", "\n")

	if !strings.HasPrefix(src, fence+"\n") {
		return fm, src, nil
	}
	rest := src[len(fence)+1:]
	var header, body string
	switch {
	case strings.HasPrefix(rest, fence+"\n") || rest == fence:
		body = strings.TrimPrefix(strings.TrimPrefix(rest, fence), "\n")
	default:
		end := strings.Index(rest, "\n"+fence+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+fence) {
				return fm, "", fmt.Errorf("unterminated frontmatter")
			}
			end = len(rest) - len(fence) - 1
			header, body = rest[:end], ""
		} else {
			header, body = rest[:end], rest[end+len(fence)+2:]
		}
	}

	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return fm, "", fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	return fm, body, nil
}
