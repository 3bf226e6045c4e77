package markdown

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document represents a Markdown file with YAML frontmatter.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

// ParseFile reads a Markdown file and extracts YAML frontmatter and body.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse splits r into frontmatter and body. Frontmatter is expected at the
// top of the input between two lines containing only "---".
func Parse(r io.Reader) (Document, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, err
	}
	doc := Document{Frontmatter: map[string]any{}}

	if string(peek) == "---" {
		// Consume the opening '---' line.
		if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, err
		}
		var fm strings.Builder
		for {
			l, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return Document{}, err
			}
			if strings.TrimSpace(l) == "---" {
				break
			}
			fm.WriteString(l)
			if errors.Is(err, io.EOF) {
				break
			}
		}
		if err := yaml.Unmarshal([]byte(fm.String()), &doc.Frontmatter); err != nil {
			return Document{}, err
		}
		if doc.Frontmatter == nil {
			doc.Frontmatter = map[string]any{}
		}
	}

	body, err := io.ReadAll(br)
	if err != nil {
		return Document{}, err
	}
	doc.Body = string(body)
	return doc, nil
}

// String returns the frontmatter value for key when it is a string.
func (d Document) String(key string) (string, bool) {
	v, ok := d.Frontmatter[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
