package markdown

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quote-templater/internal/placeholder"
)

// ErrTemplateNotFound is returned by Resolve when no file matches a name.
var ErrTemplateNotFound = errors.New("markdown: template not found")

// LoadTemplate reads a message template: the frontmatter "subject" becomes
// the subject and the body becomes the content. The name defaults to the
// file name without extension.
func LoadTemplate(path string) (*placeholder.Template, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	subject, _ := doc.String("subject")
	name, ok := doc.String("name")
	if !ok || strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &placeholder.Template{
		Name:    name,
		Subject: subject,
		Content: strings.TrimLeft(doc.Body, "\n"),
	}, nil
}

// Resolve maps a template reference to a file. ref may be a path to an
// existing file or a bare name looked up as <dir>/<name>.md.
func Resolve(dir, ref string) (string, error) {
	if st, err := os.Stat(ref); err == nil && !st.IsDir() {
		return ref, nil
	}
	path := filepath.Join(dir, ref+".md")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, ref)
		}
		return "", err
	}
	return path, nil
}
