package richtext

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer turns admin authored markdown into safe HTML and strips markup
// from public free text.
type Renderer struct {
	markdown goldmark.Markdown
	// ugc allows basic formatting like links, lists and emphasis
	ugc *bluemonday.Policy
	// strict removes every tag
	strict *bluemonday.Policy
}

// NewRenderer creates a Renderer with GitHub flavoured markdown
func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		ugc:      bluemonday.UGCPolicy(),
		strict:   bluemonday.StrictPolicy(),
	}
}

// Markdown renders src and sanitises the result
func (r *Renderer) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.ugc.Sanitize(buf.String()), nil
}

// PlainText removes all markup from s and trims it.
// Entities are decoded again since the result is stored as text, not HTML.
func (r *Renderer) PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(s)))
}
