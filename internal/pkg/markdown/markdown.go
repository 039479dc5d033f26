package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// Render converts markdown source to HTML.
func Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Excerpt renders markdown truncated to maxRunes of source, for email previews.
// Truncation operates on the raw markdown; a dangling emphasis marker past the
// cut is acceptable noise for a preview.
func Excerpt(src string, maxRunes int) (string, error) {
	src = strings.TrimSpace(src)
	if maxRunes > 0 {
		runes := []rune(src)
		if len(runes) > maxRunes {
			src = string(runes[:maxRunes]) + "…"
		}
	}
	return Render(src)
}
