// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package markdown renders author-written chapter text to HTML.

Raw HTML embedded by authors is dropped by the renderer, so the output can be
served to readers without a separate sanitiser.
*/
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Typographer,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// Render converts markdown source to HTML.
func Render(source string) (string, error) {
	var buffer bytes.Buffer
	if err := renderer.Convert([]byte(source), &buffer); err != nil {
		return "", fmt.Errorf("markdown: render failed: %w", err)
	}
	return buffer.String(), nil
}
