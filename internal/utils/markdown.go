package utils

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MaxCaptionLength is measured in runes after sanitizing.
const MaxCaptionLength = 2000

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	// Captions accept inline formatting and links only; outfit images live in post_images.
	renderPolicy = bluemonday.UGCPolicy()
	// 写入时去掉全部 HTML 标签
	stripPolicy = bluemonday.StrictPolicy()
)

func init() {
	renderPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	renderPolicy.RequireNoReferrerOnLinks(true)
}

// SanitizeCaption strips markup from user input before it is stored.
func SanitizeCaption(source string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(source))
}

// RenderCaption converts a stored caption (markdown) to safe HTML.
func RenderCaption(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return renderPolicy.Sanitize(source) // Fallback
	}

	sanitized := renderPolicy.SanitizeBytes(buf.Bytes())
	return HardenCaptionHTML(string(sanitized))
}
