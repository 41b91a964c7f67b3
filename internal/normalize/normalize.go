// Package normalize collapses a content body into a canonical plain-text
// form for change detection. Canvas rewrites markup on every save, so
// comparing raw bodies produces permanent false-positive diffs; comparing
// the visible text does not.
package normalize

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	h4Pattern     = regexp.MustCompile(`(?m)^####\s+(.+)$`)
	h3Pattern     = regexp.MustCompile(`(?m)^###\s+(.+)$`)
	h2Pattern     = regexp.MustCompile(`(?m)^##\s+(.+)$`)
	h1Pattern     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	dashPattern   = regexp.MustCompile(`(?m)^-\s+(.+)$`)
	starPattern   = regexp.MustCompile(`(?m)^\*\s+(.+)$`)
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^\)]+)\)`)
	boldPattern   = regexp.MustCompile(`\*\*([^\*]+)\*\*`)
	italPattern   = regexp.MustCompile(`\*([^\*]+)\*`)
	underPattern  = regexp.MustCompile(`\b_([^_]+)_\b`)
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	spacesPattern = regexp.MustCompile(`\s+`)

	// Internal reference placeholders normalize to their visible text: once
	// resolved remotely they render as links whose text is the title, and
	// the two forms must compare equal or every referencing item would be
	// rewritten on every run.
	refPattern = regexp.MustCompile(`\[\[(?:Page|Assignment|Discussion|File):([^\]]+)\]\]`)
)

// Normalize canonicalizes a body for equality comparison. It is total: any
// input, however malformed, produces a result. The transform is lossy:
// formatting, link targets and images are gone afterwards.
func Normalize(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	// Entities first, so &amp;lt; style double escapes collapse the same
	// way on both sides.
	s := html.UnescapeString(strings.TrimSpace(body))

	s = refPattern.ReplaceAllString(s, "$1")

	// Translate the handful of markdown constructs the local format uses
	// into HTML, so local markdown and Canvas HTML share one vocabulary.
	s = MarkdownToHTML(s)

	text := extractText(s)

	text = spacesPattern.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// MarkdownToHTML converts the fixed set of lightweight constructs the
// markdown format supports: headings 1–4, bullet items, links, bold,
// italic. Anything else passes through untouched.
func MarkdownToHTML(text string) string {
	text = h4Pattern.ReplaceAllString(text, "<h4>$1</h4>")
	text = h3Pattern.ReplaceAllString(text, "<h3>$1</h3>")
	text = h2Pattern.ReplaceAllString(text, "<h2>$1</h2>")
	text = h1Pattern.ReplaceAllString(text, "<h1>$1</h1>")
	text = dashPattern.ReplaceAllString(text, "<li>$1</li>")
	text = starPattern.ReplaceAllString(text, "<li>$1</li>")
	text = linkPattern.ReplaceAllString(text, `<a href="$2">$1</a>`)
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = italPattern.ReplaceAllString(text, "<em>$1</em>")
	text = underPattern.ReplaceAllString(text, "<em>$1</em>")
	return text
}

// extractText walks the HTML token stream and keeps only visible text,
// joined by single spaces in document order. On a tokenizer error it falls
// back to crude tag stripping so the function stays total.
func extractText(s string) string {
	var parts []string
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return stripTags(s)
			}
			return strings.Join(parts, " ")
		case html.TextToken:
			if t := strings.TrimSpace(string(z.Text())); t != "" {
				parts = append(parts, t)
			}
		}
	}
}

func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, " ")
}
