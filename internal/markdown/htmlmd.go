package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// HTMLToMarkdown converts a remote body back into the markdown dialect
// the parser reads. Headings are demoted below the structural levels
// (h1 renders as ###, since # and ## are reserved for modules and
// items), and links into the course file store become file placeholders
// so they survive a later push.
func HTMLToMarkdown(source string) string {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return strings.TrimSpace(source)
	}

	var b strings.Builder
	walk(&b, doc)

	out := blankRuns.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}

func walk(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(collapseSpace(n.Data))
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		writeElement(b, n)
		return
	}
	walkChildren(b, n)
}

func walkChildren(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c)
	}
}

func writeElement(b *strings.Builder, n *html.Node) {
	switch n.DataAtom {
	case atom.H1:
		writeBlock(b, n, "### ")
	case atom.H2:
		writeBlock(b, n, "#### ")
	case atom.H3:
		writeBlock(b, n, "##### ")
	case atom.H4, atom.H5, atom.H6:
		writeBlock(b, n, "###### ")
	case atom.P, atom.Div:
		walkChildren(b, n)
		b.WriteString("\n\n")
	case atom.Br:
		b.WriteString("\n")
	case atom.Strong, atom.B:
		b.WriteString("**")
		walkChildren(b, n)
		b.WriteString("**")
	case atom.Em, atom.I:
		b.WriteString("*")
		walkChildren(b, n)
		b.WriteString("*")
	case atom.A:
		writeLink(b, n)
	case atom.Ul:
		writeList(b, n, func(int) string { return "- " })
	case atom.Ol:
		writeList(b, n, func(i int) string { return fmt.Sprintf("%d. ", i+1) })
	case atom.Blockquote:
		for _, line := range strings.Split(strings.TrimSpace(textContent(n)), "\n") {
			b.WriteString("> " + line + "\n")
		}
		b.WriteString("\n")
	case atom.Code:
		b.WriteString("`" + textContent(n) + "`")
	case atom.Pre:
		b.WriteString("```\n" + strings.TrimSpace(textContent(n)) + "\n```\n\n")
	case atom.Img:
		alt := attr(n, "alt")
		if src := attr(n, "src"); src != "" {
			fmt.Fprintf(b, "![%s](%s)", alt, src)
		}
	case atom.Script, atom.Style:
		// dropped
	default:
		walkChildren(b, n)
	}
}

func writeBlock(b *strings.Builder, n *html.Node, prefix string) {
	b.WriteString(prefix + strings.TrimSpace(textContent(n)) + "\n\n")
}

func writeList(b *strings.Builder, n *html.Node, marker func(int) string) {
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom != atom.Li {
			continue
		}
		var item strings.Builder
		walkChildren(&item, c)
		b.WriteString(marker(i) + strings.TrimSpace(item.String()) + "\n")
		i++
	}
	b.WriteString("\n")
}

func writeLink(b *strings.Builder, n *html.Node) {
	href := attr(n, "href")
	text := strings.TrimSpace(textContent(n))
	switch {
	case strings.Contains(href, "/files/"):
		fmt.Fprintf(b, "[[File:%s]]", text)
	case href == "":
		b.WriteString(text)
	default:
		fmt.Fprintf(b, "[%s](%s)", text, href)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(collapseSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return b.String()
}

// collapseSpace squeezes runs of whitespace but keeps a single edge
// space, so text flowing around inline tags stays separated.
func collapseSpace(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		return ""
	}
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		collapsed = " " + collapsed
	}
	last := s[len(s)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		collapsed += " "
	}
	return collapsed
}
