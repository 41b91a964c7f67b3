package markdown

import (
	"strings"
	"testing"
)

func TestHTMLToMarkdown(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Paragraphs",
			in:   "<p>First.</p><p>Second.</p>",
			want: "First.\n\nSecond.",
		},
		{
			name: "Inline formatting",
			in:   "<p>Some <strong>bold</strong> and <em>italic</em> text.</p>",
			want: "Some **bold** and *italic* text.",
		},
		{
			name: "Heading demoted below structural levels",
			in:   "<h1>Reading</h1><p>Chapter one.</p>",
			want: "### Reading\n\nChapter one.",
		},
		{
			name: "Deep headings clamp",
			in:   "<h5>Fine print</h5>",
			want: "###### Fine print",
		},
		{
			name: "Unordered list",
			in:   "<ul><li>first</li><li>second</li></ul>",
			want: "- first\n- second",
		},
		{
			name: "Ordered list",
			in:   "<ol><li>one</li><li>two</li></ol>",
			want: "1. one\n2. two",
		},
		{
			name: "External link",
			in:   `<p>Visit <a href="https://example.edu">the site</a>.</p>`,
			want: "Visit [the site](https://example.edu).",
		},
		{
			name: "Course file link becomes placeholder",
			in:   `<p>Read <a href="https://canvas.test/courses/1/files/42" class="instructure_file_link">packet.pdf</a> today.</p>`,
			want: "Read [[File:packet.pdf]] today.",
		},
		{
			name: "Line break",
			in:   "<p>one<br>two</p>",
			want: "one\ntwo",
		},
		{
			name: "Entities decode",
			in:   "<p>Tuesday &amp; Thursday</p>",
			want: "Tuesday & Thursday",
		},
		{
			name: "Script dropped",
			in:   "<p>kept</p><script>alert(1)</script>",
			want: "kept",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTMLToMarkdown(tc.in); got != tc.want {
				t.Errorf("HTMLToMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestHTMLToMarkdownSurvivesParse(t *testing.T) {
	// Converted bodies must read back through the document parser
	// without the structural headings colliding.
	body := HTMLToMarkdown("<h1>Part One</h1><p>Text.</p>")
	if strings.HasPrefix(body, "# ") || strings.Contains(body, "\n# ") {
		t.Errorf("Converted body contains a module-level heading: %q", body)
	}
	if strings.HasPrefix(body, "## ") || strings.Contains(body, "\n## ") {
		t.Errorf("Converted body contains an item-level heading: %q", body)
	}
}
