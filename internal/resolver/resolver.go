// Package resolver rewrites [[Kind:Title]] placeholders in content bodies
// into Canvas links once their targets have remote identities.
package resolver

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind names the referenceable target kinds, matching the placeholder
// vocabulary used in bodies.
type Kind string

const (
	KindPage       Kind = "Page"
	KindAssignment Kind = "Assignment"
	KindDiscussion Kind = "Discussion"
	KindFile       Kind = "File"
)

var refPattern = regexp.MustCompile(`\[\[(Page|Assignment|Discussion|File):([^\]]+)\]\]`)

type target struct {
	id          string
	url         string
	displayName string
}

// Resolver indexes targets by kind and lowercased title. Registration is
// idempotent and last-write-wins under duplicate titles.
type Resolver struct {
	baseURL  string
	courseID string
	targets  map[Kind]map[string]target
}

func New(baseURL, courseID string) *Resolver {
	return &Resolver{
		baseURL:  strings.TrimRight(baseURL, "/"),
		courseID: courseID,
		targets: map[Kind]map[string]target{
			KindPage:       {},
			KindAssignment: {},
			KindDiscussion: {},
			KindFile:       {},
		},
	}
}

// Register records a target's identity and URL under (kind, title).
func (r *Resolver) Register(kind Kind, title, id, url string) {
	m, ok := r.targets[kind]
	if !ok {
		return
	}
	m[strings.ToLower(strings.TrimSpace(title))] = target{id: id, url: url, displayName: title}
}

// RegisterFile records a course file under its display name. File links
// render as Canvas file preview links rather than raw download URLs.
func (r *Resolver) RegisterFile(displayName, id, url string) {
	r.targets[KindFile][strings.ToLower(strings.TrimSpace(displayName))] = target{
		id:          id,
		url:         url,
		displayName: displayName,
	}
}

// ContainsReference reports whether body holds at least one placeholder.
// The engine uses it to skip the reference pass for reference-free items.
func (r *Resolver) ContainsReference(body string) bool {
	return refPattern.MatchString(body)
}

// Resolve substitutes every registered placeholder with a rendered link.
// Unregistered or malformed placeholders are left as plain text and
// returned as warnings, each reported once.
func (r *Resolver) Resolve(body string) (string, []string) {
	var unresolved []string
	seen := map[string]bool{}

	out := refPattern.ReplaceAllStringFunc(body, func(match string) string {
		g := refPattern.FindStringSubmatch(match)
		kind := Kind(g[1])
		title := strings.TrimSpace(g[2])

		t, ok := r.targets[kind][strings.ToLower(title)]
		if !ok || (t.url == "" && t.id == "") {
			if !seen[match] {
				seen[match] = true
				unresolved = append(unresolved, match)
			}
			return match
		}

		if kind == KindFile {
			name := t.displayName
			if name == "" {
				name = title
			}
			preview := fmt.Sprintf("%s/courses/%s/files/%s", r.baseURL, r.courseID, t.id)
			return fmt.Sprintf(`<a href="%s" class="instructure_file_link">%s</a>`, preview, name)
		}
		if t.url == "" {
			if !seen[match] {
				seen[match] = true
				unresolved = append(unresolved, match)
			}
			return match
		}
		return fmt.Sprintf(`<a href="%s">%s</a>`, t.url, title)
	})

	return out, unresolved
}
