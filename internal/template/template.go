// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package template splices rendered newsletter fragments into the site's
// hand-written HTML files. Anchors are located by line: the last line
// containing the anchor tag wins. Every line outside the splice point is
// written back byte for byte.
//
// Splice functions are pure. They return the new file contents and leave
// reading and writing to the caller, so every splice of a conversion can be
// validated before any file changes.
package template

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Anchor tags.
const (
	ArticleOpen  = "<article>"
	ArticleClose = "</article>"
	ListOpen     = "<ol>"
)

// ErrAnchorNotFound is returned when a file lacks the anchor a splice needs.
var ErrAnchorNotFound = errors.New("anchor not found")

// splitLines splits s after each newline, keeping the terminators. A final
// line without a newline is kept as is.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lastLine returns the index of the last line containing anchor, or -1.
func lastLine(lines []string, anchor string) int {
	idx := -1
	for i, l := range lines {
		if strings.Contains(l, anchor) {
			idx = i
		}
	}
	return idx
}

func anchorError(name, anchor string) error {
	return fmt.Errorf("%s: %q: %w", name, anchor, ErrAnchorNotFound)
}

// SplicePage inserts fragment immediately after the last line of tmpl
// containing <article>. The rest of the template is kept verbatim.
func SplicePage(tmpl, fragment string) (string, error) {
	lines := splitLines(tmpl)
	open := lastLine(lines, ArticleOpen)
	if open < 0 {
		return "", anchorError("page template", ArticleOpen)
	}

	var b strings.Builder
	b.Grow(len(tmpl) + len(fragment))
	for _, l := range lines[:open+1] {
		b.WriteString(l)
	}
	b.WriteString(fragment)
	for _, l := range lines[open+1:] {
		b.WriteString(l)
	}
	return b.String(), nil
}

// SpliceIndex replaces everything between the last <article> line and the
// last </article> line of tmpl with fragment. Both anchor lines are kept.
func SpliceIndex(tmpl, fragment string) (string, error) {
	lines := splitLines(tmpl)
	open := lastLine(lines, ArticleOpen)
	if open < 0 {
		return "", anchorError("index template", ArticleOpen)
	}
	closing := lastLine(lines, ArticleClose)
	if closing < 0 {
		return "", anchorError("index template", ArticleClose)
	}
	if closing <= open {
		return "", fmt.Errorf("index template: %q must follow %q: %w", ArticleClose, ArticleOpen, ErrAnchorNotFound)
	}

	var b strings.Builder
	for _, l := range lines[:open+1] {
		b.WriteString(l)
	}
	b.WriteString(fragment)
	for _, l := range lines[closing:] {
		b.WriteString(l)
	}
	return b.String(), nil
}

// ArchiveEntry returns the list item linking to a campaign page.
func ArchiveEntry(newslettersDir, name string, number int) string {
	return fmt.Sprintf("<li><a href=\"/%s/%s/newsletter.html\">Newsletter %d</a></li>\n", newslettersDir, name, number)
}

// AddArchiveEntry inserts entry on its own line after the last <ol> line
// of archive, so the newest campaign is listed first.
func AddArchiveEntry(archive, entry string) (string, error) {
	lines := splitLines(archive)
	list := lastLine(lines, ListOpen)
	if list < 0 {
		return "", anchorError("archive", ListOpen)
	}

	var b strings.Builder
	for _, l := range lines[:list+1] {
		b.WriteString(l)
	}
	b.WriteString(entry)
	for _, l := range lines[list+1:] {
		b.WriteString(l)
	}
	return b.String(), nil
}

// ReadFile reads a template file as a string.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", path, err)
	}
	return string(data), nil
}
