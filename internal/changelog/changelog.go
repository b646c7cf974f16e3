// Package changelog edits a markdown changelog document. The document is
// expected to carry a level-1 "# Changelog" heading; new release entries are
// spliced in directly under it, newest first, leaving every other line of
// the document untouched.
package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// headingPattern matches a trimmed line that is a level-1 heading literally
// reading "Changelog", case-insensitive. Exactly one leading # (so
// "## Changelog" never matches) and an optional single closing #.
var headingPattern = regexp.MustCompile(`(?i)^#\s*changelog\s*#?\s*$`)

// StructureError reports a document that does not satisfy the changelog
// structure this package assumes.
type StructureError struct {
	Message string
}

func (e *StructureError) Error() string {
	return e.Message
}

// InsertEntry splices the new entry's lines, followed by exactly one blank
// line, into the document directly under the "# Changelog" heading.
//
// Insertion happens before the first non-blank line after the heading,
// which is normally the previous top entry, or the end of the section when
// no entries exist yet. Content before and after the splice point is
// preserved verbatim; the result joins lines with a single newline and
// carries no extra trailing-newline normalization.
func InsertEntry(document string, entryLines []string) (string, error) {
	lines := strings.Split(document, "\n")

	headingIdx := -1
	for i, line := range lines {
		if headingPattern.MatchString(strings.TrimSpace(line)) {
			headingIdx = i
			break
		}
	}
	if headingIdx == -1 {
		return "", &StructureError{Message: "no '# Changelog' heading found in document"}
	}

	insertIdx := headingIdx + 1
	for insertIdx < len(lines) && strings.TrimSpace(lines[insertIdx]) == "" {
		insertIdx++
	}

	updated := make([]string, 0, len(lines)+len(entryLines)+1)
	updated = append(updated, lines[:insertIdx]...)
	updated = append(updated, entryLines...)
	updated = append(updated, "")
	updated = append(updated, lines[insertIdx:]...)

	return strings.Join(updated, "\n"), nil
}

// Entry is the skeleton of a single release entry: a "## <version>" heading
// followed by one bullet per note.
type Entry struct {
	Version string
	Notes   []string
}

// Lines returns the entry as ordered document lines.
func (e Entry) Lines() []string {
	lines := make([]string, 0, len(e.Notes)+2)
	lines = append(lines, fmt.Sprintf("## %s", e.Version), "")
	for _, note := range e.Notes {
		lines = append(lines, "- "+note)
	}
	return lines
}

// Render joins the entry lines with a trailing newline, the form written to
// the temporary file handed to the user's editor.
func (e Entry) Render() string {
	return strings.Join(e.Lines(), "\n") + "\n"
}

// ParseLines splits edited entry content back into document lines, dropping
// the trailing newline an editor leaves behind.
func ParseLines(content string) []string {
	return strings.Split(strings.TrimRight(content, "\n"), "\n")
}
