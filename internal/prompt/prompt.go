// Package prompt renders commit history into the messages sent to the
// release advisor.
package prompt

import (
	"bytes"
	"text/template"

	"github.com/relcut/relcut/internal/git"
)

// SystemInstruction tells the model what to decide and the exact shape of
// the reply. The response contract is load-bearing: the advisor boundary
// rejects anything that does not decode into these three fields.
const SystemInstruction = `You are a release assistant for a software project.
Given the commits since the last release, decide the semantic-version bump and draft release notes.

Rules:
- "major" for breaking changes, "minor" for new backwards-compatible functionality, "patch" for fixes and chores.
- Notes are short, user-facing, one per meaningful change. Skip merge commits and pure refactors unless user-visible.

Respond with a single JSON object and nothing else:
{"bump": "major"|"minor"|"patch", "reasoning": "<one or two sentences>", "notes": ["<note>", ...]}`

// userTemplate renders each commit as a bullet: subject first, body lines
// indented beneath it.
var userTemplate = template.Must(template.New("user").Parse(
	`Commits since the last release, newest first:
{{range .}}
- {{.Subject}}{{if .Body}}
  {{.Body}}{{end}}{{end}}
`))

// Render builds the user message listing the commit bullets.
func Render(commits []git.CommitRecord) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, commits); err != nil {
		return "", err
	}
	return buf.String(), nil
}
