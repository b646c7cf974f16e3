package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relcut/relcut/internal/git"
)

func TestRender(t *testing.T) {
	commits := []git.CommitRecord{
		{Hash: "abc", Subject: "feat: add retries", Body: "Retries the advisor call.\nUp to three times."},
		{Hash: "def", Subject: "fix: typo"},
	}

	out, err := Render(commits)
	require.NoError(t, err)

	assert.Contains(t, out, "- feat: add retries")
	assert.Contains(t, out, "  Retries the advisor call.")
	assert.Contains(t, out, "- fix: typo")
	// Subject order preserved: newest first.
	assert.Less(t, strings.Index(out, "feat: add retries"), strings.Index(out, "fix: typo"))
}

func TestRender_EmptyBodyHasNoIndentedBlock(t *testing.T) {
	out, err := Render([]git.CommitRecord{{Subject: "chore: bump deps"}})
	require.NoError(t, err)
	assert.Contains(t, out, "- chore: bump deps\n")
}

func TestSystemInstruction_NamesResponseFields(t *testing.T) {
	for _, field := range []string{`"bump"`, `"reasoning"`, `"notes"`} {
		assert.Contains(t, SystemInstruction, field)
	}
}
