package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macward/vibemcp/internal/header"
)

func TestParseHeaderBlock(t *testing.T) {
	text := "---\nproject: p\ntype: plan\ntags: [a,b]\n---\n# T\nbody"
	res := header.Parse(text, "p/plans/x.md")

	assert.Equal(t, "p", res.Metadata.Project)
	assert.Equal(t, "plan", res.Metadata.Type)
	assert.Equal(t, []string{"a", "b"}, res.Metadata.Tags)
	assert.Equal(t, "# T\nbody", res.Body)
}

func TestInfersTypeAndStatusFromPath(t *testing.T) {
	res := header.Parse("# T\nStatus: Done", "demo/tasks/001.md")
	assert.Equal(t, "demo", res.Metadata.Project)
	assert.Equal(t, "task", res.Metadata.Type)
	assert.Equal(t, "done", res.Metadata.Status)
}

func TestRootStatusFile(t *testing.T) {
	res := header.Parse("# demo\n\nStatus: setup\n", "demo/status.md")
	assert.Equal(t, "status", res.Metadata.Type)
}

func TestNoHeaderBlockKeepsWholeBodyAndInfersProject(t *testing.T) {
	res := header.Parse("just text", "demo/scratch/notes.md")
	assert.Equal(t, "demo", res.Metadata.Project)
	assert.Equal(t, "scratch", res.Metadata.Type)
	assert.Equal(t, "just text", res.Body)
}

func TestMalformedHeaderBlockIsNonFatal(t *testing.T) {
	text := "---\n[ not: valid: yaml ]\n---\nbody"
	res := header.Parse(text, "demo/x.md")
	assert.Equal(t, text, res.Body)
	assert.Equal(t, "demo", res.Metadata.Project)
}
