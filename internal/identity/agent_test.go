package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rendis/t2d/pkg/schema"
)

func TestValidAgentID(t *testing.T) {
	valid := []string{
		"t2d-mermaid-generator",
		"t2d-custom-agent-2",
		"t2d-x",
	}
	for _, id := range valid {
		assert.True(t, ValidAgentID(id), "id %q", id)
	}

	invalid := []string{
		"",
		"t2d-",
		"mermaid-generator",
		"t2d-Uppercase",
		"t2d-has space",
		"prefix-t2d-agent",
	}
	for _, id := range invalid {
		assert.False(t, ValidAgentID(id), "id %q", id)
	}
}

func TestValidContentAgent_ClosedSet(t *testing.T) {
	assert.True(t, ValidContentAgent(AgentDocsWriter))
	assert.True(t, ValidContentAgent(AgentSlidesWriter))
	assert.True(t, ValidContentAgent(AgentContentWriter))

	// Well-formed but unregistered ids are rejected.
	assert.False(t, ValidContentAgent("t2d-novel-writer"))
}

func TestDiagramAgent(t *testing.T) {
	assert.Equal(t, AgentMermaidGenerator, DiagramAgent(schema.FrameworkMermaid))
	assert.Equal(t, AgentPlantUMLGenerator, DiagramAgent(schema.FrameworkPlantUML))
	assert.Equal(t, AgentD2Generator, DiagramAgent(schema.FrameworkD2))
}

func TestContentAgent(t *testing.T) {
	assert.Equal(t, AgentDocsWriter, ContentAgent(schema.ContentDocumentation))
	assert.Equal(t, AgentSlidesWriter, ContentAgent(schema.ContentPresentation))
	assert.Equal(t, AgentContentWriter, ContentAgent(schema.ContentMixed))
}
