// Package identity names the external collaborator agents that produce
// diagrams and content. The engine never invokes them; it only validates
// that recipes reference well-formed, known agent identifiers.
package identity

import (
	"regexp"

	"github.com/rendis/t2d/pkg/schema"
)

// agentIDPattern is the identifier format shared by all collaborators.
var agentIDPattern = regexp.MustCompile(`^t2d-[a-z0-9-]+$`)

// Diagram-generation agents, one per rendering framework.
const (
	AgentMermaidGenerator  = "t2d-mermaid-generator"
	AgentPlantUMLGenerator = "t2d-plantuml-generator"
	AgentD2Generator       = "t2d-d2-generator"
)

// Content-producing agents (closed set).
const (
	AgentDocsWriter    = "t2d-docs-writer"
	AgentSlidesWriter  = "t2d-slides-writer"
	AgentContentWriter = "t2d-content-writer"
)

var contentAgents = map[string]bool{
	AgentDocsWriter:    true,
	AgentSlidesWriter:  true,
	AgentContentWriter: true,
}

// ValidAgentID reports whether id matches the t2d-* identifier format.
func ValidAgentID(id string) bool {
	return agentIDPattern.MatchString(id)
}

// ValidContentAgent reports whether id is one of the known
// content-producing collaborators.
func ValidContentAgent(id string) bool {
	return contentAgents[id]
}

// DiagramAgent returns the generator agent responsible for a framework.
func DiagramAgent(f schema.Framework) string {
	switch f {
	case schema.FrameworkPlantUML:
		return AgentPlantUMLGenerator
	case schema.FrameworkD2:
		return AgentD2Generator
	default:
		return AgentMermaidGenerator
	}
}

// ContentAgent returns the writer agent responsible for a content type.
func ContentAgent(t schema.ContentFileType) string {
	switch t {
	case schema.ContentPresentation:
		return AgentSlidesWriter
	case schema.ContentMixed:
		return AgentContentWriter
	default:
		return AgentDocsWriter
	}
}
