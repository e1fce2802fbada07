package registry

import (
	"strings"

	"github.com/rendis/t2d/pkg/schema"
)

// keywordRule maps a set of trigger keywords to a canonical diagram type.
// Rules are evaluated in table order; the first rule with any matching
// keyword wins, so more specific rules (the C4 family) come before the
// generic ones they overlap with ("component", "architecture").
type keywordRule struct {
	keywords []string
	diagType schema.DiagramType
}

var defaultKeywordTable = []keywordRule{
	{[]string{"c4 context", "system context"}, schema.TypeC4Context},
	{[]string{"c4 container"}, schema.TypeC4Container},
	{[]string{"c4 component"}, schema.TypeC4Component},
	{[]string{"c4 dynamic"}, schema.TypeC4Dynamic},

	{[]string{"entity relationship", "er diagram", "erd", "data model", "database schema"}, schema.TypeERD},
	{[]string{"sequence", "interaction", "message flow"}, schema.TypeSequence},
	{[]string{"state machine", "state diagram", "statechart", "lifecycle"}, schema.TypeState},
	{[]string{"gantt", "schedule", "roadmap"}, schema.TypeGantt},
	{[]string{"pie", "distribution chart"}, schema.TypePie},
	{[]string{"mindmap", "mind map", "brainstorm"}, schema.TypeMindmap},
	{[]string{"timeline", "chronology"}, schema.TypeTimeline},
	{[]string{"user journey", "journey"}, schema.TypeJourney},
	{[]string{"quadrant", "priority matrix"}, schema.TypeQuadrant},

	{[]string{"architecture", "system design", "system overview", "infrastructure"}, schema.TypeArchitecture},
	{[]string{"network", "topology"}, schema.TypeNetwork},
	{[]string{"deployment", "deploy"}, schema.TypeDeployment},

	{[]string{"use case", "usecase", "actor"}, schema.TypeUseCase},
	{[]string{"activity", "swimlane"}, schema.TypeActivity},
	{[]string{"class diagram", "class"}, schema.TypeClass},
	{[]string{"component"}, schema.TypeComponent},
	{[]string{"object diagram"}, schema.TypeObject},
	{[]string{"package diagram"}, schema.TypePackage},

	{[]string{"flowchart", "flow chart", "flow", "process", "workflow", "decision"}, schema.TypeFlowchart},
}

// InferType maps a free-text diagram description to a canonical diagram
// type. The description is lower-cased and scanned against the ordered
// keyword table; the first match wins. Unmatched text yields TypeUnknown,
// never an error. Calling twice with the same input returns the same type.
func (r *Registry) InferType(description string) schema.DiagramType {
	text := strings.ToLower(strings.TrimSpace(description))
	if text == "" {
		return schema.TypeUnknown
	}
	for _, rule := range r.keywords {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.diagType
			}
		}
	}
	return schema.TypeUnknown
}
