package schema

// DiagramType is the canonical semantic type of a diagram.
type DiagramType string

const (
	TypeFlowchart    DiagramType = "flowchart"
	TypeSequence     DiagramType = "sequence"
	TypeState        DiagramType = "state"
	TypeERD          DiagramType = "erd"
	TypeGantt        DiagramType = "gantt"
	TypePie          DiagramType = "pie"
	TypeMindmap      DiagramType = "mindmap"
	TypeTimeline     DiagramType = "timeline"
	TypeJourney      DiagramType = "journey"
	TypeQuadrant     DiagramType = "quadrant"
	TypeC4Context    DiagramType = "c4_context"
	TypeC4Container  DiagramType = "c4_container"
	TypeC4Component  DiagramType = "c4_component"
	TypeC4Dynamic    DiagramType = "c4_dynamic"
	TypeArchitecture DiagramType = "architecture"
	TypeNetwork      DiagramType = "network"
	TypeDeployment   DiagramType = "deployment"
	TypeClass        DiagramType = "class"
	TypeUseCase      DiagramType = "usecase"
	TypeActivity     DiagramType = "activity"
	TypeComponent    DiagramType = "component"
	TypeObject       DiagramType = "object"
	TypePackage      DiagramType = "package"

	// TypeUnknown is returned by inference when no keyword matches.
	// It is never a valid type for a DiagramSpecification.
	TypeUnknown DiagramType = "unknown"
)

// Framework identifies a rendering framework.
type Framework string

const (
	FrameworkMermaid  Framework = "mermaid"
	FrameworkPlantUML Framework = "plantuml"
	FrameworkD2       Framework = "d2"
)

// OutputFormat is a rendering target produced from a diagram source file.
type OutputFormat string

const (
	FormatSVG OutputFormat = "svg"
	FormatPNG OutputFormat = "png"
	FormatPDF OutputFormat = "pdf"
)

// GenerationStatus is the lifecycle state of a generated entity.
// Failed is terminal for that entity; Unknown is read-side only and
// reported for records that cannot be parsed.
type GenerationStatus string

const (
	StatusPending  GenerationStatus = "pending"
	StatusComplete GenerationStatus = "complete"
	StatusFailed   GenerationStatus = "failed"
	StatusUnknown  GenerationStatus = "unknown"
)

// Phase is the overall stage of a recipe-processing run.
type Phase string

const (
	PhaseTransforming Phase = "transforming"
	PhaseGenerating   Phase = "generating"
	PhaseDocumenting  Phase = "documenting"
	PhaseComplete     Phase = "complete"
	PhaseError        Phase = "error"
)

// ContentFileType classifies a documentation/presentation unit.
type ContentFileType string

const (
	ContentDocumentation ContentFileType = "documentation"
	ContentPresentation  ContentFileType = "presentation"
	ContentMixed         ContentFileType = "mixed"
)
