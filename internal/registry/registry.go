// Package registry holds the static diagram-type knowledge: which
// rendering framework supports which diagram types and output formats,
// which framework a type defaults to, and the keyword tables that map
// free-text descriptions to canonical types.
//
// Everything here is data-only and deterministic: no I/O, no locale
// dependence, no reliance on map iteration order.
package registry

import "github.com/rendis/t2d/pkg/schema"

// FrameworkSupport is one compatibility-matrix entry: the diagram types a
// framework can render and the output formats it can produce.
type FrameworkSupport struct {
	Types   []schema.DiagramType
	Formats []schema.OutputFormat

	// SourceExt is the extension of the framework's diagram source files.
	SourceExt string
}

// Registry answers type/framework/format compatibility questions.
// The zero value is not usable; construct with Default.
type Registry struct {
	matrix   map[schema.Framework]FrameworkSupport
	defaults map[schema.DiagramType]schema.Framework
	keywords []keywordRule

	typeSet   map[schema.DiagramType]bool
	formatSet map[schema.OutputFormat]bool
}

// Default returns the registry for the supported frameworks. The matrix
// is part of the external contract: changing it changes validation
// behavior for every existing recipe.
func Default() *Registry {
	r := &Registry{
		matrix: map[schema.Framework]FrameworkSupport{
			schema.FrameworkMermaid: {
				Types: []schema.DiagramType{
					schema.TypeFlowchart, schema.TypeSequence, schema.TypeState,
					schema.TypeERD, schema.TypeGantt, schema.TypePie,
					schema.TypeMindmap, schema.TypeTimeline, schema.TypeJourney,
					schema.TypeQuadrant, schema.TypeClass,
					schema.TypeC4Context, schema.TypeC4Container,
					schema.TypeArchitecture,
				},
				Formats:   []schema.OutputFormat{schema.FormatSVG, schema.FormatPNG, schema.FormatPDF},
				SourceExt: ".mmd",
			},
			schema.FrameworkPlantUML: {
				Types: []schema.DiagramType{
					schema.TypeSequence, schema.TypeClass, schema.TypeUseCase,
					schema.TypeActivity, schema.TypeComponent, schema.TypeState,
					schema.TypeObject, schema.TypePackage, schema.TypeDeployment,
					schema.TypeC4Context, schema.TypeC4Container,
					schema.TypeC4Component, schema.TypeC4Dynamic,
				},
				Formats:   []schema.OutputFormat{schema.FormatSVG, schema.FormatPNG},
				SourceExt: ".puml",
			},
			schema.FrameworkD2: {
				Types: []schema.DiagramType{
					schema.TypeArchitecture, schema.TypeNetwork,
					schema.TypeDeployment, schema.TypeFlowchart,
					schema.TypeClass, schema.TypeERD,
					schema.TypeC4Context, schema.TypeC4Container,
					schema.TypeC4Component, schema.TypeC4Dynamic,
				},
				Formats:   []schema.OutputFormat{schema.FormatSVG, schema.FormatPNG, schema.FormatPDF},
				SourceExt: ".d2",
			},
		},
		defaults: map[schema.DiagramType]schema.Framework{
			schema.TypeFlowchart: schema.FrameworkMermaid,
			schema.TypeSequence:  schema.FrameworkMermaid,
			schema.TypeState:     schema.FrameworkMermaid,
			schema.TypeERD:       schema.FrameworkMermaid,
			schema.TypeGantt:     schema.FrameworkMermaid,
			schema.TypePie:       schema.FrameworkMermaid,
			schema.TypeMindmap:   schema.FrameworkMermaid,
			schema.TypeTimeline:  schema.FrameworkMermaid,
			schema.TypeJourney:   schema.FrameworkMermaid,
			schema.TypeQuadrant:  schema.FrameworkMermaid,

			schema.TypeArchitecture: schema.FrameworkD2,
			schema.TypeNetwork:      schema.FrameworkD2,
			schema.TypeDeployment:   schema.FrameworkD2,
			schema.TypeC4Context:    schema.FrameworkD2,
			schema.TypeC4Container:  schema.FrameworkD2,
			schema.TypeC4Component:  schema.FrameworkD2,
			schema.TypeC4Dynamic:    schema.FrameworkD2,

			schema.TypeClass:     schema.FrameworkPlantUML,
			schema.TypeUseCase:   schema.FrameworkPlantUML,
			schema.TypeActivity:  schema.FrameworkPlantUML,
			schema.TypeComponent: schema.FrameworkPlantUML,
			schema.TypeObject:    schema.FrameworkPlantUML,
			schema.TypePackage:   schema.FrameworkPlantUML,
		},
		keywords: defaultKeywordTable,
	}

	r.typeSet = make(map[schema.DiagramType]bool)
	r.formatSet = make(map[schema.OutputFormat]bool)
	for _, sup := range r.matrix {
		for _, t := range sup.Types {
			r.typeSet[t] = true
		}
		for _, f := range sup.Formats {
			r.formatSet[f] = true
		}
	}
	return r
}

// KnownType reports whether t is a renderable diagram type. TypeUnknown
// is not renderable.
func (r *Registry) KnownType(t schema.DiagramType) bool {
	return r.typeSet[t]
}

// KnownFramework reports whether f is a supported framework.
func (r *Registry) KnownFramework(f schema.Framework) bool {
	_, ok := r.matrix[f]
	return ok
}

// KnownFormat reports whether fmt is a supported output format.
func (r *Registry) KnownFormat(fmt schema.OutputFormat) bool {
	return r.formatSet[fmt]
}

// CanHandle reports whether framework f can render diagram type t.
func (r *Registry) CanHandle(f schema.Framework, t schema.DiagramType) bool {
	sup, ok := r.matrix[f]
	if !ok {
		return false
	}
	for _, candidate := range sup.Types {
		if candidate == t {
			return true
		}
	}
	return false
}

// SupportsFormat reports whether framework f can produce output format fmt.
func (r *Registry) SupportsFormat(f schema.Framework, fmt schema.OutputFormat) bool {
	sup, ok := r.matrix[f]
	if !ok {
		return false
	}
	for _, candidate := range sup.Formats {
		if candidate == fmt {
			return true
		}
	}
	return false
}

// DefaultFramework returns the framework a diagram type is routed to when
// the specification leaves framework unset. Unmapped types fall back to
// mermaid, the most general-purpose framework.
func (r *Registry) DefaultFramework(t schema.DiagramType) schema.Framework {
	if f, ok := r.defaults[t]; ok {
		return f
	}
	return schema.FrameworkMermaid
}

// SourceExtension returns the source-file extension for a framework, or
// "" for an unknown framework.
func (r *Registry) SourceExtension(f schema.Framework) string {
	return r.matrix[f].SourceExt
}

// Frameworks returns the supported frameworks in a stable order.
func (r *Registry) Frameworks() []schema.Framework {
	return []schema.Framework{
		schema.FrameworkMermaid,
		schema.FrameworkPlantUML,
		schema.FrameworkD2,
	}
}
