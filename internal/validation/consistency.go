package validation

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rendis/t2d/internal/registry"
	"github.com/rendis/t2d/pkg/schema"
)

// checkConsistency validates the cross-entity invariants of a
// field-validated ProcessedRecipe. All violations are collected and named
// individually; partial validity is never granted. Cheap set-membership
// checks run before the per-spec compatibility pass so obviously
// malformed input fails fast.
//
// Re-run on every load from persisted storage: files may have been
// hand-edited or partially written by a failed producer.
func checkConsistency(rec *schema.ProcessedRecipe, reg *registry.Registry) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	specIDs := rec.SpecIDs()
	refIDs := rec.RefIDs()

	// Invariant 1: spec id set == ref id set, no missing, no extra.
	var missing, extra []string
	for id := range specIDs {
		if !refIDs[id] {
			missing = append(missing, id)
		}
	}
	for id := range refIDs {
		if !specIDs[id] {
			extra = append(extra, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		result.AddError("diagram_refs", RuleIDSetMismatch,
			fmt.Sprintf("missing diagram references: [%s]", strings.Join(missing, ", ")))
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		result.AddError("diagram_refs", RuleIDSetMismatch,
			fmt.Sprintf("extra diagram references: [%s]", strings.Join(extra, ", ")))
	}

	// Invariant 2: every content-file diagram ref is a known spec id.
	for i, cf := range rec.ContentFiles {
		for j, id := range cf.DiagramRefs {
			if !specIDs[id] {
				result.AddError(fmt.Sprintf("content_files[%d].diagram_refs[%d]", i, j),
					RuleDanglingDiagramRef,
					fmt.Sprintf("content file %q references unknown diagram %q", cf.ID, id))
			}
		}
	}

	// Invariant 3: generated_at must not be in the future.
	if rec.GeneratedAt.After(time.Now()) {
		result.AddError("generated_at", RuleTimestampInFuture,
			fmt.Sprintf("generated_at %s is in the future", rec.GeneratedAt.Format(time.RFC3339)))
	}

	// Per-spec framework/type/format compatibility.
	for i := range rec.DiagramSpecs {
		checkSpecCompatibility(&rec.DiagramSpecs[i], fmt.Sprintf("diagram_specs[%d]", i), reg, result)
	}

	return result
}

// checkSpecCompatibility reconciles one specification's semantic type,
// rendering framework and output formats against the compatibility
// matrix. An omitted framework resolves to the registry default for the
// diagram type before any format or extension check.
func checkSpecCompatibility(s *schema.DiagramSpecification, path string, reg *registry.Registry, result *schema.ValidationResult) {
	fw := s.Framework
	if fw == "" {
		fw = reg.DefaultFramework(s.Type)
	} else if !reg.CanHandle(fw, s.Type) {
		result.AddError(path+".framework", RuleUnsupportedCombination,
			fmt.Sprintf("framework %q cannot render diagram type %q", fw, s.Type))
	}

	for j, f := range s.OutputFormats {
		if !reg.SupportsFormat(fw, f) {
			result.AddError(fmt.Sprintf("%s.output_formats[%d]", path, j),
				RuleUnsupportedCombination,
				fmt.Sprintf("framework %q does not produce %q output for diagram %q", fw, f, s.ID))
		}
	}

	if ext := reg.SourceExtension(fw); ext != "" && s.OutputFile != "" {
		if !strings.EqualFold(filepath.Ext(s.OutputFile), ext) {
			result.AddError(path+".output_file", RuleFileExtension,
				fmt.Sprintf("output file %q must use the %s extension for framework %q", s.OutputFile, ext, fw))
		}
	}

	if s.Options != nil {
		checkOptionsVariant(s.Options, fw, path+".options", result)
	}
}

// checkOptionsVariant enforces the tagged-union rule: only the options
// variant matching the effective framework may be populated.
func checkOptionsVariant(opts *schema.FrameworkOptions, fw schema.Framework, path string, result *schema.ValidationResult) {
	variants := []struct {
		framework schema.Framework
		set       bool
	}{
		{schema.FrameworkMermaid, opts.Mermaid != nil},
		{schema.FrameworkPlantUML, opts.PlantUML != nil},
		{schema.FrameworkD2, opts.D2 != nil},
	}
	for _, v := range variants {
		if v.set && v.framework != fw {
			result.AddError(path, RuleOptionsMismatch,
				fmt.Sprintf("%s options provided for a %s diagram", v.framework, fw))
		}
	}
}
