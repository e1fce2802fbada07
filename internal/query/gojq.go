// Package query evaluates jq expressions against recipe documents, so
// tooling can select entities ("[.diagram_specs[].id]") or reshape a
// processed recipe without bespoke accessors.
package query

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/itchyny/gojq"

	"github.com/rendis/t2d/pkg/schema"
)

// Engine compiles and evaluates jq expressions. Thread-safe: compiled
// *Code objects are cached and reused across goroutines.
type Engine struct {
	mu    sync.RWMutex
	cache map[string]*gojq.Code
}

// NewEngine creates a jq query engine.
func NewEngine() *Engine {
	return &Engine{cache: make(map[string]*gojq.Code)}
}

// EvaluateRecipe evaluates a jq expression against a processed recipe.
// The recipe is presented to jq in its JSON document form, so field
// names match the on-disk contract.
func (e *Engine) EvaluateRecipe(ctx context.Context, expression string, rec *schema.ProcessedRecipe) (any, error) {
	doc, err := toDocument(rec)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeParse, "serialize recipe for query").WithCause(err)
	}
	return e.Evaluate(ctx, expression, doc)
}

// Evaluate compiles (or retrieves from cache) a jq expression and runs it
// against the provided document. jq expressions can produce multiple
// outputs: one output is returned directly, several are collected into a
// []any.
func (e *Engine) Evaluate(ctx context.Context, expression string, data map[string]any) (any, error) {
	if expression == "" {
		return nil, schema.NewError(schema.ErrCodeValidation, "empty jq expression")
	}

	code, err := e.getOrCompile(expression)
	if err != nil {
		return nil, err
	}

	iter := code.RunWithContext(ctx, data)

	var results []any
	for {
		val, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := val.(error); isErr {
			return nil, schema.NewErrorf(schema.ErrCodeValidation,
				"jq evaluation failed for %q: %s", expression, err.Error()).
				WithCause(err).
				WithDetails(map[string]any{"expression": expression})
		}
		results = append(results, val)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// getOrCompile returns a cached compiled code or compiles and caches a
// new one.
func (e *Engine) getOrCompile(expression string) (*gojq.Code, error) {
	e.mu.RLock()
	if code, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return code, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double-check after acquiring write lock.
	if code, ok := e.cache[expression]; ok {
		return code, nil
	}

	parsed, err := gojq.Parse(expression)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeValidation,
			"jq parse error in %q: %s", expression, err.Error()).WithCause(err)
	}

	code, err := gojq.Compile(parsed,
		// Sandbox: empty env blocks $ENV and env access.
		gojq.WithEnvironLoader(func() []string { return nil }),
	)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeValidation,
			"jq compile error in %q: %s", expression, err.Error()).WithCause(err)
	}

	e.cache[expression] = code
	return code, nil
}

// toDocument round-trips a typed recipe through JSON into the generic
// map form jq operates on.
func toDocument(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
