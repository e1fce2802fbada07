package validation

import "regexp"

// Rule names surfaced as ValidationIssue codes. Whole-object failures
// must name the rule that failed, never just "invalid".
const (
	RuleRequired         = "required"
	RulePattern          = "pattern"
	RuleLength           = "length"
	RuleRange            = "range"
	RuleWordCount        = "word_count"
	RulePathTraversal    = "path_traversal"
	RuleFileExtension    = "file_extension"
	RuleUnknownType      = "unknown_type"
	RuleUnknownFramework = "unknown_framework"
	RuleUnknownFormat    = "unknown_format"
	RuleUnknownAgent     = "unknown_agent"
	RuleUnknownStatus    = "unknown_status"

	RulePRDSourceExclusive = "prd_source_exclusive"
	RuleNonEmptyCollection = "non_empty_collection"
	RuleDuplicateEntry     = "duplicate_entry"

	RuleIDSetMismatch          = "id_set_mismatch"
	RuleDanglingDiagramRef     = "dangling_diagram_ref"
	RuleTimestampInFuture      = "timestamp_in_future"
	RuleUnsupportedCombination = "unsupported_combination"
	RuleOptionsMismatch        = "options_mismatch"
)

// Field limits from the recipe contract.
const (
	maxNameLen        = 255
	maxTitleLen       = 255
	maxIDLen          = 100
	minPromptLen      = 10
	maxPromptLen      = 10_000
	minPromptWords    = 5
	maxPRDContentSize = 1 << 20 // 1 MB
)

var (
	namePattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	idPattern     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`)
)
