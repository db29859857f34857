package rerrors

// Template defines a registered error type: a code maps to a fixed
// category/message/detail/doc-link, filled in by New and then
// customized per occurrence (location, suggestion, wrapped cause).
type Template struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates, grouped by subsystem.
var registry = map[string]Template{
	// ============================================
	// Reactive core (R001-R029)
	// ============================================

	"R001": {
		Category: CategoryReactive,
		Message:  "dependency read outside an active watcher",
		Detail:   "Reactive reads are only tracked while a watcher is evaluating; reading outside one collects no dependency.",
	},
	"R002": {
		Category: CategoryReactive,
		Message:  "watcher re-entered during its own evaluation",
		Detail:   "A computed getter or render function triggered itself, directly or through a dependency cycle.",
	},
	"R003": {
		Category: CategoryReactive,
		Message:  "scheduler flush exceeded the max update depth",
		Detail:   "The flush queue kept re-adding watchers past the cycle-detection budget; this usually means two watchers are writing to each other's dependencies.",
	},
	"R004": {
		Category: CategoryReactive,
		Message:  "mutation of a non-reactive value",
		Detail:   "Set/Del was called on a plain map or slice that was never passed through observe().",
	},

	// ============================================
	// Option merger (O001-O029)
	// ============================================

	"O001": {
		Category: CategoryOptions,
		Message:  "data must be a function when used outside an instance",
		Detail:   "A component's data option must be a func() map[string]any so each instance gets its own copy.",
	},
	"O002": {
		Category: CategoryOptions,
		Message:  "el/propsData can only be merged with an instance present",
		Detail:   "These keys describe instance-time state and have no meaning on a bare component definition.",
	},
	"O003": {
		Category: CategoryOptions,
		Message:  "invalid extends value",
		Detail:   "extends must be a component definition, record, or a slice of either.",
	},
	"O004": {
		Category: CategoryOptions,
		Message:  "invalid mixins value",
		Detail:   "mixins must be a slice of component definitions or records.",
	},

	// ============================================
	// Prop validation (V001-V029)
	// ============================================

	"V001": {
		Category: CategoryValidation,
		Message:  "required prop missing",
		Detail:   "A prop declared required:true was not provided by the parent.",
	},
	"V002": {
		Category: CategoryValidation,
		Message:  "prop type mismatch",
		Detail:   "The provided value's type is not among the prop's declared type list.",
	},
	"V003": {
		Category: CategoryValidation,
		Message:  "prop custom validator failed",
		Detail:   "The prop's validator function returned false for the provided value.",
	},
	"V004": {
		Category: CategoryValidation,
		Message:  "object/array default without a factory",
		Detail:   "Object and Array prop defaults must be returned from a factory function so each instance gets its own copy.",
	},

	// ============================================
	// Template parser (T001-T029)
	// ============================================

	"T001": {
		Category: CategoryTemplate,
		Message:  "malformed template: scanner made no progress",
		Detail:   "The scanner couldn't advance past the current position; the remaining template was emitted as text.",
	},
	"T002": {
		Category: CategoryTemplate,
		Message:  "mismatched end tag",
		Detail:   "An end tag was found with no matching open tag on the stack, or with unclosed tags above it.",
	},
	"T003": {
		Category: CategoryTemplate,
		Message:  "unclosed plain-text element",
		Detail:   "A script/style/textarea element had no matching close tag before end of input.",
	},

	// ============================================
	// Optimizer (S001-S019)
	// ============================================

	"S001": {
		Category: CategoryOptimizer,
		Message:  "static root promoted a single text child",
		Detail:   "Hoisting a node whose only child is plain text costs more than it saves; this should never be marked a static root.",
	},

	// ============================================
	// Config / CLI (C001-C029)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "invalid configuration file",
		Detail:   "The project configuration file is malformed or missing a required field.",
	},
	"C002": {
		Category: CategoryCLI,
		Message:  "not a project directory",
		Detail:   "Run this command from a directory containing a project configuration file.",
	},
	"C003": {
		Category: CategoryCLI,
		Message:  "build failed",
		Detail:   "The Go build command failed; check the output for compiler errors.",
	},
}

// GetAllCodes returns every registered error code.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for a code, if registered.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or overwrites a template, for callers that extend the
// registry with their own codes.
func Register(code string, template Template) {
	registry[code] = template
}
