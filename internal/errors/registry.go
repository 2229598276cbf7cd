package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Hydration Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: element type differs",
		Detail:   "The pre-rendered element doesn't match the element produced by the first client render. The component renders differently on client and server.",
	},
	"E041": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: expected text node",
		Detail:   "The view produced a text node where the pre-rendered markup has an element or comment.",
	},
	"E043": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: missing node",
		Detail:   "The view produced a node that has no counterpart in the pre-rendered markup.",
	},
	"E044": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: component marker not found",
		Detail:   "A nested component was expected at this position but the markup has no matching component markers. Render the markup with hydratable output enabled.",
	},
	"E045": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: expected end of component, found node",
		Detail:   "After the first render merged the view with the pre-rendered fragment, nodes were left over. The server and client trees diverged.",
	},

	// ============================================
	// Lifecycle Usage Errors (E200-E219)
	// ============================================

	"E201": {
		Category: CategoryUsage,
		Message:  "Suspended outside a Suspense boundary",
		Detail:   "To suspend rendering, a Suspense component is required among the ancestors of the suspending component.",
	},
	"E202": {
		Category: CategoryUsage,
		Message:  "Position change during server render",
		Detail:   "Server-rendered instances are produced once; they cannot be shifted and their siblings never change.",
	},
	"E203": {
		Category: CategoryRuntime,
		Message:  "Server render channel already used",
		Detail:   "A server-rendered instance delivers its tree exactly once.",
	},
	"E204": {
		Category: CategoryRuntime,
		Message:  "Component state already borrowed",
		Detail:   "A unit of work tried to access a component state that is already held by another unit. Units must enqueue follow-up work instead of running it synchronously.",
	},
	"E205": {
		Category: CategoryRuntime,
		Message:  "View failed",
		Detail:   "The view hook returned an error that is not a suspension. Only suspensions are recoverable during rendering.",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file is malformed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Missing configuration file",
		Detail:   "No configuration file was found at the given location.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E148": {
		Category: CategoryCLI,
		Message:  "Export failed",
		Detail:   "The rendered output could not be written to its destination.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
