package errors

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

// Input problems the user fixes by editing sitegen.yaml or flags.
const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"
)

// Build problems tied to a source file or template.
const (
	CategoryBuild      ErrorCategory = "build"
	CategoryContent    ErrorCategory = "content" // front matter, dates, duplicate stems
	CategoryMarkdown   ErrorCategory = "markdown"
	CategoryTemplate   ErrorCategory = "template"
	CategoryFileSystem ErrorCategory = "filesystem"
)

// Environment problems: watcher, scheduler, git, NATS, SQLite.
const (
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryNetwork  ErrorCategory = "network"
	CategoryStorage  ErrorCategory = "storage"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal" // stops the command
	SeverityError   ErrorSeverity = "error" // fails the build
	SeverityWarning ErrorSeverity = "warning"
	SeverityInfo    ErrorSeverity = "info"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}
