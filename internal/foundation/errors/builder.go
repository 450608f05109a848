package errors

// ErrorBuilder assembles a ClassifiedError step by step.
type ErrorBuilder struct {
	err ClassifiedError
}

func newBuilder(category ErrorCategory, message string, cause error) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		cause:    cause,
		context:  ErrorContext{},
	}}
}

// NewError starts an error without an underlying cause.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return newBuilder(category, message, nil)
}

// WrapError starts an error that wraps err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return newBuilder(category, message, err)
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

// WithContext records key=value; later values for the same key win.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Build returns the error. The builder must not be reused afterwards.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	return &e
}

// ConfigError is a fatal configuration problem.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError rejects user input other than the config file.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message)
}

// FileSystemError wraps a read or write failure on path.
func FileSystemError(err error, message, path string) *ErrorBuilder {
	return WrapError(err, CategoryFileSystem, message).WithContext("path", path)
}

// ContentError reports a source document that cannot be turned into a page.
// err may be nil.
func ContentError(err error, message, path string) *ErrorBuilder {
	return newBuilder(CategoryContent, message, err).WithContext("path", path)
}

// TemplateError wraps a template lookup or execution failure.
func TemplateError(err error, message, name string) *ErrorBuilder {
	return WrapError(err, CategoryTemplate, message).WithContext("template", name)
}
