// Package errors provides the classified error primitives used across sitegen.
//
// Every failure that leaves a package boundary is a ClassifiedError: it carries a
// category (config, filesystem, template, ...), a severity and structured context
// such as the offending source path. The CLI adapter maps categories to exit codes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "failed to write page").
//		WithContext("path", target).
//		Build()
package errors
