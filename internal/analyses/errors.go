package analyses

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

const (
	ErrorCodeValidation      = "validation_error"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeTooLarge        = "file_too_large"
	ErrorCodeUnsupportedType = "unsupported_file_type"
	ErrorCodeEmptyDocument   = "empty_document"
	ErrorCodeLLMUnavailable  = "llm_unavailable"
	ErrorCodeLLMFailed       = "llm_failed"
	ErrorCodeStorage         = "storage_error"
	ErrorCodeInternal        = "internal_error"
)
