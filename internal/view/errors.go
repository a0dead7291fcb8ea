package view

import "fmt"

// Error kinds returned by file view operations.
const (
	KindFileNotFound      = "FILE_NOT_FOUND"
	KindMissingLine       = "MISSING_LINE"
	KindLineOutOfRange    = "LINE_OUT_OF_RANGE"
	KindMissingTarget     = "MISSING_TARGET"
	KindTargetNotFound    = "TARGET_NOT_FOUND"
	KindSyntaxUnsupported = "SYNTAX_UNSUPPORTED"
	KindUnclosedConstruct = "UNCLOSED_CONSTRUCT"
	KindParseUnknown      = "PARSE_UNKNOWN"
	KindInvalidMode       = "INVALID_MODE"
	KindPathNotFound      = "PATH_NOT_FOUND"
	KindInvalidPattern    = "INVALID_PATTERN"
	KindSearchFailed      = "SEARCH_FAILED"
)

// Error is the structured failure record every operation returns instead of
// a bare message. Partial carries whatever degraded result is still useful,
// such as an empty outline alongside a parse failure.
type Error struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
	Path    string `json:"path,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Partial any    `json:"partial,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errFileNotFound(path, mode string) *Error {
	return &Error{
		Kind:    KindFileNotFound,
		Message: fmt.Sprintf("file not found: %s", path),
		Hint:    "check the path is correct and relative to the project root",
		Path:    path,
		Mode:    mode,
	}
}
