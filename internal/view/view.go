// Package view implements the read modes over a single source file: the
// full contents, a declaration outline, a line window, and a named target
// extraction. Each operation returns either a result or a structured
// *Error, never both.
package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/althame/lens/internal/filesearch"
	"github.com/althame/lens/internal/source"
	"github.com/althame/lens/internal/syntax"
)

// Read modes accepted by Dispatch.
const (
	ModeFull    = "full"
	ModeOutline = "outline"
	ModeLines   = "lines"
	ModeTarget  = "target"
	ModeSearch  = "search"
)

// Defaults applied when a request leaves the knobs unset.
const (
	DefaultContextLines = 5
	DefaultLinesAbove   = 10
	DefaultLinesBelow   = 10
)

// Options carries the tunable limits shared by all operations.
type Options struct {
	ContextLines int
	LinesAbove   int
	LinesBelow   int
	MaxResults   int
	Searcher     *filesearch.Searcher
}

func (o Options) orDefaults() Options {
	if o.ContextLines <= 0 {
		o.ContextLines = DefaultContextLines
	}
	if o.LinesAbove <= 0 {
		o.LinesAbove = DefaultLinesAbove
	}
	if o.LinesBelow <= 0 {
		o.LinesBelow = DefaultLinesBelow
	}
	return o
}

// FullResult is the full read mode payload.
type FullResult struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	LineCount int    `json:"line_count"`
	Size      int    `json:"size"`
}

// Full returns the entire file contents. It never parses, so unsupported
// and broken source files read the same as any other text file.
func Full(path string) (*FullResult, *Error) {
	doc, verr := load(path, ModeFull)
	if verr != nil {
		return nil, verr
	}
	return &FullResult{Path: path, Content: doc.Text, LineCount: doc.LineCount(), Size: doc.Size}, nil
}

// OutlineCounts summarizes an outline by category. Methods counts the
// members of every class, which the Classes count alone hides.
type OutlineCounts struct {
	Functions int `json:"functions"`
	Classes   int `json:"classes"`
	Methods   int `json:"methods"`
	Imports   int `json:"imports"`
	Exports   int `json:"exports"`
}

// OutlineResult is the outline read mode payload.
type OutlineResult struct {
	Path     string          `json:"path"`
	Language string          `json:"language"`
	Counts   OutlineCounts   `json:"counts"`
	Outline  *syntax.Outline `json:"outline"`
}

// Outline parses the file and returns its classified declarations. Parse
// failures return an Error carrying an empty outline as the partial result
// so callers can distinguish "no declarations" from "could not parse".
func Outline(path string) (*OutlineResult, *Error) {
	doc, verr := load(path, ModeOutline)
	if verr != nil {
		return nil, verr
	}
	out, g, perr := syntax.Analyze(path, []byte(doc.Text))
	if perr != nil {
		return nil, parseError(perr, path, ModeOutline)
	}
	counts := OutlineCounts{
		Functions: len(out.Functions),
		Classes:   len(out.Classes),
		Methods:   out.MethodCount(),
		Imports:   len(out.Imports),
		Exports:   len(out.Exports),
	}
	return &OutlineResult{Path: path, Language: g.Name, Counts: counts, Outline: out}, nil
}

// LinesResult is the lines read mode payload: a window of code around a
// target line, with the window's bounds after clamping.
type LinesResult struct {
	Path       string `json:"path"`
	TargetLine int    `json:"target_line"`
	StartLine  int    `json:"start_line"`
	EndLine    int    `json:"end_line"`
	LineCount  int    `json:"line_count"`
	Code       string `json:"code"`
}

// Lines returns a window of above+below lines around target. The window
// clamps to the file bounds; only a target beyond the last line is an
// error.
func Lines(path string, target, above, below int) (*LinesResult, *Error) {
	doc, verr := load(path, ModeLines)
	if verr != nil {
		return nil, verr
	}
	if target <= 0 {
		return nil, &Error{
			Kind:    KindMissingLine,
			Message: "lines mode requires a positive target line",
			Hint:    fmt.Sprintf("pass a line number between 1 and %d", doc.LineCount()),
			Path:    path,
			Mode:    ModeLines,
		}
	}
	total := doc.LineCount()
	if target > total {
		return nil, &Error{
			Kind:    KindLineOutOfRange,
			Message: fmt.Sprintf("line %d is out of range: %s has %d lines", target, path, total),
			Hint:    fmt.Sprintf("pass a line number between 1 and %d", total),
			Path:    path,
			Mode:    ModeLines,
		}
	}
	if above < 0 {
		above = DefaultLinesAbove
	}
	if below < 0 {
		below = DefaultLinesBelow
	}
	start, end := syntax.Clamp(target-above, target+below, 0, total)
	return &LinesResult{
		Path:       path,
		TargetLine: target,
		StartLine:  start,
		EndLine:    end,
		LineCount:  total,
		Code:       syntax.Slice(doc.Lines, start, end),
	}, nil
}

// TargetResult is the target read mode payload.
type TargetResult struct {
	Path       string             `json:"path"`
	Qualifier  string             `json:"qualifier"`
	Resolution *syntax.Resolution `json:"resolution"`
}

// Target parses the file and resolves a qualifier such as "class:Foo" or
// "function:bar" to its source range with surrounding context.
func Target(path, qualifier string, contextLines int) (*TargetResult, *Error) {
	doc, verr := load(path, ModeTarget)
	if verr != nil {
		return nil, verr
	}
	if strings.TrimSpace(qualifier) == "" {
		return nil, &Error{
			Kind:    KindMissingTarget,
			Message: "target mode requires a qualifier",
			Hint:    "pass a qualifier like class:Name, function:name, class:Name.member, imports, or exports",
			Path:    path,
			Mode:    ModeTarget,
		}
	}
	out, _, perr := syntax.Analyze(path, []byte(doc.Text))
	if perr != nil {
		return nil, parseError(perr, path, ModeTarget)
	}
	if contextLines < 0 {
		contextLines = DefaultContextLines
	}
	res, rerr := syntax.Resolve(out, doc.Lines, qualifier, contextLines)
	if rerr != nil {
		var nf *syntax.NotFoundError
		if errors.As(rerr, &nf) {
			return nil, &Error{
				Kind:    KindTargetNotFound,
				Message: nf.Error(),
				Hint:    nf.Hint,
				Path:    path,
				Mode:    ModeTarget,
			}
		}
		return nil, &Error{
			Kind:    KindTargetNotFound,
			Message: rerr.Error(),
			Path:    path,
			Mode:    ModeTarget,
		}
	}
	return &TargetResult{Path: path, Qualifier: qualifier, Resolution: res}, nil
}

// SearchResult is the search payload.
type SearchResult struct {
	Pattern string             `json:"pattern"`
	Root    string             `json:"root"`
	Total   int                `json:"total"`
	Matches []filesearch.Match `json:"matches"`
}

// Search runs a structural search via the configured searcher.
func Search(ctx context.Context, opts filesearch.Options, searcher *filesearch.Searcher) (*SearchResult, *Error) {
	if searcher == nil {
		return nil, &Error{
			Kind:    KindSearchFailed,
			Message: "no search root configured",
			Mode:    ModeSearch,
		}
	}
	matches, err := searcher.Search(ctx, opts)
	if err != nil {
		if errors.Is(err, filesearch.ErrRootNotFound) {
			return nil, &Error{
				Kind:    KindPathNotFound,
				Message: err.Error(),
				Hint:    "check the search root exists",
				Path:    opts.Root,
				Mode:    ModeSearch,
			}
		}
		if errors.Is(err, filesearch.ErrInvalidPattern) {
			return nil, &Error{
				Kind:    KindInvalidPattern,
				Message: err.Error(),
				Hint:    "the pattern must be a valid regular expression",
				Mode:    ModeSearch,
			}
		}
		return nil, &Error{Kind: KindSearchFailed, Message: err.Error(), Mode: ModeSearch}
	}
	if matches == nil {
		matches = []filesearch.Match{}
	}
	return &SearchResult{Pattern: opts.Pattern, Root: opts.Root, Total: len(matches), Matches: matches}, nil
}

// Request is a mode-dispatched read request.
type Request struct {
	Mode           string `json:"mode"`
	Path           string `json:"path"`
	TargetLine     int    `json:"target_line,omitempty"`
	LinesAbove     int    `json:"lines_above,omitempty"`
	LinesBelow     int    `json:"lines_below,omitempty"`
	Qualifier      string `json:"qualifier,omitempty"`
	Context        int    `json:"context,omitempty"`
	IncludeContext *bool  `json:"include_context,omitempty"`
	Pattern        string `json:"pattern,omitempty"`
	Type           string `json:"type,omitempty"`
	Modifier       string `json:"modifier,omitempty"`
}

// Dispatch routes a request to the operation named by its mode. The result
// is one of the mode payload types; an unrecognized mode is INVALID_MODE.
func Dispatch(ctx context.Context, req Request, opts Options) (any, *Error) {
	opts = opts.orDefaults()
	switch req.Mode {
	case ModeFull:
		return result(Full(req.Path))
	case ModeOutline:
		return result(Outline(req.Path))
	case ModeLines:
		above, below := req.LinesAbove, req.LinesBelow
		if above == 0 {
			above = opts.LinesAbove
		}
		if below == 0 {
			below = opts.LinesBelow
		}
		return result(Lines(req.Path, req.TargetLine, above, below))
	case ModeTarget:
		contextLines := req.Context
		if contextLines <= 0 {
			contextLines = opts.ContextLines
		}
		if req.IncludeContext != nil && !*req.IncludeContext {
			contextLines = 0
		}
		return result(Target(req.Path, req.Qualifier, contextLines))
	case ModeSearch:
		return result(Search(ctx, filesearch.Options{
			Pattern:    req.Pattern,
			Type:       req.Type,
			Modifier:   req.Modifier,
			Root:       req.Path,
			MaxResults: opts.MaxResults,
		}, opts.Searcher))
	default:
		return nil, &Error{
			Kind:    KindInvalidMode,
			Message: fmt.Sprintf("unknown mode %q", req.Mode),
			Hint:    "valid modes are full, outline, lines, target, and search",
			Mode:    req.Mode,
		}
	}
}

func result[T any](v *T, err *Error) (any, *Error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func load(path, mode string) (*source.Document, *Error) {
	doc, err := source.Load(path)
	if err != nil {
		var nf *source.NotFoundError
		if errors.As(err, &nf) {
			return nil, errFileNotFound(path, mode)
		}
		log.Warn().Err(err).Str("path", path).Msg("read failed")
		return nil, &Error{
			Kind:    KindFileNotFound,
			Message: err.Error(),
			Path:    path,
			Mode:    mode,
		}
	}
	return doc, nil
}

func parseError(perr *syntax.ParseError, path, mode string) *Error {
	return &Error{
		Kind:    perr.Kind,
		Message: perr.Message,
		Hint:    perr.Hint,
		Path:    path,
		Mode:    mode,
		Partial: syntax.EmptyOutline(),
	}
}
