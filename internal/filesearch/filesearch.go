// Package filesearch provides structural code search over files and
// directory trees: declaration names matched by pattern with type and
// modifier filters, with a plain regex fallback for non-source files.
package filesearch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/rs/zerolog/log"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/althame/lens/internal/store"
	"github.com/althame/lens/internal/syntax"
)

// ErrRootNotFound is returned when the search root does not exist.
var ErrRootNotFound = errors.New("search path not found")

// ErrInvalidPattern is returned when the search pattern does not compile
// as a regular expression.
var ErrInvalidPattern = errors.New("invalid search pattern")

// skipDirs are never descended into regardless of .gitignore.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"dist":         true,
	"build":        true,
}

// Structural type filters.
const (
	TypeFunction = "function"
	TypeClass    = "class"
	TypeMethod   = "method"
	TypeImport   = "import"
	TypeExport   = "export"
)

// Match is a single search hit. Structural matches carry the declaration
// name and kind; fallback text matches have Kind "text" and a zero Name.
type Match struct {
	Path     string `json:"path"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind"`
	Language string `json:"language,omitempty"`
	Snippet  string `json:"snippet"`
}

// Options configures a search.
type Options struct {
	Pattern       string // regex matched against declaration names (or line contents in fallback)
	Type          string // structural filter: function|class|method|import|export, empty = all
	Modifier      string // modifier filter: async|static, empty = all
	Root          string // file or directory to search
	MaxResults    int    // 0 = unlimited
	CaseSensitive bool
	MaxFileSize   int64 // files larger than this are skipped (0 = 10MB)
}

const defaultMaxFileSize = 10 * 1024 * 1024

// Searcher performs structural and fallback searches rooted at one
// directory. The outline cache is optional; a nil cache means every source
// file is re-parsed.
type Searcher struct {
	root      string
	gitignore *ignore.GitIgnore
	cache     *store.Cache
}

// NewSearcher creates a searcher rooted at dir. A missing or unreadable
// .gitignore just disables ignore filtering.
func NewSearcher(dir string, cache *store.Cache) *Searcher {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		gi = nil
	}
	return &Searcher{root: dir, gitignore: gi, cache: cache}
}

// Search runs a search with the given options. opts.Root may name a single
// file or a directory tree; relative roots resolve against the searcher's
// root directory.
func (s *Searcher) Search(ctx context.Context, opts Options) ([]Match, error) {
	if opts.Root == "" {
		opts.Root = s.root
	} else if !filepath.IsAbs(opts.Root) {
		opts.Root = filepath.Join(s.root, opts.Root)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = defaultMaxFileSize
	}

	pattern := opts.Pattern
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, opts.Root)
		}
		return nil, err
	}

	if !info.IsDir() {
		matches, err := s.searchFile(opts.Root, regex, opts)
		if err != nil {
			return nil, err
		}
		if opts.MaxResults > 0 && len(matches) > opts.MaxResults {
			matches = matches[:opts.MaxResults]
		}
		return matches, nil
	}

	var results []Match
	err = filepath.WalkDir(opts.Root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != opts.Root {
				if skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				if s.ignored(rel) || s.ignored(rel+"/") {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if s.ignored(rel) {
			return nil
		}
		fi, err := d.Info()
		if err != nil || fi.Size() > opts.MaxFileSize {
			return nil
		}

		matches, err := s.searchFile(path, regex, opts)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("skipping unreadable file")
			return nil
		}
		results = append(results, matches...)
		if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
			results = results[:opts.MaxResults]
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipAll) {
		return nil, err
	}
	return results, nil
}

// searchFile dispatches one file to the structural or fallback path.
func (s *Searcher) searchFile(path string, regex *regexp.Regexp, opts Options) ([]Match, error) {
	rel := s.relPath(path)
	if syntax.Supported(path) {
		out, lang, err := s.outlineFor(path)
		if err != nil {
			if opts.Type != "" {
				// broken source has no structure to filter by
				return nil, nil
			}
			// unparseable source degrades to plain text search
			return s.searchText(path, rel, regex, opts)
		}
		return structuralMatches(out, rel, lang, regex, opts), nil
	}
	if opts.Type != "" {
		// structural filters never match non-source files
		return nil, nil
	}
	return s.searchText(path, rel, regex, opts)
}

// outlineFor returns the classified outline for path, consulting the cache
// keyed by (path, mtime, size).
func (s *Searcher) outlineFor(path string) (*syntax.Outline, string, error) {
	g := syntax.ForPath(path)
	langName := ""
	if g != nil {
		langName = g.Name
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, langName, err
	}
	if out, ok := s.cache.Get(path, fi.ModTime().UnixNano(), fi.Size()); ok {
		return out, langName, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, langName, err
	}
	out, g, perr := syntax.Analyze(path, src)
	if perr != nil {
		return nil, langName, perr
	}
	s.cache.Set(path, fi.ModTime().UnixNano(), fi.Size(), out)
	return out, g.Name, nil
}

func structuralMatches(out *syntax.Outline, rel, lang string, regex *regexp.Regexp, opts Options) []Match {
	var results []Match

	wantType := func(t string) bool { return opts.Type == "" || opts.Type == t }
	wantMod := func(async, static bool) bool {
		switch opts.Modifier {
		case "":
			return true
		case "async":
			return async
		case "static":
			return static
		default:
			return false
		}
	}

	if wantType(TypeFunction) {
		for _, f := range out.Functions {
			if regex.MatchString(f.Name) && wantMod(f.Async, false) {
				results = append(results, Match{
					Path: rel, Line: f.StartLine, Column: f.StartCol + 1,
					Name: f.Name, Kind: TypeFunction, Language: lang, Snippet: f.Signature,
				})
			}
		}
	}
	if wantType(TypeClass) && opts.Modifier == "" {
		for _, c := range out.Classes {
			if regex.MatchString(c.Name) {
				snippet := "class " + c.Name
				if c.Superclass != "" {
					snippet += " extends " + c.Superclass
				}
				results = append(results, Match{
					Path: rel, Line: c.StartLine, Column: c.StartCol + 1,
					Name: c.Name, Kind: TypeClass, Language: lang, Snippet: snippet,
				})
			}
		}
	}
	if wantType(TypeMethod) {
		for _, c := range out.Classes {
			for _, m := range c.Methods {
				if regex.MatchString(m.Name) && wantMod(m.Async, m.Static) {
					results = append(results, Match{
						Path: rel, Line: m.StartLine, Column: 1,
						Name: c.Name + "." + m.Name, Kind: TypeMethod, Language: lang, Snippet: m.Signature,
					})
				}
			}
		}
	}
	if wantType(TypeImport) && opts.Modifier == "" {
		for _, imp := range out.Imports {
			if regex.MatchString(imp.Source) || matchAny(regex, imp.Names) {
				results = append(results, Match{
					Path: rel, Line: imp.Line, Column: 1,
					Name: imp.Source, Kind: TypeImport, Language: lang, Snippet: imp.Text,
				})
			}
		}
	}
	if wantType(TypeExport) && opts.Modifier == "" {
		for _, e := range out.Exports {
			if regex.MatchString(e.Name) {
				results = append(results, Match{
					Path: rel, Line: e.Line, Column: 1,
					Name: e.Name, Kind: TypeExport, Language: lang, Snippet: e.Text,
				})
			}
		}
	}
	return results
}

// searchText is the plain line-regex fallback for non-source files.
func (s *Searcher) searchText(path, rel string, regex *regexp.Regexp, _ Options) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lang := lexerName(path)
	var results []Match
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		if strings.Contains(text, "\x00") {
			return nil, nil // binary
		}
		if loc := regex.FindStringIndex(text); loc != nil {
			results = append(results, Match{
				Path: rel, Line: lineNum, Column: loc[0] + 1,
				Kind: "text", Language: lang, Snippet: text,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Searcher) ignored(rel string) bool {
	return s.gitignore != nil && s.gitignore.MatchesPath(rel)
}

func (s *Searcher) relPath(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return path
	}
	return rel
}

// lexerName labels a fallback match's language via chroma's lexer registry.
func lexerName(path string) string {
	lex := lexers.Match(filepath.Base(path))
	if lex == nil {
		return ""
	}
	return strings.ToLower(lex.Config().Name)
}

func matchAny(regex *regexp.Regexp, names []string) bool {
	for _, n := range names {
		if regex.MatchString(n) {
			return true
		}
	}
	return false
}
