// Command lens is an AST-aware file access engine for coding agents. It
// serves read modes (full, outline, lines, target) and structural search
// over MCP stdio, and exposes the same operations as one-shot subcommands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/althame/lens/internal/config"
	"github.com/althame/lens/internal/filesearch"
	"github.com/althame/lens/internal/linetag"
	"github.com/althame/lens/internal/mcp"
	"github.com/althame/lens/internal/mcptools"
	"github.com/althame/lens/internal/store"
	"github.com/althame/lens/internal/syntax"
	"github.com/althame/lens/internal/view"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "lens",
		Short:         "AST-aware source file access for coding agents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		setupLogging(cfg)
		return cfg, nil
	}

	root.AddCommand(newServeCmd(loadConfig))
	root.AddCommand(newFullCmd(loadConfig))
	root.AddCommand(newOutlineCmd(loadConfig))
	root.AddCommand(newLinesCmd(loadConfig))
	root.AddCommand(newTargetCmd(loadConfig))
	root.AddCommand(newSearchCmd(loadConfig))
	return root
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.LevelOrDefault())
	if err != nil {
		level = zerolog.WarnLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

type configLoader func() (*config.Config, error)

func newServeCmd(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tool surface over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cache := openCache(cfg)
			defer cache.Close()

			workingDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			searcher := filesearch.NewSearcher(workingDir, cache)

			srv := mcp.NewServer("lens", version)
			srv.RegisterTool(mcptools.NewReadTool(), mcptools.NewReadHandler().Handle)
			srv.RegisterTool(mcptools.NewOutlineTool(), mcptools.NewOutlineHandler().Handle)
			srv.RegisterTool(mcptools.NewLinesTool(), mcptools.NewLinesHandler(
				cfg.View.LinesAboveOrDefault(), cfg.View.LinesBelowOrDefault()).Handle)
			srv.RegisterTool(mcptools.NewTargetTool(), mcptools.NewTargetHandler(
				cfg.View.ContextLinesOrDefault()).Handle)
			srv.RegisterTool(mcptools.NewSearchTool(), mcptools.NewSearchHandler(
				searcher, cfg.Search.MaxResultsOrDefault()).Handle)

			log.Info().Str("version", version).Msg("lens mcp server listening on stdio")
			return srv.Serve(ctx, os.Stdin, os.Stdout)
		},
	}
}

func newFullCmd(loadConfig configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "full <file>",
		Short: "Print a file in full with line tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			result, verr := view.Full(args[0])
			if verr != nil {
				return printError(verr)
			}
			fmt.Println(linetag.Render(result.Content, 1))
			return nil
		},
	}
}

func newOutlineCmd(loadConfig configLoader) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "Print a source file's declaration outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			result, verr := view.Outline(args[0])
			if verr != nil {
				return printError(verr)
			}
			if asJSON {
				return printJSON(result)
			}
			fmt.Print(syntax.Format(args[0], result.Outline))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of the compact text outline")
	return cmd
}

func newLinesCmd(loadConfig configLoader) *cobra.Command {
	var above, below int
	cmd := &cobra.Command{
		Use:   "lines <file> <line>",
		Short: "Print a window of lines around a target line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			target, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid line number %q", args[1])
			}
			if above == 0 {
				above = cfg.View.LinesAboveOrDefault()
			}
			if below == 0 {
				below = cfg.View.LinesBelowOrDefault()
			}
			result, verr := view.Lines(args[0], target, above, below)
			if verr != nil {
				return printError(verr)
			}
			fmt.Println(linetag.Render(result.Code, result.StartLine))
			return nil
		},
	}
	cmd.Flags().IntVar(&above, "above", 0, "lines of context above the target")
	cmd.Flags().IntVar(&below, "below", 0, "lines of context below the target")
	return cmd
}

func newTargetCmd(loadConfig configLoader) *cobra.Command {
	var contextLines int
	var noContext bool
	cmd := &cobra.Command{
		Use:   "target <file> <qualifier>",
		Short: "Extract a named declaration with context",
		Long:  "Extract a declaration by qualifier: class:Name, class:Name.member, method:name, function:name, imports, exports, or a bare name.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if contextLines < 0 && !noContext {
				contextLines = cfg.View.ContextLinesOrDefault()
			}
			if noContext {
				contextLines = 0
			}
			result, verr := view.Target(args[0], args[1], contextLines)
			if verr != nil {
				return printError(verr)
			}
			return printJSON(result)
		},
	}
	cmd.Flags().IntVar(&contextLines, "context", -1, "context lines before and after the target")
	cmd.Flags().BoolVar(&noContext, "no-context", false, "return the bare declaration with no surrounding lines")
	return cmd
}

func newSearchCmd(loadConfig configLoader) *cobra.Command {
	var (
		searchPath    string
		searchType    string
		modifier      string
		maxResults    int
		caseSensitive bool
	)
	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search declarations by name across source files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			cache := openCache(cfg)
			defer cache.Close()

			workingDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			searcher := filesearch.NewSearcher(workingDir, cache)

			if maxResults == 0 {
				maxResults = cfg.Search.MaxResultsOrDefault()
			}
			result, verr := view.Search(cmd.Context(), filesearch.Options{
				Pattern:       args[0],
				Type:          searchType,
				Modifier:      modifier,
				Root:          searchPath,
				MaxResults:    maxResults,
				CaseSensitive: caseSensitive,
				MaxFileSize:   cfg.Search.MaxFileSizeOrDefault(),
			}, searcher)
			if verr != nil {
				return printError(verr)
			}
			for _, m := range result.Matches {
				fmt.Printf("%s:%d:%d: %s %s\n", m.Path, m.Line, m.Column, m.Kind, m.Snippet)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&searchPath, "path", "", "file or directory to search")
	cmd.Flags().StringVar(&searchType, "type", "", "declaration type: function, class, method, import, export")
	cmd.Flags().StringVar(&modifier, "modifier", "", "modifier filter: async or static")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "cap on result count")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case-sensitively")
	return cmd
}

// openCache opens the SQLite-backed outline cache. Failures degrade to an
// uncached searcher rather than aborting the command.
func openCache(cfg *config.Config) *store.Cache {
	path, err := cfg.CachePath()
	if err != nil {
		log.Warn().Err(err).Msg("outline cache disabled")
		return nil
	}
	ttl := time.Duration(cfg.Cache.CacheTTLOrDefault()) * time.Hour
	cache, err := store.Open(path, cfg.Cache.LRUSizeOrDefault(), ttl)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("outline cache disabled")
		return nil
	}
	return cache
}

func printError(verr *view.Error) error {
	data, err := json.MarshalIndent(verr, "", "  ")
	if err != nil {
		return verr
	}
	fmt.Fprintln(os.Stderr, string(data))
	return verr
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
