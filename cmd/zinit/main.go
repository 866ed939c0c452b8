package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/raymyers/zinit/pkg/config"
	"github.com/raymyers/zinit/pkg/fieldtree"
	"github.com/raymyers/zinit/pkg/initgen"
	"github.com/raymyers/zinit/pkg/preproc"
	"github.com/raymyers/zinit/pkg/typedef"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Debug flags for dumping intermediate forms
var (
	dTypedefs bool
	dTree     bool
	dExpr     bool
)

// Generation options
var (
	targetAlias  string
	rootName     string
	matchPattern string
	outputPath   string
	configPath   string
	verbose      bool
)

// Preprocessor options
var (
	includePaths   []string
	defineFlags    []string
	undefineFlags  []string
	preprocessOnly bool // -E flag
	useExternalPP  bool // Use external preprocessor
)

// ErrNoTarget is returned when neither --type nor --match is given.
var ErrNoTarget = errors.New("no target alias: use --type or --match")

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the dump flags that also accept single-dash style
var debugFlagNames = []string{"dtypedefs", "dtree", "dexpr"}

// normalizeFlags converts single-dash dump flags like -dtree to --dtree
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		for _, flagName := range debugFlagNames {
			if arg == "-"+flagName {
				result[i] = "--" + flagName
				break
			}
		}
		if result[i] == "" {
			result[i] = arg
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zinit [header]",
		Short: "zinit generates zero-initialization code for typedef'd C types",
		Long: `zinit reads typedef declarations from a C header, expands a type
alias into its primitive fields and prints one zero assignment per
field. Array dimensions become nested for loops.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			err := doGenerate(args[0], out, errOut)
			if err != nil {
				fmt.Fprintf(errOut, "zinit: %v\n", err)
			}
			return err
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().StringVarP(&targetAlias, "type", "t", "", "Type alias to initialize")
	rootCmd.Flags().StringVarP(&rootName, "name", "n", "", "Root variable name (default from config)")
	rootCmd.Flags().StringVar(&matchPattern, "match", "", "Initialize every alias matching a glob; each uses its alias as root name")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Also write the result to this file")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")

	// Add debug flags
	rootCmd.Flags().BoolVarP(&dTypedefs, "dtypedefs", "", false, "Dump the typedef database")
	rootCmd.Flags().BoolVarP(&dTree, "dtree", "", false, "Dump the resolved field tree")
	rootCmd.Flags().BoolVarP(&dExpr, "dexpr", "", false, "Dump leaf expressions before loop nesting")

	// Add preprocessor flags
	rootCmd.Flags().StringArrayVarP(&includePaths, "include", "I", nil, "Add directory to include search path")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	rootCmd.Flags().StringArrayVarP(&undefineFlags, "undefine", "U", nil, "Undefine macro")
	rootCmd.Flags().BoolVarP(&preprocessOnly, "preprocess", "E", false, "Print the loaded header and stop")
	rootCmd.Flags().BoolVar(&useExternalPP, "external-cpp", false, "Run the system C preprocessor on the header")

	return rootCmd
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// buildPreprocessorOptions merges CLI flags over the config file settings
func buildPreprocessorOptions(cfg *config.Config) *preproc.Options {
	opts := cfg.PreprocOptions()
	opts.IncludePaths = append(opts.IncludePaths, includePaths...)
	opts.Undefines = append(opts.Undefines, undefineFlags...)
	if useExternalPP {
		opts.UseExternal = true
	}

	// Parse -D flags (NAME or NAME=VALUE)
	for _, d := range defineFlags {
		if idx := strings.Index(d, "="); idx >= 0 {
			opts.Defines[d[:idx]] = d[idx+1:]
		} else {
			opts.Defines[d] = ""
		}
	}

	return opts
}

func doGenerate(filename string, out, errOut io.Writer) error {
	logger := newLogger(errOut)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src, err := preproc.Load(filename, buildPreprocessorOptions(cfg))
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	logger.Debug("loaded header", "file", filename, "bytes", len(src))

	if preprocessOnly {
		fmt.Fprint(out, src)
		return nil
	}

	db, err := typedef.Parse(src)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	logger.Debug("parsed typedefs", "count", len(db))

	if dTypedefs {
		typedef.NewPrinter(out).PrintDatabase(db)
	}

	opts := cfg.GenOptions()
	opts.Logger = logger
	gen := initgen.New(db, opts)

	var w resultWriter
	switch {
	case matchPattern != "":
		err = doMatch(gen, opts, &w, logger)
	case targetAlias != "":
		name := rootName
		if name == "" {
			name = cfg.RootName
		}
		var res *initgen.Result
		res, err = gen.Generate(targetAlias, name)
		if err == nil {
			w.add(res, opts)
		}
	case dTypedefs:
		return nil
	default:
		return ErrNoTarget
	}

	// Whatever was generated is written even when a batch entry failed.
	if werr := w.flush(out, outputPath); werr != nil {
		return werr
	}
	return err
}

// doMatch generates every database alias matching --match. A failing alias
// is logged and skipped; the returned error reports how many failed.
func doMatch(gen *initgen.Generator, opts initgen.Options, w *resultWriter, logger *slog.Logger) error {
	g, err := glob.Compile(matchPattern)
	if err != nil {
		return fmt.Errorf("invalid --match pattern %q: %w", matchPattern, err)
	}

	seen := make(map[string]bool)
	matched, failed := 0, 0
	for _, alias := range gen.Database().Aliases() {
		if seen[alias] || !g.Match(alias) {
			continue
		}
		seen[alias] = true
		matched++

		res, err := gen.Generate(alias, alias)
		if err != nil {
			failed++
			logger.Warn("skipping alias", "alias", alias, "error", err)
			continue
		}
		w.comment(alias)
		w.add(res, opts)
	}

	logger.Debug("match finished", "pattern", matchPattern, "matched", matched, "failed", failed)
	if matched == 0 {
		logger.Warn("no alias matched", "pattern", matchPattern)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d matched aliases failed", failed, matched)
	}
	return nil
}

// resultWriter collects debug dumps and initializer blocks so they can be
// printed once and mirrored to the --output file.
type resultWriter struct {
	dumps  strings.Builder
	blocks strings.Builder
}

func (w *resultWriter) comment(alias string) {
	fmt.Fprintf(&w.blocks, "/* %s */\n", alias)
}

func (w *resultWriter) add(res *initgen.Result, opts initgen.Options) {
	if dTree {
		fieldtree.NewPrinter(&w.dumps, opts.Primitives).PrintTree(res.Tree)
	}
	if dExpr {
		for _, e := range res.Exprs {
			fmt.Fprintln(&w.dumps, e)
		}
	}
	for _, b := range res.Blocks {
		fmt.Fprintln(&w.blocks, b)
	}
}

func (w *resultWriter) flush(out io.Writer, path string) error {
	fmt.Fprint(out, w.dumps.String())
	fmt.Fprint(out, w.blocks.String())

	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, []byte(w.blocks.String()), 0644); err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	return nil
}
