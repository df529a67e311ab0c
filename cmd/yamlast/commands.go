package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamvoss/yamlast"
)

// errProblems is returned when a checked file has errors. The diagnostics
// have been printed already.
var errProblems = errors.New("problems found")

type settings struct {
	lang                string
	verbose             bool
	maxDepth            int
	disallowComments    bool
	ignoreDanglingComma bool
	format              string
	indent              int
	color               string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// input is one file to process. A name of "-" is standard input.
type input struct {
	name string
	text string
	doc  *yamlast.Document
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	s := &settings{stdin: stdin, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "yamlast",
		Short: "Parse JSON and YAML into one JSON syntax tree",
		Long: `yamlast reads JSON (with comments) and YAML files and builds the same
JSON-shaped syntax tree for both. Without file arguments, or with "-",
standard input is read.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch s.lang {
			case "auto", "json", "yaml":
			default:
				return fmt.Errorf("unknown language %q, want auto, json or yaml", s.lang)
			}
			level := slog.LevelWarn
			if s.verbose {
				level = slog.LevelDebug
			}
			s.logger = slog.New(slog.NewTextHandler(s.stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&s.lang, "lang", "l", "auto", "input language: auto, json or yaml (auto uses the file extension)")
	flags.BoolVarP(&s.verbose, "verbose", "v", false, "log parse details to stderr")
	flags.IntVar(&s.maxDepth, "max-depth", 0, "maximum nesting of objects and arrays (0 for the default)")
	flags.BoolVar(&s.disallowComments, "disallow-comments", false, "report comments in JSON as errors")
	flags.BoolVar(&s.ignoreDanglingComma, "ignore-dangling-comma", false, "accept trailing commas in JSON")

	treeCmd := &cobra.Command{
		Use:   "tree [file...]",
		Short: "Print the syntax tree of each file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(args, s.printTree)
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Report errors and warnings; exit with status 1 when there are errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch s.format {
			case "text":
				return s.run(args, s.printDiagnostics)
			case "lsp":
				return s.runLSP(args)
			}
			return fmt.Errorf("unknown format %q, want text or lsp", s.format)
		},
	}
	checkCmd.Flags().StringVarP(&s.format, "format", "f", "text", "output format: text or lsp")
	checkCmd.Flags().StringVar(&s.color, "color", "auto", "colorize output: auto, always or never")

	jsonCmd := &cobra.Command{
		Use:   "json [file...]",
		Short: "Convert each file to JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(args, s.printJSON)
		},
	}
	jsonCmd.Flags().IntVarP(&s.indent, "indent", "i", 2, "spaces per indentation level, 0 for compact output")

	rootCmd.AddCommand(treeCmd, checkCmd, jsonCmd)
	return rootCmd
}

func (s *settings) options() []yamlast.Option {
	opts := []yamlast.Option{yamlast.WithLogger(s.logger)}
	if s.maxDepth != 0 {
		opts = append(opts, yamlast.MaxDepth(s.maxDepth))
	}
	if s.disallowComments {
		opts = append(opts, yamlast.DisallowComments())
	}
	if s.ignoreDanglingComma {
		opts = append(opts, yamlast.IgnoreDanglingComma())
	}
	return opts
}

// language returns the language name is parsed as.
func (s *settings) language(name string) string {
	if s.lang != "auto" {
		return s.lang
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonc":
		return "json"
	}
	return "yaml"
}

func (s *settings) read(name string) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(s.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read standard input: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(b), nil
}

func (s *settings) parse(name string) (*input, error) {
	text, err := s.read(name)
	if err != nil {
		return nil, err
	}
	lang := s.language(name)
	s.logger.Debug("parsing input", slog.String("file", name), slog.String("lang", lang))

	parse := yamlast.ParseYAML
	if lang == "json" {
		parse = yamlast.ParseJSON
	}
	doc, err := parse(text, s.options()...)
	if err != nil {
		return nil, err
	}
	return &input{name: name, text: text, doc: doc}, nil
}

// run parses every named file and hands it to fn. Errors reading a file
// stop the run; errProblems from fn is remembered and returned at the end.
func (s *settings) run(names []string, fn func(in *input, many bool) error) error {
	if len(names) == 0 {
		names = []string{"-"}
	}
	var problems bool
	for _, name := range names {
		in, err := s.parse(name)
		if err != nil {
			return err
		}
		err = fn(in, len(names) > 1)
		switch {
		case errors.Is(err, errProblems):
			problems = true
		case err != nil:
			return err
		}
	}
	if problems {
		return errProblems
	}
	return nil
}
