package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/adamvoss/yamlast"
	"github.com/adamvoss/yamlast/ast"
	"github.com/adamvoss/yamlast/diag"
	"github.com/adamvoss/yamlast/lsp"
)

func (s *settings) printTree(in *input, many bool) error {
	if many {
		if _, err := fmt.Fprintf(s.stdout, "==> %s <==\n", in.name); err != nil {
			return err
		}
	}
	return ast.Dump(s.stdout, in.doc.Root)
}

func (s *settings) printJSON(in *input, _ bool) error {
	if in.doc.Root == nil {
		return fmt.Errorf("%s: %w", in.name, in.doc.Err())
	}
	if err := yamlast.Format(s.stdout, in.doc.Root, yamlast.Indent(s.indent)); err != nil {
		return fmt.Errorf("%s: %w", in.name, err)
	}
	_, err := io.WriteString(s.stdout, "\n")
	return err
}

// palette colors the severity of text diagnostics.
type palette struct {
	failure, warning, location *color.Color
}

func (s *settings) palette() palette {
	p := palette{
		failure:  color.New(color.FgRed, color.Bold),
		warning:  color.New(color.FgYellow),
		location: color.New(color.Faint),
	}
	enable := s.color == "always"
	if s.color == "auto" {
		if f, ok := s.stdout.(*os.File); ok {
			enable = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	for _, c := range []*color.Color{p.failure, p.warning, p.location} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// printDiagnostics writes one line per diagnostic, with 1-based line and
// column numbers, and returns errProblems when the file has errors.
func (s *settings) printDiagnostics(in *input, _ bool) error {
	p := s.palette()
	m := lsp.NewMapper(in.text)
	for _, d := range in.doc.Diagnostics() {
		pos := m.Position(d.Range.Start)
		sev := p.warning
		if d.Severity == diag.Error {
			sev = p.failure
		}
		_, err := fmt.Fprintf(s.stdout, "%s %s %s (%s)\n",
			p.location.Sprintf("%s:%d:%d:", in.name, pos.Line+1, pos.Character+1),
			sev.Sprintf("%s:", d.Severity),
			d.Message, d.Code)
		if err != nil {
			return err
		}
	}
	if len(in.doc.Errors) > 0 {
		return errProblems
	}
	return nil
}

// fileDiagnostics is the publishDiagnostics payload of one file.
type fileDiagnostics struct {
	URI         protocol.DocumentURI  `json:"uri"`
	Diagnostics []protocol.Diagnostic `json:"diagnostics"`
}

// runLSP writes the diagnostics of all files as one JSON array of
// publishDiagnostics parameters.
func (s *settings) runLSP(names []string) error {
	var out []fileDiagnostics
	err := s.run(names, func(in *input, _ bool) error {
		m := lsp.NewMapper(in.text)
		out = append(out, fileDiagnostics{
			URI:         documentURI(in.name),
			Diagnostics: m.Diagnostics(in.doc.Diagnostics()),
		})
		if len(in.doc.Errors) > 0 {
			return errProblems
		}
		return nil
	})
	if err != nil && len(out) == 0 {
		return err
	}
	b, merr := json.MarshalIndent(out, "", "  ")
	if merr != nil {
		return merr
	}
	if _, werr := fmt.Fprintf(s.stdout, "%s\n", b); werr != nil {
		return werr
	}
	return err
}

// documentURI returns the file URI of name. Standard input has none and is
// reported as "-".
func documentURI(name string) protocol.DocumentURI {
	if name == "-" {
		return protocol.DocumentURI(name)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}
	return protocol.DocumentURI(uri.File(abs))
}
