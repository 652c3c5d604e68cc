package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/qmlhover"
	"github.com/jward/qmlhover/internal/document"
)

var hoverCmd = &cobra.Command{
	Use:   "hover <file> <line> <col>",
	Short: "Show what the cursor points at",
	Long:  "Show the hover result at a zero-based line and UTF-16 column: a diagnostic, an import, a color literal, or a type label with documentation links.",
	Args:  cobra.ExactArgs(3),
	RunE:  runHover,
}

var checkCmd = &cobra.Command{
	Use:   "check [file...]",
	Short: "Report diagnostics for documents",
	Long:  "Analyse the given documents, or every .qml document below the project root, and report their diagnostics. Exits non-zero when any error is found.",
	RunE:  runCheck,
}

var importsCmd = &cobra.Command{
	Use:   "imports <file>",
	Short: "List the imports of a document and what they resolved to",
	Args:  cobra.ExactArgs(1),
	RunE:  runImports,
}

var libsCmd = &cobra.Command{
	Use:   "libs [file...]",
	Short: "List libraries on the import paths",
	Long:  "List the libraries found on the import paths. Libraries loaded while analysing the given documents are reported with their type information status.",
	RunE:  runLibs,
}

// parseIntArg parses a positional argument as an integer with a clear error.
func parseIntArg(value, name string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, value)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be non-negative", name, value)
	}
	return n, nil
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(os.Stdout, result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

func runHover(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return outputError("hover", err)
	}
	file, err := p.documentPath(args[0])
	if err != nil {
		return outputError("hover", err)
	}
	line, err := parseIntArg(args[1], "line")
	if err != nil {
		return outputError("hover", err)
	}
	col, err := parseIntArg(args[2], "col")
	if err != nil {
		return outputError("hover", err)
	}

	e, err := p.engine()
	if err != nil {
		return outputError("hover", err)
	}
	defer e.Close()

	res, err := e.Query().HoverAt(file, line, col)
	if err != nil {
		return outputError("hover", err)
	}
	if res.IsEmpty() {
		return outputResult(CLIResult{Command: "hover", Results: nil})
	}
	one := 1
	return outputResult(CLIResult{
		Command:    "hover",
		Results:    hoverToCLI(file, line, col, res),
		TotalCount: &one,
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return outputError("check", err)
	}
	e, err := p.engine()
	if err != nil {
		return outputError("check", err)
	}
	defer e.Close()

	var results []qmlhover.FileDiagnostics
	if len(args) == 0 {
		results, err = e.CheckDirectory(contextOf(cmd))
	} else {
		paths := make([]string, 0, len(args))
		for _, a := range args {
			rel, err := p.documentPath(a)
			if err != nil {
				return outputError("check", err)
			}
			paths = append(paths, rel)
		}
		results, err = e.CheckFiles(contextOf(cmd), paths)
	}
	if err != nil {
		return outputError("check", err)
	}

	diags := diagnosticsToCLI(e, results)
	count := len(diags)
	if err := outputResult(CLIResult{Command: "check", Results: diags, TotalCount: &count}); err != nil {
		return err
	}
	if n := countErrors(diags); n > 0 {
		errorHandled = true
		return fmt.Errorf("%d error(s) found", n)
	}
	return nil
}

func runImports(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return outputError("imports", err)
	}
	file, err := p.documentPath(args[0])
	if err != nil {
		return outputError("imports", err)
	}
	e, err := p.engine()
	if err != nil {
		return outputError("imports", err)
	}
	defer e.Close()

	if _, err := e.OpenFile(contextOf(cmd), file); err != nil {
		return outputError("imports", err)
	}
	imports, err := e.Query().Imports(file)
	if err != nil {
		return outputError("imports", err)
	}

	out := make([]CLIImport, 0, len(imports))
	for _, imp := range imports {
		out = append(out, CLIImport{
			Kind:        imp.Kind,
			Path:        imp.Path,
			As:          imp.As,
			Version:     imp.Version,
			Line:        imp.Line,
			Col:         imp.Col,
			LibraryPath: imp.LibraryPath,
			Status:      imp.Status,
		})
	}
	count := len(out)
	return outputResult(CLIResult{Command: "imports", Results: out, TotalCount: &count})
}

func runLibs(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return outputError("libs", err)
	}
	e, err := p.engine()
	if err != nil {
		return outputError("libs", err)
	}
	defer e.Close()

	for _, a := range args {
		rel, err := p.documentPath(a)
		if err != nil {
			return outputError("libs", err)
		}
		if _, err := e.OpenFile(contextOf(cmd), rel); err != nil {
			return outputError("libs", err)
		}
	}

	out := librariesToCLI(e.AvailableLibraries(), e.Libraries())
	count := len(out)
	return outputResult(CLIResult{Command: "libs", Results: out, TotalCount: &count})
}

// contextOf returns the command context, or a background context when the
// command was executed without one.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// hoverToCLI converts a hover result. Help links are sorted by title.
func hoverToCLI(file string, line, col int, res qmlhover.Result) CLIHover {
	h := CLIHover{
		File: file,
		Line: line,
		Col:  col,
		Kind: res.Kind.String(),
		Text: res.Text,
	}
	if res.Kind == qmlhover.KindColor {
		c := res.Color
		h.Color = &CLIRGBA{Hex: c.Hex(), R: c.R, G: c.G, B: c.B, A: c.A}
	}
	if res.Help != nil {
		h.Help = &CLIHelp{
			ID:       res.Help.ID,
			Name:     res.Help.Name,
			Category: res.Help.Category.String(),
			Links:    linksToCLI(res.Help.Links),
		}
	}
	return h
}

// linksToCLI flattens a title to URL map, sorted by title.
func linksToCLI(links map[string]string) []CLILink {
	out := make([]CLILink, 0, len(links))
	for title, url := range links {
		out = append(out, CLILink{Title: title, URL: url})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// diagnosticsToCLI flattens per-file diagnostics into positioned entries,
// in file order.
func diagnosticsToCLI(e *qmlhover.Engine, results []qmlhover.FileDiagnostics) []CLIDiagnostic {
	out := []CLIDiagnostic{}
	for _, fd := range results {
		var doc *document.Document
		if info := e.Info(fd.Path); info != nil {
			doc = info.Document
		}
		for _, d := range fd.Diagnostics {
			out = append(out, diagnosticToCLI(fd.Path, doc, d))
		}
	}
	return out
}

func diagnosticToCLI(file string, doc *document.Document, d qmlhover.Diagnostic) CLIDiagnostic {
	cd := CLIDiagnostic{
		File:     file,
		Severity: d.Severity.String(),
		Source:   d.Source,
		Message:  d.Message,
	}
	if doc != nil {
		cd.StartLine, cd.StartCol = doc.PositionAt(d.Begin)
		cd.EndLine, cd.EndCol = doc.PositionAt(d.End)
	}
	return cd
}

func countErrors(diags []CLIDiagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == document.SeverityError.String() {
			n++
		}
	}
	return n
}

// librariesToCLI merges the discovered library names with the libraries
// loaded so far. Loaded libraries that are not on the import paths, such as
// directory imports, are listed by path only.
func librariesToCLI(available []string, loaded []qmlhover.LibraryInfo) []CLILibrary {
	out := make([]CLILibrary, 0, len(available)+len(loaded))
	seen := make(map[string]bool)
	for _, name := range available {
		lib := CLILibrary{Name: name}
		for _, l := range loaded {
			if !seen[l.Path] && isLibraryPathFor(l.Path, name) {
				lib.Path = l.Path
				lib.Status = l.Status.String()
				lib.Loaded = true
				seen[l.Path] = true
				break
			}
		}
		out = append(out, lib)
	}
	for _, l := range loaded {
		if seen[l.Path] {
			continue
		}
		out = append(out, CLILibrary{Path: l.Path, Status: l.Status.String(), Loaded: true})
	}
	return out
}

// isLibraryPathFor reports whether a library path is the directory of the
// dotted library name.
func isLibraryPathFor(libPath, name string) bool {
	return strings.HasSuffix(filepath.ToSlash(libPath), "/"+strings.ReplaceAll(name, ".", "/"))
}
