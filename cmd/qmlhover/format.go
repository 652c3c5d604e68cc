package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pterm/pterm"
)

var (
	errorStyle   = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	warningStyle = pterm.NewStyle(pterm.FgYellow)
	infoStyle    = pterm.NewStyle(pterm.FgCyan)
	kindStyle    = pterm.NewStyle(pterm.FgLightBlue, pterm.Bold)
	linkStyle    = pterm.NewStyle(pterm.FgGray)
)

// severityText colors a severity name.
func severityText(severity string) string {
	switch severity {
	case "error":
		return errorStyle.Sprint(severity)
	case "warning":
		return warningStyle.Sprint(severity)
	}
	return infoStyle.Sprint(severity)
}

// swatch renders a block in the given color. Translucent colors are shown
// at full opacity.
func swatch(c *CLIRGBA) string {
	return pterm.NewRGB(c.R, c.G, c.B).Sprint("███")
}

// formatHoverText formats a hover result as a short block.
func formatHoverText(w io.Writer, h CLIHover) {
	fmt.Fprintf(w, "%s:%d:%d %s\n", h.File, h.Line, h.Col, kindStyle.Sprint(h.Kind))
	if h.Color != nil {
		fmt.Fprintf(w, "%s %s  rgba(%d, %d, %d, %.2f)\n",
			swatch(h.Color), h.Color.Hex, h.Color.R, h.Color.G, h.Color.B, float64(h.Color.A)/255)
	} else if h.Text != "" {
		fmt.Fprintln(w, h.Text)
	}
	if h.Help != nil {
		fmt.Fprintf(w, "%s (%s) %s\n", h.Help.Name, h.Help.Category, linkStyle.Sprint(h.Help.ID))
		for _, l := range h.Help.Links {
			fmt.Fprintf(w, "  %s  %s\n", l.Title, linkStyle.Sprint(l.URL))
		}
	}
}

// formatDiagnosticsText formats diagnostics as "file:line:col: severity:
// message" lines with one-based positions, the way compilers print them.
func formatDiagnosticsText(w io.Writer, diags []CLIDiagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
			d.File, d.StartLine+1, d.StartCol+1, severityText(d.Severity), d.Message)
	}
}

// formatImportsText formats CLIImport results as aligned columns.
func formatImportsText(w io.Writer, imports []CLIImport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tPATH\tVERSION\tAS\tRESOLVED\tSTATUS")
	for _, imp := range imports {
		resolved := imp.LibraryPath
		if resolved == "" {
			resolved = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			imp.Kind, imp.Path, dash(imp.Version), dash(imp.As), resolved, dash(imp.Status))
	}
	tw.Flush()
}

// formatLibrariesText formats CLILibrary results as aligned columns.
func formatLibrariesText(w io.Writer, libs []CLILibrary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tSTATUS")
	for _, l := range libs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", dash(l.Name), dash(l.Path), dash(l.Status))
	}
	tw.Flush()
}

// formatIdentifiersText formats help identifiers with their link counts.
func formatIdentifiersText(w io.Writer, ids []CLIIdentifier) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENTIFIER\tLINKS")
	for _, id := range ids {
		fmt.Fprintf(tw, "%s\t%d\n", id.Identifier, id.Links)
	}
	tw.Flush()
}

// formatLinksText formats documentation links as aligned columns.
func formatLinksText(w io.Writer, links []CLILink) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, l := range links {
		fmt.Fprintf(tw, "%s\t%s\n", l.Title, l.URL)
	}
	tw.Flush()
}

// formatImportStatsText reports imported help files.
func formatImportStatsText(w io.Writer, stats []CLIImportStats) {
	for _, s := range stats {
		if s.Skipped {
			fmt.Fprintf(w, "%s: unchanged\n", s.File)
			continue
		}
		fmt.Fprintf(w, "%s: %d identifiers, %d links\n", s.File, s.Identifiers, s.Links)
	}
}

// formatSourcesText formats imported help files as aligned columns.
func formatSourcesText(w io.Writer, sources []CLISource) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tIMPORTED")
	for _, s := range sources {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Path, s.ImportedAt)
	}
	tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case CLIHover:
		formatHoverText(w, v)
	case []CLIDiagnostic:
		formatDiagnosticsText(w, v)
		if result.Command == "check" {
			fmt.Fprintf(w, "%d diagnostic(s)\n", len(v))
		}
	case []CLIImport:
		formatImportsText(w, v)
	case []CLILibrary:
		formatLibrariesText(w, v)
	case []CLIIdentifier:
		formatIdentifiersText(w, v)
	case []CLILink:
		formatLinksText(w, v)
	case CLIRemoved:
		fmt.Fprintf(w, "removed %d link(s)\n", v.Links)
	case []CLIImportStats:
		formatImportStatsText(w, v)
	case []CLISource:
		formatSourcesText(w, v)
	case nil:
		// No output for nil results (e.g., hover with no match).
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
