package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIHover is a JSON-friendly hover result.
type CLIHover struct {
	File  string   `json:"file"`
	Line  int      `json:"line"`
	Col   int      `json:"col"`
	Kind  string   `json:"kind"`
	Text  string   `json:"text,omitempty"`
	Color *CLIRGBA `json:"color,omitempty"`
	Help  *CLIHelp `json:"help,omitempty"`
}

// CLIRGBA is a color with its hex notation.
type CLIRGBA struct {
	Hex string `json:"hex"`
	R   uint8  `json:"r"`
	G   uint8  `json:"g"`
	B   uint8  `json:"b"`
	A   uint8  `json:"a"`
}

// CLIHelp is a documented identifier with its links.
type CLIHelp struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Links    []CLILink `json:"links"`
}

// CLILink is one documentation link.
type CLILink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CLIDiagnostic is a JSON-friendly diagnostic. Lines and columns are
// zero-based.
type CLIDiagnostic struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	StartCol  int    `json:"start_col"`
	EndLine   int    `json:"end_line"`
	EndCol    int    `json:"end_col"`
	Severity  string `json:"severity"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

// CLIImport is a JSON-friendly import representation.
type CLIImport struct {
	Kind        string `json:"kind"`
	Path        string `json:"path"`
	As          string `json:"as,omitempty"`
	Version     string `json:"version,omitempty"`
	Line        int    `json:"line"`
	Col         int    `json:"col"`
	LibraryPath string `json:"library_path,omitempty"`
	Status      string `json:"status,omitempty"`
}

// CLILibrary is a library found on the import paths or loaded by a
// document.
type CLILibrary struct {
	Name   string `json:"name,omitempty"`
	Path   string `json:"path,omitempty"`
	Status string `json:"status,omitempty"`
	Loaded bool   `json:"loaded"`
}

// CLIIdentifier is a help identifier with its link count.
type CLIIdentifier struct {
	Identifier string `json:"identifier"`
	Links      int    `json:"links"`
}

// CLIImportStats reports one help file import.
type CLIImportStats struct {
	File        string `json:"file"`
	Skipped     bool   `json:"skipped"`
	Identifiers int    `json:"identifiers"`
	Links       int    `json:"links"`
}

// CLISource is an imported help file.
type CLISource struct {
	ID         int64  `json:"id"`
	Path       string `json:"path"`
	Hash       string `json:"hash"`
	ImportedAt string `json:"imported_at"`
}

// CLIRemoved reports removed identifiers.
type CLIRemoved struct {
	Identifiers []string `json:"identifiers"`
	Links       int      `json:"links"`
}
