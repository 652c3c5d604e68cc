package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/qmlhover"
	"github.com/jward/qmlhover/internal/store"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage the documentation link index",
	Long: `Manage the index that maps help identifiers to documentation links.

Components are identified as <prefix>.<Name> (QML.Rectangle by default),
properties as <Component>::<property> (Item::width).`,
}

var docsImportCmd = &cobra.Command{
	Use:   "import <file.yaml...>",
	Short: "Import help files; unchanged files are skipped",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHelpImport,
}

var docsAddCmd = &cobra.Command{
	Use:   "add <identifier> <title> <url>",
	Short: "Add or replace a single link",
	Args:  cobra.ExactArgs(3),
	RunE:  runHelpAdd,
}

var docsRemoveCmd = &cobra.Command{
	Use:   "remove <identifier...>",
	Short: "Remove every link of the given identifiers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHelpRemove,
}

var docsListCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List documented identifiers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHelpList,
}

var docsLinksCmd = &cobra.Command{
	Use:   "links <identifier>",
	Short: "Show the links of an identifier",
	Args:  cobra.ExactArgs(1),
	RunE:  runHelpLinks,
}

var docsSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List imported help files",
	Args:  cobra.NoArgs,
	RunE:  runHelpSources,
}

func init() {
	docsCmd.AddCommand(docsImportCmd)
	docsCmd.AddCommand(docsAddCmd)
	docsCmd.AddCommand(docsRemoveCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsLinksCmd)
	docsCmd.AddCommand(docsSourcesCmd)
}

// openHelp loads the project and opens its engine with the help index.
func openHelp() (*qmlhover.Engine, *store.Store, error) {
	p, err := loadProject()
	if err != nil {
		return nil, nil, err
	}
	e, err := p.engineAt("")
	if err != nil {
		return nil, nil, err
	}
	s := e.Store()
	if s == nil {
		e.Close()
		return nil, nil, fmt.Errorf("no help index configured")
	}
	return e, s, nil
}

func runHelpImport(cmd *cobra.Command, args []string) error {
	e, _, err := openHelp()
	if err != nil {
		return outputError("docs import", err)
	}
	defer e.Close()

	out := make([]CLIImportStats, 0, len(args))
	for _, file := range args {
		stats, err := e.ImportHelpFile(file)
		if err != nil {
			return outputError("docs import", err)
		}
		out = append(out, CLIImportStats{
			File:        file,
			Skipped:     stats.Skipped,
			Identifiers: stats.Identifiers,
			Links:       stats.Links,
		})
	}
	count := len(out)
	return outputResult(CLIResult{Command: "docs import", Results: out, TotalCount: &count})
}

func runHelpAdd(cmd *cobra.Command, args []string) error {
	e, s, err := openHelp()
	if err != nil {
		return outputError("docs add", err)
	}
	defer e.Close()

	id, title, url := args[0], args[1], args[2]
	if id == "" || url == "" {
		return outputError("docs add", fmt.Errorf("identifier and url must not be empty"))
	}
	if _, err := s.InsertLink(&store.Link{Identifier: id, Title: title, URL: url}); err != nil {
		return outputError("docs add", err)
	}
	links, err := e.Query().HelpLinks(id)
	if err != nil {
		return outputError("docs add", err)
	}
	out := linksToCLI(links)
	count := len(out)
	return outputResult(CLIResult{Command: "docs add", Results: out, TotalCount: &count})
}

func runHelpRemove(cmd *cobra.Command, args []string) error {
	e, s, err := openHelp()
	if err != nil {
		return outputError("docs remove", err)
	}
	defer e.Close()

	n, err := s.DeleteIdentifiers(args...)
	if err != nil {
		return outputError("docs remove", err)
	}
	return outputResult(CLIResult{Command: "docs remove", Results: CLIRemoved{Identifiers: args, Links: int(n)}})
}

func runHelpList(cmd *cobra.Command, args []string) error {
	e, s, err := openHelp()
	if err != nil {
		return outputError("docs list", err)
	}
	defer e.Close()

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	ids, err := s.Identifiers(prefix)
	if err != nil {
		return outputError("docs list", err)
	}
	out := make([]CLIIdentifier, 0, len(ids))
	for _, id := range ids {
		out = append(out, CLIIdentifier{Identifier: id.Identifier, Links: id.Links})
	}
	count := len(out)
	return outputResult(CLIResult{Command: "docs list", Results: out, TotalCount: &count})
}

func runHelpLinks(cmd *cobra.Command, args []string) error {
	e, _, err := openHelp()
	if err != nil {
		return outputError("docs links", err)
	}
	defer e.Close()

	links, err := e.Query().HelpLinks(args[0])
	if err != nil {
		return outputError("docs links", err)
	}
	out := linksToCLI(links)
	count := len(out)
	return outputResult(CLIResult{Command: "docs links", Results: out, TotalCount: &count})
}

func runHelpSources(cmd *cobra.Command, args []string) error {
	e, s, err := openHelp()
	if err != nil {
		return outputError("docs sources", err)
	}
	defer e.Close()

	sources, err := s.Sources()
	if err != nil {
		return outputError("docs sources", err)
	}
	out := make([]CLISource, 0, len(sources))
	for _, src := range sources {
		out = append(out, CLISource{
			ID:         src.ID,
			Path:       src.Path,
			Hash:       src.Hash,
			ImportedAt: src.ImportedAt.Format(time.RFC3339),
		})
	}
	count := len(out)
	return outputResult(CLIResult{Command: "docs sources", Results: out, TotalCount: &count})
}
