package main

import (
	"github.com/spf13/cobra"

	"github.com/jward/qmlhover"
	"github.com/jward/qmlhover/internal/lsp"
)

var (
	flagTCP   string
	flagDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server",
	Long:  "Run the language server on stdio, or on a TCP address with --tcp. The workspace root sent by the client decides which qmlhover.toml is used.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagTCP, "tcp", "", "listen on a TCP address instead of stdio")
	serveCmd.Flags().BoolVar(&flagDebug, "debug", false, "log protocol messages")
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := lsp.NewServer(workspaceEngine, Version).Glsp(flagDebug)
	if flagTCP != "" {
		return srv.RunTCP(flagTCP)
	}
	return srv.RunStdio()
}

// workspaceEngine creates the Engine for a client workspace from its
// qmlhover.toml. Without a workspace, documents are keyed by absolute
// path and no help index is used.
func workspaceEngine(root string) (*qmlhover.Engine, error) {
	if root == "" {
		return qmlhover.New("", qmlhover.WithImportPaths(flagImportPaths...), qmlhover.WithHelpPrefix(flagHelpPrefix))
	}
	p, err := loadProjectFrom(root)
	if err != nil {
		return nil, err
	}
	return p.engineAt(root)
}
