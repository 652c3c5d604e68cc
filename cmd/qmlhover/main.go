package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/jward/qmlhover"
	"github.com/jward/qmlhover/internal/config"
)

// Version is set at build time with -ldflags.
var Version = "(dev) v0.0.0"

var (
	flagDB          string
	flagFormat      string
	flagImportPaths []string
	flagHelpPrefix  string
	flagLogLevel    string
	flagLogFile     string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "qmlhover",
	Short:         "Hover information for QML documents",
	Long:          "qmlhover resolves what the cursor points at in a QML document: type labels, imports, color literals, diagnostics and documentation links.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		return configureLogging()
	},
	// No Run: prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "help index path (default: .qmlhover/help.db relative to the project root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().StringSliceVarP(&flagImportPaths, "import-path", "I", nil, "library import path, searched before qmlhover.toml paths (repeatable)")
	rootCmd.PersistentFlags().StringVar(&flagHelpPrefix, "help-prefix", "", "qualifier of component help identifiers (default: QML)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "error|warning|notice|info|debug")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write logs to a file instead of stderr")

	rootCmd.AddCommand(hoverCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(importsCmd)
	rootCmd.AddCommand(libsCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "qmlhover %s\n", Version)
	},
}

// project is the resolved configuration for one invocation.
type project struct {
	cfg *config.Config
}

// loadProject reads qmlhover.toml above the working directory and applies
// the flags on top.
func loadProject() (*project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	return loadProjectFrom(cwd)
}

func loadProjectFrom(dir string) (*project, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if len(flagImportPaths) > 0 {
		paths := make([]string, 0, len(flagImportPaths)+len(cfg.ImportPaths))
		for _, p := range flagImportPaths {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("resolving import path %q: %w", p, err)
			}
			paths = append(paths, abs)
		}
		cfg.ImportPaths = append(paths, cfg.ImportPaths...)
	}
	if flagDB != "" {
		cfg.HelpDB = resolveDBPath(cfg.Root)
	}
	if flagHelpPrefix != "" {
		cfg.HelpPrefix = flagHelpPrefix
	}
	return &project{cfg: cfg}, nil
}

// resolveDBPath returns the help index path from the --db flag or the default.
func resolveDBPath(root string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(root, flagDB)
	}
	return filepath.Join(root, filepath.FromSlash(config.DefaultHelpDB))
}

// engineAt creates an Engine rooted at root with the project settings.
func (p *project) engineAt(root string) (*qmlhover.Engine, error) {
	opts := []qmlhover.Option{
		qmlhover.WithImportPaths(p.cfg.ImportPaths...),
		qmlhover.WithHelpPrefix(p.cfg.HelpPrefix),
	}
	if root != "" {
		opts = append(opts, qmlhover.WithRoot(root))
	}
	e, err := qmlhover.New(p.cfg.HelpDB, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return e, nil
}

// engine creates an Engine over the project root.
func (p *project) engine() (*qmlhover.Engine, error) {
	return p.engineAt(p.cfg.Root)
}

// documentPath converts a file argument to a document path relative to the
// project root.
func (p *project) documentPath(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	rel, err := filepath.Rel(p.cfg.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the project root %s", file, p.cfg.Root)
	}
	return filepath.ToSlash(rel), nil
}

// configureLogging sets up commonlog from --log-level and --log-file, falling
// back to log_level in qmlhover.toml.
func configureLogging() error {
	level := flagLogLevel
	if level == "" {
		if cwd, err := os.Getwd(); err == nil {
			if cfg, err := config.Load(cwd); err == nil {
				level = cfg.LogLevel
			}
		}
	}
	var path *string
	if flagLogFile != "" {
		path = &flagLogFile
	}
	commonlog.Configure(config.Verbosity(level, 0), path)
	return nil
}
