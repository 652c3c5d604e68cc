// Package lsp serves hovers and diagnostics over the Language Server
// Protocol.
package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/jward/qmlhover"
)

// Name is reported to clients and used as the glsp log base name.
const Name = "qmlhover"

// EngineFactory creates the Engine for a workspace root. root is empty
// when the client opened no folder.
type EngineFactory func(root string) (*qmlhover.Engine, error)

// Server holds the language server state. The Engine is created on
// initialize.
type Server struct {
	handler *protocol.Handler
	factory EngineFactory
	version string
	logger  commonlog.Logger

	mu     sync.Mutex
	root   string
	engine *qmlhover.Engine
}

// NewServer returns the handler set wired to factory.
func NewServer(factory EngineFactory, version string) *Server {
	ls := &Server{
		factory: factory,
		version: version,
		logger:  commonlog.GetLogger("qmlhover.lsp"),
	}
	ls.handler = &protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidSave:   ls.textDocumentDidSave,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentHover:     ls.textDocumentHover,
	}
	return ls
}

// Handler returns the protocol handler.
func (s *Server) Handler() *protocol.Handler {
	return s.handler
}

// Glsp wraps the handler in a glsp server ready for RunStdio or RunTCP.
func (s *Server) Glsp(debug bool) *server.Server {
	return server.NewServer(s.handler, Name, debug)
}

// Engine returns the workspace Engine, or nil before initialize.
func (s *Server) Engine() *qmlhover.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine
}

// URIToPath converts a document URI into an Engine document path: slash
// separated and relative to the workspace root when the file lies inside
// it, the cleaned absolute path otherwise.
func (s *Server) URIToPath(uri protocol.DocumentUri) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse uri: %w", err)
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
	p := filepath.Clean(filepath.FromSlash(u.Path))

	s.mu.Lock()
	root := s.root
	s.mu.Unlock()
	if root != "" {
		if rel, err := filepath.Rel(root, p); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel), nil
		}
	}
	return filepath.ToSlash(p), nil
}

// rootFromURI returns the local directory of a workspace URI.
func rootFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return ""
	}
	return filepath.Clean(filepath.FromSlash(u.Path))
}
