package lsp

import (
	contextpkg "context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jward/qmlhover/internal/semantic"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	root := ""
	if params.RootURI != nil {
		root = rootFromURI(*params.RootURI)
	} else if params.RootPath != nil {
		root = *params.RootPath
	}

	engine, err := s.factory(root)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	s.mu.Lock()
	s.root = root
	s.engine = engine
	s.mu.Unlock()
	s.logger.Infof("initialized for %q", root)

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.True},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	s.logger.Debug("client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	if e := s.Engine(); e != nil {
		return e.Close()
	}
	return nil
}

func (s *Server) setTrace(
	context *glsp.Context,
	params *protocol.SetTraceParams,
) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	return s.update(context, params.TextDocument.URI, params.TextDocument.Text)
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	// Full sync: the last change carries the whole text.
	for i := len(params.ContentChanges) - 1; i >= 0; i-- {
		switch change := params.ContentChanges[i].(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			return s.update(context, params.TextDocument.URI, change.Text)
		case protocol.TextDocumentContentChangeEvent:
			return fmt.Errorf("unexpected incremental change for %s", params.TextDocument.URI)
		}
	}
	return nil
}

func (s *Server) textDocumentDidSave(
	context *glsp.Context,
	params *protocol.DidSaveTextDocumentParams,
) error {
	if params.Text == nil {
		return nil
	}
	return s.update(context, params.TextDocument.URI, *params.Text)
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	e := s.Engine()
	if e == nil {
		return nil
	}
	path, err := s.URIToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	e.CloseDocument(path)
	publishDiagnostics(context, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

func (s *Server) textDocumentHover(
	context *glsp.Context,
	params *protocol.HoverParams,
) (*protocol.Hover, error) {
	e := s.Engine()
	if e == nil {
		return nil, nil
	}
	path, err := s.URIToPath(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	res, err := e.Query().HoverAt(path, int(params.Position.Line), int(params.Position.Character))
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("hover %s %d:%d: %s", path, params.Position.Line, params.Position.Character, res.Kind)
	if res.IsEmpty() {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: Markdown(res),
		},
	}, nil
}

// update reanalyses a document and publishes its diagnostics.
func (s *Server) update(context *glsp.Context, uri protocol.DocumentUri, text string) error {
	e := s.Engine()
	if e == nil {
		return fmt.Errorf("server not initialized")
	}
	path, err := s.URIToPath(uri)
	if err != nil {
		return err
	}
	info := e.Open(contextpkg.Background(), path, []byte(text))
	publishDiagnostics(context, uri, toProtocolDiagnostics(info))
	return nil
}

func publishDiagnostics(
	context *glsp.Context,
	uri string,
	diagnostics []protocol.Diagnostic,
) {
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func toProtocolDiagnostics(info *semantic.Info) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	if info == nil || info.Document == nil {
		return out
	}
	doc := info.Document
	for _, d := range info.Diagnostics {
		severity := protocol.DiagnosticSeverity(d.Severity)
		source := Name + "/" + d.Source
		startLine, startChar := doc.PositionAt(d.Begin)
		endLine, endChar := doc.PositionAt(d.End)
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: protocol.UInteger(startLine), Character: protocol.UInteger(startChar)},
				End:   protocol.Position{Line: protocol.UInteger(endLine), Character: protocol.UInteger(endChar)},
			},
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}
