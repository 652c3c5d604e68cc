package hover

import (
	"github.com/tliron/commonlog"

	"github.com/jward/qmlhover/internal/ast"
	"github.com/jward/qmlhover/internal/document"
	"github.com/jward/qmlhover/internal/semantic"
)

// State is where a Session is in its request cycle.
type State int

const (
	Idle State = iota
	Resolving
	Resolved
	Unresolved
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	case Unresolved:
		return "empty"
	}
	return "idle"
}

// Session runs hover requests one at a time. It is not safe for concurrent
// use; callers serialise requests.
type Session struct {
	index  HelpIndex
	prefix string
	logger commonlog.Logger

	state  State
	result Result
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHelpPrefix sets the qualifier used for component help identifiers.
func WithHelpPrefix(prefix string) SessionOption {
	return func(s *Session) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithSessionLogger replaces the session's logger.
func WithSessionLogger(l commonlog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession returns an idle session. index may be nil, which disables help
// links.
func NewSession(index HelpIndex, opts ...SessionOption) *Session {
	s := &Session{
		index:  index,
		prefix: DefaultHelpPrefix,
		logger: logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the session state.
func (s *Session) State() State { return s.state }

// Result returns the result of the last request, or an empty result after
// Reset.
func (s *Session) Result() Result { return s.result }

// Reset discards the last result and returns to Idle.
func (s *Session) Reset() {
	s.state = Idle
	s.result = Result{}
}

// IdentifyMatch resolves the hover at offset. diags are the diagnostics
// currently shown for the document; info is its semantic analysis.
func (s *Session) IdentifyMatch(info *semantic.Info, diags []document.Diagnostic, offset int) Result {
	s.Reset()
	s.state = Resolving
	r := s.identify(info, diags, offset)
	s.result = r
	if r.IsEmpty() {
		s.state = Unresolved
	} else {
		s.state = Resolved
	}
	return r
}

func (s *Session) identify(info *semantic.Info, diags []document.Diagnostic, offset int) Result {
	if !info.Valid() || info.Outdated() {
		s.logger.Debug("semantic info missing or outdated")
		return Result{}
	}
	doc := info.Document
	path := Locate(doc, offset)

	if r, ok := MatchDiagnostic(diags, offset); ok {
		s.logger.Debugf("offset %d: diagnostic", offset)
		return r
	}

	sc := info.ScopeChain(path.Range)
	if len(path.Ast) == 0 {
		s.logger.Debugf("offset %d: no enclosing node in %s", offset, doc.Path)
		return Result{}
	}

	if len(path.Range) == 0 {
		r, _ := MatchImport(sc, doc, path.Ast)
		s.logger.Debugf("offset %d: outside object bodies, import %s", offset, r.Kind)
		return r
	}

	if r, ok := MatchColor(sc, doc, path.Range, offset); ok {
		s.logger.Debugf("offset %d: color %s", offset, r.Text)
		return r
	}

	node := path.Tail()
	var r Result
	if label := ResolveOrdinary(sc, node); label != "" {
		r = Result{Kind: Text, Text: label}
	}
	if s.index != nil {
		if item, ok := ResolveHelp(sc, node, s.index, s.prefix); ok {
			r.Help = item
			if r.Kind == Empty {
				r.Kind = Help
			}
		}
	}
	s.logger.Debugf("offset %d: %s %s", offset, ast.KindName(node), r.Kind)
	return r
}
