package nodes

import (
	"fmt"
	"strings"

	"github.com/b4fun/bnf-go/types"
)

// TokenVisitFunc is a function that visits a token with its already compiled
// children in the token tree.
type TokenVisitFunc func(token *types.Token, children []string) (string, error)

// TokenVisitorMux is a multiplexer for compiling tokens by symbol name.
type TokenVisitorMux struct {
	visitors     map[string]TokenVisitFunc
	defaultVisit TokenVisitFunc
}

var _ types.Compiler = (*TokenVisitorMux)(nil)

// TokenVisitorMuxOpt configures a TokenVisitorMux.
type TokenVisitorMuxOpt func(*TokenVisitorMux)

// WithDefaultTokenVisitFunc sets the default visit function for a TokenVisitorMux.
func WithDefaultTokenVisitFunc(f TokenVisitFunc) TokenVisitorMuxOpt {
	return func(mux *TokenVisitorMux) {
		mux.defaultVisit = f
	}
}

// DefaultTokenVisitor concatenates the compiled children. Terminals, which
// have no children, yield their text.
func DefaultTokenVisitor(token *types.Token, children []string) (string, error) {
	if len(children) == 0 {
		return token.Text, nil
	}

	return strings.Join(children, ""), nil
}

// NewTokenVisitorMux creates a TokenVisitorMux instance.
func NewTokenVisitorMux(opts ...TokenVisitorMuxOpt) *TokenVisitorMux {
	rv := &TokenVisitorMux{
		visitors:     make(map[string]TokenVisitFunc),
		defaultVisit: DefaultTokenVisitor,
	}

	for _, opt := range opts {
		opt(rv)
	}

	return rv
}

// HandleSymbol registers f for the non-terminal ruleName. It panics when a
// visitor is already registered for the name.
func (mux *TokenVisitorMux) HandleSymbol(
	ruleName string,
	f TokenVisitFunc,
) *TokenVisitorMux {
	if _, exists := mux.visitors[ruleName]; exists {
		panic(fmt.Sprintf("duplicated visitor for %q", ruleName))
	}

	mux.visitors[ruleName] = f
	return mux
}

// Visit compiles the children of token first, then hands their results to
// the visitor registered for its symbol.
func (mux *TokenVisitorMux) Visit(token *types.Token) (string, error) {
	if token.IsTerminal() {
		return token.Text, nil
	}

	visitor, ok := mux.visitors[token.Symbol.Value]
	if !ok {
		visitor = mux.defaultVisit
	}

	children := make([]string, 0, len(token.Children))
	for _, child := range token.Children {
		c, err := mux.Visit(child)
		if err != nil {
			return "", err
		}
		children = append(children, c)
	}

	rv, err := visitor(token, children)
	if err != nil {
		return "", fmt.Errorf("visit %s: %w", token.Symbol, err)
	}
	return rv, nil
}

// Compile implements types.Compiler, so a mux can be attached to a rule.
func (mux *TokenVisitorMux) Compile(token *types.Token, _ *types.Grammar) (string, error) {
	return mux.Visit(token)
}

// DumpTokenTree renders token and its descendants, one per line.
func DumpTokenTree(token *types.Token) string {
	sb := new(strings.Builder)

	var dump func(token *types.Token, indent int)

	dump = func(token *types.Token, indent int) {
		sb.WriteString(strings.Repeat(" ", indent))
		if token.IsTerminal() {
			fmt.Fprintf(sb, "%s\n", token.Symbol)
		} else {
			fmt.Fprintf(sb, "%s %q\n", token.Symbol, token.Text)
		}

		for _, child := range token.Children {
			dump(child, indent+2)
		}
	}

	dump(token, 0)

	return sb.String()
}
