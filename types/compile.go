package types

import "fmt"

// Compile turns a token into a string. Terminals compile to their text. A
// non-terminal whose rule has a Compiler is handed to it; otherwise it
// compiles to the text it spans.
//
// Children are not compiled automatically: a Compiler that needs them calls
// Compile on the children it cares about.
func (g *Grammar) Compile(token *Token) (string, error) {
	if token.IsTerminal() {
		return token.Text, nil
	}

	rule, ok := g.index[token.Symbol.Value]
	if !ok {
		return "", &UnknownRuleError{Name: token.Symbol.Value}
	}
	if rule.Compiler == nil {
		return token.Terminals(), nil
	}

	rv, err := rule.Compiler.Compile(token, g)
	if err != nil {
		return "", fmt.Errorf("compile %s: %w", rule.Symbol(), err)
	}
	return rv, nil
}

// CompileString matches text and compiles the resulting tree.
func (g *Grammar) CompileString(text string, opts ...MatchOption) (string, error) {
	token, err := g.Match(text, opts...)
	if err != nil {
		return "", err
	}
	return g.Compile(token)
}

// CompilesToRootToken reports whether text matches the grammar as a whole,
// that is whether Match would produce a single root token for it.
func (g *Grammar) CompilesToRootToken(text string, opts ...MatchOption) bool {
	_, err := g.Match(text, opts...)
	return err == nil
}
