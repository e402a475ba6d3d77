package types

import (
	"fmt"
	"strings"
)

// Production is one alternative of a rule: an ordered sequence of symbols.
type Production []Symbol

func (p Production) String() string {
	parts := make([]string, len(p))
	for i, symbol := range p {
		parts[i] = symbol.String()
	}
	return strings.Join(parts, " ")
}

// Compiler turns a matched non-terminal token into its output string.
//
// Children are not compiled beforehand: an implementation that needs the
// compiled value of a child calls grammar.Compile on it.
type Compiler interface {
	Compile(token *Token, grammar *Grammar) (string, error)
}

// CompileFunc adapts a plain function to the Compiler interface.
type CompileFunc func(token *Token, grammar *Grammar) (string, error)

func (f CompileFunc) Compile(token *Token, grammar *Grammar) (string, error) {
	return f(token, grammar)
}

// Rule is the full definition of a non-terminal.
type Rule struct {
	// Name is the non-terminal name, without angle brackets.
	Name string
	// Productions are the alternatives, tried in order.
	Productions []Production
	// Priority orders rules when matching a complete input: higher first.
	Priority int
	// Compiler is optional.
	Compiler Compiler
}

// NewRule creates a rule from already assembled productions.
func NewRule(priority int, name string, productions []Production, compiler Compiler) (*Rule, error) {
	rule := &Rule{
		Name:        name,
		Productions: productions,
		Priority:    priority,
		Compiler:    compiler,
	}
	if err := rule.validate(); err != nil {
		return nil, err
	}

	return rule, nil
}

func (r *Rule) validate() error {
	if !isValidRuleName(r.Name) {
		return fmt.Errorf("%w: invalid rule name %q", ErrRuleSyntax, r.Name)
	}
	if len(r.Productions) == 0 {
		return fmt.Errorf("%w: rule <%s> has no productions", ErrRuleSyntax, r.Name)
	}
	for idx, production := range r.Productions {
		if len(production) == 0 {
			return fmt.Errorf("%w: production %d of rule <%s> is empty", ErrRuleSyntax, idx, r.Name)
		}
		for _, symbol := range production {
			if symbol.IsNonTerminal() && !isValidRuleName(symbol.Value) {
				return fmt.Errorf(
					"%w: production %d of rule <%s> references invalid name %q",
					ErrRuleSyntax, idx, r.Name, symbol.Value,
				)
			}
		}
	}

	return nil
}

// WithCompiler returns a copy of the rule with the compiler replaced.
func (r *Rule) WithCompiler(compiler Compiler) *Rule {
	rv := *r
	rv.Compiler = compiler
	return &rv
}

// Symbol returns the non-terminal symbol this rule defines.
func (r *Rule) Symbol() Symbol {
	return NonTerminal(r.Name)
}

func (r *Rule) String() string {
	parts := make([]string, len(r.Productions))
	for i, production := range r.Productions {
		parts[i] = production.String()
	}
	return fmt.Sprintf("<%s> ::= %s", r.Name, strings.Join(parts, " | "))
}
