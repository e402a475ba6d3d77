package types

import "fmt"

// SymbolKind tells terminals and non-terminals apart.
type SymbolKind int

const (
	// TerminalSymbol is a literal string that must appear verbatim in the input.
	TerminalSymbol SymbolKind = iota
	// NonTerminalSymbol is a reference to a named rule.
	NonTerminalSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case TerminalSymbol:
		return "terminal"
	case NonTerminalSymbol:
		return "non-terminal"
	default:
		return fmt.Sprintf("SymbolKind(%d)", int(k))
	}
}

// Symbol is either a terminal literal or a non-terminal name. Symbols are
// plain values and compare structurally with ==.
//
// For a non-terminal the angle brackets are not part of Value: the symbol
// written as <number> has the Value "number".
type Symbol struct {
	Kind  SymbolKind
	Value string
}

// Terminal creates a terminal symbol for the given literal.
func Terminal(literal string) Symbol {
	return Symbol{Kind: TerminalSymbol, Value: literal}
}

// NonTerminal creates a non-terminal symbol referencing the rule name.
func NonTerminal(name string) Symbol {
	return Symbol{Kind: NonTerminalSymbol, Value: name}
}

func (s Symbol) IsTerminal() bool {
	return s.Kind == TerminalSymbol
}

func (s Symbol) IsNonTerminal() bool {
	return s.Kind == NonTerminalSymbol
}

func (s Symbol) String() string {
	if s.IsTerminal() {
		return `"` + s.Value + `"`
	}
	return "<" + s.Value + ">"
}
