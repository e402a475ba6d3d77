package types

import (
	"fmt"
	"iter"
	"strings"
)

// Token represents a node in the parse tree.
type Token struct {
	// Symbol is the symbol that matched this token.
	Symbol Symbol
	// Text is the input consumed by this token.
	Text string
	// Start is the byte start offset of the match.
	Start int
	// End is the byte end offset of the match.
	End int
	// Children correspond one to one to the symbols of the production that
	// matched. Terminal tokens have none.
	Children []*Token
}

// TokenIndex addresses a descendant of a token by child positions: the
// index [2, 0] is the first child of the third child.
type TokenIndex []int

func (t *Token) String() string {
	return fmt.Sprintf(
		"<Token: %s start:%d, end:%d children:%d>",
		t.Symbol, t.Start, t.End, len(t.Children),
	)
}

func newTerminalToken(literal string, fullText string, start int) *Token {
	return &Token{
		Symbol: Terminal(literal),
		Text:   fullText[start : start+len(literal)],
		Start:  start,
		End:    start + len(literal),
	}
}

func newNonTerminalToken(
	name string,
	fullText string,
	start int,
	end int,
	children []*Token,
) *Token {
	return &Token{
		Symbol:   NonTerminal(name),
		Text:     fullText[start:end],
		Start:    start,
		End:      end,
		Children: children,
	}
}

// NewTerminalToken builds a detached terminal token, mostly useful for
// building expected trees. Offsets start at zero.
func NewTerminalToken(literal string) *Token {
	return newTerminalToken(literal, literal, 0)
}

// NewNonTerminalToken builds a detached non-terminal token whose text is the
// concatenation of its children. Children are not re-positioned.
func NewNonTerminalToken(name string, children ...*Token) *Token {
	var sb strings.Builder
	for _, child := range children {
		sb.WriteString(child.Text)
	}
	text := sb.String()
	return newNonTerminalToken(name, text, 0, len(text), children)
}

func (t *Token) IsTerminal() bool {
	return t.Symbol.IsTerminal()
}

// All yields the token itself followed by its descendants, depth first.
func (t *Token) All() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		t.walk(yield)
	}
}

func (t *Token) walk(yield func(*Token) bool) bool {
	if !yield(t) {
		return false
	}
	for _, child := range t.Children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// Descendants returns every token below t, depth first, excluding t.
func (t *Token) Descendants() []*Token {
	var rv []*Token
	for token := range t.All() {
		if token != t {
			rv = append(rv, token)
		}
	}
	return rv
}

// Terminals concatenates the text of every terminal under t in tree order.
// For a token produced by a match this equals t.Text.
func (t *Token) Terminals() string {
	var sb strings.Builder
	for token := range t.All() {
		if token.IsTerminal() {
			sb.WriteString(token.Text)
		}
	}
	return sb.String()
}

// ChildrenOfType returns the direct children whose symbol equals symbol.
func (t *Token) ChildrenOfType(symbol Symbol) []*Token {
	var rv []*Token
	for _, child := range t.Children {
		if child.Symbol == symbol {
			rv = append(rv, child)
		}
	}
	return rv
}

// DescendantsOfType returns every descendant, direct or transitive, whose
// symbol equals symbol, in depth first order. Nested matches are included:
// a <number> inside a <number> is returned as well as its parent.
func (t *Token) DescendantsOfType(symbol Symbol) []*Token {
	var rv []*Token
	for token := range t.All() {
		if token != t && token.Symbol == symbol {
			rv = append(rv, token)
		}
	}
	return rv
}

// NonTerminals is DescendantsOfType(NonTerminal(name)).
func (t *Token) NonTerminals(name string) []*Token {
	return t.DescendantsOfType(NonTerminal(name))
}

func (t *Token) ContainsChild(symbol Symbol) bool {
	return t.FindChild(symbol) != nil
}

func (t *Token) ContainsDescendant(symbol Symbol) bool {
	return t.FindDescendant(symbol) != nil
}

// FindChild returns the first direct child with the given symbol, or nil.
func (t *Token) FindChild(symbol Symbol) *Token {
	for _, child := range t.Children {
		if child.Symbol == symbol {
			return child
		}
	}
	return nil
}

// FindDescendant returns the first descendant with the given symbol in depth
// first order, or nil.
func (t *Token) FindDescendant(symbol Symbol) *Token {
	for token := range t.All() {
		if token != t && token.Symbol == symbol {
			return token
		}
	}
	return nil
}

// ChildIndexes returns one single-element index per direct child.
func (t *Token) ChildIndexes() []TokenIndex {
	rv := make([]TokenIndex, len(t.Children))
	for i := range t.Children {
		rv[i] = TokenIndex{i}
	}
	return rv
}

// At returns the descendant addressed by index. An empty index or a path
// leaving the tree yields false.
func (t *Token) At(index TokenIndex) (*Token, bool) {
	if len(index) == 0 {
		return nil, false
	}

	current := t
	for _, i := range index {
		if i < 0 || i >= len(current.Children) {
			return nil, false
		}
		current = current.Children[i]
	}
	return current, true
}

// Equal compares symbols, text and children recursively. Offsets are
// ignored so detached trees compare equal to matched ones.
func (t *Token) Equal(other *Token) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Symbol != other.Symbol || t.Text != other.Text || len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// unshare copies any subtree reachable from more than one parent so the
// returned tree is strictly owned. Shared subtrees come from the match cache
// reusing the token of an empty span.
func (t *Token) unshare(seen map[*Token]struct{}) *Token {
	rv := t
	if _, exists := seen[t]; exists {
		copied := *t
		rv = &copied
	}
	seen[rv] = struct{}{}

	if len(t.Children) == 0 {
		return rv
	}

	children := make([]*Token, len(t.Children))
	changed := rv != t
	for i, child := range t.Children {
		children[i] = child.unshare(seen)
		if children[i] != child {
			changed = true
		}
	}
	if changed {
		if rv == t {
			copied := *t
			rv = &copied
			seen[rv] = struct{}{}
		}
		rv.Children = children
	}
	return rv
}
