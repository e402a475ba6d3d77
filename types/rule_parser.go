package types

import (
	"strings"

	"github.com/dlclark/regexp2"
)

const (
	definitionSeparator  = "::="
	alternativeSeparator = "|"
)

var ruleNamePattern = regexp2.MustCompile(`^[\p{L}\p{N}_-]+\z`, regexp2.None)

func isValidRuleName(name string) bool {
	if name == "" {
		return false
	}
	ok, err := ruleNamePattern.MatchString(name)
	return err == nil && ok
}

// ParseRule parses a rule written as `<name> ::= production | production`.
//
// A production is a whitespace separated sequence of "terminal" and
// <non-terminal> symbols. Whitespace, newlines included, only separates
// symbols.
func ParseRule(priority int, text string) (*Rule, error) {
	return RuleFromText(priority, text, nil)
}

// RuleFromText is ParseRule with a compiler attached to the resulting rule.
func RuleFromText(priority int, text string, compiler Compiler) (*Rule, error) {
	separators := topLevelIndexes(text, definitionSeparator)
	switch {
	case len(separators) == 0:
		return nil, newRuleSyntaxError(text, 0, "missing %q separator", definitionSeparator)
	case len(separators) > 1:
		return nil, newRuleSyntaxError(text, separators[1], "duplicated %q separator", definitionSeparator)
	}

	name, err := parseRuleName(text, separators[0])
	if err != nil {
		return nil, err
	}

	rhsStart := separators[0] + len(definitionSeparator)
	productions, err := parseProductions(text, rhsStart)
	if err != nil {
		return nil, err
	}

	return &Rule{
		Name:        name,
		Productions: productions,
		Priority:    priority,
		Compiler:    compiler,
	}, nil
}

// topLevelIndexes returns the byte offsets of sep in text that are not
// inside a quoted terminal.
func topLevelIndexes(text string, sep string) []int {
	var rv []int
	inQuote := false
	for pos := 0; pos < len(text); pos++ {
		switch {
		case text[pos] == '"':
			inQuote = !inQuote
		case !inQuote && strings.HasPrefix(text[pos:], sep):
			rv = append(rv, pos)
			pos += len(sep) - 1
		}
	}

	return rv
}

func parseRuleName(text string, end int) (string, error) {
	lhs := text[:end]
	start := len(lhs) - len(strings.TrimLeft(lhs, whitespace))
	lhs = strings.TrimSpace(lhs)

	if lhs == "" {
		return "", newRuleSyntaxError(text, start, "missing rule name before %q", definitionSeparator)
	}
	if !strings.HasPrefix(lhs, "<") || !strings.HasSuffix(lhs, ">") || len(lhs) < 2 {
		return "", newRuleSyntaxError(text, start, "rule name must be written as <name>, got %q", lhs)
	}

	name := lhs[1 : len(lhs)-1]
	if name == "" {
		return "", newRuleSyntaxError(text, start, "empty rule name")
	}
	if !isValidRuleName(name) {
		return "", newRuleSyntaxError(text, start+1, "invalid rule name %q", name)
	}

	return name, nil
}

const whitespace = " \t\r\n\v\f"

func isWhitespace(c byte) bool {
	return strings.IndexByte(whitespace, c) >= 0
}

func parseProductions(text string, rhsStart int) ([]Production, error) {
	rhs := text[rhsStart:]
	bounds := append(topLevelIndexes(rhs, alternativeSeparator), len(rhs))

	productions := make([]Production, 0, len(bounds))
	from := 0
	for _, to := range bounds {
		production, err := parseProduction(text, rhsStart+from, rhsStart+to)
		if err != nil {
			return nil, err
		}
		productions = append(productions, production)
		from = to + len(alternativeSeparator)
	}

	return productions, nil
}

// parseProduction tokenizes text[from:to] into symbols.
func parseProduction(text string, from, to int) (Production, error) {
	var production Production

	pos := from
	for pos < to {
		c := text[pos]
		switch {
		case isWhitespace(c):
			pos++
		case c == '"':
			end := strings.IndexByte(text[pos+1:to], '"')
			if end < 0 {
				return nil, newRuleSyntaxError(text, pos, "unterminated terminal")
			}
			production = append(production, Terminal(text[pos+1:pos+1+end]))
			pos += end + 2
		case c == '<':
			end := strings.IndexByte(text[pos+1:to], '>')
			if end < 0 {
				return nil, newRuleSyntaxError(text, pos, "unterminated non-terminal")
			}
			name := text[pos+1 : pos+1+end]
			if name == "" {
				return nil, newRuleSyntaxError(text, pos, "empty non-terminal")
			}
			if !isValidRuleName(name) {
				return nil, newRuleSyntaxError(text, pos, "invalid non-terminal name %q", name)
			}
			production = append(production, NonTerminal(name))
			pos += end + 2
		default:
			return nil, newRuleSyntaxError(text, pos, "unexpected character %q outside of a symbol", c)
		}
	}

	if len(production) == 0 {
		return nil, newRuleSyntaxError(text, from, "empty production")
	}

	return production, nil
}
