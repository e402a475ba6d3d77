package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseRule(t *testing.T) {
	t.Run("alternatives", func(t *testing.T) {
		rule, err := ParseRule(3, `<test> ::= "a" "b" "c" | "c" "b" "a" | <abc>`)
		require.NoError(t, err)

		assert.Equal(t, "test", rule.Name)
		assert.Equal(t, 3, rule.Priority)
		assert.Nil(t, rule.Compiler)
		assert.Equal(t, []Production{
			{Terminal("a"), Terminal("b"), Terminal("c")},
			{Terminal("c"), Terminal("b"), Terminal("a")},
			{NonTerminal("abc")},
		}, rule.Productions)
	})

	t.Run("multiline", func(t *testing.T) {
		rule, err := ParseRule(0, `<number> ::= <digit>
			| <number>
			  <number>`)
		require.NoError(t, err)

		assert.Equal(t, []Production{
			{NonTerminal("digit")},
			{NonTerminal("number"), NonTerminal("number")},
		}, rule.Productions)
	})

	t.Run("separators inside terminals", func(t *testing.T) {
		rule, err := ParseRule(0, `<op> ::= "|" | "::=" | "<>" | "a b"`)
		require.NoError(t, err)

		assert.Equal(t, []Production{
			{Terminal("|")},
			{Terminal("::=")},
			{Terminal("<>")},
			{Terminal("a b")},
		}, rule.Productions)
	})

	t.Run("hyphenated and unicode names", func(t *testing.T) {
		rule, err := ParseRule(0, `<two-digits> ::= <digit> <中文_1>`)
		require.NoError(t, err)

		assert.Equal(t, "two-digits", rule.Name)
		assert.Equal(t, []Production{
			{NonTerminal("digit"), NonTerminal("中文_1")},
		}, rule.Productions)
	})

	t.Run("empty terminal", func(t *testing.T) {
		rule, err := ParseRule(0, `<maybe> ::= "" | "x"`)
		require.NoError(t, err)

		assert.Equal(t, []Production{{Terminal("")}, {Terminal("x")}}, rule.Productions)
	})

	t.Run("with compiler", func(t *testing.T) {
		compiler := CompileFunc(func(*Token, *Grammar) (string, error) {
			return "compiled", nil
		})
		rule, err := RuleFromText(1, `<a> ::= "a"`, compiler)
		require.NoError(t, err)
		require.NotNil(t, rule.Compiler)

		rv, err := rule.Compiler.Compile(nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, "compiled", rv)
	})
}

func Test_ParseRule_SyntaxErrors(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		position int
		reason   string
	}{
		{
			name:     "missing separator",
			text:     `<a> <= "x"`,
			position: 0,
			reason:   `missing "::=" separator`,
		},
		{
			name:     "duplicated separator",
			text:     `<a> ::= "x" ::= "y"`,
			position: 12,
			reason:   `duplicated "::=" separator`,
		},
		{
			name:     "missing rule name",
			text:     ` ::= "x"`,
			position: 1,
			reason:   `missing rule name before "::="`,
		},
		{
			name:     "rule name without brackets",
			text:     `a ::= "x"`,
			position: 0,
			reason:   `rule name must be written as <name>, got "a"`,
		},
		{
			name:     "empty rule name",
			text:     `<> ::= "x"`,
			position: 0,
			reason:   "empty rule name",
		},
		{
			name:     "unterminated terminal",
			text:     `<a> ::= "x`,
			position: 8,
			reason:   "unterminated terminal",
		},
		{
			name:     "unterminated non-terminal",
			text:     `<a> ::= <b`,
			position: 8,
			reason:   "unterminated non-terminal",
		},
		{
			name:     "empty non-terminal",
			text:     `<a> ::= <>`,
			position: 8,
			reason:   "empty non-terminal",
		},
		{
			name:     "invalid non-terminal name",
			text:     `<a> ::= <b c>`,
			position: 8,
			reason:   `invalid non-terminal name "b c"`,
		},
		{
			name:     "trailing empty production",
			text:     `<a> ::= "x" |`,
			position: 13,
			reason:   "empty production",
		},
		{
			name:     "leading empty production",
			text:     `<a> ::= | "x"`,
			position: 7,
			reason:   "empty production",
		},
		{
			name:     "no productions at all",
			text:     `<a> ::=`,
			position: 7,
			reason:   "empty production",
		},
		{
			name:     "newline in non-terminal name",
			text:     "<a> ::= <abc\n>",
			position: 8,
			reason:   `invalid non-terminal name "abc\n"`,
		},
		{
			name:     "newline in rule name",
			text:     "<abc\n> ::= \"x\"",
			position: 1,
			reason:   `invalid rule name "abc\n"`,
		},
		{
			name:     "bare word",
			text:     `<a> ::= x`,
			position: 8,
			reason:   `unexpected character 'x' outside of a symbol`,
		},
	}

	for idx := range cases {
		c := cases[idx]
		t.Run(c.name, func(t *testing.T) {
			rule, err := ParseRule(0, c.text)
			assert.Nil(t, rule)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRuleSyntax)

			var syntaxErr *RuleSyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, c.text, syntaxErr.Text)
			assert.Equal(t, c.position, syntaxErr.Position)
			assert.Equal(t, c.reason, syntaxErr.Reason)
		})
	}
}

func Test_RuleSyntaxError_Error(t *testing.T) {
	_, err := ParseRule(0, "<a> ::= \"x\"\n  | <b")
	require.Error(t, err)
	assert.Equal(
		t,
		`rule syntax error: unterminated non-terminal at "<b" (line 2, column 5)`,
		err.Error(),
	)
}

func Test_NewRule(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rule, err := NewRule(2, "pair", []Production{{Terminal("("), NonTerminal("x"), Terminal(")")}}, nil)
		require.NoError(t, err)
		assert.Equal(t, `<pair> ::= "(" <x> ")"`, rule.String())
		assert.Equal(t, NonTerminal("pair"), rule.Symbol())
	})

	t.Run("no productions", func(t *testing.T) {
		_, err := NewRule(0, "a", nil, nil)
		assert.ErrorIs(t, err, ErrRuleSyntax)
	})

	t.Run("empty production", func(t *testing.T) {
		_, err := NewRule(0, "a", []Production{{Terminal("a")}, {}}, nil)
		assert.ErrorIs(t, err, ErrRuleSyntax)
	})

	t.Run("invalid reference", func(t *testing.T) {
		_, err := NewRule(0, "a", []Production{{NonTerminal("")}}, nil)
		assert.ErrorIs(t, err, ErrRuleSyntax)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := NewRule(0, "a b", []Production{{Terminal("a")}}, nil)
		assert.ErrorIs(t, err, ErrRuleSyntax)
	})

	t.Run("trailing newline in name", func(t *testing.T) {
		_, err := NewRule(0, "a\n", []Production{{Terminal("a")}}, nil)
		assert.ErrorIs(t, err, ErrRuleSyntax)
	})
}
