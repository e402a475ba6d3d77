package types

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doubleDigit(token *Token, _ *Grammar) (string, error) {
	n, err := strconv.Atoi(token.Terminals())
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n * 2), nil
}

func Test_Grammar_CompileString(t *testing.T) {
	digit, err := RuleFromText(0, `<digit> ::= "1" | "2" | "3"`, CompileFunc(doubleDigit))
	require.NoError(t, err)
	expression, err := RuleFromText(
		0,
		`<expression> ::= <digit> <operator> <digit>`,
		CompileFunc(func(token *Token, grammar *Grammar) (string, error) {
			var compiled []string
			for _, d := range token.NonTerminals("digit") {
				s, err := grammar.Compile(d)
				if err != nil {
					return "", err
				}
				compiled = append(compiled, s)
			}
			return compiled[0] + "<here comes the operator>" + compiled[len(compiled)-1], nil
		}),
	)
	require.NoError(t, err)

	grammar := mustNewGrammar(
		t,
		digit,
		mustParseRule(t, 0, `<operator> ::= "+" | "-" | "*" | "/"`),
		expression,
	)

	rv, err := grammar.CompileString("2+3")
	require.NoError(t, err)
	assert.Equal(t, "4<here comes the operator>6", rv)

	assert.True(t, grammar.CompilesToRootToken("2+3"))
	assert.False(t, grammar.CompilesToRootToken("2+"))
}

func Test_Grammar_CompileString_RoundTrip(t *testing.T) {
	grammar := arithmeticGrammar(t)

	for _, input := range []string{"7", "42", "1+2", "12+2*45", "9/3-1*2+8", "1-2-3-4"} {
		t.Run(input, func(t *testing.T) {
			rv, err := grammar.CompileString(input)
			require.NoError(t, err)
			assert.Equal(t, input, rv)
		})
	}
}

func Test_Grammar_CompileString_Concurrent(t *testing.T) {
	grammar := arithmeticGrammar(t)
	inputs := []string{"12+2*45", "9/3-1*2+8", "1-2-3-4", "7"}

	const workers = 8
	results := make([][]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for _, input := range inputs {
				rv, err := grammar.CompileString(input)
				if err != nil {
					errs[w] = err
					return
				}
				results[w] = append(results[w], rv)
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		require.NoError(t, errs[w])
		assert.Equal(t, inputs, results[w])
	}
}

func Test_Grammar_CompileString_Priority(t *testing.T) {
	constant := func(s string) Compiler {
		return CompileFunc(func(*Token, *Grammar) (string, error) {
			return s, nil
		})
	}

	low, err := RuleFromText(0, `<low> ::= <letter> <letter>`, constant("low"))
	require.NoError(t, err)
	high, err := RuleFromText(1, `<high> ::= <letter> <letter>`, constant("high"))
	require.NoError(t, err)

	grammar := mustNewGrammar(t, low, high, mustParseRule(t, 0, `<letter> ::= "a" | "b"`))

	rv, err := grammar.CompileString("ab")
	require.NoError(t, err)
	assert.Equal(t, "high", rv)
}

func Test_Grammar_Compile(t *testing.T) {
	grammar := mustNewGrammar(
		t,
		mustParseRule(t, 0, `<word> ::= <letter> | <letter> <word>`),
		mustParseRule(t, 0, `<letter> ::= "a" | "b" | "c"`).WithCompiler(CompileFunc(
			func(token *Token, _ *Grammar) (string, error) {
				return strings.ToUpper(token.Text), nil
			},
		)),
	)

	t.Run("children are not compiled implicitly", func(t *testing.T) {
		rv, err := grammar.CompileString("abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", rv)
	})

	t.Run("callback on the root", func(t *testing.T) {
		rv, err := grammar.CompileString("b")
		require.NoError(t, err)
		assert.Equal(t, "b", rv)

		token, err := grammar.MatchWithRule("letter", "b")
		require.NoError(t, err)
		rv, err = grammar.Compile(token)
		require.NoError(t, err)
		assert.Equal(t, "B", rv)
	})

	t.Run("terminal", func(t *testing.T) {
		rv, err := grammar.Compile(NewTerminalToken("xyz"))
		require.NoError(t, err)
		assert.Equal(t, "xyz", rv)
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, err := grammar.Compile(NewNonTerminalToken("missing", NewTerminalToken("x")))
		assert.ErrorIs(t, err, ErrUnknownRule)
	})
}

func Test_Grammar_Compile_Errors(t *testing.T) {
	errBoom := errors.New("boom")

	grammar := mustNewGrammar(
		t,
		mustParseRule(t, 0, `<pair> ::= <item> <item>`).WithCompiler(CompileFunc(
			func(token *Token, grammar *Grammar) (string, error) {
				return grammar.Compile(token.Children[0])
			},
		)),
		mustParseRule(t, 0, `<item> ::= "x"`).WithCompiler(CompileFunc(
			func(*Token, *Grammar) (string, error) {
				return "", errBoom
			},
		)),
	)

	_, err := grammar.CompileString("xx")
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, "compile <pair>: compile <item>: boom", err.Error())

	_, err = grammar.CompileString("xxx")
	assert.ErrorIs(t, err, ErrNoMatch)
}
