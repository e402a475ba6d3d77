package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRuleSyntax              = errors.New("rule syntax error")
	ErrDuplicateRule           = errors.New("duplicate rule")
	ErrUnknownRule             = errors.New("unknown rule")
	ErrNoMatch                 = errors.New("no match")
	ErrRecursionBudgetExceeded = errors.New("recursion budget exceeded")
)

// RuleSyntaxError reports malformed rule definition text.
type RuleSyntaxError struct {
	Text     string
	Position int
	Reason   string
}

func newRuleSyntaxError(text string, position int, format string, args ...any) *RuleSyntaxError {
	return &RuleSyntaxError{
		Text:     text,
		Position: position,
		Reason:   fmt.Sprintf(format, args...),
	}
}

func (e *RuleSyntaxError) Error() string {
	line, column := lineAndColumn(e.Text, e.Position)
	return fmt.Sprintf(
		"%s: %s at %q (line %d, column %d)",
		ErrRuleSyntax, e.Reason,
		excerpt(e.Text, e.Position, 20),
		line, column,
	)
}

func (e *RuleSyntaxError) Unwrap() error {
	return ErrRuleSyntax
}

// DuplicateRuleError is returned when two rules share a name.
type DuplicateRuleError struct {
	Name string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("%s: <%s> is registered more than once", ErrDuplicateRule, e.Name)
}

func (e *DuplicateRuleError) Unwrap() error {
	return ErrDuplicateRule
}

// UnknownRuleError is returned when a production references a non-terminal
// that has no rule in the grammar.
type UnknownRuleError struct {
	Name string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("%s: no rule defines <%s>", ErrUnknownRule, e.Name)
}

func (e *UnknownRuleError) Unwrap() error {
	return ErrUnknownRule
}

// NoMatchError is returned when no candidate rule consumes the complete input.
type NoMatchError struct {
	Text string
	// Rules lists the rule names that were tried, in the order they were tried.
	Rules []string
}

func (e *NoMatchError) Error() string {
	names := make([]string, len(e.Rules))
	for i, name := range e.Rules {
		names[i] = "<" + name + ">"
	}
	return fmt.Sprintf(
		"%s: none of %s matched the complete input %q",
		ErrNoMatch, strings.Join(names, ", "),
		excerpt(e.Text, 0, 20),
	)
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}

// RecursionBudgetExceededError is returned when matching cannot terminate
// within the configured budgets, or when a rule has no terminating production.
type RecursionBudgetExceededError struct {
	Rule   string
	Start  int
	End    int
	Reason string
}

func (e *RecursionBudgetExceededError) Error() string {
	return fmt.Sprintf(
		"%s: %s (rule <%s>, span %d:%d)",
		ErrRecursionBudgetExceeded, e.Reason, e.Rule, e.Start, e.End,
	)
}

func (e *RecursionBudgetExceededError) Unwrap() error {
	return ErrRecursionBudgetExceeded
}

func lineAndColumn(text string, position int) (int, int) {
	if position > len(text) {
		position = len(text)
	}
	line := strings.Count(text[:position], "\n") + 1
	column := position - strings.LastIndex(text[:position], "\n")

	return line, column
}
