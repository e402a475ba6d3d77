package types

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// DefaultStepBudget bounds the rule and production evaluations of one match.
	DefaultStepBudget = 1 << 22
	// DefaultDepthBudget bounds how deeply rule evaluations may nest.
	DefaultDepthBudget = 1 << 14
)

// MatchOptions represents options for matching.
type MatchOptions struct {
	debug       bool
	debugOutput io.Writer
	stepBudget  int
	depthBudget int
}

func (opts *MatchOptions) debugf(format string, args ...any) {
	if opts.debug {
		fmt.Fprintf(opts.debugOutput, format, args...)
	}
}

func createMatchOpts(opts ...MatchOption) *MatchOptions {
	matchOpts := &MatchOptions{
		debugOutput: os.Stdout,
		stepBudget:  DefaultStepBudget,
		depthBudget: DefaultDepthBudget,
	}
	for _, o := range opts {
		o(matchOpts)
	}
	return matchOpts
}

// MatchOption configures a MatchOptions.
type MatchOption func(*MatchOptions)

// MatchWithDebug enables tracing of rule attempts.
func MatchWithDebug(debug bool) MatchOption {
	return func(opts *MatchOptions) {
		opts.debug = debug
	}
}

// MatchWithDebugOutput sets where traces are written. Defaults to stdout.
func MatchWithDebugOutput(w io.Writer) MatchOption {
	return func(opts *MatchOptions) {
		opts.debugOutput = w
	}
}

// MatchWithStepBudget limits the number of rule and production evaluations.
// A budget <= 0 disables the limit.
func MatchWithStepBudget(steps int) MatchOption {
	return func(opts *MatchOptions) {
		opts.stepBudget = steps
	}
}

// MatchWithDepthBudget limits the nesting of rule evaluations.
// A budget <= 0 disables the limit.
func MatchWithDepthBudget(depth int) MatchOption {
	return func(opts *MatchOptions) {
		opts.depthBudget = depth
	}
}

// noCut marks a result that did not depend on cutting a rule evaluation
// that was still in progress.
const noCut = infiniteLength

type matchResult struct {
	Token *Token
	Err   error
	// cutDepth is the smallest depth of an in-progress rule evaluation that
	// had to be cut to produce this result.
	cutDepth int
}

func (mr *matchResult) isNoMatch() bool {
	return mr.Token == nil && mr.Err == nil
}

func (mr *matchResult) isMatched() bool {
	return mr.Token != nil && mr.Err == nil
}

func (mr *matchResult) isMatchFailed() bool {
	return mr.Err != nil
}

func (mr *matchResult) String() string {
	if mr.Err != nil {
		return fmt.Sprintf("matchResult{Err: %s}", mr.Err)
	}
	if mr.Token != nil {
		return fmt.Sprintf(
			"matchResult{TokenStart: %d, TokenEnd: %d, Symbol: %s}",
			mr.Token.Start, mr.Token.End, mr.Token.Symbol,
		)
	}
	return "matchResult{NoMatch}"
}

func noMatch(cutDepth int) *matchResult {
	return &matchResult{cutDepth: cutDepth}
}

func matched(token *Token, cutDepth int) *matchResult {
	return &matchResult{Token: token, cutDepth: cutDepth}
}

func matchFailed(err error) *matchResult {
	return &matchResult{Err: err, cutDepth: noCut}
}

// sequenceMatched stands in for the token of a production suffix; the
// children slice carries the actual tokens.
var sequenceMatched = new(Token)

type spanKey struct {
	name       string
	start, end int
}

type suffixKey struct {
	name       string
	production int
	symbol     int
	start, end int
}

type spanEntry struct {
	token      *Token
	inProgress bool
	depth      int
}

// matcher holds the state of one Match call. It is never shared.
type matcher struct {
	grammar *Grammar
	text    string
	opts    *MatchOptions

	spans          map[spanKey]*spanEntry
	failedSuffixes map[suffixKey]struct{}

	steps int
	depth int
}

func newMatcher(g *Grammar, text string, opts *MatchOptions) *matcher {
	return &matcher{
		grammar:        g,
		text:           text,
		opts:           opts,
		spans:          make(map[spanKey]*spanEntry),
		failedSuffixes: make(map[suffixKey]struct{}),
	}
}

// Match matches the complete input against the rules in priority order and
// returns the tree of the first rule that consumes all of it.
func (g *Grammar) Match(text string, opts ...MatchOption) (*Token, error) {
	m := newMatcher(g, text, createMatchOpts(opts...))

	var tried []string
	for rule := range g.RulesByPriority() {
		tried = append(tried, rule.Name)
		token, err := m.matchWhole(rule.Name)
		if err != nil {
			return nil, err
		}
		if token != nil {
			return token, nil
		}
	}

	return nil, &NoMatchError{Text: text, Rules: tried}
}

// MatchWithRule matches the complete input against the named rule only.
func (g *Grammar) MatchWithRule(ruleName string, text string, opts ...MatchOption) (*Token, error) {
	if !g.ContainsSymbol(ruleName) {
		return nil, &UnknownRuleError{Name: ruleName}
	}

	m := newMatcher(g, text, createMatchOpts(opts...))
	token, err := m.matchWhole(ruleName)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, &NoMatchError{Text: text, Rules: []string{ruleName}}
	}

	return token, nil
}

func (m *matcher) matchWhole(name string) (*Token, error) {
	m.opts.debugf("[%s] matching complete input %q\n", NonTerminal(name), excerpt(m.text, 0, 40))

	result := m.matchRule(name, 0, len(m.text))
	switch {
	case result.isMatchFailed():
		return nil, result.Err
	case result.isMatched():
		return result.Token.unshare(make(map[*Token]struct{})), nil
	default:
		return nil, nil
	}
}

func (m *matcher) step(name string, start, end int) error {
	m.steps++
	if m.opts.stepBudget > 0 && m.steps > m.opts.stepBudget {
		return &RecursionBudgetExceededError{
			Rule:   name,
			Start:  start,
			End:    end,
			Reason: fmt.Sprintf("step budget of %d exhausted", m.opts.stepBudget),
		}
	}
	return nil
}

// matchRule matches the rule name against exactly text[start:end].
func (m *matcher) matchRule(name string, start, end int) *matchResult {
	key := spanKey{name: name, start: start, end: end}
	if entry, ok := m.spans[key]; ok {
		switch {
		case entry.inProgress:
			// the same rule on the same span is already being evaluated
			// further up: a derivation may not pass through it twice
			return noMatch(entry.depth)
		case entry.token == nil:
			return noMatch(noCut)
		default:
			return matched(entry.token, noCut)
		}
	}

	rule, ok := m.grammar.index[name]
	if !ok {
		return matchFailed(&UnknownRuleError{Name: name})
	}
	minLength := m.grammar.minLengths[name]
	if minLength == infiniteLength {
		return matchFailed(&RecursionBudgetExceededError{
			Rule:   name,
			Start:  start,
			End:    end,
			Reason: "every production of the rule recurses without a terminating alternative",
		})
	}
	if end-start < minLength {
		return noMatch(noCut)
	}

	m.depth++
	defer func() { m.depth-- }()
	if m.opts.depthBudget > 0 && m.depth > m.opts.depthBudget {
		return matchFailed(&RecursionBudgetExceededError{
			Rule:   name,
			Start:  start,
			End:    end,
			Reason: fmt.Sprintf("depth budget of %d exhausted", m.opts.depthBudget),
		})
	}
	if err := m.step(name, start, end); err != nil {
		return matchFailed(err)
	}

	entry := &spanEntry{inProgress: true, depth: m.depth}
	m.spans[key] = entry

	result := m.matchProductions(rule, start, end)
	if result.isMatchFailed() {
		return result
	}

	entry.inProgress = false
	if result.cutDepth < m.depth {
		// depends on an ancestor that is still in progress, so the outcome
		// may differ once that ancestor is resolved
		delete(m.spans, key)
	} else {
		entry.token = result.Token
		result.cutDepth = noCut
	}

	if result.isMatched() {
		m.opts.debugf("[%s] matched %d:%d %q\n", rule.Symbol(), start, end, excerpt(m.text, start, 40))
	}

	return result
}

func (m *matcher) matchProductions(rule *Rule, start, end int) *matchResult {
	cut := noCut
	for idx, production := range rule.Productions {
		children := make([]*Token, len(production))
		result := m.matchSequence(rule, idx, 0, start, end, children)
		if result.isMatchFailed() {
			return result
		}
		cut = min(cut, result.cutDepth)
		if result.isMatched() {
			token := newNonTerminalToken(rule.Name, m.text, start, end, children)
			return matched(token, cut)
		}
	}

	return noMatch(cut)
}

// matchSequence matches the symbols of a production from index symbolIdx on
// against exactly text[start:end], filling children on success.
func (m *matcher) matchSequence(
	rule *Rule,
	productionIdx int,
	symbolIdx int,
	start int,
	end int,
	children []*Token,
) *matchResult {
	production := rule.Productions[productionIdx]
	if symbolIdx == len(production) {
		if start == end {
			return matched(sequenceMatched, noCut)
		}
		return noMatch(noCut)
	}

	key := suffixKey{
		name:       rule.Name,
		production: productionIdx,
		symbol:     symbolIdx,
		start:      start,
		end:        end,
	}
	if _, failed := m.failedSuffixes[key]; failed {
		return noMatch(noCut)
	}
	if err := m.step(rule.Name, start, end); err != nil {
		return matchFailed(err)
	}

	result := m.matchSymbolAt(rule, productionIdx, symbolIdx, start, end, children)
	if result.isNoMatch() && result.cutDepth == noCut {
		m.failedSuffixes[key] = struct{}{}
	}

	return result
}

func (m *matcher) matchSymbolAt(
	rule *Rule,
	productionIdx int,
	symbolIdx int,
	start int,
	end int,
	children []*Token,
) *matchResult {
	production := rule.Productions[productionIdx]
	symbol := production[symbolIdx]
	if symbol.IsNonTerminal() && m.grammar.minLength(symbol) == infiniteLength {
		// reports the rule that can never finish
		return m.matchRule(symbol.Value, start, end)
	}

	last := end - m.grammar.suffixMinLengths[rule.Name][productionIdx][symbolIdx+1]
	if last < start {
		return noMatch(noCut)
	}

	if symbol.IsTerminal() {
		literal := symbol.Value
		if start+len(literal) > last || !strings.HasPrefix(m.text[start:], literal) {
			return noMatch(noCut)
		}
		result := m.matchSequence(rule, productionIdx, symbolIdx+1, start+len(literal), end, children)
		if result.isMatched() {
			children[symbolIdx] = newTerminalToken(literal, m.text, start)
		}
		return result
	}

	first := start + m.grammar.minLength(symbol)
	if symbolIdx == len(production)-1 {
		// the last symbol has to cover the rest of the span
		first = max(first, end)
	}

	cut := noCut
	for split := first; split <= last; split++ {
		if !isRuneBoundary(m.text, split) {
			continue
		}

		head := m.matchRule(symbol.Value, start, split)
		if head.isMatchFailed() {
			return head
		}
		cut = min(cut, head.cutDepth)
		if !head.isMatched() {
			continue
		}

		rest := m.matchSequence(rule, productionIdx, symbolIdx+1, split, end, children)
		if rest.isMatchFailed() {
			return rest
		}
		cut = min(cut, rest.cutDepth)
		if rest.isMatched() {
			children[symbolIdx] = head.Token
			return matched(sequenceMatched, cut)
		}
	}

	return noMatch(cut)
}
