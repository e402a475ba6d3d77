package types

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Grammar is an ordered collection of rules. It is immutable once created
// and can be shared by concurrent matches.
type Grammar struct {
	rules      []*Rule
	byPriority []*Rule
	index      map[string]*Rule
	// minLengths holds the shortest input length each rule can match,
	// infiniteLength when the rule can never finish a derivation.
	minLengths map[string]int
	// suffixMinLengths[name][p][i] is the shortest input the symbols
	// Productions[p][i:] of rule name can match together.
	suffixMinLengths map[string][][]int
}

// NewGrammar registers the rules in declaration order.
func NewGrammar(rules ...*Rule) (*Grammar, error) {
	g := &Grammar{
		rules: make([]*Rule, 0, len(rules)),
		index: make(map[string]*Rule, len(rules)),
	}
	for _, rule := range rules {
		if err := g.register(rule); err != nil {
			return nil, err
		}
	}

	g.byPriority = slices.Clone(g.rules)
	slices.SortStableFunc(g.byPriority, func(a, b *Rule) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	g.minLengths = computeMinLengths(g.rules, g.index)
	g.suffixMinLengths = make(map[string][][]int, len(g.rules))
	for _, rule := range g.rules {
		g.suffixMinLengths[rule.Name] = g.computeSuffixMinLengths(rule)
	}

	return g, nil
}

func (g *Grammar) register(rule *Rule) error {
	if rule == nil {
		return fmt.Errorf("register rule #%d: nil rule", len(g.rules))
	}
	if err := rule.validate(); err != nil {
		return fmt.Errorf("register rule #%d: %w", len(g.rules), err)
	}
	if _, exists := g.index[rule.Name]; exists {
		return &DuplicateRuleError{Name: rule.Name}
	}

	g.rules = append(g.rules, rule)
	g.index[rule.Name] = rule
	return nil
}

// computeMinLengths runs a fixpoint over the rules to find the shortest
// input each rule can match. References to unknown rules count as zero so
// that matching reaches them and reports them.
func computeMinLengths(rules []*Rule, index map[string]*Rule) map[string]int {
	rv := make(map[string]int, len(rules))
	for _, rule := range rules {
		rv[rule.Name] = infiniteLength
	}

	symbolLength := func(symbol Symbol) int {
		if symbol.IsTerminal() {
			return len(symbol.Value)
		}
		if _, ok := index[symbol.Value]; !ok {
			return 0
		}
		return rv[symbol.Value]
	}

	for changed := true; changed; {
		changed = false
		for _, rule := range rules {
			for _, production := range rule.Productions {
				length := 0
				for _, symbol := range production {
					length = addLength(length, symbolLength(symbol))
				}
				if length < rv[rule.Name] {
					rv[rule.Name] = length
					changed = true
				}
			}
		}
	}

	return rv
}

func (g *Grammar) computeSuffixMinLengths(rule *Rule) [][]int {
	rv := make([][]int, len(rule.Productions))
	for p, production := range rule.Productions {
		lengths := make([]int, len(production)+1)
		for i := len(production) - 1; i >= 0; i-- {
			lengths[i] = addLength(g.minLength(production[i]), lengths[i+1])
		}
		rv[p] = lengths
	}
	return rv
}

func (g *Grammar) String() string {
	return fmt.Sprintf("<Grammar #rules=%d>", len(g.rules))
}

// Definition renders every rule in declaration order, one per line,
// prefixed with its priority.
func (g *Grammar) Definition() string {
	var sb strings.Builder
	for _, rule := range g.rules {
		fmt.Fprintf(&sb, "priority %d => %s\n", rule.Priority, rule)
	}
	return sb.String()
}

// Rules returns the rules in declaration order.
func (g *Grammar) Rules() []*Rule {
	rv := make([]*Rule, len(g.rules))
	copy(rv, g.rules)
	return rv
}

// RulesByPriority yields the rules with the highest priority first. Rules
// sharing a priority keep their declaration order.
func (g *Grammar) RulesByPriority() iter.Seq[*Rule] {
	return func(yield func(*Rule) bool) {
		for _, rule := range g.byPriority {
			if !yield(rule) {
				return
			}
		}
	}
}

// GetRule looks up a rule by name, without angle brackets.
func (g *Grammar) GetRule(name string) (*Rule, bool) {
	rule, ok := g.index[name]
	return rule, ok
}

// ContainsSymbol reports whether a rule named name exists. The name is
// given without angle brackets.
func (g *Grammar) ContainsSymbol(name string) bool {
	_, ok := g.index[name]
	return ok
}

// ProductionsOf returns the productions of the named rule.
func (g *Grammar) ProductionsOf(name string) ([]Production, error) {
	rule, ok := g.index[name]
	if !ok {
		return nil, &UnknownRuleError{Name: name}
	}
	return rule.Productions, nil
}

func (g *Grammar) minLength(symbol Symbol) int {
	if symbol.IsTerminal() {
		return len(symbol.Value)
	}
	length, ok := g.minLengths[symbol.Value]
	if !ok {
		return 0
	}
	return length
}
