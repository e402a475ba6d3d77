package bootstrap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/b4fun/bnf-go/types"
	"github.com/dlclark/regexp2"
)

// A grammar document is a sequence of rule definitions:
//
//	# comments and blank lines are ignored
//	priority 1 => <sum> ::= <number> "+" <number>
//	<number> ::= <digit>
//	    | <digit> <number>
//
// A definition starts at a line that opens with `<name> ::=`, optionally
// prefixed by `priority N =>`, and runs until the next definition.
var ruleHeaderPattern = regexp2.MustCompile(
	`^\s*(?:priority\s+(?<priority>-?\d+)\s*=>\s*)?(?<definition><(?<name>[^<>"\s]+)>\s*::=.*)$`,
	regexp2.None,
)

const priorityKeyword = "priority"

// Options configures how a grammar document is loaded.
type Options struct {
	compilers       map[string]types.Compiler
	compilerNames   []string
	defaultPriority int
}

// Option configures Options.
type Option func(*Options)

// WithCompiler attaches compiler to the rule named ruleName.
func WithCompiler(ruleName string, compiler types.Compiler) Option {
	return func(opts *Options) {
		if _, exists := opts.compilers[ruleName]; !exists {
			opts.compilerNames = append(opts.compilerNames, ruleName)
		}
		opts.compilers[ruleName] = compiler
	}
}

// WithCompileFunc is WithCompiler for a plain function.
func WithCompileFunc(
	ruleName string,
	f func(token *types.Token, grammar *types.Grammar) (string, error),
) Option {
	return WithCompiler(ruleName, types.CompileFunc(f))
}

// WithDefaultPriority sets the priority of definitions without a priority
// prefix. Defaults to 0.
func WithDefaultPriority(priority int) Option {
	return func(opts *Options) {
		opts.defaultPriority = priority
	}
}

func createOpts(opts ...Option) *Options {
	rv := &Options{
		compilers: make(map[string]types.Compiler),
	}
	for _, o := range opts {
		o(rv)
	}
	return rv
}

type definition struct {
	line     int
	name     string
	priority int
	lines    []string
}

// NewGrammar loads a grammar from a document of rule definitions.
func NewGrammar(text string, opts ...Option) (*types.Grammar, error) {
	rules, err := ParseRules(text, opts...)
	if err != nil {
		return nil, err
	}

	return types.NewGrammar(rules...)
}

// ParseRules parses the rule definitions of a document in document order.
func ParseRules(text string, opts ...Option) ([]*types.Rule, error) {
	loadOpts := createOpts(opts...)

	definitions, err := splitDefinitions(text, loadOpts.defaultPriority)
	if err != nil {
		return nil, err
	}

	definedAt := make(map[string]int, len(definitions))
	rules := make([]*types.Rule, 0, len(definitions))
	for _, def := range definitions {
		if _, exists := definedAt[def.name]; exists {
			return nil, fmt.Errorf("line %d: %w", def.line, &types.DuplicateRuleError{Name: def.name})
		}
		definedAt[def.name] = def.line

		rule, err := types.RuleFromText(
			def.priority,
			strings.Join(def.lines, "\n"),
			loadOpts.compilers[def.name],
		)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", def.line, err)
		}
		rules = append(rules, rule)
	}

	for _, name := range loadOpts.compilerNames {
		if _, exists := definedAt[name]; !exists {
			return nil, fmt.Errorf("attach compiler: %w", &types.UnknownRuleError{Name: name})
		}
	}

	return rules, nil
}

func splitDefinitions(text string, defaultPriority int) ([]*definition, error) {
	var (
		definitions []*definition
		current     *definition
	)

	for idx, line := range strings.Split(text, "\n") {
		lineNo := idx + 1
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		def, err := parseHeader(line, lineNo, defaultPriority)
		if err != nil {
			return nil, err
		}
		if def != nil {
			current = def
			definitions = append(definitions, def)
			continue
		}

		if strings.HasPrefix(trimmed, priorityKeyword) {
			return nil, fmt.Errorf(
				"line %d: %w",
				lineNo, &types.RuleSyntaxError{Text: trimmed, Reason: "malformed priority header"},
			)
		}
		if current == nil {
			return nil, fmt.Errorf(
				"line %d: %w",
				lineNo, &types.RuleSyntaxError{Text: trimmed, Reason: "expected a rule definition"},
			)
		}
		current.lines = append(current.lines, line)
	}

	return definitions, nil
}

// parseHeader returns nil when line does not start a definition.
func parseHeader(line string, lineNo int, defaultPriority int) (*definition, error) {
	m, err := ruleHeaderPattern.FindStringMatch(line)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo, err)
	}
	if m == nil {
		return nil, nil
	}

	priority := defaultPriority
	if g := m.GroupByName("priority"); g != nil && g.Length > 0 {
		priority, err = strconv.Atoi(g.String())
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid priority: %w", lineNo, err)
		}
	}

	return &definition{
		line:     lineNo,
		name:     m.GroupByName("name").String(),
		priority: priority,
		lines:    []string{m.GroupByName("definition").String()},
	}, nil
}
