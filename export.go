package bnf

import (
	"github.com/b4fun/bnf-go/internal/bootstrap"
	"github.com/b4fun/bnf-go/nodes"
	"github.com/b4fun/bnf-go/types"
)

var (
	NewGrammar          = bootstrap.NewGrammar
	ParseRules          = bootstrap.ParseRules
	WithCompiler        = bootstrap.WithCompiler
	WithCompileFunc     = bootstrap.WithCompileFunc
	WithDefaultPriority = bootstrap.WithDefaultPriority

	NewGrammarFromRules = types.NewGrammar
	NewRule             = types.NewRule
	ParseRule           = types.ParseRule
	RuleFromText        = types.RuleFromText
	Terminal            = types.Terminal
	NonTerminal         = types.NonTerminal
	NewTerminalToken    = types.NewTerminalToken
	NewNonTerminalToken = types.NewNonTerminalToken

	MatchWithDebug       = types.MatchWithDebug
	MatchWithDebugOutput = types.MatchWithDebugOutput
	MatchWithStepBudget  = types.MatchWithStepBudget
	MatchWithDepthBudget = types.MatchWithDepthBudget

	DumpTokenTree             = nodes.DumpTokenTree
	NewTokenVisitorMux        = nodes.NewTokenVisitorMux
	WithDefaultTokenVisitFunc = nodes.WithDefaultTokenVisitFunc
	DefaultTokenVisitor       = nodes.DefaultTokenVisitor

	ErrRuleSyntax              = types.ErrRuleSyntax
	ErrDuplicateRule           = types.ErrDuplicateRule
	ErrUnknownRule             = types.ErrUnknownRule
	ErrNoMatch                 = types.ErrNoMatch
	ErrRecursionBudgetExceeded = types.ErrRecursionBudgetExceeded
)

type (
	Symbol      = types.Symbol
	Production  = types.Production
	Rule        = types.Rule
	Grammar     = types.Grammar
	Token       = types.Token
	TokenIndex  = types.TokenIndex
	Compiler    = types.Compiler
	CompileFunc = types.CompileFunc
	MatchOption = types.MatchOption

	TokenVisitFunc  = nodes.TokenVisitFunc
	TokenVisitorMux = nodes.TokenVisitorMux

	RuleSyntaxError              = types.RuleSyntaxError
	DuplicateRuleError           = types.DuplicateRuleError
	UnknownRuleError             = types.UnknownRuleError
	NoMatchError                 = types.NoMatchError
	RecursionBudgetExceededError = types.RecursionBudgetExceededError
)
