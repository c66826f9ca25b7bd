// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package policy decides which request paths may be served without a principal.

The whole decision is one ordered table of {pattern, mode} rules, kept flat so it
can be reviewed in a single read. Evaluation is first-match-wins and any path no
rule matches requires authentication.

Pattern Syntax:

  - "/api/health": matches that exact path.
  - "/api/auth/**": matches "/api/auth" and everything below it.
  - "/**": matches every path.

Role checks beyond "has a principal" are not expressed here; handlers inspect the
principal themselves or mount the RequireRole middleware.
*/
package policy

import (
	"fmt"
	"path"
	"strings"
)

// Mode is the authentication state a rule requires.
type Mode int

const (
	// RequireAuth rejects requests without an attached principal.
	// It is the zero value so an unset mode fails closed.
	RequireAuth Mode = iota

	// Permit admits requests regardless of authentication state.
	Permit
)

// String returns the lowercase mode name used in logs.
func (m Mode) String() string {
	switch m {
	case Permit:
		return "permit"
	case RequireAuth:
		return "require_auth"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Rule pairs a path pattern with the mode it requires.
type Rule struct {
	Pattern string
	Mode    Mode
}

// matches reports whether the normalized path falls under the rule's pattern.
func (r Rule) matches(normalized string) bool {
	prefix, isPrefix := strings.CutSuffix(r.Pattern, "/**")
	if !isPrefix {
		return normalized == r.Pattern
	}
	if prefix == "" {
		return true
	}
	return normalized == prefix || strings.HasPrefix(normalized, prefix+"/")
}

// # Default Table

// Catch-all rule every table ends with.
var catchAll = Rule{Pattern: "/**", Mode: RequireAuth}

// DefaultRules returns the marketplace admission table. Extra public patterns
// are inserted after the built-in rules and before the final catch-all.
func DefaultRules(extraPublic ...string) []Rule {
	rules := []Rule{
		{Pattern: "/api/auth/**", Mode: Permit},
		{Pattern: "/api/health", Mode: Permit},
		{Pattern: "/v3/api-docs/**", Mode: Permit},
		{Pattern: "/swagger-ui/**", Mode: Permit},
		{Pattern: "/api/listings/search", Mode: Permit},
		{Pattern: "/uploads/**", Mode: RequireAuth},
	}

	for _, pattern := range extraPublic {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			rules = append(rules, Rule{Pattern: pattern, Mode: Permit})
		}
	}

	return append(rules, catchAll)
}

// # Policy

// Policy is an immutable, validated rule table. It is safe for concurrent use.
type Policy struct {
	rules []Rule
}

// New validates rules and builds a [Policy].
//
// A pattern must be absolute, already normalized, and may use "**" only as its
// final segment.
func New(rules []Rule) (*Policy, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("policy: rule table is empty")
	}

	table := make([]Rule, 0, len(rules))
	for index, rule := range rules {
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("policy: rule %d (%q): %w", index, rule.Pattern, err)
		}
		table = append(table, rule)
	}

	return &Policy{rules: table}, nil
}

// MustNew is like [New] but panics on an invalid table. Intended for static tables.
func MustNew(rules []Rule) *Policy {
	policy, err := New(rules)
	if err != nil {
		panic(err)
	}
	return policy
}

// Decide returns the mode of the first rule matching the normalized path,
// or [RequireAuth] when none matches.
func (p *Policy) Decide(requestPath string) Mode {
	normalized := Normalize(requestPath)
	for _, rule := range p.rules {
		if rule.matches(normalized) {
			return rule.Mode
		}
	}
	return RequireAuth
}

// Rules returns a copy of the table for auditing and startup logs.
func (p *Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Normalize canonicalizes a request path before matching so that dot segments,
// duplicate slashes, and trailing slashes cannot step around a rule.
func Normalize(requestPath string) string {
	if requestPath == "" {
		return "/"
	}
	if !strings.HasPrefix(requestPath, "/") {
		requestPath = "/" + requestPath
	}
	return path.Clean(requestPath)
}

func validateRule(rule Rule) error {
	if rule.Mode != Permit && rule.Mode != RequireAuth {
		return fmt.Errorf("unknown mode %d", int(rule.Mode))
	}
	if !strings.HasPrefix(rule.Pattern, "/") {
		return fmt.Errorf("pattern must start with '/'")
	}

	base, _ := strings.CutSuffix(rule.Pattern, "/**")
	if strings.Contains(base, "*") {
		return fmt.Errorf("wildcard is only allowed as a trailing '/**'")
	}
	if base != "" && Normalize(base) != base {
		return fmt.Errorf("pattern is not normalized")
	}
	return nil
}
