// Package fallback generates local replies when the remote service is unavailable.
// Matching is keyword based, first category wins; no natural-language understanding.
package fallback

import (
	"math/rand"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	"serenity-chat/errors"
)

// Rule binds one keyword category to its canned reply.
// Rules are evaluated in slice order; the first matching category wins.
type Rule struct {
	Name     string
	Keywords []string
	Reply    string
}

type compiledRule struct {
	Rule
	matcher *goahocorasick.Machine
}

type Responder struct {
	rules   []compiledRule
	generic []string
	rnd     *rand.Rand
}

// NewResponder builds one Aho-Corasick automaton per category over the
// normalized keywords. The random source is injected so generic-pool
// selection stays reproducible in tests.
func NewResponder(rules []Rule, generic []string, rnd *rand.Rand) (*Responder, error) {
	if len(generic) == 0 {
		return nil, errors.ErrEmptyPool
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		patterns := make([][]rune, len(rule.Keywords))
		for i, word := range rule.Keywords {
			patterns[i] = normalizeRunes([]rune(word))
		}

		m := new(goahocorasick.Machine)
		if err := m.Build(patterns); err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{Rule: rule, matcher: m})
	}

	return &Responder{rules: compiled, generic: generic, rnd: rnd}, nil
}

// Respond maps the user text to a canned reply.
// Deterministic for any text matching a category; a uniformly random
// generic reply otherwise. No side effects, no failure cases.
func (r *Responder) Respond(userText string) string {
	if reply, ok := r.match(userText); ok {
		return reply
	}
	return r.generic[r.rnd.Intn(len(r.generic))]
}

// Category returns the name of the matching keyword category, if any.
func (r *Responder) Category(userText string) (string, bool) {
	norm := normalizeRunes([]rune(userText))
	if len(norm) == 0 {
		return "", false
	}
	for _, rule := range r.rules {
		if len(rule.matcher.MultiPatternSearch(norm, true)) > 0 {
			return rule.Name, true
		}
	}
	return "", false
}

func (r *Responder) match(userText string) (string, bool) {
	norm := normalizeRunes([]rune(userText))
	if len(norm) == 0 {
		return "", false
	}
	for _, rule := range r.rules {
		// Only existence matters, so the search stops at the first hit.
		if len(rule.matcher.MultiPatternSearch(norm, true)) > 0 {
			return rule.Reply, true
		}
	}
	return "", false
}

// normalizeRunes lower-cases and strips punctuation, spacing, and symbols
// so "Anxious!!" still matches the anxiety keywords.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if isNoise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
