// Package selector implements the label filter query language:
//
//	name ":" ( value ("," value)* | "/" regex "/" )
//
// A check is selected when its label map contains name and the matcher
// accepts that label's value. A missing key is a non-match, not an
// error.
package selector

import (
	"fmt"
	"regexp"
	"strings"
)

// Label names follow RFC 1123 hostname tokens: alphanumerics with
// internal hyphens.
var namePattern = regexp.MustCompile(`^[0-9A-Za-z](?:-*[0-9A-Za-z])*`)

type matcher interface {
	matches(value string) bool
}

// Term is one parsed selector query.
type Term struct {
	Name string
	m    matcher
}

// Parse parses a full selector term. The whole input must be consumed.
func Parse(s string) (*Term, error) {
	name := namePattern.FindString(s)
	if name == "" {
		return nil, fmt.Errorf("selector %q: expected label name", s)
	}

	rest := s[len(name):]
	if !strings.HasPrefix(rest, ":") {
		return nil, fmt.Errorf("selector %q: expected ':' after label name", s)
	}
	rest = rest[1:]

	m, rest, err := parseMatcher(rest)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", s, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("selector %q: unexpected trailing input %q", s, rest)
	}

	return &Term{Name: name, m: m}, nil
}

// Matches reports whether labels contains the term's name with an
// accepted value.
func (t *Term) Matches(labels map[string]string) bool {
	value, ok := labels[t.Name]
	if !ok {
		return false
	}
	return t.m.matches(value)
}

// MatchAll reports whether labels satisfies every term.
func MatchAll(terms []*Term, labels map[string]string) bool {
	for _, t := range terms {
		if !t.Matches(labels) {
			return false
		}
	}
	return true
}

// parseMatcher tries the regex form first and falls back to the list
// form, mirroring the grammar's ordered alternation.
func parseMatcher(s string) (matcher, string, error) {
	if m, rest, ok := parseRegex(s); ok {
		return m, rest, nil
	}
	return parseList(s)
}

// parseRegex parses "/pattern/". The delimiter cannot be escaped, so a
// literal '/' inside the pattern is not expressible.
func parseRegex(s string) (matcher, string, bool) {
	if !strings.HasPrefix(s, "/") {
		return nil, "", false
	}
	end := strings.Index(s[1:], "/")
	if end < 1 {
		// no closing delimiter, or empty pattern
		return nil, "", false
	}
	re, err := regexp.Compile(s[1 : 1+end])
	if err != nil {
		return nil, "", false
	}
	return &regexMatcher{re: re}, s[2+end:], true
}

func parseList(s string) (matcher, string, error) {
	var items []string
	rest := s
	for {
		item := takeValue(rest)
		if item == "" {
			return nil, "", fmt.Errorf("expected label value at %q", rest)
		}
		items = append(items, item)
		rest = rest[len(item):]
		if !strings.HasPrefix(rest, ",") {
			return listMatcher(items), rest, nil
		}
		rest = rest[1:]
	}
}

// takeValue consumes up to the next list separator or whitespace.
func takeValue(s string) string {
	if i := strings.IndexAny(s, ", \t"); i >= 0 {
		return s[:i]
	}
	return s
}

type listMatcher []string

func (l listMatcher) matches(value string) bool {
	for _, item := range l {
		if item == value {
			return true
		}
	}
	return false
}

type regexMatcher struct {
	re *regexp.Regexp
}

// matches is a search match: the pattern is not anchored unless it
// anchors itself.
func (r *regexMatcher) matches(value string) bool {
	return r.re.MatchString(value)
}
