package op

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/leapsp/pkg/value"
)

// LikeMatcher is a compiled LIKE pattern.
type LikeMatcher struct {
	pattern string
	escape  rune
	hasEsc  bool
	re      *regexp.Regexp
}

// LikeRegexp translates a LIKE pattern into an anchored regular expression.
//
// % matches any run of characters and _ exactly one, newlines included. With
// an escape character, the character after it is taken literally (including
// %, _ and the escape itself). An escape in the last position stands for itself.
func LikeRegexp(pattern string, escape rune, hasEscape bool) string {
	var b strings.Builder
	b.WriteString(`^(?s:`)

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case hasEscape && c == escape:
			if i+1 < len(runes) {
				i++
				c = runes[i]
			}
			b.WriteString(regexp.QuoteMeta(string(c)))
		case c == '%':
			b.WriteString(`.*`)
		case c == '_':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(`)$`)
	return b.String()
}

// CompileLike compiles pattern with an optional escape character. Only the
// first character of a present escape is used; an empty one means no escape.
func CompileLike(pattern string, escape String) *LikeMatcher {
	m := &LikeMatcher{pattern: pattern}
	if escape.Valid && escape.V != "" {
		m.escape, _ = utf8.DecodeRuneInString(escape.V)
		m.hasEsc = true
	}
	// every literal is quoted, so the expression always compiles
	m.re = regexp.MustCompile(LikeRegexp(pattern, m.escape, m.hasEsc))
	return m
}

// Match applies the pattern to s.
func (m *LikeMatcher) Match(s String) Bool {
	return lift1(s, m.re.MatchString)
}

// Regexp returns the compiled expression.
func (m *LikeMatcher) Regexp() *regexp.Regexp {
	return m.re
}

// String returns the source LIKE pattern.
func (m *LikeMatcher) String() string {
	return m.pattern
}

// Like is s LIKE pattern [ESCAPE escape]. Pattern and escape must be present;
// only an absent subject gives an absent result.
func Like(s String, pattern string, escape String) Bool {
	if !s.Valid {
		return Bool{}
	}
	return CompileLike(pattern, escape).Match(s)
}

// LikeValue is Like over tagged values, used by dynamic dispatch. An absent
// pattern gives an absent result rather than matching the empty string.
func LikeValue(s, pattern, escape value.Value) Bool {
	subj, _ := value.As[string](s)
	pat, _ := value.As[string](pattern)
	if !pat.Valid {
		return Bool{}
	}
	esc, _ := value.As[string](escape)
	return Like(subj, pat.V, esc)
}
