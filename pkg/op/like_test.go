package op

import (
	"testing"

	"github.com/leapstack-labs/leapsp/pkg/value"
	"github.com/stretchr/testify/assert"
)

func TestLike(t *testing.T) {
	noEsc := String{}
	bang := value.Some("!")

	tests := []struct {
		name    string
		subject string
		pattern string
		escape  String
		want    bool
	}{
		{name: "percent and underscore", subject: "aXXXbYc", pattern: "a%b_c", escape: noEsc, want: true},
		{name: "percent may match empty", subject: "abYc", pattern: "a%b_c", escape: noEsc, want: true},
		{name: "underscore needs one char", subject: "abc", pattern: "a%b_c", escape: noEsc, want: false},
		{name: "percent matches empty", subject: "abc", pattern: "a%bc", escape: noEsc, want: true},
		{name: "exact", subject: "abc", pattern: "abc", escape: noEsc, want: true},
		{name: "anchored", subject: "xabc", pattern: "abc", escape: noEsc, want: false},
		{name: "regex metachars are literal", subject: "a.c", pattern: "a.c", escape: noEsc, want: true},
		{name: "dot is not a wildcard", subject: "abc", pattern: "a.c", escape: noEsc, want: false},
		{name: "escaped percent", subject: "100%", pattern: "100!%", escape: bang, want: true},
		{name: "escaped percent is literal", subject: "1000", pattern: "100!%", escape: bang, want: false},
		{name: "escaped underscore", subject: "a_b", pattern: "a!_b", escape: bang, want: true},
		{name: "escaped escape", subject: "a!b", pattern: "a!!b", escape: bang, want: true},
		{name: "trailing escape is literal", subject: "ab!", pattern: "ab!", escape: bang, want: true},
		{name: "empty escape means none", subject: "100x", pattern: "100%", escape: value.Some(""), want: true},
		{name: "only first escape char is used", subject: "5%", pattern: "5!%", escape: value.Some("!?"), want: true},
		{name: "percent spans newlines", subject: "a\nb", pattern: "a%b", escape: noEsc, want: true},
		{name: "underscore matches newline", subject: "a\nb", pattern: "a_b", escape: noEsc, want: true},
		{name: "multibyte underscore", subject: "héllo", pattern: "h_llo", escape: noEsc, want: true},
		{name: "empty pattern", subject: "", pattern: "", escape: noEsc, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Like(value.Some(tt.subject), tt.pattern, tt.escape)
			assert.Equal(t, value.Some(tt.want), got)
		})
	}
}

func TestLike_AbsentSubject(t *testing.T) {
	assert.Equal(t, Bool{}, Like(String{}, "%", String{}))
}

func TestLikeRegexp(t *testing.T) {
	assert.Equal(t, `^(?s:a.*b.)$`, LikeRegexp("a%b_", 0, false))
	assert.Equal(t, `^(?s:100%)$`, LikeRegexp("100!%", '!', true))
	assert.Equal(t, `^(?s:a\+b)$`, LikeRegexp("a+b", 0, false))
}

func TestCompileLike(t *testing.T) {
	m := CompileLike("x%", String{})
	assert.Equal(t, "x%", m.String())
	assert.Equal(t, value.Some(true), m.Match(value.Some("xyz")))
	assert.Equal(t, value.Some(false), m.Match(value.Some("yz")))
	assert.True(t, m.Regexp().MatchString("x"))
}

func TestLikeValue(t *testing.T) {
	got := LikeValue(value.NewString("100%"), value.NewString("100!%"), value.NewString("!"))
	assert.Equal(t, value.Some(true), got)

	got = LikeValue(value.Null, value.NewString("%"), value.Null)
	assert.Equal(t, Bool{}, got)
}
