// Package keywords implements the token and phrase matching shared by the
// fallback rule table and the action deriver.
package keywords

import (
	"strings"
	"unicode"
)

// minInflectedLen is the shortest keyword that also matches its plural
// ("project" matches "projects"); shorter keywords such as "hi" match exactly.
const minInflectedLen = 4

// Text is a lower-cased, tokenized view of a string.
type Text struct {
	tokens []string
	set    map[string]struct{}
}

// Parse lower-cases s and splits it into tokens. Dotted tokens such as
// "pani.mr" are kept whole and also contribute their parts.
func Parse(s string) Text {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '+' || r == '#')
	})

	t := Text{
		tokens: make([]string, 0, len(fields)),
		set:    make(map[string]struct{}, len(fields)),
	}
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if f == "" {
			continue
		}
		t.add(f)
		if strings.Contains(f, ".") {
			for _, part := range strings.Split(f, ".") {
				if part != "" {
					t.set[part] = struct{}{}
				}
			}
		}
	}
	return t
}

func (t *Text) add(token string) {
	t.tokens = append(t.tokens, token)
	t.set[token] = struct{}{}
}

// Tokens returns the ordered tokens of the text.
func (t Text) Tokens() []string {
	out := make([]string, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Empty reports whether the text has no tokens.
func (t Text) Empty() bool {
	return len(t.tokens) == 0
}

// Has reports whether keyword occurs in the text. Multi-word keywords must
// appear as a contiguous phrase.
func (t Text) Has(keyword string) bool {
	kw := Parse(keyword)
	switch len(kw.tokens) {
	case 0:
		return false
	case 1:
		return t.hasToken(kw.tokens[0])
	default:
		return t.hasPhrase(kw.tokens)
	}
}

// HasAny reports whether at least one of the keywords occurs in the text.
func (t Text) HasAny(keywords ...string) bool {
	for _, kw := range keywords {
		if t.Has(kw) {
			return true
		}
	}
	return false
}

func (t Text) hasToken(kw string) bool {
	if _, ok := t.set[kw]; ok {
		return true
	}
	if len(kw) < minInflectedLen {
		return false
	}
	if _, ok := t.set[kw+"s"]; ok {
		return true
	}
	_, ok := t.set[kw+"es"]
	return ok
}

func (t Text) hasPhrase(phrase []string) bool {
	n := len(phrase)
	for i := 0; i+n <= len(t.tokens); i++ {
		match := true
		for j := 0; j < n; j++ {
			if t.tokens[i+j] != phrase[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
