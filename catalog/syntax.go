package catalog

import (
	"regexp"
	"strings"
)

var syntaxWord = regexp.MustCompile(`\w+`)

// SyntaxTemplate is a compiled endpoint syntax such as
// "ftp:host:port/directoryName": named placeholders and the literal text
// around them.
type SyntaxTemplate struct {
	Scheme       string
	Placeholders []string
	// Separators[i] is the literal preceding Placeholders[i]; the first one
	// is usually empty.
	Separators []string
	Trailing   string
	// UserInfo names the options bound from the authority userinfo when the
	// alternative syntax carries one, e.g. [username password].
	UserInfo []string
}

// CompileSyntax compiles syntax, which may start with "scheme:".
func CompileSyntax(scheme, syntax string) *SyntaxTemplate {
	t := &SyntaxTemplate{Scheme: scheme}
	if i := strings.IndexByte(syntax, ':'); i >= 0 {
		syntax = syntax[i+1:]
	}
	var lit strings.Builder
	prev := 0
	for _, loc := range syntaxWord.FindAllStringIndex(syntax, -1) {
		word := syntax[loc[0]:loc[1]]
		lit.WriteString(syntax[prev:loc[0]])
		prev = loc[1]
		if word == scheme {
			lit.WriteString(word)
			continue
		}
		t.Separators = append(t.Separators, lit.String())
		t.Placeholders = append(t.Placeholders, word)
		lit.Reset()
	}
	lit.WriteString(syntax[prev:])
	t.Trailing = lit.String()
	return t
}

// userInfoNames extracts the option names bound to the userinfo of an
// alternative syntax like "ssh:username:password@host:port".
func userInfoNames(alternativeSyntax string) []string {
	if !strings.Contains(alternativeSyntax, "@") {
		return nil
	}
	s := alternativeSyntax
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimPrefix(s, "//")
	s = s[:strings.IndexByte(s, '@')]
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

// HasPlaceholder reports whether name is bound by the syntax.
func (t *SyntaxTemplate) HasPlaceholder(name string) bool {
	for _, p := range t.Placeholders {
		if p == name {
			return true
		}
	}
	return false
}

// tokens are the non-empty literals in order.
func (t *SyntaxTemplate) tokens() []string {
	out := make([]string, 0, len(t.Separators)+1)
	for _, s := range t.Separators {
		if s != "" {
			out = append(out, s)
		}
	}
	if t.Trailing != "" {
		out = append(out, t.Trailing)
	}
	return out
}

// Split cuts an endpoint path into raw segments using the literal tokens.
// Each token is searched leftmost after the previous match; a ":" token
// prefers "://". A match at the very start is ignored. skip is a prefix of
// path that must not be searched, such as the "temp:" of "temp:queue:foo".
func (t *SyntaxTemplate) Split(path, skip string) []string {
	if path == "" {
		return nil
	}
	var segs []string
	prev, cursor := 0, 0
	if skip != "" && strings.HasPrefix(path, skip) {
		cursor = len(skip)
	}
	// separators inside {{...}} placeholders do not count
	search := blankPlaceholders(path)
	for _, tok := range t.tokens() {
		idx, n := -1, 0
		if tok == ":" {
			idx, n = indexFrom(search, "://", cursor), 3
		}
		if idx == -1 {
			idx, n = indexFrom(search, tok, cursor), len(tok)
		}
		if idx > 0 {
			segs = append(segs, path[prev:idx])
			prev = idx + n
			cursor = prev
		}
	}
	if prev > 0 || len(segs) == 0 {
		segs = append(segs, path[prev:])
	}
	return segs
}

// blankPlaceholders blanks out the inside of every {{...}} keeping offsets.
func blankPlaceholders(s string) string {
	locs := placeholderPattern.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}
	b := []byte(s)
	for _, loc := range locs {
		for i := loc[0] + 2; i < loc[1]-2; i++ {
			b[i] = '_'
		}
	}
	return string(b)
}

func indexFrom(s, sub string, from int) int {
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], sub)
	if i < 0 {
		return -1
	}
	return i + from
}
