package service

import (
	"regexp"
	"strings"
)

// tagPattern matches a word with an optional leading hash. The extra range
// covers extended Latin letters (é, ü, ñ, ...), so accented tags survive
// normalization.
var tagPattern = regexp.MustCompile(`#?[\w\x{00C0}-\x{017F}]+`)

// NormalizeTags canonicalizes free-text tag input: extracts tag tokens,
// prefixes each with "#" if absent, drops duplicates keeping first-occurrence
// order and joins with single spaces. Empty input yields "".
// "foo #foo bar" becomes "#foo #bar".
func NormalizeTags(raw string) string {
	tokens := tagPattern.FindAllString(raw, -1)
	if len(tokens) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "#") {
			tok = "#" + tok
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}
