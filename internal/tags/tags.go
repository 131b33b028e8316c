// Package tags extracts hashtags, content keywords and @mentions from
// free-form post and comment text.
package tags

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Short english stopword list; keywords matching these never become tags.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "any": {}, "can": {}, "had": {}, "her": {},
	"was": {}, "one": {}, "our": {}, "out": {}, "has": {}, "him": {},
	"his": {}, "how": {}, "its": {}, "may": {}, "new": {}, "now": {},
	"old": {}, "see": {}, "two": {}, "way": {}, "who": {}, "did": {},
	"get": {}, "let": {}, "say": {}, "she": {}, "too": {}, "use": {},
	"this": {}, "that": {}, "with": {}, "from": {}, "they": {}, "will": {},
	"have": {}, "been": {}, "were": {}, "what": {}, "when": {}, "your": {},
	"there": {}, "their": {}, "which": {}, "about": {}, "would": {},
	"these": {}, "other": {}, "into": {}, "more": {}, "some": {}, "them": {},
	"then": {}, "than": {}, "just": {}, "also": {}, "very": {}, "over": {},
	"such": {}, "only": {}, "most": {}, "like": {}, "because": {},
}

// Extract returns the deduplicated tag set for a piece of content: explicit
// #hashtags first, then remaining keywords longer than two characters that
// are not stopwords. All tags are lowercased.
func Extract(content string) []string {
	if content == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(tag string) {
		if _, ok := seen[tag]; !ok {
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}

	for _, w := range strings.Fields(content) {
		if strings.HasPrefix(w, "#") {
			if tag := normalize(w[1:]); tag != "" {
				add(tag)
			}
		}
	}

	for _, w := range strings.Fields(content) {
		if strings.HasPrefix(w, "#") || strings.HasPrefix(w, "@") {
			continue
		}
		word := normalize(w)
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		add(word)
	}

	return out
}

// Mentions returns the deduplicated usernames referenced as @name tokens,
// in original casing stripped of punctuation.
func Mentions(content string) []string {
	if content == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, w := range strings.Fields(content) {
		if !strings.HasPrefix(w, "@") {
			continue
		}
		name := trimWord(w[1:])
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func normalize(w string) string {
	return strings.ToLower(trimWord(w))
}

// trimWord keeps the leading run of letters, digits and underscores.
func trimWord(w string) string {
	end := 0
	for _, r := range w {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		end += len(string(r))
	}
	return w[:end]
}
