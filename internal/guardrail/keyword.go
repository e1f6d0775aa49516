package guardrail

import (
	"strings"
)

// KeywordFilter is the first guardrail layer: case-insensitive substring
// containment of any configured keyword. Purely local, no external calls.
type KeywordFilter struct {
	keywords []string
}

func NewKeywordFilter(keywords []string) *KeywordFilter {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lowered = append(lowered, strings.ToLower(kw))
	}

	return &KeywordFilter{keywords: lowered}
}

// Match returns the first configured keyword contained in the text, or
// ("", false) when none matches.
func (f *KeywordFilter) Match(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, kw := range f.keywords {
		if strings.Contains(lowered, kw) {
			return kw, true
		}
	}
	return "", false
}
