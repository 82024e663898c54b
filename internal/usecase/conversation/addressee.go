package conversation

import (
	"regexp"
	"strings"
)

// AddresseeExtractor decides whether an utterance addresses a specific persona
// by name. Kept behind an interface so the matching strategy can be swapped
// without touching the selector.
type AddresseeExtractor interface {
	ExtractAddressee(text string) (name string, ok bool)
}

// regexAddresseeExtractor matches the common direct-address shapes of spoken
// English ("Sarah, what do you think?", "I want to ask John...").
type regexAddresseeExtractor struct {
	patterns []*regexp.Regexp
}

// NewRegexAddresseeExtractor creates the default pattern-based extractor
func NewRegexAddresseeExtractor() AddresseeExtractor {
	return &regexAddresseeExtractor{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`^([A-Z][a-z]+),`),
			regexp.MustCompile(`(?i:what do you think|your thoughts),?\s+([A-Z][a-z]+)\??`),
			regexp.MustCompile(`I\s+(?:want to\s+)?ask\s+([A-Z][a-z]+)`),
			regexp.MustCompile(`(?:Hey|Hi)\s+([A-Z][a-z]+)`),
		},
	}
}

// ExtractAddressee returns the first name an utterance addresses, if any
func (e *regexAddresseeExtractor) ExtractAddressee(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	for _, p := range e.patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}
