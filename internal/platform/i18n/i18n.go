// Package i18n defines the languages the landing site can be rendered in.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

var (
	supportedTags = []language.Tag{
		language.AmericanEnglish,
		language.MustParse("fr-FR"),
	}
	matcher = language.NewMatcher(supportedTags)
)

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	out := make([]language.Tag, len(supportedTags))
	copy(out, supportedTags)
	return out
}

// DefaultTag returns the language used when nothing better matches.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// ParseTag parses a user supplied tag and maps it onto a supported tag.
// The bool is false when the value is malformed or matches nothing supported.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTag(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return DefaultTag(), false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultTag(), false
	}
	return supportedTags[index], true
}

// MatchTags picks the best supported tag for a preference-ordered list, such
// as a parsed Accept-Language header.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}
