package dys

import (
	"unicode"
	"unicode/utf8"
)

// NameTagger spots words that are likely proper names so the engine leaves
// them alone.
type NameTagger interface {
	IsProperName(word string, sentenceInitial bool) bool
}

// CapitalizationTagger is the default NameTagger: a capitalized word counts
// as a name unless it opens a sentence, where French capitalizes everything.
type CapitalizationTagger struct{}

// IsProperName reports whether word should be skipped as a name.
func (CapitalizationTagger) IsProperName(word string, sentenceInitial bool) bool {
	if sentenceInitial {
		return false
	}
	first, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(first)
}
