package dys

import (
	"strings"
	"unicode/utf8"
)

// Letters that are usually silent at the end of a French word.
var terminalMutes = map[rune]bool{
	's': true, 't': true, 'd': true, 'x': true,
	'z': true, 'p': true, 'g': true, 'b': true,
}

// MuteLetters returns the rune offsets of word that are silent. The word
// must be lowercased with accents intact.
//
// Rule order: curated lexicon verdict first, then the verb and suffix
// endings (ent, ez, ait), then a terminal e, then the usually-silent
// terminal consonants. A skipped suffix rule (exception word) does not stop
// evaluation: "vent" keeps its "ent" voiced yet still loses the final t.
// A terminal e after an accented é stays voiced ("année", "musée").
// Terminal consonants chain, so "plats" silences both s and t. An initial
// h is always silent.
func MuteLetters(word string, lex *Lexicon) []int {
	runes := []rune(word)
	if len(runes) == 0 {
		return nil
	}

	var offsets []int
	if runes[0] == 'h' && len(runes) > 1 {
		offsets = append(offsets, 0)
	}

	suffix := muteSuffixLen(runes, lex)
	for i := len(runes) - suffix; i < len(runes); i++ {
		if len(offsets) > 0 && offsets[0] == i {
			continue
		}
		offsets = append(offsets, i)
	}
	return offsets
}

// muteSuffixLen returns how many trailing runes of word are silent.
func muteSuffixLen(runes []rune, lex *Lexicon) int {
	word := string(runes)
	if override, ok := lex.Override(word); ok {
		return utf8.RuneCountInString(override)
	}

	n := len(runes)
	suffixes := []struct {
		text string
		min  int
	}{
		{"ent", 4},
		{"ez", 3},
		{"ait", 4},
	}
	for _, s := range suffixes {
		if n < s.min || !strings.HasSuffix(word, s.text) {
			continue
		}
		if !lex.SuffixException(s.text, word) {
			return len(s.text)
		}
		// The suffix is voiced but its final consonant can still be
		// silent on its own ("vent" keeps en, loses t).
		return terminalOnly(runes, lex)
	}

	last := runes[n-1]
	if last == 'e' && n > 1 && runes[n-2] != 'é' && !lex.TerminalException("e", word) {
		return 1
	}
	if terminalMutes[last] && n > 1 && !lex.TerminalException(string(last), word) {
		// The remaining word is re-evaluated so plurals of mute-final
		// words silence their whole ending.
		return 1 + muteSuffixLen(runes[:n-1], lex)
	}
	return 0
}

// terminalOnly silences at most the final consonant, without chaining.
func terminalOnly(runes []rune, lex *Lexicon) int {
	last := runes[len(runes)-1]
	if terminalMutes[last] && !lex.TerminalException(string(last), string(runes)) {
		return 1
	}
	return 0
}
