package dys

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeWord lowercases a word and strips its accents, yielding the form
// the syllable dictionary is keyed on.
func NormalizeWord(word string) string {
	stripped, _, err := transform.String(accentStripper, word)
	if err != nil {
		stripped = word
	}
	stripped = strings.ReplaceAll(stripped, "’", "'")
	return strings.ToLower(stripped)
}

var syllableVowels = map[rune]bool{
	'a': true, 'e': true, 'i': true, 'o': true, 'u': true, 'y': true,
}

// SplitSyllables cuts word into syllable segments. The curated dictionary
// is consulted first; otherwise each syllable closes on its vowel, with any
// trailing consonants attached to the last syllable.
func SplitSyllables(word string, lex *Lexicon) []string {
	wordRunes := []rune(word)
	if len(wordRunes) == 0 {
		return nil
	}

	counts := segmentCounts(wordRunes, lex)

	segments := make([]string, 0, len(counts))
	at := 0
	for _, n := range counts {
		segments = append(segments, string(wordRunes[at:at+n]))
		at += n
	}
	return segments
}

func segmentCounts(wordRunes []rune, lex *Lexicon) []int {
	normalized := NormalizeWord(string(wordRunes))
	if dict, ok := lex.Segments(normalized); ok {
		counts := make([]int, 0, len(dict))
		total := 0
		for _, seg := range dict {
			n := len([]rune(seg))
			counts = append(counts, n)
			total += n
		}
		// A dictionary split only applies when it covers the word exactly;
		// accent stripping keeps rune counts stable for French text.
		if total == len(wordRunes) {
			return counts
		}
	}
	return heuristicCounts([]rune(normalized), len(wordRunes))
}

// heuristicCounts splits on vowel boundaries. It works on the normalized
// runes but returns counts against the original length, falling back to a
// single segment when normalization changed the rune count.
func heuristicCounts(normalized []rune, originalLen int) []int {
	if len(normalized) != originalLen {
		return []int{originalLen}
	}

	var counts []int
	current := 0
	for _, r := range normalized {
		current++
		if syllableVowels[r] {
			counts = append(counts, current)
			current = 0
		}
	}
	if current > 0 {
		if len(counts) == 0 {
			return []int{originalLen}
		}
		counts[len(counts)-1] += current
	}
	return counts
}
