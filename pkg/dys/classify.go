package dys

import (
	"regexp"
	"strings"
	"unicode"
)

// wordPattern matches a French word: letters, possibly joined by
// apostrophes, never ending on one. Hyphens separate words.
var wordPattern = regexp.MustCompile(`[\p{L}](?:[\p{L}'’]*[\p{L}])?`)

// Classification is the complete per-word verdict: rune offsets of silent
// letters and the rune offset where each syllable after the first begins.
type Classification struct {
	SilentOffsets  []int
	SyllableBreaks []int
}

// Classify evaluates both rule families over one word. Total: an empty word
// yields the zero value and no word ever produces an error.
func Classify(word string, lex *Lexicon) Classification {
	if word == "" {
		return Classification{}
	}
	lower := strings.ToLower(word)

	var cl Classification
	cl.SilentOffsets = MuteLetters(lower, lex)
	at := 0
	for _, seg := range SplitSyllables(lower, lex) {
		if at > 0 {
			cl.SyllableBreaks = append(cl.SyllableBreaks, at)
		}
		at += len([]rune(seg))
	}
	return cl
}

// Classifier assigns colors to the runes of paragraph text. Syllable colors
// alternate across words; the alternation restarts for every paragraph so a
// document processed twice comes out identical.
type Classifier struct {
	lex       *Lexicon
	tagger    NameTagger
	syllables bool
	mute      bool
	parity    int
}

// NewClassifier builds a classifier for the enabled text treatments, using
// the capitalization heuristic to spot proper names.
func NewClassifier(lex *Lexicon, opts Options) *Classifier {
	return &Classifier{
		lex:       lex,
		tagger:    CapitalizationTagger{},
		syllables: opts.Syllables,
		mute:      opts.MuteLetters,
	}
}

// SetTagger replaces the proper-name tagger. A nil tagger is ignored.
func (c *Classifier) SetTagger(t NameTagger) {
	if t != nil {
		c.tagger = t
	}
}

// Active reports whether any text treatment is enabled.
func (c *Classifier) Active() bool {
	return c.syllables || c.mute
}

// Reset restarts the syllable color alternation. Called once per paragraph.
func (c *Classifier) Reset() {
	c.parity = 0
}

// Colors returns one color per rune of text. An empty string leaves the
// rune's existing formatting untouched.
func (c *Classifier) Colors(text string) []string {
	textRunes := []rune(text)
	colors := make([]string, len(textRunes))

	// Map byte offsets from the regexp back to rune offsets.
	runeAt := make(map[int]int, len(textRunes))
	byteOff := 0
	for i, r := range textRunes {
		runeAt[byteOff] = i
		byteOff += len(string(r))
	}
	runeAt[byteOff] = len(textRunes)

	for _, match := range wordPattern.FindAllStringIndex(text, -1) {
		start, end := runeAt[match[0]], runeAt[match[1]]
		word := string(textRunes[start:end])
		c.colorWord(word, colors[start:end], sentenceInitial(textRunes, start))
	}
	return colors
}

// colorWord fills colors for a single word. A word the rules cannot handle
// is logged and left uncolored rather than failing the paragraph.
func (c *Classifier) colorWord(word string, colors []string, sentenceInitial bool) {
	defer func() {
		if r := recover(); r != nil {
			GetLogger().WithField("word", word).WithField("error", r).Warn("word classification failed, leaving word untouched")
			for i := range colors {
				colors[i] = ""
			}
		}
	}()

	if c.tagger.IsProperName(word, sentenceInitial) {
		return
	}

	lower := strings.ToLower(word)

	muted := make(map[int]bool)
	if c.mute {
		for _, off := range MuteLetters(lower, c.lex) {
			muted[off] = true
		}
	}

	if c.syllables {
		at := 0
		for _, seg := range SplitSyllables(lower, c.lex) {
			color := syllableColors[c.parity%2]
			c.parity++
			for range seg {
				if muted[at] {
					colors[at] = ColorMute
				} else {
					colors[at] = color
				}
				at++
			}
		}
		return
	}

	for off := range muted {
		colors[off] = ColorMute
	}
}

// sentenceInitial reports whether the word starting at runeStart opens a
// sentence: paragraph start, or only spaces and opening punctuation since
// the last sentence terminator.
func sentenceInitial(textRunes []rune, runeStart int) bool {
	for i := runeStart - 1; i >= 0; i-- {
		r := textRunes[i]
		if unicode.IsSpace(r) || strings.ContainsRune(`«"'(-—`, r) {
			continue
		}
		return strings.ContainsRune(".!?…:", r)
	}
	return true
}
