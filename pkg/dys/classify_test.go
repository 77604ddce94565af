package dys

import (
	"testing"
)

func newTestClassifier(t *testing.T, syllables, mute bool) *Classifier {
	t.Helper()
	return NewClassifier(testLexicon(t), Options{Syllables: syllables, MuteLetters: mute})
}

func TestClassifierSyllableAlternation(t *testing.T) {
	c := newTestClassifier(t, true, false)

	colors := c.Colors("chocolat")
	want := []string{
		ColorSyllableA, ColorSyllableA, ColorSyllableA, // cho
		ColorSyllableB, ColorSyllableB, // co
		ColorSyllableA, ColorSyllableA, ColorSyllableA, // lat
	}
	if len(colors) != len(want) {
		t.Fatalf("got %d colors, want %d", len(colors), len(want))
	}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("rune %d: color %q, want %q", i, colors[i], want[i])
		}
	}
}

func TestClassifierAlternationContinuesAcrossWords(t *testing.T) {
	c := newTestClassifier(t, true, false)

	colors := c.Colors("papa ami")
	// pa-pa uses A,B; the space is untouched; a-mi continues with A,B.
	if colors[4] != "" {
		t.Errorf("space should stay uncolored, got %q", colors[4])
	}
	if colors[5] != ColorSyllableA || colors[6] != ColorSyllableB {
		t.Errorf("second word should continue the alternation, got %q %q", colors[5], colors[6])
	}
}

func TestClassifierResetsBetweenParagraphs(t *testing.T) {
	c := newTestClassifier(t, true, false)

	first := c.Colors("papa")
	c.Reset()
	second := c.Colors("papa")
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("classification is not deterministic after Reset: %v vs %v", first, second)
		}
	}
}

func TestClassifierMuteOverridesSyllableColor(t *testing.T) {
	c := newTestClassifier(t, true, true)

	colors := c.Colors("vent")
	// "vent" is one syllable with a silent t.
	for i := 0; i < 3; i++ {
		if colors[i] != ColorSyllableA {
			t.Errorf("rune %d: color %q, want syllable color", i, colors[i])
		}
	}
	if colors[3] != ColorMute {
		t.Errorf("silent t colored %q, want %q", colors[3], ColorMute)
	}
}

func TestClassifierCombinedPriority(t *testing.T) {
	c := newTestClassifier(t, true, true)

	// ab-so-lu-ment with a silent ent: the gray always wins over the
	// alternating color on exactly the silent span.
	colors := c.Colors("absolument")
	for i := 7; i < 10; i++ {
		if colors[i] != ColorMute {
			t.Errorf("rune %d colored %q, want %q", i, colors[i], ColorMute)
		}
	}
	if colors[0] != ColorSyllableA || colors[2] != ColorSyllableB {
		t.Errorf("syllable colors = %q %q", colors[0], colors[2])
	}
	if colors[6] != ColorSyllableB {
		t.Errorf("voiced m of ment colored %q, want %q", colors[6], ColorSyllableB)
	}
}

func TestClassifierMuteOnly(t *testing.T) {
	c := newTestClassifier(t, false, true)

	colors := c.Colors("les plats")
	// "les": s silent (e voiced? no: terminal e chain) -> l=0 e=1 s=2
	if colors[0] != "" {
		t.Errorf("l should stay uncolored, got %q", colors[0])
	}
	// "plats": both s and t are silent.
	if colors[7] != ColorMute || colors[8] != ColorMute {
		t.Errorf("plats ending colored %v, want mute", colors[7:9])
	}
}

func TestClassifierSkipsProperNames(t *testing.T) {
	c := newTestClassifier(t, true, true)

	colors := c.Colors("Il visite Paris demain")
	text := []rune("Il visite Paris demain")

	// Sentence-initial "Il" is treated as a normal word.
	if colors[0] == "" {
		t.Error("sentence-initial word should be colored")
	}
	// "Paris" mid-sentence is a proper name, left alone.
	for i := 10; i < 15; i++ {
		if colors[i] != "" {
			t.Errorf("proper name rune %q colored %q", string(text[i]), colors[i])
		}
	}
	// The word after it is processed again.
	if colors[16] == "" {
		t.Error("word after a proper name should be colored")
	}
}

func TestClassifierDigitsUntouched(t *testing.T) {
	c := newTestClassifier(t, true, true)

	colors := c.Colors("page 42")
	if colors[5] != "" || colors[6] != "" {
		t.Errorf("digits should be left to the digit pass, got %q %q", colors[5], colors[6])
	}
}

func TestClassify(t *testing.T) {
	lex := testLexicon(t)

	tests := []struct {
		word       string
		wantSilent []int
		wantBreaks []int
	}{
		{"chocolat", []int{7}, []int{3, 5}},
		{"vent", []int{3}, nil},
		{"plats", []int{3, 4}, nil},
		{"", nil, nil},
	}
	for _, tt := range tests {
		got := Classify(tt.word, lex)
		if !equalInts(got.SilentOffsets, tt.wantSilent) {
			t.Errorf("Classify(%q).SilentOffsets = %v, want %v", tt.word, got.SilentOffsets, tt.wantSilent)
		}
		if !equalInts(got.SyllableBreaks, tt.wantBreaks) {
			t.Errorf("Classify(%q).SyllableBreaks = %v, want %v", tt.word, got.SyllableBreaks, tt.wantBreaks)
		}
	}
}

func TestCapitalizationTagger(t *testing.T) {
	tagger := CapitalizationTagger{}

	tests := []struct {
		word            string
		sentenceInitial bool
		want            bool
	}{
		{"Paris", false, true},
		{"Paris", true, false},
		{"chat", false, false},
		{"École", false, true},
	}
	for _, tt := range tests {
		if got := tagger.IsProperName(tt.word, tt.sentenceInitial); got != tt.want {
			t.Errorf("IsProperName(%q, %v) = %v, want %v", tt.word, tt.sentenceInitial, got, tt.want)
		}
	}
}

// tagEverything marks every word as a proper name.
type tagEverything struct{}

func (tagEverything) IsProperName(string, bool) bool { return true }

func TestClassifierCustomTagger(t *testing.T) {
	c := newTestClassifier(t, true, true)
	c.SetTagger(tagEverything{})

	for i, color := range c.Colors("le chat mange") {
		if color != "" {
			t.Errorf("rune %d colored %q with an all-names tagger", i, color)
		}
	}

	// A nil tagger is ignored, the previous one stays in place.
	c.SetTagger(nil)
	for i, color := range c.Colors("le chat mange") {
		if color != "" {
			t.Errorf("rune %d colored %q after SetTagger(nil)", i, color)
		}
	}
}
