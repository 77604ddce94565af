package dys

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var lexiconData []byte

// Lexicon holds the curated word lists consulted before any generated
// rule fires. All lookups expect lowercased input; the syllables table
// additionally expects accents stripped.
type Lexicon struct {
	Words     map[string]string   `yaml:"words"`
	Terminals map[string][]string `yaml:"terminals"`
	Suffixes  map[string][]string `yaml:"suffixes"`
	Syllables map[string][]string `yaml:"syllables"`

	terminalSets map[string]map[string]bool
	suffixSets   map[string]map[string]bool
}

var (
	defaultLexicon     *Lexicon
	defaultLexiconErr  error
	defaultLexiconOnce sync.Once
)

// DefaultLexicon returns the embedded lexicon, parsed on first use.
func DefaultLexicon() (*Lexicon, error) {
	defaultLexiconOnce.Do(func() {
		defaultLexicon, defaultLexiconErr = ParseLexicon(lexiconData)
	})
	return defaultLexicon, defaultLexiconErr
}

// ParseLexicon decodes a YAML lexicon and indexes its word lists.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}
	lex.terminalSets = indexLists(lex.Terminals)
	lex.suffixSets = indexLists(lex.Suffixes)
	return &lex, nil
}

func indexLists(lists map[string][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(lists))
	for key, words := range lists {
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[strings.ToLower(w)] = true
		}
		out[key] = set
	}
	return out
}

// Override reports whether word has a curated verdict, and if so the
// silent suffix that verdict assigns (which may be empty).
func (l *Lexicon) Override(word string) (string, bool) {
	suffix, ok := l.Words[word]
	return suffix, ok
}

// TerminalException reports whether word keeps the given terminal
// letter voiced.
func (l *Lexicon) TerminalException(letter string, word string) bool {
	return l.terminalSets[letter][word]
}

// SuffixException reports whether word keeps the given suffix voiced.
func (l *Lexicon) SuffixException(suffix string, word string) bool {
	return l.suffixSets[suffix][word]
}

// Segments returns the curated syllable split for a normalized word.
func (l *Lexicon) Segments(word string) ([]string, bool) {
	segs, ok := l.Syllables[word]
	return segs, ok
}
