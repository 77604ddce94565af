package dys

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DigitMode selects how digits are recolored.
type DigitMode string

const (
	// DigitsOff leaves digits untouched.
	DigitsOff DigitMode = "none"
	// DigitsByPosition colors each digit by its distance from the
	// rightmost digit of its number, modulo three (units, tens, hundreds).
	DigitsByPosition DigitMode = "position"
	// DigitsMulticolor gives each digit value a fixed color.
	DigitsMulticolor DigitMode = "multicolor"
)

// PageFormat selects the output page size.
type PageFormat string

const (
	PageA4 PageFormat = "A4"
	PageA3 PageFormat = "A3"
)

// Options is the immutable configuration bundle consumed by Process. Build
// it once before the pipeline starts; transformation code never reads
// anything else.
type Options struct {
	// FontName and FontSize (points) applied to every run by the base
	// formatting pass. Empty name or zero size skips that part.
	FontName string `yaml:"font"`
	FontSize int    `yaml:"size"`

	// LetterSpacing widens inter-character spacing; LineSpacing sets
	// 1.5 line spacing.
	LetterSpacing bool `yaml:"letter_spacing"`
	LineSpacing   bool `yaml:"line_spacing"`

	// Syllables alternates colors across syllables; MuteLetters grays
	// silent letters. Both may be on at once.
	Syllables   bool `yaml:"syllables"`
	MuteLetters bool `yaml:"mute_letters"`

	Digits DigitMode `yaml:"digits"`

	PageFormat     PageFormat `yaml:"page_format"`
	EnlargeObjects bool       `yaml:"enlarge_objects"`

	// IncludeHeadersFooters extends the text passes into header and
	// footer parts.
	IncludeHeadersFooters bool `yaml:"headers_footers"`
}

// DefaultOptions returns the option set the desktop application shipped
// with: OpenDyslexic-friendly sizing, no recoloring until asked.
func DefaultOptions() Options {
	return Options{
		FontName:              "OpenDyslexic",
		FontSize:              14,
		Digits:                DigitsOff,
		PageFormat:            PageA4,
		IncludeHeadersFooters: true,
	}
}

// OptionsFromEnvironment overlays DYS_* environment variables onto the
// defaults.
func OptionsFromEnvironment() Options {
	opts := DefaultOptions()
	if val := os.Getenv("DYS_FONT"); val != "" {
		opts.FontName = val
	}
	if val := os.Getenv("DYS_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			opts.FontSize = size
		}
	}
	if val := os.Getenv("DYS_DIGITS"); val != "" {
		opts.Digits = DigitMode(val)
	}
	return opts
}

// LoadOptions reads a YAML options file and validates it.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options file: %w", err)
	}
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing options file %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate rejects option values the pipeline cannot honor.
func (o Options) Validate() error {
	if o.FontSize < 0 {
		return fmt.Errorf("font size must be positive, got %d", o.FontSize)
	}
	switch o.Digits {
	case "", DigitsOff, DigitsByPosition, DigitsMulticolor:
	default:
		return fmt.Errorf("unknown digit mode %q", o.Digits)
	}
	switch o.PageFormat {
	case "", PageA4, PageA3:
	default:
		return fmt.Errorf("unknown page format %q", o.PageFormat)
	}
	return nil
}

// ResolveDigits returns the effective digit mode. When both exclusive
// modes were requested upstream, multicolor wins; callers funnel that
// decision through here so it stays deterministic.
func ResolveDigits(position, multicolor bool) DigitMode {
	switch {
	case multicolor:
		return DigitsMulticolor
	case position:
		return DigitsByPosition
	default:
		return DigitsOff
	}
}
