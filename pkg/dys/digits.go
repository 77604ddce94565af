package dys

import (
	"regexp"

	"github.com/dyspositif/dyspositif/pkg/ooxml"
)

var digitGroupPattern = regexp.MustCompile(`[0-9]+`)

// DigitColors returns one color per rune of text, coloring digits under
// the given mode and leaving everything else alone. Position coloring is
// anchored on the rightmost digit of each number, so "1234" always colors
// 4 as units regardless of the digits before it.
func DigitColors(text string, mode DigitMode) []string {
	textRunes := []rune(text)
	colors := make([]string, len(textRunes))
	if mode == DigitsOff || mode == "" {
		return colors
	}

	runeAt := make(map[int]int, len(textRunes))
	byteOff := 0
	for i, r := range textRunes {
		runeAt[byteOff] = i
		byteOff += len(string(r))
	}
	runeAt[byteOff] = len(textRunes)

	for _, match := range digitGroupPattern.FindAllStringIndex(text, -1) {
		start, end := runeAt[match[0]], runeAt[match[1]]
		for i := start; i < end; i++ {
			switch mode {
			case DigitsByPosition:
				colors[i] = digitPositionColors[(end-1-i)%3]
			case DigitsMulticolor:
				colors[i] = digitValueColors[textRunes[i]]
			}
		}
	}
	return colors
}

// ColorDigits recolors the digits of a paragraph in place.
func ColorDigits(p *ooxml.Paragraph, mode DigitMode) error {
	if mode == DigitsOff || mode == "" {
		return nil
	}
	colors := DigitColors(p.PlainText(), mode)
	return Rewrite(p, AttrsFromColors(colors))
}
