package dys

// Colors are RRGGBB hex strings as stored in w:color. The palette follows
// the reference material handed out to the schools the tool was built for.
const (
	// Alternating syllable colors.
	ColorSyllableA = "DC143C" // crimson
	ColorSyllableB = "1E90FF" // dodger blue

	// Silent letters render in a muted gray that still prints legibly.
	ColorMute = "B4B4B4"
)

// syllableColors is indexed by syllable counter parity.
var syllableColors = [2]string{ColorSyllableA, ColorSyllableB}

// digitPositionColors is indexed by distance from the rightmost digit of a
// number, modulo 3: units, tens, hundreds, then repeating.
var digitPositionColors = [3]string{"1E90FF", "DC143C", "008000"}

// digitValueColors gives every digit value a fixed color regardless of
// position (multicolor mode).
var digitValueColors = map[rune]string{
	'0': "646464",
	'1': "C8C8C8",
	'2': "DC143C",
	'3': "90EE90",
	'4': "9400D3",
	'5': "FFD700",
	'6': "00008B",
	'7': "000000",
	'8': "8B4513",
	'9': "ADD8E6",
}
