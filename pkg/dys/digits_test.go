package dys

import (
	"testing"
)

func TestDigitColorsByPosition(t *testing.T) {
	colors := DigitColors("1234", DigitsByPosition)
	// Position is anchored on the rightmost digit: 4 units, 3 tens,
	// 2 hundreds, 1 cycles back to units.
	want := []string{
		digitPositionColors[0],
		digitPositionColors[2],
		digitPositionColors[1],
		digitPositionColors[0],
	}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("digit %d: color %q, want %q", i, colors[i], want[i])
		}
	}
}

func TestDigitColorsLeavesTextAlone(t *testing.T) {
	colors := DigitColors("page 42 et 7", DigitsByPosition)
	for i, c := range colors {
		r := []rune("page 42 et 7")[i]
		if r >= '0' && r <= '9' {
			if c == "" {
				t.Errorf("digit %q left uncolored", string(r))
			}
		} else if c != "" {
			t.Errorf("non-digit %q colored %q", string(r), c)
		}
	}
}

func TestDigitColorsMulticolor(t *testing.T) {
	colors := DigitColors("07", DigitsMulticolor)
	if colors[0] != digitValueColors['0'] {
		t.Errorf("0 colored %q, want %q", colors[0], digitValueColors['0'])
	}
	if colors[1] != digitValueColors['7'] {
		t.Errorf("7 colored %q, want %q", colors[1], digitValueColors['7'])
	}
}

func TestDigitColorsDeterministic(t *testing.T) {
	first := DigitColors("12 34 567", DigitsByPosition)
	second := DigitColors("12 34 567", DigitsByPosition)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("digit coloring is not deterministic at rune %d", i)
		}
	}
}

func TestDigitColorsOff(t *testing.T) {
	for _, c := range DigitColors("1234", DigitsOff) {
		if c != "" {
			t.Fatal("DigitsOff should color nothing")
		}
	}
}

func TestColorDigitsRewritesParagraph(t *testing.T) {
	para := parseParagraph(t, `<w:p><w:r><w:t>an 2024</w:t></w:r></w:p>`)
	if err := ColorDigits(para, DigitsByPosition); err != nil {
		t.Fatalf("ColorDigits() error: %v", err)
	}

	if para.PlainText() != "an 2024" {
		t.Errorf("PlainText() = %q", para.PlainText())
	}
	runs := para.Runs()
	// "an " keeps one run, then one run per position color change.
	if len(runs) < 4 {
		t.Fatalf("expected digits split into colored runs, got %d runs", len(runs))
	}
	if runs[0].Properties != nil && runs[0].Properties.Color != nil {
		t.Error("letter run should not gain a color")
	}
}

func TestResolveDigits(t *testing.T) {
	tests := []struct {
		position, multicolor bool
		want                 DigitMode
	}{
		{false, false, DigitsOff},
		{true, false, DigitsByPosition},
		{false, true, DigitsMulticolor},
		{true, true, DigitsMulticolor},
	}
	for _, tt := range tests {
		if got := ResolveDigits(tt.position, tt.multicolor); got != tt.want {
			t.Errorf("ResolveDigits(%v, %v) = %q, want %q", tt.position, tt.multicolor, got, tt.want)
		}
	}
}
