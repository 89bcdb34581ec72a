package mapping

import "github.com/PixPMusic/gopher-pads/internal/notes"

// ColorRule picks the colors for a mapping
type ColorRule func(Mapping) ColorPair

// ColorSettings are the user-adjustable layout colors
type ColorSettings struct {
	// SingleColor paints black-key notes with the white-key colors and
	// every sax key with the main sax colors
	SingleColor bool

	WhiteRest    Color
	WhitePressed Color
	BlackRest    Color
	BlackPressed Color

	SaxRest        Color
	SaxPressed     Color
	SaxSideRest    Color
	SaxSidePressed Color
}

// DefaultColorSettings are the stock colors
var DefaultColorSettings = ColorSettings{
	WhiteRest:      0x00,
	WhitePressed:   0x25,
	BlackRest:      0x03,
	BlackPressed:   0x24,
	SaxRest:        0x23,
	SaxPressed:     0x27,
	SaxSideRest:    0x74,
	SaxSidePressed: 0x77,
}

// Rule returns a ColorRule: notes get piano-key colors, main-column sax keys
// the sax colors, side and control sax keys the side colors, everything
// else DefaultPair. SingleColor drops the black-key and side-key colors.
func (s ColorSettings) Rule() ColorRule {
	return func(m Mapping) ColorPair {
		switch m := m.(type) {
		case NoteAction:
			if !s.SingleColor && notes.IsBlack(m.Target) {
				return ColorPair{Rest: s.BlackRest, Pressed: s.BlackPressed}
			}
			return ColorPair{Rest: s.WhiteRest, Pressed: s.WhitePressed}
		case Fingering:
			if s.SingleColor || m.Key.IsMain() {
				return ColorPair{Rest: s.SaxRest, Pressed: s.SaxPressed}
			}
			return ColorPair{Rest: s.SaxSideRest, Pressed: s.SaxSidePressed}
		case PitchBend, Timbre:
			return DefaultPair
		}
		return DefaultPair
	}
}

// DefaultRule colors with DefaultColorSettings
func DefaultRule(m Mapping) ColorPair {
	return DefaultColorSettings.Rule()(m)
}
