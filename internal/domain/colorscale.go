package domain

// PaletteViridis is the default palette: Viridis stops ordered from
// light to dark, so the strongest tally gets the darkest color.
var PaletteViridis = []string{
	"#fde725", "#d2e21b", "#a5db36", "#7ad151",
	"#54c568", "#35b779", "#22a884", "#1f988b",
	"#23888e", "#2a788e", "#31688e", "#39568c",
	"#414487", "#472f7d", "#481a6c", "#440154",
}

// NoDataColor fills regions whose active vote count is null.
const NoDataColor = "#d9d9d9"

// ColorScale maps a vote count onto a fixed ordered palette. Low and
// High follow the active candidate; Flat marks the all-null fallback
// where every region gets the first palette color.
type ColorScale struct {
	Palette []string
	Low     float64
	High    float64
	Flat    bool
}

// NewColorScale builds a scale over the given bounds. A nil palette
// falls back to PaletteViridis.
func NewColorScale(palette []string, low, high int64) ColorScale {
	if len(palette) == 0 {
		palette = PaletteViridis
	}
	return ColorScale{Palette: palette, Low: float64(low), High: float64(high)}
}

// NewFlatScale is the degraded single-color scale used when every value
// is null for the active candidate.
func NewFlatScale(palette []string) ColorScale {
	if len(palette) == 0 {
		palette = PaletteViridis
	}
	return ColorScale{Palette: palette, Flat: true}
}

// ColorFor maps a vote count linearly onto the palette.
func (s ColorScale) ColorFor(votes int64) string {
	if s.Flat || s.High <= s.Low {
		return s.Palette[0]
	}
	pos := (float64(votes) - s.Low) / (s.High - s.Low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	idx := int(pos * float64(len(s.Palette)-1))
	return s.Palette[idx]
}

// Contains reports whether a value sits inside the scale bounds.
func (s ColorScale) Contains(votes int64) bool {
	if s.Flat {
		return false
	}
	v := float64(votes)
	return v >= s.Low && v <= s.High
}
