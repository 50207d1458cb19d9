package highlight

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"grephl/internal/domain"
)

// Palettes offered to new highlight rows, by terminal background
var (
	LightPalette = []string{"yellow", "lime", "red", "aqua", "blue", "fuchsia", "silver"}
	DarkPalette  = []string{"olive", "green", "maroon", "purple", "navy", "teal", "gray"}
)

// PaletteColor picks the color for the n-th highlight row
func PaletteColor(palette []string, n int) string {
	if len(palette) == 0 {
		return domain.ColorNone
	}
	if n < 0 {
		n = -n
	}
	return palette[n%len(palette)]
}

// IsNone reports whether a color token means "don't paint"
func IsNone(color string) bool {
	c := strings.TrimSpace(color)
	return c == "" || strings.EqualFold(c, domain.ColorNone)
}

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"yellow":  "#ffff00",
	"lime":    "#00ff00",
	"red":     "#ff0000",
	"aqua":    "#00ffff",
	"cyan":    "#00ffff",
	"blue":    "#0000ff",
	"fuchsia": "#ff00ff",
	"magenta": "#ff00ff",
	"silver":  "#c0c0c0",
	"olive":   "#808000",
	"green":   "#008000",
	"maroon":  "#800000",
	"purple":  "#800080",
	"navy":    "#000080",
	"teal":    "#008080",
	"gray":    "#808080",
	"grey":    "#808080",
	"orange":  "#ffa500",
	"pink":    "#ffc0cb",
}

var (
	rgbPattern = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*[\d.]+\s*)?\)$`)
	hexPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ToHex resolves a color token to "#rrggbb". Named CSS colors, hex values
// and rgb()/rgba() forms are understood.
func ToHex(token string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if hex, ok := namedColors[t]; ok {
		return hex, true
	}
	if hexPattern.MatchString(t) {
		if len(t) == 4 {
			t = "#" + strings.Repeat(t[1:2], 2) + strings.Repeat(t[2:3], 2) + strings.Repeat(t[3:4], 2)
		}
		return t, true
	}
	if m := rgbPattern.FindStringSubmatch(t); m != nil {
		var rgb [3]int
		for i := range rgb {
			v, err := strconv.Atoi(m[i+1])
			if err != nil || v > 255 {
				return "", false
			}
			rgb[i] = v
		}
		return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]), true
	}
	return "", false
}

// isDark reports whether a "#rrggbb" color needs light text on top of it
func isDark(hex string) bool {
	if len(hex) != 7 {
		return false
	}
	r, _ := strconv.ParseUint(hex[1:3], 16, 8)
	g, _ := strconv.ParseUint(hex[3:5], 16, 8)
	b, _ := strconv.ParseUint(hex[5:7], 16, 8)
	// ITU-R BT.601 luma
	return 299*r+587*g+114*b < 128*1000
}
