// Package colors parses the color literal forms accepted by QML: SVG color
// names, "transparent", and #rgb, #rrggbb, #aarrggbb, #rrrgggbbb and
// #rrrrggggbbbb hex strings.
package colors

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Parse converts a literal into a Color. The second result is false when the
// text is not a recognised color. Surrounding whitespace is not accepted.
func Parse(s string) (Color, bool) {
	if s == "" {
		return Color{}, false
	}
	if s[0] == '#' {
		return parseHex(s)
	}
	name := strings.ToLower(s)
	if name == "transparent" {
		return Color{}, true
	}
	if c, ok := colornames.Map[name]; ok {
		return fromRGBA(c), true
	}
	return Color{}, false
}

func parseHex(s string) (Color, bool) {
	alpha := uint8(0xff)
	switch len(s) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(s[1:3], 16, 8)
		if err != nil {
			return Color{}, false
		}
		alpha = uint8(a)
		s = "#" + s[3:]
	case 10, 13:
		return parseWide(s[1:], (len(s)-1)/3)
	default:
		return Color{}, false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, false
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, true
}

// parseWide reads three channels of n hex digits each and scales them down
// to 8 bits with rounding.
func parseWide(digits string, n int) (Color, bool) {
	full := uint64(1)<<(4*n) - 1
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(digits[i*n:(i+1)*n], 16, 16)
		if err != nil {
			return Color{}, false
		}
		ch[i] = uint8((v*255 + full/2) / full)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: 0xff}, true
}

func fromRGBA(c color.RGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Hex renders #rrggbb for opaque colors and #aarrggbb otherwise.
func (c Color) Hex() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

// RGBA returns the color as a standard library color value.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (c Color) String() string {
	return c.Hex()
}
