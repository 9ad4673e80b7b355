package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Normalize accepts "rrggbb" or "#rrggbb" and returns the upper-case
// "#RRGGBB" form.
func Normalize(hex string) (string, bool) {
	c, ok := parse(hex)
	if !ok {
		return hex, false
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b), true
}

func parse(hex string) (colorful.Color, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return colorful.Color{}, false
	}
	for _, ch := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", ch) {
			return colorful.Color{}, false
		}
	}
	c, err := colorful.Hex("#" + strings.ToLower(s))
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

func format(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}

func clamp(v int) int { return max(0, min(255, v)) }

func channels(c colorful.Color) (int, int, int) {
	r, g, b := c.RGB255()
	return int(r), int(g), int(b)
}

// Gradient interpolates linearly in RGB from one colour to another and
// returns steps colours, both ends included. Fewer than two steps or an
// invalid colour yields just the start colour.
func Gradient(from, to string, steps int) []string {
	a, okA := parse(from)
	b, okB := parse(to)
	if steps <= 1 || !okA || !okB {
		return []string{from}
	}
	r1, g1, b1 := channels(a)
	r2, g2, b2 := channels(b)
	out := make([]string, steps)
	for i := range out {
		t := float64(i) / float64(steps-1)
		out[i] = format(
			int(math.Round(float64(r1)+float64(r2-r1)*t)),
			int(math.Round(float64(g1)+float64(g2-g1)*t)),
			int(math.Round(float64(b1)+float64(b2-b1)*t)),
		)
	}
	return out
}

// AdjustBrightness adds amount to every 8-bit channel, clamping to 0..255.
// Negative amounts darken. An invalid colour is returned unchanged.
func AdjustBrightness(hex string, amount int) string {
	c, ok := parse(hex)
	if !ok {
		return hex
	}
	r, g, b := channels(c)
	return format(r+amount, g+amount, b+amount)
}

// Harmonious returns count colours with the saturation and lightness of
// base and hues rotated in equal steps around the colour wheel, starting at
// base itself. An invalid base or count below two yields just base.
func Harmonious(base string, count int) []string {
	c, ok := parse(base)
	if !ok || count <= 1 {
		return []string{base}
	}
	h, s, l := c.Hsl()
	out := make([]string, count)
	for i := range out {
		hue := math.Mod(h+360/float64(count)*float64(i), 360)
		out[i] = format(channels(colorful.Hsl(hue, s, l).Clamped()))
	}
	return out
}

// Mix blends a towards b by t in RGB space. t=0 returns a, t=1 returns b.
// If either colour is invalid, a is returned unchanged.
func Mix(a, b string, t float64) string {
	ca, okA := parse(a)
	cb, okB := parse(b)
	if !okA || !okB {
		return a
	}
	return format(channels(ca.BlendRgb(cb, max(0, min(1, t))).Clamped()))
}

// IsLight reports whether the average of the RGB channels is above one half.
// Invalid colours count as light.
func IsLight(hex string) bool {
	c, ok := parse(hex)
	if !ok {
		return true
	}
	return (c.R+c.G+c.B)/3 > 0.5
}
