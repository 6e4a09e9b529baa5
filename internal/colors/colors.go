// Package colors handles every color-string transform the client
// needs: the background opacity compositor, conversion of wire colors
// into tview tags, and validation of the tags themselves.
package colors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor reports an unparseable color representation.
// Callers treat this as non-fatal and keep the original color.
var ErrInvalidColor = errors.New("invalid color")

// SetColorAlpha composites alpha into a base color string and returns
// an "rgba(r, g, b, a)" string. The base may be hex ("#fff",
// "#ffffff", "#ffffff80" with the alpha digits ignored), a named
// color ("green"), or an existing "rgb(...)"/"rgba(...)" value whose
// alpha gets replaced.
//
// On failure the base is returned unchanged alongside ErrInvalidColor
// so callers can keep rendering with whatever they had. Alpha outside
// [0,1] is clamped.
func SetColorAlpha(base string, alpha float64) (string, error) {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	r, g, b, err := parseColor(base)
	if err != nil {
		return base, fmt.Errorf("set alpha on %q: %w", base, err)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b,
		strconv.FormatFloat(alpha, 'g', -1, 64)), nil
}

// BlendTowardBlack approximates background alpha on a terminal, which
// has no real transparency: the base color is blended toward black by
// 1-alpha. Unparseable bases fall back to the default screen color.
func BlendTowardBlack(base string, alpha float64) tcell.Color {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	r, g, b, err := parseColor(base)
	if err != nil {
		return tcell.ColorDefault
	}
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	dimmed := colorful.Color{}.BlendRgb(c, alpha)
	dr, dg, db := dimmed.RGB255()
	return tcell.NewRGBColor(int32(dr), int32(dg), int32(db))
}

// parseColor extracts 8-bit RGB components from a color string.
func parseColor(s string) (r, g, b uint8, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, ErrInvalidColor
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	if strings.HasPrefix(strings.ToLower(s), "rgb") {
		return parseRGBFunc(s)
	}

	// Named color via tcell's table ("green", "darkcyan", ...).
	if c, ok := tcell.ColorNames[strings.ToLower(s)]; ok {
		ir, ig, ib := c.TrueColor().RGB()
		return uint8(ir), uint8(ig), uint8(ib), nil
	}
	return 0, 0, 0, ErrInvalidColor
}

func parseHex(s string) (r, g, b uint8, err error) {
	hex := strings.ToLower(s[1:])
	switch len(hex) {
	case 3, 6: // colorful handles both directly
	case 4: // #rgba: drop the alpha digit
		hex = hex[:3]
	case 8: // #rrggbbaa: drop the alpha digits
		hex = hex[:6]
	default:
		return 0, 0, 0, ErrInvalidColor
	}

	c, perr := colorful.Hex("#" + hex)
	if perr != nil {
		return 0, 0, 0, ErrInvalidColor
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}

// parseRGBFunc accepts "rgb(r, g, b)" and "rgba(r, g, b, a)" forms.
// An existing alpha component is discarded; the caller supplies the
// new one.
func parseRGBFunc(s string) (r, g, b uint8, err error) {
	open := strings.IndexByte(s, '(')
	end := strings.IndexByte(s, ')')
	if open < 0 || end < open {
		return 0, 0, 0, ErrInvalidColor
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return 0, 0, 0, ErrInvalidColor
	}

	var vals [3]uint8
	for i := 0; i < 3; i++ {
		n, perr := strconv.Atoi(strings.TrimSpace(parts[i]))
		if perr != nil || n < 0 || n > 255 {
			return 0, 0, 0, ErrInvalidColor
		}
		vals[i] = uint8(n)
	}
	return vals[0], vals[1], vals[2], nil
}

// ── tview color tags ──────────────────────────────────────────────────

// ParseColorToTag converts a color value from the wire into a
// tview-compatible color tag string.
//
// Supported input formats:
//   - "#rrggbb"  → "[#rrggbb]"   (6-digit hex)
//   - "#rgb"     → "[#rrggbb]"   (3-digit shorthand, expanded)
//   - "#rgba" / "#rrggbbaa" → alpha stripped, treated as RGB
//   - "green"    → "[green]"     (named tview/tcell color)
//   - "[green]"  → "[green]"     (already a tview tag, pass through)
//   - ""         → "[white]"     (fallback)
func ParseColorToTag(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "[white]"
	}
	// Already a tview tag
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return s
	}
	// Hex color
	if strings.HasPrefix(s, "#") {
		hex := strings.ToLower(s[1:])
		switch len(hex) {
		case 3, 4: // #rgb / #rgba → #rrggbb
			hex = string([]byte{
				hex[0], hex[0],
				hex[1], hex[1],
				hex[2], hex[2],
			})
		case 6:
		case 8: // #rrggbbaa → drop alpha
			hex = hex[:6]
		default:
			return "[white]"
		}
		return "[#" + hex + "]"
	}
	// Named color — wrap in brackets
	return "[" + strings.ToLower(s) + "]"
}

var validTags = map[string]bool{
	"[red]":     true,
	"[green]":   true,
	"[yellow]":  true,
	"[blue]":    true,
	"[magenta]": true,
	"[cyan]":    true,
	"[white]":   true,
	"[black]":   true,
	"":          true,
}

// IsValidTag reports whether the tag is one of the simple named tags
// accepted from the wire.
func IsValidTag(tag string) bool {
	return validTags[tag]
}

// NormalizeTag coerces a wire color into a valid named tag, falling
// back to white for anything unrecognised.
func NormalizeTag(tag string) string {
	if tag == "" {
		return "[white]"
	}

	if !strings.HasPrefix(tag, "[") {
		tag = "[" + tag
	}
	if !strings.HasSuffix(tag, "]") {
		tag = tag + "]"
	}

	if validTags[tag] {
		return tag
	}

	return "[white]"
}
