// Package imgcell renders a decoded image as terminal text, two pixel rows
// per text line using half-block runes. It exists so a QR code received as
// PNG bytes can be shown on a headless host without a graphical viewer.
package imgcell

import (
	"bytes"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

const lumaThreshold = 0x7fff

// Render decodes img (PNG or JPEG bytes) and writes a half-block rendering
// to w. maxWidth caps the output width in cells; zero means 80. invert
// swaps dark and light, for terminals with dark backgrounds where scanners
// expect dark modules on a light field.
func Render(w io.Writer, img []byte, maxWidth int, invert bool) error {
	decoded, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return err
	}

	if maxWidth <= 0 {
		maxWidth = 80
	}

	bounds := decoded.Bounds()
	step := 1
	if bounds.Dx() > maxWidth {
		step = (bounds.Dx() + maxWidth - 1) / maxWidth
	}

	var buf bytes.Buffer
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 * step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			top := dark(decoded.At(x, y)) != invert
			bottom := false
			if y+step < bounds.Max.Y {
				bottom = dark(decoded.At(x, y+step)) != invert
			}

			switch {
			case top && bottom:
				buf.WriteRune('█')
			case top:
				buf.WriteRune('▀')
			case bottom:
				buf.WriteRune('▄')
			default:
				buf.WriteByte(' ')
			}
		}
		buf.WriteByte('\n')
	}

	_, err = w.Write(buf.Bytes())
	return err
}

func dark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	// ITU-R BT.601 luma weights.
	luma := (299*r + 587*g + 114*b) / 1000
	return luma < lumaThreshold
}
