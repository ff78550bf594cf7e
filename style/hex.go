package style

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// HexRGB parses a "#rgb" or "#rrggbb" color into 8-bit RGB components.
func HexRGB(hex string) ([3]uint8, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]uint8{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}

	r, g, b := c.RGB255()

	return [3]uint8{r, g, b}, nil
}

// HexRGBNormalized parses a "#rgb" or "#rrggbb" color into RGB components in
// the range [0, 1].
func HexRGBNormalized(hex string) ([3]float64, error) {
	rgb, err := HexRGB(hex)
	if err != nil {
		return [3]float64{}, err
	}

	return [3]float64{
		float64(rgb[0]) / 255,
		float64(rgb[1]) / 255,
		float64(rgb[2]) / 255,
	}, nil
}
