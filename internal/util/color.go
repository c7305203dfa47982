package util

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/scheerer/indicator-lights/lights"
)

// RGBToHSB converts c to hue, saturation and brightness, each scaled to
// the full uint16 range.
func RGBToHSB(c lights.Color) (hue, saturation, brightness uint16) {
	r := float64(c.Red) / 255
	g := float64(c.Green) / 255
	b := float64(c.Blue) / 255

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	delta := hi - lo

	var h, s float64
	if delta > 0 {
		s = delta / hi
		switch hi {
		case r:
			h = (g - b) / delta
		case g:
			h = 2 + (b-r)/delta
		default:
			h = 4 + (r-g)/delta
		}
		h /= 6
		if h < 0 {
			h++
		}
	}

	return toUint16(h), toUint16(s), toUint16(hi)
}

func toUint16(f float64) uint16 {
	return uint16(math.Round(f * math.MaxUint16))
}

// Reducer collapses a captured frame into one colour, looking at every
// step-th pixel in both directions.
type Reducer func(img *image.RGBA, step int) lights.Color

var reducers = map[string]Reducer{
	"AVERAGE":         AverageColor,
	"SQUARED_AVERAGE": SquaredAverageColor,
	"MEDIAN":          MedianColor,
	"MODE":            ModeColor,
}

// ReducerByName returns the reducer registered under name.
func ReducerByName(name string) (Reducer, error) {
	r, ok := reducers[name]
	if !ok {
		return nil, fmt.Errorf("unknown color algorithm: %q", name)
	}
	return r, nil
}

func sample(img *image.RGBA, step int, visit func(color.RGBA)) int {
	if step < 1 {
		step = 1
	}
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			visit(img.RGBAAt(x, y))
			n++
		}
	}
	return n
}

func AverageColor(img *image.RGBA, step int) lights.Color {
	var r, g, b uint64
	n := sample(img, step, func(c color.RGBA) {
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
	})
	if n == 0 {
		return lights.Color{}
	}
	return lights.Color{
		Red:   uint8(r / uint64(n)),
		Green: uint8(g / uint64(n)),
		Blue:  uint8(b / uint64(n)),
	}
}

// SquaredAverageColor is the root mean square per component, which
// weights bright pixels more than AverageColor does.
func SquaredAverageColor(img *image.RGBA, step int) lights.Color {
	var r, g, b uint64
	n := sample(img, step, func(c color.RGBA) {
		r += uint64(c.R) * uint64(c.R)
		g += uint64(c.G) * uint64(c.G)
		b += uint64(c.B) * uint64(c.B)
	})
	if n == 0 {
		return lights.Color{}
	}
	rms := func(sum uint64) uint8 {
		return uint8(math.Sqrt(float64(sum) / float64(n)))
	}
	return lights.Color{Red: rms(r), Green: rms(g), Blue: rms(b)}
}

// MedianColor takes the median of each component independently.
func MedianColor(img *image.RGBA, step int) lights.Color {
	var reds, greens, blues []uint8
	sample(img, step, func(c color.RGBA) {
		reds = append(reds, c.R)
		greens = append(greens, c.G)
		blues = append(blues, c.B)
	})
	return lights.Color{
		Red:   median(reds),
		Green: median(greens),
		Blue:  median(blues),
	}
}

func median(values []uint8) uint8 {
	n := len(values)
	if n == 0 {
		return 0
	}
	slices.Sort(values)
	if n%2 == 0 {
		return uint8((int(values[n/2-1]) + int(values[n/2])) / 2)
	}
	return values[n/2]
}

// ModeColor returns the most frequent sampled colour. Ties go to the
// colour seen first.
func ModeColor(img *image.RGBA, step int) lights.Color {
	counts := make(map[lights.Color]int)
	var best lights.Color
	bestCount := 0
	sample(img, step, func(c color.RGBA) {
		key := lights.Color{Red: c.R, Green: c.G, Blue: c.B}
		counts[key]++
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	})
	return best
}
