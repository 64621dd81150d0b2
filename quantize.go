package giflib

import "giflib/internal/quantize"

// Quantize reduces img to at most maxColors colors using median-cut
// (spec.md §4.5), returning the resulting indexed image. A maxColors of
// zero or less means 256, and values above 256 are capped at 256.
func Quantize(img *TruecolorImage, maxColors int) (*IndexedImage, error) {
	if err := validateTruecolorImage(img); err != nil {
		return nil, err
	}
	maxColors = clampMaxColors(maxColors)

	colors := extractColors(img)
	result := quantize.Build(colors, maxColors)

	out := &IndexedImage{
		Width:   img.Width,
		Height:  img.Height,
		Palette: make(Palette, len(result.Palette)),
		Pix:     make([]uint8, img.Width*img.Height),
	}
	for i, c := range result.Palette {
		out.Palette[i] = RGB{R: c.R, G: c.G, B: c.B}
	}
	for i := 0; i < img.Width*img.Height; i++ {
		c := quantize.Color{R: img.Pix[i*4], G: img.Pix[i*4+1], B: img.Pix[i*4+2]}
		out.Pix[i] = uint8(result.Index(c))
	}
	return out, nil
}

func extractColors(img *TruecolorImage) []quantize.Color {
	n := img.Width * img.Height
	colors := make([]quantize.Color, n)
	for i := 0; i < n; i++ {
		colors[i] = quantize.Color{R: img.Pix[i*4], G: img.Pix[i*4+1], B: img.Pix[i*4+2]}
	}
	return colors
}

// sharedQuantizer builds one quantizer from the first frame's colors and
// maps every subsequent frame's pixels through it, spec.md §4.5's
// "shared-palette mode" — a deliberate simplification since cross-frame
// palette optimality is out of scope (spec.md §1).
type sharedQuantizer struct {
	result *quantize.Result
}

func newSharedQuantizer(first *TruecolorImage, maxColors int) *sharedQuantizer {
	return &sharedQuantizer{result: quantize.Build(extractColors(first), clampMaxColors(maxColors))}
}

func (q *sharedQuantizer) palette() Palette {
	p := make(Palette, len(q.result.Palette))
	for i, c := range q.result.Palette {
		p[i] = RGB{R: c.R, G: c.G, B: c.B}
	}
	return p
}

func (q *sharedQuantizer) indexImage(img *TruecolorImage) []uint8 {
	n := img.Width * img.Height
	out := make([]uint8, n)
	for i := 0; i < n; i++ {
		c := quantize.Color{R: img.Pix[i*4], G: img.Pix[i*4+1], B: img.Pix[i*4+2]}
		out[i] = uint8(q.result.Index(c))
	}
	return out
}
