package giflib

import (
	"bytes"

	"giflib/internal/container"
	"giflib/internal/quantize"
)

// EncodeStaticGIF quantizes img and writes it as a single-frame GIF89a.
func EncodeStaticGIF(img *TruecolorImage, opts EncodeOptions) ([]byte, error) {
	if err := validateTruecolorImage(img); err != nil {
		return nil, err
	}

	q := newSharedQuantizer(img, opts.MaxColors)
	palette := q.palette()
	indices := q.indexImage(img)

	backgroundIndex := uint8(q.result.Index(quantize.Color{R: opts.Background.R, G: opts.Background.G, B: opts.Background.B}))

	var buf bytes.Buffer
	w := container.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, wrapEncodingError(err)
	}
	if err := w.WriteLogicalScreen(container.LogicalScreen{
		Width:            img.Width,
		Height:           img.Height,
		GlobalPalette:    toWirePalette(palette),
		BackgroundIndex:  backgroundIndex,
		PixelAspectRatio: opts.PixelAspect,
	}); err != nil {
		return nil, wrapEncodingError(err)
	}
	if err := w.WriteFrame(container.FrameSpec{
		Left: 0, Top: 0, Width: img.Width, Height: img.Height,
		Palette: toWirePalette(palette),
		Indices: indices,
	}); err != nil {
		return nil, wrapEncodingError(err)
	}
	if err := w.WriteTrailer(); err != nil {
		return nil, wrapEncodingError(err)
	}
	return buf.Bytes(), nil
}

// EncodeAnimatedGIF quantizes frames[0] and reuses that palette for every
// subsequent frame (spec.md §4.5's shared-palette mode), writing a
// GIF89a with one graphics control extension per frame. The Netscape loop
// extension carrying opts.Loops is written only when there is more than
// one frame.
func EncodeAnimatedGIF(frames []TruecolorImage, opts AnimationOptions) ([]byte, error) {
	if len(frames) == 0 {
		return nil, newValidationError("frames", "must provide at least one frame")
	}
	for i := range frames {
		if err := validateTruecolorImage(&frames[i]); err != nil {
			return nil, err
		}
	}
	if opts.PerFrameDelay != nil && len(opts.PerFrameDelay) != len(frames) {
		return nil, newValidationError("opts.PerFrameDelay", "length %d does not match %d frames", len(opts.PerFrameDelay), len(frames))
	}
	if opts.PerFrame != nil && len(opts.PerFrame) != len(frames) {
		return nil, newValidationError("opts.PerFrame", "length %d does not match %d frames", len(opts.PerFrame), len(frames))
	}

	width, height := frames[0].Width, frames[0].Height
	q := newSharedQuantizer(&frames[0], opts.MaxColors)
	palette := toWirePalette(q.palette())

	var buf bytes.Buffer
	w := container.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, wrapEncodingError(err)
	}
	if err := w.WriteLogicalScreen(container.LogicalScreen{
		Width:         width,
		Height:        height,
		GlobalPalette: palette,
	}); err != nil {
		return nil, wrapEncodingError(err)
	}
	if len(frames) > 1 {
		if err := w.WriteAnimationInfo(opts.Loops); err != nil {
			return nil, wrapEncodingError(err)
		}
	}

	for i := range frames {
		f := &frames[i]
		delay := opts.DelayMS
		if opts.PerFrameDelay != nil {
			delay = opts.PerFrameDelay[i]
		}
		var fo FrameOptions
		if opts.PerFrame != nil {
			fo = opts.PerFrame[i]
		}

		transparentIndex := uint8(0)
		if fo.Transparent {
			transparentIndex = uint8(q.result.Index(quantize.Color{R: fo.TransparentColor.R, G: fo.TransparentColor.G, B: fo.TransparentColor.B}))
		}

		if err := w.WriteFrame(container.FrameSpec{
			Left: 0, Top: 0, Width: f.Width, Height: f.Height,
			Palette:             palette,
			Indices:             q.indexImage(f),
			DelayMS:             delay,
			Disposal:            container.DisposalMethod(fo.Disposal),
			HasTransparency:     fo.Transparent,
			TransparentIndex:    transparentIndex,
			WriteGraphicControl: true,
		}); err != nil {
			return nil, wrapEncodingError(err)
		}
	}

	if err := w.WriteTrailer(); err != nil {
		return nil, wrapEncodingError(err)
	}
	return buf.Bytes(), nil
}

func toWirePalette(p Palette) []container.RGB {
	out := make([]container.RGB, len(p))
	for i, c := range p {
		out[i] = container.RGB{R: c.R, G: c.G, B: c.B}
	}
	return out
}

func wrapEncodingError(err error) error {
	return newEncodingError("%v", err)
}
