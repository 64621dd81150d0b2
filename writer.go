package giflib

import (
	"io"

	"giflib/internal/container"
)

// Writer is a low-level, type-stated GIF89a builder for callers who need
// more control than EncodeStaticGIF/EncodeAnimatedGIF give: a caller
// already holding quantized frames, or one that wants to place frames and
// set their metadata itself. It writes no comment or application
// extension blocks other than the Netscape loop extension.
type Writer struct {
	w *container.Writer
}

// NewWriter wraps w, ready to accept WriteLogicalScreen after WriteHeader.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: container.NewWriter(w)}
}

// WriteHeader emits the GIF89a signature. It must be the first call.
func (gw *Writer) WriteHeader() error {
	return wrapEncodingErrorIfAny(gw.w.WriteHeader())
}

// WriteLogicalScreen emits the logical screen descriptor and, if palette
// is non-empty, the global color table.
func (gw *Writer) WriteLogicalScreen(width, height int, palette Palette, backgroundIndex, pixelAspect uint8) error {
	return wrapEncodingErrorIfAny(gw.w.WriteLogicalScreen(container.LogicalScreen{
		Width:            width,
		Height:           height,
		GlobalPalette:    toWirePalette(palette),
		BackgroundIndex:  backgroundIndex,
		PixelAspectRatio: pixelAspect,
	}))
}

// WriteLoopCount emits the Netscape 2.0 application extension. It may
// only be called once, after WriteLogicalScreen and before any frame.
func (gw *Writer) WriteLoopCount(loops int) error {
	return wrapEncodingErrorIfAny(gw.w.WriteAnimationInfo(loops))
}

// WriteFrame emits one already-quantized indexed frame, with its own
// local color table, at (left, top) on the logical screen, tagged with
// the given delay/disposal/transparency metadata.
func (gw *Writer) WriteFrame(img *IndexedImage, left, top int, opts FrameOptions, delayMS int) error {
	if err := validateIndexedImage(img); err != nil {
		return err
	}
	transparentIndex := uint8(0)
	if opts.Transparent {
		transparentIndex = nearestPaletteIndex(img.Palette, opts.TransparentColor)
	}
	return wrapEncodingErrorIfAny(gw.w.WriteFrame(container.FrameSpec{
		Left: left, Top: top, Width: img.Width, Height: img.Height,
		Palette:             toWirePalette(img.Palette),
		Indices:             img.Pix,
		DelayMS:             delayMS,
		Disposal:            container.DisposalMethod(opts.Disposal),
		HasTransparency:     opts.Transparent,
		TransparentIndex:    transparentIndex,
		WriteGraphicControl: true,
	}))
}

// WriteTrailer emits the trailer byte and flushes the underlying writer.
// No further calls are valid afterward.
func (gw *Writer) WriteTrailer() error {
	return wrapEncodingErrorIfAny(gw.w.WriteTrailer())
}

func wrapEncodingErrorIfAny(err error) error {
	if err == nil {
		return nil
	}
	return wrapEncodingError(err)
}

func nearestPaletteIndex(p Palette, target RGB) uint8 {
	best, bestDist := 0, -1
	for i, c := range p {
		dr := int(c.R) - int(target.R)
		dg := int(c.G) - int(target.G)
		db := int(c.B) - int(target.B)
		dist := dr*dr + dg*dg + db*db
		if bestDist == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return uint8(best)
}
