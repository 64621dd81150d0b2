package giflib

import (
	"giflib/internal/compositor"
	"giflib/internal/container"
	"giflib/internal/lzw"
)

// DecodeGIF parses data as a GIF89a (or GIF87a) stream and fully composites
// every frame into an independent RGBA image (spec.md §4.8). A frame whose
// LZW data fails to decompress does not abort the decode: it is recorded as
// a white placeholder and the stream continues (spec.md §4.8, "corrupt-frame
// tolerance").
func DecodeGIF(data []byte) (*GIF, error) {
	header, pos, err := container.ReadHeader(data)
	if err != nil {
		return nil, wrapDecodingError(err)
	}
	ls, pos, err := container.ReadLogicalScreen(data, pos)
	if err != nil {
		return nil, wrapDecodingError(err)
	}

	out := &GIF{
		Version:          header.Version,
		Width:            ls.Width,
		Height:           ls.Height,
		GlobalPalette:    fromWirePalette(ls.GlobalPalette),
		BackgroundIndex:  ls.BackgroundIndex,
		PixelAspectRatio: ls.PixelAspectRatio,
		LoopCount:        -1,
	}

	background, hasBackground := backgroundColor(ls)
	comp := compositor.New(ls.Width, ls.Height, background, hasBackground)

	var pendingGC *container.GraphicControlRecord

	for {
		record, next, err := container.Next(data, pos)
		if err != nil {
			return nil, wrapDecodingError(err)
		}
		pos = next

		switch rec := record.(type) {
		case container.TrailerRecord:
			return out, nil

		case container.GraphicControlRecord:
			gc := rec
			pendingGC = &gc

		case container.ApplicationRecord:
			switch {
			case rec.Netscape:
				out.LoopCount = rec.LoopCount
			case rec.XMP:
				out.XMP = rec.Text
			default:
				out.Extensions = append(out.Extensions, ExtensionRecord{Label: 0xFF, Identifier: rec.Identifier})
			}

		case container.CommentRecord:
			out.Comments = append(out.Comments, rec.Text)

		case container.PlainTextRecord:
			out.Extensions = append(out.Extensions, ExtensionRecord{Label: 0x01})

		case container.UnknownExtensionRecord:
			out.Extensions = append(out.Extensions, ExtensionRecord{Label: rec.Label})

		case container.ImageRecord:
			frame, err := decodeImageRecord(comp, ls, rec, pendingGC, background, hasBackground)
			pendingGC = nil
			if err != nil {
				return nil, wrapDecodingError(err)
			}
			out.Frames = append(out.Frames, *frame)
		}
	}
}

// DecodeInfo parses data enough to report its dimensions, frame count,
// total playback duration, loop count, and text metadata, without running
// the LZW decoder or compositor over any frame's pixels (spec.md §4.9's
// "lightweight inspection" operation).
func DecodeInfo(data []byte) (*Info, error) {
	_, pos, err := container.ReadHeader(data)
	if err != nil {
		return nil, wrapDecodingError(err)
	}
	ls, pos, err := container.ReadLogicalScreen(data, pos)
	if err != nil {
		return nil, wrapDecodingError(err)
	}

	out := &Info{Width: ls.Width, Height: ls.Height, LoopCount: -1}
	var pendingDelay int

	for {
		record, next, err := container.Next(data, pos)
		if err != nil {
			return nil, wrapDecodingError(err)
		}
		pos = next

		switch rec := record.(type) {
		case container.TrailerRecord:
			return out, nil

		case container.GraphicControlRecord:
			pendingDelay = int(rec.DelayCentis) * 10

		case container.ApplicationRecord:
			switch {
			case rec.Netscape:
				out.LoopCount = rec.LoopCount
			case rec.XMP:
				out.XMP = rec.Text
			default:
				out.Extensions = append(out.Extensions, ExtensionRecord{Label: 0xFF, Identifier: rec.Identifier})
			}

		case container.CommentRecord:
			out.Comments = append(out.Comments, rec.Text)

		case container.PlainTextRecord:
			out.Extensions = append(out.Extensions, ExtensionRecord{Label: 0x01})

		case container.UnknownExtensionRecord:
			out.Extensions = append(out.Extensions, ExtensionRecord{Label: rec.Label})

		case container.ImageRecord:
			out.FrameCount++
			out.DurationMS += pendingDelay
			pendingDelay = 0
		}
	}
}

func decodeImageRecord(
	comp *compositor.Compositor,
	ls container.LogicalScreen,
	rec container.ImageRecord,
	gc *container.GraphicControlRecord,
	background compositor.RGB,
	hasBackground bool,
) (*Frame, error) {
	rect := compositor.Rect{
		Left:   int(rec.Descriptor.Left),
		Top:    int(rec.Descriptor.Top),
		Width:  int(rec.Descriptor.Width),
		Height: int(rec.Descriptor.Height),
	}

	disposal := container.DisposalNone
	delayMS := 0
	transparentIndex := -1
	if gc != nil {
		disposal = gc.Disposal
		delayMS = int(gc.DelayCentis) * 10
		if gc.HasTransparency {
			transparentIndex = int(gc.TransparentIndex)
		}
	}

	comp.BeginFrame(rect, disposal, background, hasBackground)

	palette := rec.Palette
	if palette == nil {
		palette = ls.GlobalPalette
	}

	placeholder := false
	indices, err := lzw.Decompress(rec.Compressed, rec.LZWMinCodeSize)
	if err != nil || len(indices) < rect.Width*rect.Height {
		placeholder = true
		comp.FillWhite(rect)
	} else {
		comp.Composite(rect, indices, fromWireCompositorPalette(palette), transparentIndex, rec.Descriptor.Interlace)
	}

	pix := comp.Snapshot()
	return &Frame{
		Image:            &TruecolorImage{Width: ls.Width, Height: ls.Height, Pix: pix},
		DelayMS:          delayMS,
		Disposal:         uint8(disposal),
		Left:             rect.Left,
		Top:              rect.Top,
		Width:            rect.Width,
		Height:           rect.Height,
		TransparentIndex: transparentIndex,
		Placeholder:      placeholder,
	}, nil
}

func backgroundColor(ls container.LogicalScreen) (compositor.RGB, bool) {
	if len(ls.GlobalPalette) == 0 || int(ls.BackgroundIndex) >= len(ls.GlobalPalette) {
		return compositor.RGB{}, false
	}
	c := ls.GlobalPalette[ls.BackgroundIndex]
	return compositor.RGB{R: c.R, G: c.G, B: c.B}, true
}

func fromWirePalette(p []container.RGB) Palette {
	if p == nil {
		return nil
	}
	out := make(Palette, len(p))
	for i, c := range p {
		out[i] = RGB{R: c.R, G: c.G, B: c.B}
	}
	return out
}

func fromWireCompositorPalette(p []container.RGB) []compositor.RGB {
	out := make([]compositor.RGB, len(p))
	for i, c := range p {
		out[i] = compositor.RGB{R: c.R, G: c.G, B: c.B}
	}
	return out
}

func wrapDecodingError(err error) error {
	return newEncodingError("%v", err)
}
