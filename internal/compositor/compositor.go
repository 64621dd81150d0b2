// Package compositor reconstructs full-canvas RGBA frames from GIF's
// disposal methods, transparency, and per-frame sub-rectangles.
package compositor

import "giflib/internal/container"

// RGB mirrors container.RGB so this package has no dependency on the
// façade or on container beyond the DisposalMethod type it already needs.
type RGB struct {
	R, G, B uint8
}

// Rect is a frame's sub-rectangle on the logical screen.
type Rect struct {
	Left, Top, Width, Height int
}

// Compositor holds the persistent canvas state for one decode pass: the
// current full-canvas RGBA buffer and, when needed by disposal method 3,
// a snapshot taken before the previous frame was drawn.
type Compositor struct {
	width, height int
	canvas        []byte // RGBA, row-major, width*height*4
	snapshot      []byte // nil unless the current frame's disposal is 3

	prevRect     Rect
	prevDisposal container.DisposalMethod
	haveDrawnOne bool
}

// New creates a Compositor for a canvas of the given size, initialized to
// background (from the global palette and background index) or fully
// transparent if hasBackground is false.
func New(width, height int, background RGB, hasBackground bool) *Compositor {
	c := &Compositor{width: width, height: height, canvas: make([]byte, width*height*4)}
	if hasBackground {
		for i := 0; i < width*height; i++ {
			c.canvas[i*4] = background.R
			c.canvas[i*4+1] = background.G
			c.canvas[i*4+2] = background.B
			c.canvas[i*4+3] = 255
		}
	}
	return c
}

// BeginFrame applies the previous frame's disposal method to the canvas
// (spec.md §4.8 step 1 — disposal applies to the previous frame, not the
// one about to be drawn) and, if this frame's own disposal is 3, snapshots
// the canvas before it is drawn.
func (c *Compositor) BeginFrame(rect Rect, disposal container.DisposalMethod, background RGB, hasBackground bool) {
	if c.haveDrawnOne {
		switch c.prevDisposal {
		case container.DisposalBackground:
			c.clearRect(c.prevRect, background, hasBackground)
		case container.DisposalPrevious:
			if c.snapshot != nil {
				copy(c.canvas, c.snapshot)
			}
		}
	}

	c.snapshot = nil
	if disposal == container.DisposalPrevious {
		c.snapshot = append([]byte(nil), c.canvas...)
	}

	c.prevRect = rect
	c.prevDisposal = disposal
	c.haveDrawnOne = true
}

func (c *Compositor) clearRect(r Rect, background RGB, hasBackground bool) {
	for y := 0; y < r.Height; y++ {
		cy := r.Top + y
		if cy < 0 || cy >= c.height {
			continue
		}
		for x := 0; x < r.Width; x++ {
			cx := r.Left + x
			if cx < 0 || cx >= c.width {
				continue
			}
			i := (cy*c.width + cx) * 4
			if hasBackground {
				c.canvas[i] = background.R
				c.canvas[i+1] = background.G
				c.canvas[i+2] = background.B
				c.canvas[i+3] = 255
			} else {
				c.canvas[i+3] = 0
			}
		}
	}
}

// Composite deinterlaces indices if interlace is set, then writes each
// non-transparent pixel of the sub-rectangle into the canvas, clipping to
// the logical screen. transparentIndex < 0 means no transparency.
func (c *Compositor) Composite(rect Rect, indices []byte, palette []RGB, transparentIndex int, interlace bool) {
	if interlace {
		indices = Deinterlace(indices, rect.Width, rect.Height)
	}
	for y := 0; y < rect.Height; y++ {
		cy := rect.Top + y
		if cy < 0 || cy >= c.height {
			continue
		}
		rowOff := y * rect.Width
		for x := 0; x < rect.Width; x++ {
			idx := int(indices[rowOff+x])
			if idx == transparentIndex {
				continue
			}
			cx := rect.Left + x
			if cx < 0 || cx >= c.width {
				continue
			}
			if idx >= len(palette) {
				continue
			}
			col := palette[idx]
			i := (cy*c.width + cx) * 4
			c.canvas[i] = col.R
			c.canvas[i+1] = col.G
			c.canvas[i+2] = col.B
			c.canvas[i+3] = 255
		}
	}
}

// FillWhite paints rect white directly on the canvas, used for the
// placeholder emitted when a frame's LZW data fails to decompress
// (spec.md §4.8 — "a placeholder frame (white sub-rectangle) is emitted
// and the loop continues").
func (c *Compositor) FillWhite(rect Rect) {
	for y := 0; y < rect.Height; y++ {
		cy := rect.Top + y
		if cy < 0 || cy >= c.height {
			continue
		}
		for x := 0; x < rect.Width; x++ {
			cx := rect.Left + x
			if cx < 0 || cx >= c.width {
				continue
			}
			i := (cy*c.width + cx) * 4
			c.canvas[i], c.canvas[i+1], c.canvas[i+2], c.canvas[i+3] = 255, 255, 255, 255
		}
	}
}

// Snapshot copies the current full canvas, giving each emitted frame
// record its own independent pixel buffer.
func (c *Compositor) Snapshot() []byte {
	return append([]byte(nil), c.canvas...)
}

// Deinterlace reorders rows written in GIF's 4-pass interlace order back
// into top-to-bottom order: {0,8,16,...}, {4,12,...}, {2,6,10,...}, {1,3,5,...}.
func Deinterlace(indices []byte, width, height int) []byte {
	out := make([]byte, len(indices))
	rowBytes := width
	srcRow := 0
	writeRow := func(dstRow int) {
		srcOff := srcRow * rowBytes
		dstOff := dstRow * rowBytes
		if srcOff+rowBytes > len(indices) || dstOff+rowBytes > len(out) {
			return
		}
		copy(out[dstOff:dstOff+rowBytes], indices[srcOff:srcOff+rowBytes])
		srcRow++
	}
	for row := 0; row < height; row += 8 {
		writeRow(row)
	}
	for row := 4; row < height; row += 8 {
		writeRow(row)
	}
	for row := 2; row < height; row += 4 {
		writeRow(row)
	}
	for row := 1; row < height; row += 2 {
		writeRow(row)
	}
	return out
}
