// Package giflib reads and writes GIF89a images, static or animated,
// entirely in memory: bytes in, structured frames out, and structured
// frames in, bytes out.
package giflib

// RGB is an immutable 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Palette is an ordered set of up to 256 colors.
type Palette []RGB

// TruecolorImage is a (width, height) canvas backed by row-major RGBA
// bytes. len(Pix) must equal Width*Height*4.
type TruecolorImage struct {
	Width, Height int
	Pix           []uint8
}

// IndexedImage is a (width, height) canvas of palette indices. Every
// entry of Pix must be less than len(Palette).
type IndexedImage struct {
	Width, Height int
	Palette       Palette
	Pix           []uint8
}

// ExtensionRecord names an extension block the decoder recognized but did
// not otherwise interpret (spec.md §4.7's "each is logged to the metadata
// extensions list").
type ExtensionRecord struct {
	Label      byte
	Identifier string
}

// Frame is one decoded, fully composited animation frame: the full
// canvas at this point in playback, plus the metadata that produced it.
type Frame struct {
	Image            *TruecolorImage
	DelayMS          int
	Disposal         uint8
	Left, Top        int
	Width, Height    int // source sub-rectangle, not the canvas size
	TransparentIndex int // -1 if the frame has no transparent index
	Placeholder      bool
}

// GIF is a fully decoded GIF stream: its screen descriptor plus every
// frame, comment, and recognized extension.
type GIF struct {
	Version          string // "87a" or "89a"
	Width, Height    int
	GlobalPalette    Palette // nil if the stream has no global color table
	BackgroundIndex  uint8
	PixelAspectRatio uint8
	LoopCount        int // -1 if no Netscape loop extension was present
	Frames           []Frame
	Comments         []string
	Extensions       []ExtensionRecord
	XMP              string
}

// Info is a lightweight view of a decoded stream obtainable without
// running the LZW decoder or compositor over any frame's pixels.
type Info struct {
	Width, Height int
	FrameCount    int
	DurationMS    int
	LoopCount     int
	Comments      []string
	Extensions    []ExtensionRecord
	XMP           string
}

// EncodeOptions controls single-frame GIF encoding.
type EncodeOptions struct {
	MaxColors   int // default 256 if zero
	Background  RGB
	PixelAspect uint8
}

// FrameOptions controls one frame's disposal/transparency metadata within
// an animated GIF; the zero value is disposal-none with no transparency.
type FrameOptions struct {
	Disposal         uint8
	Transparent      bool
	TransparentColor RGB // used to pick the transparent palette index, when Transparent is set
}

// AnimationOptions controls animated GIF encoding.
type AnimationOptions struct {
	MaxColors     int // default 256 if zero
	DelayMS       int // applied to every frame unless PerFrameDelay overrides it
	Loops         int // 0 = infinite
	PerFrameDelay []int
	PerFrame      []FrameOptions
}
