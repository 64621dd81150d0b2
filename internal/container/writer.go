package container

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"giflib/internal/lzw"
	"giflib/internal/subblock"
)

// colorTableBufPool reuses the scratch buffer writeColorTable serializes
// into, since one Writer may emit a local color table per frame of a
// long animation.
var colorTableBufPool = sync.Pool{
	New: func() any { return make([]byte, 0, 256*3) },
}

// writerState enforces the ordering spec.md §4.6 describes:
// Initial -> HeaderWritten -> LogicalScreenWritten -> (AnimationInfoWritten)? -> (FrameWritten+) -> TrailerWritten.
type writerState int

const (
	stateInitial writerState = iota
	stateHeaderWritten
	stateLogicalScreenWritten
	stateAnimationInfoWritten
	stateFrameWritten
	stateTrailerWritten
)

// ErrOutOfOrder is returned when a Writer method is called before its
// prerequisite state has been reached.
var ErrOutOfOrder = errors.New("container: writer method called out of order")

// FrameSpec is everything the writer needs to serialize one frame:
// image descriptor geometry, the local palette, indexed pixels, and the
// graphics-control metadata spec.md §4.6 attaches to "any frame that
// carries delay/disposal/transparency metadata, or every frame in an
// animated GIF".
type FrameSpec struct {
	Left, Top, Width, Height int
	Palette                  []RGB
	Indices                  []byte
	DelayMS                  int
	Disposal                 DisposalMethod
	HasTransparency          bool
	TransparentIndex         uint8
	WriteGraphicControl      bool
}

// LogicalScreen is the fixed portion of the writer's header block.
type LogicalScreen struct {
	Width, Height    int
	GlobalPalette    []RGB
	BackgroundIndex  uint8
	PixelAspectRatio uint8
}

// Writer implements the type-stated builder for the GIF89a container,
// mirroring the method-per-record shape of NathanBaulch-gifx's Encoder
// (WriteHeader / WriteFrame / WriteTrailer).
type Writer struct {
	w     *bufio.Writer
	state writerState
	err   error
}

// NewWriter wraps w in a buffered Writer ready to accept WriteHeader.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (wr *Writer) fail(err error) error {
	if wr.err == nil {
		wr.err = err
	}
	return err
}

// WriteHeader emits the "GIF89a" signature.
func (wr *Writer) WriteHeader() error {
	if wr.state != stateInitial {
		return wr.fail(fmt.Errorf("%w: WriteHeader after state %d", ErrOutOfOrder, wr.state))
	}
	if _, err := io.WriteString(wr.w, sigGIF89a); err != nil {
		return wr.fail(err)
	}
	wr.state = stateHeaderWritten
	return nil
}

// WriteLogicalScreen emits the logical screen descriptor and, if present,
// the padded global color table.
func (wr *Writer) WriteLogicalScreen(ls LogicalScreen) error {
	if wr.state != stateHeaderWritten {
		return wr.fail(fmt.Errorf("%w: WriteLogicalScreen after state %d", ErrOutOfOrder, wr.state))
	}
	if ls.Width < 1 || ls.Width > 65535 || ls.Height < 1 || ls.Height > 65535 {
		return wr.fail(fmt.Errorf("container: canvas dimensions out of range: %dx%d", ls.Width, ls.Height))
	}

	var buf [7]byte
	binary.LittleEndian.PutUint16(buf[0:2], uint16(ls.Width))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(ls.Height))

	hasGCT := len(ls.GlobalPalette) > 0
	packed := byte(0)
	if hasGCT {
		packed |= 0x80
	}
	packed |= 0x70 // colorResolution = 0b111
	if hasGCT {
		packed |= byte(colorTableSizeField(len(ls.GlobalPalette)))
	}
	buf[4] = packed
	buf[5] = ls.BackgroundIndex
	buf[6] = ls.PixelAspectRatio

	if _, err := wr.w.Write(buf[:]); err != nil {
		return wr.fail(err)
	}
	if hasGCT {
		if err := wr.writeColorTable(ls.GlobalPalette); err != nil {
			return wr.fail(err)
		}
	}
	wr.state = stateLogicalScreenWritten
	return nil
}

func (wr *Writer) writeColorTable(palette []RGB) error {
	if len(palette) == 0 || len(palette) > 256 {
		return fmt.Errorf("container: palette length %d out of range", len(palette))
	}
	size := paddedColorTableSize(colorTableSizeField(len(palette)))
	buf := colorTableBufPool.Get().([]byte)[:0]
	for i := 0; i < size; i++ {
		if i < len(palette) {
			c := palette[i]
			buf = append(buf, c.R, c.G, c.B)
		} else {
			buf = append(buf, 0, 0, 0)
		}
	}
	_, err := wr.w.Write(buf)
	colorTableBufPool.Put(buf)
	return err
}

// WriteAnimationInfo emits the Netscape 2.0 application extension that
// carries the animation loop count. It may only be called once, before
// any frame, and only makes sense for multi-frame output.
func (wr *Writer) WriteAnimationInfo(loopCount int) error {
	if wr.state != stateLogicalScreenWritten {
		return wr.fail(fmt.Errorf("%w: WriteAnimationInfo after state %d", ErrOutOfOrder, wr.state))
	}
	if loopCount < 0 || loopCount > 65535 {
		return wr.fail(fmt.Errorf("container: loop count %d out of range", loopCount))
	}
	buf := []byte{
		sepExtension, labelApplication, 11,
	}
	buf = append(buf, netscapeIdentifier...)
	buf = append(buf, 3, 1)
	lc := make([]byte, 2)
	binary.LittleEndian.PutUint16(lc, uint16(loopCount))
	buf = append(buf, lc...)
	buf = append(buf, 0)
	if _, err := wr.w.Write(buf); err != nil {
		return wr.fail(err)
	}
	wr.state = stateAnimationInfoWritten
	return nil
}

// WriteFrame emits an optional graphics control extension, the image
// descriptor, the local color table, and the LZW-compressed pixel data.
func (wr *Writer) WriteFrame(f FrameSpec) error {
	switch wr.state {
	case stateLogicalScreenWritten, stateAnimationInfoWritten, stateFrameWritten:
	default:
		return wr.fail(fmt.Errorf("%w: WriteFrame after state %d", ErrOutOfOrder, wr.state))
	}
	if err := validateFrameSpec(f); err != nil {
		return wr.fail(err)
	}

	if f.WriteGraphicControl {
		if err := wr.writeGraphicControl(f); err != nil {
			return wr.fail(err)
		}
	}

	var desc [10]byte
	desc[0] = sepImageDescriptor
	binary.LittleEndian.PutUint16(desc[1:3], uint16(f.Left))
	binary.LittleEndian.PutUint16(desc[3:5], uint16(f.Top))
	binary.LittleEndian.PutUint16(desc[5:7], uint16(f.Width))
	binary.LittleEndian.PutUint16(desc[7:9], uint16(f.Height))
	desc[9] = 0x80 | byte(colorTableSizeField(len(f.Palette))) // local color table always present, no interlace
	if _, err := wr.w.Write(desc[:]); err != nil {
		return wr.fail(err)
	}
	if err := wr.writeColorTable(f.Palette); err != nil {
		return wr.fail(err)
	}

	minCodeSize := lzwMinimumCodeSize(len(f.Palette))
	if err := wr.w.WriteByte(byte(minCodeSize)); err != nil {
		return wr.fail(err)
	}
	compressed, err := lzw.Compress(f.Indices, minCodeSize)
	if err != nil {
		return wr.fail(fmt.Errorf("container: lzw compress: %w", err))
	}
	if _, err := wr.w.Write(subblock.Frame(compressed)); err != nil {
		return wr.fail(err)
	}

	wr.state = stateFrameWritten
	return nil
}

func (wr *Writer) writeGraphicControl(f FrameSpec) error {
	packed := byte(f.Disposal&7) << 2
	if f.HasTransparency {
		packed |= 0x01
	}
	delay := round10(f.DelayMS)
	var buf [8]byte
	buf[0] = sepExtension
	buf[1] = labelGraphicControl
	buf[2] = 4
	buf[3] = packed
	binary.LittleEndian.PutUint16(buf[4:6], delay)
	buf[6] = f.TransparentIndex
	buf[7] = 0
	_, err := wr.w.Write(buf[:])
	return err
}

// round10 converts milliseconds to centiseconds, clamped to uint16 range.
func round10(ms int) uint16 {
	if ms < 0 {
		ms = 0
	}
	cs := (ms + 5) / 10
	if cs > 65535 {
		cs = 65535
	}
	return uint16(cs)
}

// lzwMinimumCodeSize computes max(2, ceil(log2(paletteSize))).
func lzwMinimumCodeSize(paletteSize int) int {
	if paletteSize < 1 {
		paletteSize = 1
	}
	size := int(math.Ceil(math.Log2(float64(paletteSize))))
	if size < 2 {
		size = 2
	}
	return size
}

// WriteTrailer emits the single 0x3B trailer byte and flushes the
// underlying writer.
func (wr *Writer) WriteTrailer() error {
	if wr.state != stateFrameWritten {
		return wr.fail(fmt.Errorf("%w: WriteTrailer after state %d", ErrOutOfOrder, wr.state))
	}
	if err := wr.w.WriteByte(sepTrailer); err != nil {
		return wr.fail(err)
	}
	if err := wr.w.Flush(); err != nil {
		return wr.fail(err)
	}
	wr.state = stateTrailerWritten
	return nil
}

func validateFrameSpec(f FrameSpec) error {
	if f.Width < 1 || f.Width > 65535 || f.Height < 1 || f.Height > 65535 {
		return fmt.Errorf("container: frame dimensions out of range: %dx%d", f.Width, f.Height)
	}
	if len(f.Indices) != f.Width*f.Height {
		return fmt.Errorf("container: pixel count %d does not match %dx%d", len(f.Indices), f.Width, f.Height)
	}
	if len(f.Palette) == 0 || len(f.Palette) > 256 {
		return fmt.Errorf("container: palette length %d out of range", len(f.Palette))
	}
	for _, idx := range f.Indices {
		if int(idx) >= len(f.Palette) {
			return fmt.Errorf("container: pixel index %d out of range for palette of %d", idx, len(f.Palette))
		}
	}
	return nil
}
