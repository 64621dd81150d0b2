package container

import (
	"encoding/binary"
	"fmt"
	"strings"

	"giflib/internal/subblock"
)

// Header is the parsed 6-byte GIF signature.
type Header struct {
	Version string // "87a" or "89a"
}

// ReadHeader validates the 6-byte GIF signature and returns the version
// suffix. On an unrecognized signature it reports a short hex dump of the
// first bytes plus, when recognizable, the actual format found — spec.md
// §4.7's "special-case detection of '<', 'PNG', and the JPEG magic" for a
// more useful error than "bad signature".
func ReadHeader(data []byte) (Header, int, error) {
	if len(data) < 6 {
		return Header{}, 0, fmt.Errorf("container: %w: truncated header (%s)", ErrInvalidSignature, hexDump(data))
	}
	sig := string(data[:3])
	ver := string(data[3:6])
	if sig != "GIF" || (ver != "87a" && ver != "89a") {
		if guess := sniffOtherFormat(data); guess != "" {
			return Header{}, 0, fmt.Errorf("container: %w: input looks like %s, not GIF (%s)", ErrInvalidSignature, guess, hexDump(data))
		}
		return Header{}, 0, fmt.Errorf("container: %w: unrecognized signature (%s)", ErrInvalidSignature, hexDump(data))
	}
	return Header{Version: ver}, 6, nil
}

func hexDump(data []byte) string {
	n := len(data)
	if n > 16 {
		n = 16
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", data[i])
	}
	return b.String()
}

// sniffOtherFormat recognizes a handful of common non-GIF magic
// sequences so the error message can name what the input actually is.
func sniffOtherFormat(data []byte) string {
	switch {
	case len(data) >= 1 && data[0] == '<':
		return "XML/HTML"
	case len(data) >= 3 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N':
		return "PNG"
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return "JPEG"
	default:
		return ""
	}
}

// ReadLogicalScreen parses the 7-byte logical screen descriptor at pos
// and, if the global color table flag is set, the color table that
// follows it.
func ReadLogicalScreen(data []byte, pos int) (LogicalScreen, int, error) {
	if pos+7 > len(data) {
		return LogicalScreen{}, pos, fmt.Errorf("container: %w: truncated logical screen descriptor at byte %d", ErrTruncated, pos)
	}
	ls := LogicalScreen{
		Width:            int(binary.LittleEndian.Uint16(data[pos : pos+2])),
		Height:           int(binary.LittleEndian.Uint16(data[pos+2 : pos+4])),
		BackgroundIndex:  data[pos+5],
		PixelAspectRatio: data[pos+6],
	}
	packed := data[pos+4]
	pos += 7

	if packed&0x80 != 0 {
		size := paddedColorTableSize(int(packed & 0x07))
		if pos+size*3 > len(data) {
			return LogicalScreen{}, pos, fmt.Errorf("container: %w: truncated global color table at byte %d", ErrTruncated, pos)
		}
		ls.GlobalPalette = readColorTable(data[pos : pos+size*3])
		pos += size * 3
	}
	return ls, pos, nil
}

func readColorTable(raw []byte) []RGB {
	n := len(raw) / 3
	out := make([]RGB, n)
	for i := 0; i < n; i++ {
		out[i] = RGB{R: raw[i*3], G: raw[i*3+1], B: raw[i*3+2]}
	}
	return out
}

// Records produced by Next.
type (
	// GraphicControlRecord is a 0xF9 extension, cached by the caller and
	// applied to the image record that follows it.
	GraphicControlRecord struct {
		Disposal         DisposalMethod
		UserInput        bool
		HasTransparency  bool
		TransparentIndex uint8
		DelayCentis      uint16
	}
	// ApplicationRecord is a 0xFF extension. Netscape is true when
	// Identifier is the loop-count convention; LoopCount is only
	// meaningful then. XMP is true when Identifier is the XMP payload
	// convention; Text carries the concatenated sub-block payload.
	ApplicationRecord struct {
		Identifier string
		Netscape   bool
		LoopCount  int
		XMP        bool
		Text       string
	}
	// CommentRecord is a 0xFE extension with its sub-blocks concatenated
	// as text.
	CommentRecord struct {
		Text string
	}
	// PlainTextRecord is a 0x01 extension; its grid parameters are
	// discarded per spec.md §4.7 ("skip grid data then sub-blocks").
	PlainTextRecord struct{}
	// UnknownExtensionRecord is any other extension label.
	UnknownExtensionRecord struct {
		Label byte
	}
	// ImageRecord is a 0x2C image descriptor plus its (still LZW
	// compressed) pixel sub-blocks, concatenated.
	ImageRecord struct {
		Descriptor      ImageDescriptor
		Palette         []RGB // local, or nil to mean "use the global palette"
		LZWMinCodeSize  int
		Compressed      []byte
	}
	// TrailerRecord signals the 0x3B trailer; parsing is complete.
	TrailerRecord struct{}
)

// Next parses one top-level record starting at pos and returns it along
// with the position immediately following it.
func Next(data []byte, pos int) (record any, next int, err error) {
	if pos >= len(data) {
		return nil, pos, fmt.Errorf("container: %w: expected a record at byte %d, found end of stream", ErrTruncated, pos)
	}
	sep := data[pos]
	pos++

	switch sep {
	case sepExtension:
		return readExtension(data, pos)
	case sepImageDescriptor:
		return readImageDescriptor(data, pos)
	case sepTrailer:
		return TrailerRecord{}, pos, nil
	default:
		context := data[max(0, pos-4):min(len(data), pos+12)]
		return nil, pos, fmt.Errorf("container: %w: unexpected separator 0x%02X at byte %d (context: %s)", ErrMalformed, sep, pos-1, hexDump(context))
	}
}

func readExtension(data []byte, pos int) (any, int, error) {
	if pos >= len(data) {
		return nil, pos, fmt.Errorf("container: %w: truncated extension at byte %d", ErrTruncated, pos)
	}
	label := data[pos]
	pos++

	switch label {
	case labelGraphicControl:
		if pos+5 > len(data) || data[pos] != 4 {
			return nil, pos, fmt.Errorf("container: %w: malformed graphic control extension at byte %d", ErrMalformed, pos)
		}
		packed := data[pos+1]
		delay := binary.LittleEndian.Uint16(data[pos+2 : pos+4])
		transparent := data[pos+4]
		terminatorPos := pos + 5
		if terminatorPos >= len(data) || data[terminatorPos] != 0 {
			return nil, pos, fmt.Errorf("container: %w: graphic control extension missing terminator at byte %d", ErrMalformed, terminatorPos)
		}
		rec := GraphicControlRecord{
			Disposal:         DisposalMethod((packed >> 2) & 0x07),
			UserInput:        packed&0x02 != 0,
			HasTransparency:  packed&0x01 != 0,
			TransparentIndex: transparent,
			DelayCentis:      delay,
		}
		return rec, terminatorPos + 1, nil

	case labelApplication:
		if pos >= len(data) {
			return nil, pos, fmt.Errorf("container: %w: truncated application extension at byte %d", ErrTruncated, pos)
		}
		n := int(data[pos])
		pos++
		if pos+n > len(data) {
			return nil, pos, fmt.Errorf("container: %w: truncated application identifier at byte %d", ErrTruncated, pos)
		}
		id := string(data[pos : pos+n])
		pos += n

		if id == netscapeIdentifier {
			payload, next, err := subblock.ReadAll(data, pos)
			if err != nil {
				return nil, pos, fmt.Errorf("container: %w: %v", ErrTruncated, err)
			}
			loopCount := -1
			if len(payload) >= 3 && payload[0] == 1 {
				loopCount = int(binary.LittleEndian.Uint16(payload[1:3]))
			}
			return ApplicationRecord{Identifier: id, Netscape: true, LoopCount: loopCount}, next, nil
		}
		if id == xmpIdentifier {
			payload, next, err := subblock.ReadAll(data, pos)
			if err != nil {
				return nil, pos, fmt.Errorf("container: %w: %v", ErrTruncated, err)
			}
			return ApplicationRecord{Identifier: id, XMP: true, Text: string(payload)}, next, nil
		}
		next, err := subblock.Skip(data, pos)
		if err != nil {
			return nil, pos, fmt.Errorf("container: %w: %v", ErrTruncated, err)
		}
		return ApplicationRecord{Identifier: id}, next, nil

	case labelComment:
		payload, next, err := subblock.ReadAll(data, pos)
		if err != nil {
			return nil, pos, fmt.Errorf("container: %w: %v", ErrTruncated, err)
		}
		return CommentRecord{Text: string(payload)}, next, nil

	case labelPlainText:
		if pos+13 > len(data) {
			return nil, pos, fmt.Errorf("container: %w: truncated plain text extension at byte %d", ErrTruncated, pos)
		}
		next, err := subblock.Skip(data, pos+13)
		if err != nil {
			return nil, pos, fmt.Errorf("container: %w: %v", ErrTruncated, err)
		}
		return PlainTextRecord{}, next, nil

	default:
		next, err := subblock.Skip(data, pos)
		if err != nil {
			return nil, pos, fmt.Errorf("container: %w: %v", ErrTruncated, err)
		}
		return UnknownExtensionRecord{Label: label}, next, nil
	}
}

func readImageDescriptor(data []byte, pos int) (any, int, error) {
	if pos+9 > len(data) {
		return nil, pos, fmt.Errorf("container: %w: truncated image descriptor at byte %d", ErrTruncated, pos)
	}
	desc := ImageDescriptor{
		Left:   binary.LittleEndian.Uint16(data[pos : pos+2]),
		Top:    binary.LittleEndian.Uint16(data[pos+2 : pos+4]),
		Width:  binary.LittleEndian.Uint16(data[pos+4 : pos+6]),
		Height: binary.LittleEndian.Uint16(data[pos+6 : pos+8]),
	}
	packed := data[pos+8]
	desc.LocalColorTable = packed&0x80 != 0
	desc.Interlace = packed&0x40 != 0
	desc.Sort = packed&0x20 != 0
	desc.LocalColorTableSize = int(packed & 0x07)
	pos += 9

	var palette []RGB
	if desc.LocalColorTable {
		size := paddedColorTableSize(desc.LocalColorTableSize)
		if pos+size*3 > len(data) {
			return nil, pos, fmt.Errorf("container: %w: truncated local color table at byte %d", ErrTruncated, pos)
		}
		palette = readColorTable(data[pos : pos+size*3])
		pos += size * 3
	}

	if pos >= len(data) {
		return nil, pos, fmt.Errorf("container: %w: truncated LZW minimum code size at byte %d", ErrTruncated, pos)
	}
	minCodeSize := int(data[pos])
	pos++

	compressed, next, err := subblock.ReadAll(data, pos)
	if err != nil {
		return nil, pos, fmt.Errorf("container: %w: %v", ErrTruncated, err)
	}

	return ImageRecord{
		Descriptor:     desc,
		Palette:        palette,
		LZWMinCodeSize: minCodeSize,
		Compressed:     compressed,
	}, next, nil
}
