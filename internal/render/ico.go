package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
)

const (
	icoHeaderSize = 6
	icoEntrySize  = 16
	icoTypeIcon   = 1
	icoMaxSize    = 256
)

type icoHeader struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

type icoEntry struct {
	Width      uint8
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	Size       uint32
	Offset     uint32
}

// encodeICO writes images as a single ICO file with PNG compressed entries
func encodeICO(w io.Writer, images []image.Image) error {
	payloads := make([][]byte, 0, len(images))
	for _, img := range images {
		b := img.Bounds()
		if b.Dx() > icoMaxSize || b.Dy() > icoMaxSize {
			return fmt.Errorf("ico entry %dx%d exceeds %dx%d", b.Dx(), b.Dy(), icoMaxSize, icoMaxSize)
		}
		var buf bytes.Buffer
		if err := pngEncoder.Encode(&buf, img); err != nil {
			return err
		}
		payloads = append(payloads, buf.Bytes())
	}

	if err := binary.Write(w, binary.LittleEndian, icoHeader{Type: icoTypeIcon, Count: uint16(len(images))}); err != nil {
		return err
	}

	offset := uint32(icoHeaderSize + icoEntrySize*len(images))
	for i, img := range images {
		b := img.Bounds()
		entry := icoEntry{
			// 0 means 256 pixels
			Width:    uint8(b.Dx() % icoMaxSize),
			Height:   uint8(b.Dy() % icoMaxSize),
			Planes:   1,
			BitCount: 32,
			Size:     uint32(len(payloads[i])),
			Offset:   offset,
		}
		if err := binary.Write(w, binary.LittleEndian, entry); err != nil {
			return err
		}
		offset += entry.Size
	}

	for _, payload := range payloads {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

var pngEncoder = &png.Encoder{CompressionLevel: png.BestCompression}
