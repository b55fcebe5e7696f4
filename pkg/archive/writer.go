package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer encodes primitives to an archive stream. It mirrors Reader and is
// used to build fixtures and to re-export stored clip data; it does not
// implement any key compression.
type Writer struct {
	w       io.Writer
	started bool
}

// NewWriter wraps w as an archive stream. The endianness byte is emitted
// lazily before the first write.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) write(buf []byte) error {
	if !w.started {
		w.started = true
		if _, err := w.w.Write([]byte{LittleEndian}); err != nil {
			return fmt.Errorf("archive: writing endianness: %w", err)
		}
	}
	if _, err := w.w.Write(buf); err != nil {
		return fmt.Errorf("archive: write: %w", err)
	}
	return nil
}

// WriteUint8 writes one unsigned byte.
func (w *Writer) WriteUint8(v uint8) error {
	return w.write([]byte{v})
}

// WriteUint16 writes a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return w.write(buf[:])
}

// WriteInt16 writes a little-endian int16.
func (w *Writer) WriteInt16(v int16) error {
	return w.WriteUint16(uint16(v))
}

// WriteUint32 writes a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return w.write(buf[:])
}

// WriteInt32 writes a little-endian int32.
func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

// WriteFloat32 writes a little-endian IEEE 754 single-precision float.
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}

// WriteString writes the raw bytes of s with no terminator or length
// prefix. The corresponding length field must be written separately.
func (w *Writer) WriteString(s string) error {
	return w.write([]byte(s))
}

// WriteTag writes an object's identifying tag.
func (w *Writer) WriteTag(tag string) error {
	return w.WriteString(tag)
}

// WriteVersion writes the uint32 format version that follows an object tag.
func (w *Writer) WriteVersion(v uint32) error {
	return w.WriteUint32(v)
}
