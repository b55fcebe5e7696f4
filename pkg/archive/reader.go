package archive

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// LittleEndian is the endianness marker this implementation accepts.
const LittleEndian byte = 1

// ErrUnsupportedEndianness indicates the stream was produced on a platform
// with a byte order this reader does not handle.
var ErrUnsupportedEndianness = errors.New("archive: unsupported endianness")

// Reader decodes primitives from an archive stream.
//
// Reads are strictly sequential. Any error leaves the reader in an
// undefined position; callers must treat the whole stream as lost.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r as an archive stream. It consumes and validates the
// leading endianness byte before returning.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	endianness, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("archive: reading endianness: %w", err)
	}
	if endianness != LittleEndian {
		return nil, ErrUnsupportedEndianness
	}
	return &Reader{r: br}, nil
}

// Open opens the file at path as an archive stream. The returned closer
// releases the underlying file.
func Open(path string) (*Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

func (r *Reader) read(buf []byte) error {
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return fmt.Errorf("archive: short read: %w", err)
	}
	return nil
}

// ReadUint8 reads one unsigned byte.
func (r *Reader) ReadUint8() (uint8, error) {
	var buf [1]byte
	if err := r.read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	var buf [2]byte
	if err := r.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// ReadInt16 reads a little-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	var buf [4]byte
	if err := r.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadFloat32 reads a little-endian IEEE 754 single-precision float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadString reads exactly n raw bytes as a string. The length comes from a
// field decoded earlier in the stream.
func (r *Reader) ReadString(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("archive: negative string length %d", n)
	}
	buf := make([]byte, n)
	if err := r.read(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// TestTag consumes len(tag) bytes and reports whether they match tag.
// The bytes are consumed either way.
func (r *Reader) TestTag(tag string) (bool, error) {
	buf := make([]byte, len(tag))
	if err := r.read(buf); err != nil {
		return false, err
	}
	return string(buf) == tag, nil
}

// ReadVersion reads the uint32 format version that follows an object tag.
func (r *Reader) ReadVersion() (uint32, error) {
	return r.ReadUint32()
}
