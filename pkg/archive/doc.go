// Package archive implements the tagged, versioned binary stream format used
// by gozz runtime data such as animation clips.
//
// # Stream Format
//
// Every archive begins with a single endianness byte. A value of 1 marks the
// stream as little-endian, which is the only byte order this implementation
// reads and writes. Any other value aborts reading before any further data
// is consumed.
//
// After the endianness byte, the stream is a flat sequence of primitives:
//
//   - Fixed-width integers and IEEE 754 single-precision floats, all
//     little-endian.
//   - Strings as raw bytes; the length always comes from a field read
//     earlier in the stream, never from an in-band prefix.
//
// Versioned objects open with an identifying tag (the tag's exact bytes,
// no terminator) followed by a uint32 format version. Readers must check
// both before trusting any subsequent field; a mismatch means the stream
// holds a different object type or an unsupported revision of it.
//
// The reader is strictly sequential and all-or-nothing: a short read
// surfaces as a wrapped io error and the caller is expected to discard
// everything decoded so far.
package archive
