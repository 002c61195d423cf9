package wire

import "encoding/binary"

// Canonical encoding primitives for this repository's two wire formats.
// Everything is little-endian and length-prefixed where the length isn't
// already fixed by the field's type — the same conventions the teacher's
// CSER format used, without the bit-packing layer (see package doc).

// U8 writes a single byte.
func (w *Writer) U8(v uint8) { w.WriteByte(v) }

// U8 reads a single byte.
func (r *Reader) U8() uint8 { return r.ReadByte() }

// U16 writes a uint16, little-endian.
func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

// U16 reads a uint16, little-endian.
func (r *Reader) U16() uint16 {
	return binary.LittleEndian.Uint16(r.Read(2))
}

// U32 writes a uint32, little-endian.
func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

// U32 reads a uint32, little-endian.
func (r *Reader) U32() uint32 {
	return binary.LittleEndian.Uint32(r.Read(4))
}

// U64 writes a uint64, little-endian.
func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.Write(b[:])
}

// U64 reads a uint64, little-endian.
func (r *Reader) U64() uint64 {
	return binary.LittleEndian.Uint64(r.Read(8))
}

// I64 writes an int64, little-endian, as its two's-complement bit pattern.
func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

// I64 reads an int64, little-endian.
func (r *Reader) I64() int64 { return int64(r.U64()) }

// I32 writes an int32, little-endian.
func (w *Writer) I32(v int32) { w.U32(uint32(v)) }

// I32 reads an int32, little-endian.
func (r *Reader) I32() int32 { return int32(r.U32()) }

// FixedBytes writes v as-is, with no length prefix. Use when the reader
// already knows the length (e.g. a 32-byte hash).
func (w *Writer) FixedBytes(v []byte) { w.Write(v) }

// FixedBytes reads exactly n bytes and copies them out (does not alias the
// Reader's backing array).
func (r *Reader) FixedBytes(n int) []byte {
	buf := make([]byte, n)
	copy(buf, r.Read(n))
	return buf
}

// SliceBytes writes a U32 length prefix followed by v.
func (w *Writer) SliceBytes(v []byte) {
	w.U32(uint32(len(v)))
	w.FixedBytes(v)
}

// SliceBytes reads a U32-length-prefixed byte slice. maxLen bounds the
// allocation so a corrupted or malicious length field can't OOM the reader.
func (r *Reader) SliceBytes(maxLen uint32) []byte {
	n := r.U32()
	if n > maxLen {
		panic(ErrTooLargeAlloc)
	}
	return r.FixedBytes(int(n))
}
