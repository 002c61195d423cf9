package wire

import (
	"bytes"
	"testing"
)

func TestRoundTripScalars(t *testing.T) {
	w := NewWriter(nil)
	w.U8(0xAB)
	w.U16(0x1234)
	w.U32(0xDEADBEEF)
	w.U64(0x0102030405060708)
	w.I64(-42)
	w.I32(-7)

	r := NewReader(w.Bytes())
	if got := r.U8(); got != 0xAB {
		t.Fatalf("U8 = %x, want AB", got)
	}
	if got := r.U16(); got != 0x1234 {
		t.Fatalf("U16 = %x, want 1234", got)
	}
	if got := r.U32(); got != 0xDEADBEEF {
		t.Fatalf("U32 = %x, want DEADBEEF", got)
	}
	if got := r.U64(); got != 0x0102030405060708 {
		t.Fatalf("U64 = %x", got)
	}
	if got := r.I64(); got != -42 {
		t.Fatalf("I64 = %d, want -42", got)
	}
	if got := r.I32(); got != -7 {
		t.Fatalf("I32 = %d, want -7", got)
	}
	if !r.Empty() {
		t.Fatalf("reader not drained, %d bytes remaining", r.Remaining())
	}
}

func TestSliceBytesRoundTrip(t *testing.T) {
	payload := []byte("access-token-bytes")
	w := NewWriter(nil)
	w.SliceBytes(payload)

	r := NewReader(w.Bytes())
	got := r.SliceBytes(1024)
	if !bytes.Equal(got, payload) {
		t.Fatalf("SliceBytes round trip = %q, want %q", got, payload)
	}
}

func TestSliceBytesTooLarge(t *testing.T) {
	w := NewWriter(nil)
	w.SliceBytes(make([]byte, 100))

	err := Decode(w.Bytes(), func(r *Reader) error {
		r.SliceBytes(10)
		return nil
	})
	if err != ErrTooLargeAlloc {
		t.Fatalf("err = %v, want ErrTooLargeAlloc", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	err := Decode([]byte{1, 2}, func(r *Reader) error {
		r.U64() // needs 8 bytes, only 2 present
		return nil
	})
	if err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestFixedBytesDoesNotAlias(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	r := NewReader(src)
	out := r.FixedBytes(4)
	out[0] = 0xFF
	if src[0] == 0xFF {
		t.Fatalf("FixedBytes aliased the source buffer")
	}
}
