package lzss

import (
	"bytes"
	"testing"
)

func TestDecompress_AsciiLiteral(t *testing.T) {
	var cdict, ddict Dictionary
	cdict.Reset()
	ddict.Reset()

	src := []byte("hi")
	dst := make([]byte, 16)
	n, _ := Compress(&cdict, dst, src, 16)

	out := make([]byte, 16)
	written, consumed := Decompress(&ddict, out, dst[:n])
	if !bytes.Equal(out[:written], src) {
		t.Fatalf("got %q want %q", out[:written], src)
	}
	if consumed != n {
		t.Fatalf("expected to consume all %d compressed bytes, got %d", n, consumed)
	}
}

func TestDecompress_NonAsciiLiteralEscape(t *testing.T) {
	var dict Dictionary
	dict.Reset()

	// byte1=0xFE (>=0x80), byte2=0x0F is the escape marker.
	src := []byte{0xFE, 0x0F}
	dst := make([]byte, 4)
	written, consumed := Decompress(&dict, dst, src)
	if written != 1 || dst[0] != 0xFE {
		t.Fatalf("expected single literal 0xFE, got % x", dst[:written])
	}
	if consumed != 2 {
		t.Fatalf("expected to consume 2 bytes, got %d", consumed)
	}
}

func TestDecompress_TwoConsecutiveFillersSkipped(t *testing.T) {
	var dict Dictionary
	dict.Reset()

	src := []byte{0xFF, 0xFF, 'A'}
	dst := make([]byte, 4)
	written, consumed := Decompress(&dict, dst, src)
	if written != 1 || dst[0] != 'A' {
		t.Fatalf("expected 'A' after skipped filler pair, got % x", dst[:written])
	}
	if consumed != 3 {
		t.Fatalf("expected all 3 bytes consumed, got %d", consumed)
	}
}

func TestDecompress_LoneFillerStopsDecoding(t *testing.T) {
	var dict Dictionary
	dict.Reset()

	src := []byte{0xFF}
	dst := make([]byte, 4)
	written, consumed := Decompress(&dict, dst, src)
	if written != 0 {
		t.Fatalf("lone filler should produce no output, got %d bytes", written)
	}
	if consumed != 1 {
		t.Fatalf("lone filler should be consumed, got %d", consumed)
	}
}

func TestDecompress_TruncatedRecordNotConsumed(t *testing.T) {
	var dict Dictionary
	dict.Reset()

	// High bit set, but no second byte: a truncated copy/escape record.
	src := []byte{0xA0}
	dst := make([]byte, 4)
	written, consumed := Decompress(&dict, dst, src)
	if written != 0 || consumed != 0 {
		t.Fatalf("truncated record must not be consumed, got written=%d consumed=%d", written, consumed)
	}
}

func TestDecompress_StopsBeforeOverflowingDestination(t *testing.T) {
	var cdict, ddict Dictionary
	cdict.Reset()
	ddict.Reset()

	src := []byte("abcabcabcabc") // long enough to produce a copy record
	dst := make([]byte, 32)
	n, _ := Compress(&cdict, dst, src, 32)

	small := make([]byte, 2)
	written, consumed := Decompress(&ddict, small, dst[:n])
	if written > 2 {
		t.Fatalf("decoder overflowed destination: wrote %d into a 2-byte buffer", written)
	}
	if consumed == n {
		t.Fatalf("decoder should not claim to have consumed the whole packet when destination is short")
	}
}

func TestDecompress_BackReferencePosition_IsAbsoluteDictionaryIndex(t *testing.T) {
	var dict Dictionary
	dict.Reset()
	dict.Append([]byte("abc"))

	out := make([]byte, 3)
	dict.ExpandMatch(out, dict.tail-2, 3)
	if string(out) != "abc" {
		t.Fatalf("expected dictionary replay 'abc', got %q", out)
	}
}

func TestDecompress_OverlappingSelfReferentialMatch(t *testing.T) {
	var dict Dictionary
	dict.Reset()
	dict.Append([]byte{'x'})

	// position == tail, length 5: must replicate 'x' five times by reading
	// bytes it is in the process of writing.
	out := make([]byte, 5)
	dict.ExpandMatch(out, dict.tail, 5)
	want := []byte{'x', 'x', 'x', 'x', 'x'}
	if !bytes.Equal(out, want) {
		t.Fatalf("overlapping expand mismatch: got % x want % x", out, want)
	}
}
