// SPDX-License-Identifier: GPL-2.0-only

package lzss

// Decompress decodes one packet's worth of compressed bytes from src into
// dst, advancing dict identically to the Compress call that produced src.
// It stops when dst is full, when src is exhausted, or when the next record
// is truncated (a partial record at the end of src is never consumed, so
// the caller can retry once more bytes are available). It returns the
// number of bytes written to dst and the number of bytes of src consumed.
func Decompress(dict *Dictionary, dst, src []byte) (written, consumed int) {
	outPos, inPos := 0, 0
	for inPos < len(src) {
		if outPos >= len(dst) {
			break
		}

		b1 := src[inPos]

		if b1 == fillerByte {
			// A 0xFF in the last byte of src is the single-byte packet
			// filler and ends decoding; two consecutive 0xFF bytes are
			// skipped as a coalesced filler pair. Any other 0xFF is byte1
			// of a copy record whose position lies in 0x7F0..0x7FF.
			if inPos+1 >= len(src) {
				inPos++
				break
			}
			if src[inPos+1] == fillerByte {
				inPos += 2
				continue
			}
		}

		if b1 < 0x80 {
			// ASCII literal.
			dst[outPos] = b1
			dict.Append(src[inPos : inPos+1])
			outPos++
			inPos++
			continue
		}

		// High bit set: either a copy record or a non-ASCII literal escape.
		if inPos+1 >= len(src) {
			break // truncated record, do not consume the partial byte
		}
		b2 := src[inPos+1]
		lengthField := int(b2 & 0x0F)

		if lengthField == reservedLengthField {
			// Non-ASCII literal: byte1 carries the literal value itself.
			dst[outPos] = b1
			dict.Append(src[inPos : inPos+1])
			outPos++
			inPos += 2
			continue
		}

		position := (int(b1&0x7F) << 4) | int(b2>>4)
		length := lengthField + Threshold
		if outPos+length > len(dst) {
			break // would overflow destination; stop without consuming
		}
		dict.ExpandMatch(dst[outPos:outPos+length], position, length)
		outPos += length
		inPos += 2
	}
	return outPos, inPos
}
