// SPDX-License-Identifier: GPL-2.0-only

package lzss

// Compress encodes as much of src as fits within both len(dst) and
// packetRemaining (the number of bytes still available before the next
// packet boundary), advancing dict in lockstep with the emitted bytes. It
// returns the number of bytes written to dst and the number of input bytes
// consumed; callers must retain any unconsumed src for the next call after
// resetting dict and packetRemaining at a packet boundary.
//
// Packet discipline: before each record the codec caps emission by
// min(len(dst), packetRemaining). If a planned record would not fit, a
// smaller single literal is attempted instead; if only one byte of budget
// remains, a filler byte is written and encoding stops for this call.
func Compress(dict *Dictionary, dst, src []byte, packetRemaining int) (written, consumed int) {
	budget := len(dst)
	if packetRemaining < budget {
		budget = packetRemaining
	}

	outPos, inPos := 0, 0
	matchBuf := make([]byte, MaxCopyLength)

	for inPos < len(src) {
		remaining := budget - outPos
		if remaining <= 0 {
			break
		}

		lookahead := len(src) - inPos
		if lookahead > MaxLookahead {
			lookahead = MaxLookahead
		}
		matchLen, matchPos := dict.findLongestMatch(src[inPos : inPos+lookahead])
		if matchLen > MaxCopyLength {
			matchLen = MaxCopyLength
		}

		progressed := false
		switch {
		case matchLen <= 1:
			if n := literalWireSize(src[inPos]); n <= remaining {
				writeLiteral(dst[outPos:], src[inPos])
				outPos += n
				dict.Append(src[inPos : inPos+1])
				inPos++
				progressed = true
			}
		case matchLen == 2:
			size := literalWireSize(src[inPos]) + literalWireSize(src[inPos+1])
			if size <= remaining {
				n := writeLiteral(dst[outPos:], src[inPos])
				n += writeLiteral(dst[outPos+n:], src[inPos+1])
				outPos += n
				dict.Append(src[inPos : inPos+2])
				inPos += 2
				progressed = true
			}
		default:
			if remaining >= 2 {
				dict.ExpandMatch(matchBuf[:matchLen], matchPos, matchLen)
				writeCopy(dst[outPos:outPos+2], matchPos, matchLen)
				outPos += 2
				inPos += matchLen
				progressed = true
			}
		}
		if progressed {
			continue
		}

		// The planned record does not fit in the remaining packet budget.
		if remaining == 1 {
			dst[outPos] = fillerByte
			outPos++
			break
		}
		if remaining <= 3 {
			if n := literalWireSize(src[inPos]); n <= remaining {
				writeLiteral(dst[outPos:], src[inPos])
				outPos += n
				dict.Append(src[inPos : inPos+1])
				inPos++
				continue
			}
		}
		break
	}
	return outPos, inPos
}

func literalWireSize(b byte) int {
	if b < 0x80 {
		return 1
	}
	return 2
}

func writeLiteral(dst []byte, b byte) int {
	if b < 0x80 {
		dst[0] = b
		return 1
	}
	dst[0] = b
	dst[1] = escapeMarker
	return 2
}

// writeCopy packs (position, length) into the 2-byte back-reference record:
// byte1 = 1 ppppppp (top 7 bits of the 11-bit position)
// byte2 = pppp llll (bottom 4 bits of position, then length-Threshold)
func writeCopy(dst []byte, position, length int) {
	lengthField := length - Threshold
	dst[0] = 0x80 | byte((position>>4)&0x7F)
	dst[1] = byte((position&0x0F)<<4) | byte(lengthField&0x0F)
}
