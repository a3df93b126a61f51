// SPDX-License-Identifier: GPL-2.0-only

package lzss

// Frozen wire parameters. These never vary at runtime: a single fixed
// configuration is the whole point of this codec (contrast with LZO1X's
// per-call compression level).
const (
	// DictionarySize is the circular back-reference window, matching the
	// 11-bit position field exactly (1 << 11).
	DictionarySize = 2048

	// MatchBits is the width of the wire length field.
	MatchBits = 4

	// Threshold is the minimum match length a copy record can encode.
	Threshold = 3

	// MaxLookahead bounds how far the matcher searches ahead (spec's
	// "maximum match length"); see MaxCopyLength for the wire-encodable cap.
	MaxLookahead = (1 << MatchBits) + Threshold - 1 // 18

	// reservedLengthField is the 4-bit length-field value that marks a
	// copy-shaped record as a non-ASCII literal escape instead of a copy.
	reservedLengthField = (1 << MatchBits) - 1 // 15

	// MaxCopyLength is the longest match a copy record can actually encode:
	// the length field has 16 possible values (0..15) but 15 is reserved
	// for the literal escape, so only 0..14 select a real copy length.
	MaxCopyLength = Threshold + reservedLengthField - 1 // 17

	// escapeMarker is byte2 of a non-ASCII literal record.
	escapeMarker = 0x0F

	// fillerByte pads the tail of a packet when fewer than 2 bytes remain.
	fillerByte = 0xFF
)

// Dictionary is the shared circular back-reference window. The compressor
// and decompressor each own one instance and must keep them in lockstep by
// appending exactly the same bytes in the same order; Reset must be called
// on both sides at every packet boundary.
type Dictionary struct {
	buffer [DictionarySize]byte
	tail   int
}

// Reset seeds the dictionary to all-zero with tail at size-1, matching the
// boot-time and per-packet initial state.
func (d *Dictionary) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.tail = DictionarySize - 1
}

func wrap(i int) int {
	i %= DictionarySize
	if i < 0 {
		i += DictionarySize
	}
	return i
}

// Append extends the dictionary with data, advancing tail.
func (d *Dictionary) Append(data []byte) {
	for _, c := range data {
		d.tail = wrap(d.tail + 1)
		d.buffer[d.tail] = c
	}
}

// ExpandMatch materializes length bytes of a back-reference starting at the
// absolute dictionary index position, writing them to dst and appending each
// one to the dictionary as it goes. The interleaved append is required for
// overlapping matches (position within length of the current tail): each
// byte must become visible to later reads in the same call, the same way
// the teacher's copyBackRef has to special-case dist < length on a flat
// buffer. Here the dictionary itself is the buffer being extended, so a
// single byte-at-a-time loop gets both cases for free.
func (d *Dictionary) ExpandMatch(dst []byte, position, length int) {
	for i := 0; i < length; i++ {
		b := d.buffer[wrap(position+i)]
		dst[i] = b
		d.tail = wrap(d.tail + 1)
		d.buffer[d.tail] = b
	}
}

// findLongestMatch scans the dictionary from tail backward (wrapping),
// mirroring the original firmware's dictionary_find_lonest_match: the scan
// direction alone decides ties, since a candidate only replaces the current
// best on a strictly greater length, and the closest-to-tail candidate is
// always seen first.
func (d *Dictionary) findLongestMatch(lookahead []byte) (length, position int) {
	maxLen := len(lookahead)
	if maxLen > MaxLookahead {
		maxLen = MaxLookahead
	}
	if maxLen == 0 {
		return 0, 0
	}
	best, bestPos := 0, 0
	i := d.tail
	for c := 0; c < DictionarySize; c++ {
		if d.buffer[i] == lookahead[0] {
			// Bytes past tail do not exist yet: ExpandMatch produces them
			// from the copy's own output, so compare against that.
			dist := wrap(d.tail - i)
			j := 1
			for j < maxLen {
				c := d.buffer[wrap(i+j)]
				if j > dist {
					c = lookahead[j-dist-1]
				}
				if c != lookahead[j] {
					break
				}
				j++
			}
			if j > best {
				best = j
				bestPos = i
				if j == maxLen {
					break
				}
			}
		}
		i--
		if i < 0 {
			i = DictionarySize - 1
		}
	}
	return best, bestPos
}
