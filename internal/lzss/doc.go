// SPDX-License-Identifier: GPL-2.0-only

/*
Package lzss implements the fixed-parameter LZSS streaming codec used by the
event log: a 2048-byte circular dictionary seeded to all-zero, 11-bit
back-reference positions, a 4-bit match-length field (threshold 3, maximum
encodable copy length 17), and byte-oriented packet framing that resets the
dictionary at every 1024-byte packet boundary so packets can be decoded
independently.

Compress and Decompress operate on one packet's worth of data at a time; the
dictionary is owned by the caller (typically the ring-storage glue in the
parent package) and must be reset with Dictionary.Reset at every packet
boundary on both the compress and decompress side.

	var dict lzss.Dictionary
	dict.Reset()
	written, consumed := lzss.Compress(&dict, dst, src, packetRemaining)
*/
package lzss
