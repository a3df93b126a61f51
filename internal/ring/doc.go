// SPDX-License-Identifier: GPL-2.0-only

/*
Package ring implements the flash-backed ring log: 12 sectors of 256 pages
of 256 bytes each, write-no-erase plus read-back verify with bounded
retries, and boot-time write-cursor recovery by scanning sector/page fill
state (erased flash reads back as 0xFF).

The package only moves already-compressed bytes; it knows nothing about the
LZSS codec. WriteCompressed reports when a write has crossed a packet
boundary (a multiple of PagesPerPacket pages) so the caller can reset its
LZSS dictionary in lockstep, matching the page-aligned packet size the
codec's packet discipline assumes.
*/
package ring
