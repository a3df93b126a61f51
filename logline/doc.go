// SPDX-License-Identifier: GPL-2.0-only

// Package logline renders and decodes one log line at a time: the C-style
// printf subset described by a registered entry's format string, expanded
// either into a human-readable line or into the compact "\nNNNN|v1|v2|\n"
// wire form persisted through the ring, and decoded back again while
// tolerating arbitrary noise in the byte stream.
package logline
