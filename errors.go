// SPDX-License-Identifier: GPL-2.0-only

package hyperion

import "errors"

// ErrDecodeBufferTooSmall is returned by Reader.Next when the destination
// buffer cannot hold even the single next decoded line; the caller should
// retry with a larger buffer.
var ErrDecodeBufferTooSmall = errors.New("hyperion: destination buffer too small for next decoded line")
