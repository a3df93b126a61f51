// SPDX-License-Identifier: GPL-2.0-only

package logline

import "errors"

// ErrBufferOverflow is returned when a rendered or decoded line does not fit
// the caller-supplied buffer. The caller may retry with more space; for
// renders, the line has already been salvaged with a truncation sentinel.
var ErrBufferOverflow = errors.New("logline: destination buffer too small")

// ErrFormattingError is returned when a format string has an unsupported or
// malformed specifier. The rendered line is replaced by a marker and the
// event is still emitted.
var ErrFormattingError = errors.New("logline: malformed or unsupported format specifier")
