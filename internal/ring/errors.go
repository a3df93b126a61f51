// SPDX-License-Identifier: GPL-2.0-only

package ring

import "errors"

// ErrVerifyFailure is returned when a write could not be verified within
// the retry budget: the flash may be worn out or physically faulty.
var ErrVerifyFailure = errors.New("ring: write verify failed after retry budget exhausted")
