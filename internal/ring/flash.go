// SPDX-License-Identifier: GPL-2.0-only

package ring

// Flash is the host-supplied raw NOR flash collaborator. Addresses are byte
// offsets from the start of the ring's reserved flash region. Erase always
// operates on a whole SectorSize-aligned region; WriteNoErase programs bytes
// without erasing (the caller is responsible for writing only into already-
// erased space); Read always succeeds for any in-range address.
//
// Implementing this interface (and Watchdog, below) is the only integration
// work a host needs to do; the raw driver itself is out of scope here.
type Flash interface {
	Erase(addr uint32, length uint32) error
	WriteNoErase(addr uint32, src []byte) error
	Read(addr uint32, dst []byte) error
}

// Watchdog is kicked before every erase and before every write-verify retry,
// mirroring Os_watchdog_reset calls in the original firmware.
type Watchdog interface {
	Reset()
}
