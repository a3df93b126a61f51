// SPDX-License-Identifier: GPL-2.0-only

package ring

// fakeFlash is an in-memory NOR flash simulator: Erase fills a region with
// 0xFF, WriteNoErase ANDs bytes in (so writing into already-erased space
// behaves like real NOR flash, and writing into non-erased space correctly
// fails to produce the intended bits, letting verify-mismatch tests work).
type fakeFlash struct {
	data        [NumSectors * SectorSize]byte
	writeErrs   map[uint32]int // addr -> remaining failures to simulate
	readErrs    map[uint32]int
	writeCalls  int
	eraseCalls  int
}

func newFakeFlash() *fakeFlash {
	f := &fakeFlash{writeErrs: map[uint32]int{}, readErrs: map[uint32]int{}}
	for i := range f.data {
		f.data[i] = 0xFF
	}
	return f
}

func (f *fakeFlash) Erase(addr uint32, length uint32) error {
	f.eraseCalls++
	for i := uint32(0); i < length; i++ {
		f.data[addr+i] = 0xFF
	}
	return nil
}

func (f *fakeFlash) WriteNoErase(addr uint32, src []byte) error {
	f.writeCalls++
	if f.writeErrs[addr] > 0 {
		f.writeErrs[addr]--
		return nil // silently fails to program correctly; verify will catch it
	}
	for i, b := range src {
		f.data[addr+uint32(i)] &= b
	}
	return nil
}

func (f *fakeFlash) Read(addr uint32, dst []byte) error {
	copy(dst, f.data[addr:addr+uint32(len(dst))])
	return nil
}

type fakeWatchdog struct {
	kicks int
}

func (w *fakeWatchdog) Reset() { w.kicks++ }
