// SPDX-License-Identifier: GPL-2.0-only

package ring

import "fmt"

// Store is the flash-backed ring log. It is not safe for concurrent use by
// itself: callers embedding it in a logger are expected to serialize access
// with their own mutex (see the root package's Logger), exactly as the
// original firmware holds a single global log mutex across the whole
// read/write/erase sequence rather than locking per component.
type Store struct {
	flash      Flash
	watchdog   Watchdog
	writeIndex StorageIndex
	scratch    [PageSize]byte
}

// NewStore creates a Store and recovers the write cursor by scanning flash
// for the active sector and last-written page, exactly as
// StorageLogger_Initialize/StorageLogger_initialize_write_index do.
func NewStore(flash Flash, watchdog Watchdog) (*Store, error) {
	if flash == nil || watchdog == nil {
		return nil, fmt.Errorf("ring: flash and watchdog collaborators are required")
	}
	s := &Store{flash: flash, watchdog: watchdog}
	if err := s.recoverWriteIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteIndex returns the current write cursor.
func (s *Store) WriteIndex() StorageIndex { return s.writeIndex }

func (s *Store) eraseSector(sector uint32) error {
	s.watchdog.Reset()
	idx := StorageIndex{Sector: sector}
	return s.flash.Erase(idx.PhysicalOffset(), SectorSize)
}

// EraseAll wipes every sector and resets the write cursor to (0,0,0),
// mirroring StorageLogger_EraseAll.
func (s *Store) EraseAll() error {
	for sec := uint32(0); sec < NumSectors; sec++ {
		if err := s.eraseSector(sec); err != nil {
			return err
		}
	}
	s.writeIndex = StorageIndex{}
	return nil
}

// storageWrite writes length bytes at index with write-no-erase, then reads
// back and compares, retrying up to the retry budget. Mirrors
// StorageLogger_storage_write.
func (s *Store) storageWrite(index StorageIndex, data []byte) (int, error) {
	addr := index.PhysicalOffset()
	verify := s.scratch[:len(data)]

	for try := 0; try < writeRetryBudget; try++ {
		s.watchdog.Reset()
		if err := s.flash.WriteNoErase(addr, data); err != nil {
			continue
		}
		if err := s.flash.Read(addr, verify); err != nil {
			continue
		}
		if bytesEqual(data, verify) {
			return len(data), nil
		}
	}
	return 0, ErrVerifyFailure
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (s *Store) pageIsEmpty(sector, page uint32) (bool, error) {
	idx := StorageIndex{Sector: sector, Page: page}
	buf := make([]byte, PageSize)
	if err := s.flash.Read(idx.PhysicalOffset(), buf); err != nil {
		return false, err
	}
	for _, b := range buf {
		if b != 0xFF {
			return false, nil
		}
	}
	return true, nil
}

func (s *Store) findLastUsedSector() (uint32, bool, error) {
	for sec := uint32(0); sec < NumSectors; sec++ {
		empty, err := s.pageIsEmpty(sec, PagesPerSector-1)
		if err != nil {
			return 0, false, err
		}
		if empty {
			return sec, true, nil
		}
	}
	return 0, false, nil
}

func (s *Store) findFirstUnusedPage() (sector, page uint32, found bool, err error) {
	sector, found, err = s.findLastUsedSector()
	if err != nil || !found {
		return 0, 0, false, err
	}
	for p := int(PagesPerSector) - 2; p >= 0; p-- {
		empty, err := s.pageIsEmpty(sector, uint32(p))
		if err != nil {
			return 0, 0, false, err
		}
		if !empty {
			return sector, uint32(p + 1), true, nil
		}
	}
	// Every page before the last is empty too: the sector is entirely unused.
	return sector, 0, true, nil
}

func alignToPacketBoundary(sector, page uint32) (uint32, uint32) {
	rem := page % PagesPerPacket
	if rem == 0 {
		return sector, page
	}
	page += PagesPerPacket - rem
	if page >= PagesPerSector {
		sector = (sector + 1) % NumSectors
		page = 0
	}
	return sector, page
}

func (s *Store) recoverWriteIndex() error {
	sector, page, found, err := s.findFirstUnusedPage()
	if err != nil {
		return err
	}
	if !found {
		if err := s.eraseSector(0); err != nil {
			return err
		}
		s.writeIndex = StorageIndex{}
		return nil
	}

	oldSector := sector
	sector, page = alignToPacketBoundary(sector, page)
	if sector != oldSector {
		if err := s.eraseSector(sector); err != nil {
			return err
		}
	}
	s.writeIndex = StorageIndex{Sector: sector, Page: page}
	return nil
}

// WriteCompressed appends data to the ring, page by page, erasing newly
// entered sectors as needed. It stops early (returning crossed=true) the
// moment the write cursor crosses a packet boundary, so the caller can reset
// its LZSS dictionary before producing more compressed bytes; the caller is
// expected to invoke WriteCompressed again for any remaining data after
// doing so. Mirrors StorageLogger_Write_Compressed.
func (s *Store) WriteCompressed(data []byte) (written int, crossed bool, err error) {
	for len(data) > 0 {
		freeInPage := PageSize - s.writeIndex.Byte
		length := freeInPage
		if uint32(len(data)) < length {
			length = uint32(len(data))
		}

		n, werr := s.storageWrite(s.writeIndex, data[:length])
		written += n
		if werr != nil {
			return written, false, werr
		}
		data = data[length:]

		oldSector, oldPage := s.writeIndex.Sector, s.writeIndex.Page
		s.writeIndex.increment(length)

		if s.writeIndex.Sector != oldSector {
			if err := s.eraseSector(s.writeIndex.Sector); err != nil {
				return written, false, err
			}
		}
		if crossedPacketBoundary(oldSector, oldPage, s.writeIndex.Sector, s.writeIndex.Page) {
			return written, true, nil
		}
	}
	return written, false, nil
}
