// SPDX-License-Identifier: GPL-2.0-only

package ring

// Reader walks the ring log forward from the oldest retained sector. There
// is never more than one active reader, matching the single-reader-cursor
// non-goal stated for this log.
type Reader struct {
	store *Store
	index StorageIndex
}

func (s *Store) sectorIsEmpty(sector uint32) (bool, error) {
	return s.pageIsEmpty(sector, 0)
}

// findStartOfLogSector returns the first sector after the write sector that
// has a non-empty first page: the oldest retained data. Mirrors
// StorageLogger_find_start_of_log_sector.
func (s *Store) findStartOfLogSector() (uint32, error) {
	sector := (s.writeIndex.Sector + 1) % NumSectors
	for tries := 1; tries < NumSectors; tries++ {
		empty, err := s.sectorIsEmpty(sector)
		if err != nil {
			return 0, err
		}
		if !empty {
			return sector, nil
		}
		sector = (sector + 1) % NumSectors
	}
	return sector, nil
}

// NewReader positions a reader at the oldest retained sector.
func (s *Store) NewReader() (*Reader, error) {
	sector, err := s.findStartOfLogSector()
	if err != nil {
		return nil, err
	}
	return &Reader{store: s, index: StorageIndex{Sector: sector}}, nil
}

// Index returns the reader's current cursor.
func (r *Reader) Index() StorageIndex { return r.index }

func (s *Store) maxReadableBytes(readIndex StorageIndex) uint32 {
	sectorsDiff := (NumSectors + s.writeIndex.Sector - readIndex.Sector) % NumSectors
	pageDiff := int64(s.writeIndex.Page) - int64(readIndex.Page)
	byteDiff := int64(s.writeIndex.Byte) - int64(readIndex.Byte)
	total := int64(sectorsDiff)*SectorSize + pageDiff*PageSize + byteDiff
	if total < 0 {
		return 0
	}
	return uint32(total)
}

// ReadCompressed reads up to len(dst) bytes (bounded by what is actually
// available between the reader cursor and the write cursor), advancing the
// reader. Mirrors StorageLogger_Read_Compressed.
func (r *Reader) ReadCompressed(dst []byte) (int, error) {
	avail := r.store.maxReadableBytes(r.index)
	length := uint32(len(dst))
	if length > avail {
		length = avail
	}
	if length == 0 {
		return 0, nil
	}

	r.store.watchdog.Reset()
	addr := r.index.PhysicalOffset()
	if err := r.store.flash.Read(addr, dst[:length]); err != nil {
		return 0, err
	}
	r.index.increment(length)
	return int(length), nil
}

// Rewind moves the reader cursor backward by length bytes, used by the
// top-level Reader glue when a decode call consumes fewer compressed bytes
// than were read from flash (mirrors StorageLogger_decrement_index usage in
// StorageLogger_Read).
func (r *Reader) Rewind(length int) {
	r.index.decrement(uint32(length))
}
