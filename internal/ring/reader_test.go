// SPDX-License-Identifier: GPL-2.0-only

package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReader_StartsAtOldestRetainedSector(t *testing.T) {
	store, flash, _ := newTestStore(t)
	store.writeIndex = StorageIndex{Sector: 1}

	// Simulate sector 3 holding old retained data: its first page is not
	// all-0xFF, while sector 2 (checked first) is untouched.
	idx := StorageIndex{Sector: 3}
	require.NoError(t, flash.WriteNoErase(idx.PhysicalOffset(), []byte("old data")))

	sector, err := store.findStartOfLogSector()
	require.NoError(t, err)
	require.Equal(t, uint32(3), sector)
}

func TestNewReader_DegenerateEmptyRingStartsAtSectorZero(t *testing.T) {
	store, _, _ := newTestStore(t)

	r, err := store.NewReader()
	require.NoError(t, err)
	// Nothing has ever been written, so every sector's first page still
	// reads all-0xFF: the scan exhausts without finding retained data.
	require.Equal(t, StorageIndex{Sector: 0}, r.Index())
}

func TestReadCompressed_MonotoneReaderSeesFreshWrite(t *testing.T) {
	store, _, _ := newTestStore(t)

	data := []byte("persisted bytes")
	_, _, err := store.WriteCompressed(data)
	require.NoError(t, err)

	r := &Reader{store: store, index: StorageIndex{}}
	dst := make([]byte, len(data))
	n, err := r.ReadCompressed(dst)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, dst)
	require.Equal(t, StorageIndex{Byte: uint32(len(data))}, r.Index())
}

func TestReadCompressed_BoundedByAvailableWrittenBytes(t *testing.T) {
	store, _, _ := newTestStore(t)
	data := []byte("short")
	_, _, err := store.WriteCompressed(data)
	require.NoError(t, err)

	r := &Reader{store: store, index: StorageIndex{}}
	dst := make([]byte, 4096)
	n, err := r.ReadCompressed(dst)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
}

func TestReader_RewindMovesCursorBack(t *testing.T) {
	store, _, _ := newTestStore(t)
	data := []byte("0123456789")
	_, _, err := store.WriteCompressed(data)
	require.NoError(t, err)

	r := &Reader{store: store, index: StorageIndex{}}
	dst := make([]byte, len(data))
	n, err := r.ReadCompressed(dst)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	r.Rewind(4)
	require.Equal(t, StorageIndex{Byte: uint32(len(data) - 4)}, r.Index())

	dst2 := make([]byte, 4)
	n2, err := r.ReadCompressed(dst2)
	require.NoError(t, err)
	require.Equal(t, data[len(data)-4:], dst2[:n2])
}

func TestMaxReadableBytes_ZeroWhenReaderAtWriteCursor(t *testing.T) {
	store, _, _ := newTestStore(t)
	require.Zero(t, store.maxReadableBytes(store.WriteIndex()))
}
