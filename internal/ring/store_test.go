// SPDX-License-Identifier: GPL-2.0-only

package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *fakeFlash, *fakeWatchdog) {
	t.Helper()
	flash := newFakeFlash()
	wd := &fakeWatchdog{}
	store, err := NewStore(flash, wd)
	require.NoError(t, err)
	return store, flash, wd
}

func TestNewStore_FreshFlashRecoversToOrigin(t *testing.T) {
	store, _, _ := newTestStore(t)
	require.Equal(t, StorageIndex{}, store.WriteIndex())
}

func TestWriteCompressed_AdvancesCursorAndVerifiesOnReadback(t *testing.T) {
	store, flash, _ := newTestStore(t)

	data := []byte("hello, flash")
	written, crossed, err := store.WriteCompressed(data)
	require.NoError(t, err)
	require.False(t, crossed)
	require.Equal(t, len(data), written)

	got := make([]byte, len(data))
	require.NoError(t, flash.Read(0, got))
	require.Equal(t, data, got)
	require.Equal(t, StorageIndex{Byte: uint32(len(data))}, store.WriteIndex())
}

func TestWriteCompressed_ReportsPacketBoundaryCrossing(t *testing.T) {
	store, _, _ := newTestStore(t)

	data := make([]byte, PacketSize+10)
	for i := range data {
		data[i] = byte(i)
	}
	written, crossed, err := store.WriteCompressed(data)
	require.NoError(t, err)
	require.True(t, crossed)
	require.Equal(t, int(PacketSize), written)
	require.Equal(t, StorageIndex{Page: PagesPerPacket}, store.WriteIndex())
}

func TestWriteCompressed_ErasesOnEnteringNewSector(t *testing.T) {
	store, flash, _ := newTestStore(t)

	// WriteCompressed returns at every packet boundary so the caller can
	// reset its dictionary; drive it in a loop to cross a whole sector.
	remaining := make([]byte, SectorSize)
	for len(remaining) > 0 {
		written, _, err := store.WriteCompressed(remaining)
		require.NoError(t, err)
		require.Greater(t, written, 0)
		remaining = remaining[written:]
	}
	require.GreaterOrEqual(t, flash.eraseCalls, 1)
	require.Equal(t, StorageIndex{Sector: 1}, store.WriteIndex())
}

func TestStorageWrite_RetriesThenFailsAfterBudgetExhausted(t *testing.T) {
	store, flash, wd := newTestStore(t)
	// Force every attempt in the retry budget to silently fail to program.
	flash.writeErrs[0] = writeRetryBudget + 5

	_, crossed, err := store.WriteCompressed([]byte("x"))
	require.ErrorIs(t, err, ErrVerifyFailure)
	require.False(t, crossed)
	require.GreaterOrEqual(t, wd.kicks, writeRetryBudget)
}

func TestStorageWrite_SucceedsAfterTransientFailures(t *testing.T) {
	store, flash, _ := newTestStore(t)
	flash.writeErrs[0] = 3 // fail three times, succeed on the fourth

	written, _, err := store.WriteCompressed([]byte("ok"))
	require.NoError(t, err)
	require.Equal(t, 2, written)
}

func TestEraseAll_ResetsCursorAndWipesFlash(t *testing.T) {
	store, flash, _ := newTestStore(t)
	_, _, err := store.WriteCompressed([]byte("data"))
	require.NoError(t, err)

	require.NoError(t, store.EraseAll())
	require.Equal(t, StorageIndex{}, store.WriteIndex())

	for _, b := range flash.data {
		require.Equal(t, byte(0xFF), b)
	}
}

func TestRecoverWriteIndex_Idempotent(t *testing.T) {
	flash := newFakeFlash()
	wd := &fakeWatchdog{}

	store1, err := NewStore(flash, wd)
	require.NoError(t, err)
	_, _, err = store1.WriteCompressed(make([]byte, PacketSize+PageSize))
	require.NoError(t, err)

	// Simulate a reboot: a fresh Store scanning the same flash image.
	store2, err := NewStore(flash, wd)
	require.NoError(t, err)
	require.Equal(t, store1.WriteIndex(), store2.WriteIndex())

	store3, err := NewStore(flash, wd)
	require.NoError(t, err)
	require.Equal(t, store2.WriteIndex(), store3.WriteIndex())
}

func TestRecoverWriteIndex_AlignsToPacketBoundary(t *testing.T) {
	flash := newFakeFlash()
	wd := &fakeWatchdog{}

	store1, err := NewStore(flash, wd)
	require.NoError(t, err)
	// Write less than one packet so the next boot must align forward.
	_, _, err = store1.WriteCompressed(make([]byte, PageSize+1))
	require.NoError(t, err)

	store2, err := NewStore(flash, wd)
	require.NoError(t, err)
	idx := store2.WriteIndex()
	require.Zero(t, idx.Page%PagesPerPacket)
	require.Zero(t, idx.Byte)
}
