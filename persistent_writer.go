// SPDX-License-Identifier: GPL-2.0-only

package hyperion

import (
	"github.com/embeddedlog/hyperion/internal/lzss"
	"github.com/embeddedlog/hyperion/internal/ring"
)

// PersistentWriter compresses rendered lines through an LZSS dictionary and
// appends the compressed bytes to a ring.Store, resetting the dictionary at
// every packet boundary exactly as the original firmware's
// StorageLogger_Write loop does. It is meant to be driven from a Writer's
// Sink under the Logger's mutex — it keeps no lock of its own.
type PersistentWriter struct {
	store           *ring.Store
	dict            lzss.Dictionary
	packetRemaining int
	scratch         [ring.PacketSize]byte
}

// NewPersistentWriter wraps store, seeding a fresh dictionary and a full
// packet budget.
func NewPersistentWriter(store *ring.Store) *PersistentWriter {
	w := &PersistentWriter{store: store}
	w.dict.Reset()
	w.packetRemaining = ring.PacketSize
	return w
}

// Sink adapts Write to the Writer.Sink function type.
func (w *PersistentWriter) Sink(line []byte) { w.Write(line) }

// Write compresses and appends line, spanning as many packets as needed.
// Errors from the underlying store (verify failures) are absorbed here:
// per the error handling design, a VerifyFailure degrades to dropped
// output rather than propagating, since a single bad event must not stop
// the logger.
func (w *PersistentWriter) Write(line []byte) {
	for len(line) > 0 {
		written, consumed := lzss.Compress(&w.dict, w.scratch[:], line, w.packetRemaining)
		if written == 0 && consumed == 0 {
			break
		}
		line = line[consumed:]
		w.packetRemaining -= written

		_, crossed, _ := w.store.WriteCompressed(w.scratch[:written])

		if w.packetRemaining <= 0 || crossed {
			w.dict.Reset()
			w.packetRemaining = ring.PacketSize
		}
	}
}
