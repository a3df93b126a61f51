// SPDX-License-Identifier: GPL-2.0-only

package hyperion

import (
	"io"

	"github.com/embeddedlog/hyperion/internal/lzss"
	"github.com/embeddedlog/hyperion/internal/ring"
	"github.com/embeddedlog/hyperion/logline"
)

// decompressionExpansionFactor bounds how much larger one packet's worth of
// decompressed text can be than its 1024-byte compressed form. A back
// reference can expand to lzss.MaxCopyLength bytes from a 2-byte record, so
// a packet that is pure back references expands by about half that factor;
// this sizes the scratch buffer generously rather than exactly.
const decompressionExpansionFactor = lzss.MaxCopyLength + 1

// Reader is the read-side glue (component D's consumer): it walks a ring
// log end to end, decompressing each packet with a dictionary that resets
// at every packet boundary, then decodes the resulting byte stream into
// human-readable lines via a Registry. Unlike the original firmware's
// incremental reader, this drains the whole ring up front into memory —
// reasonable for an offline dump tool, and it sidesteps having to reassemble
// a decoder frame that was split across a packet boundary.
type Reader struct {
	ringReader *ring.Reader
	registry   *logline.Registry
	decoded    []byte
	drained    bool
}

// NewReader positions a Reader at the oldest retained data in store.
func NewReader(store *ring.Store, registry *logline.Registry) (*Reader, error) {
	rr, err := store.NewReader()
	if err != nil {
		return nil, err
	}
	return &Reader{ringReader: rr, registry: registry}, nil
}

func (r *Reader) drainAll() error {
	if r.drained {
		return nil
	}
	var dict lzss.Dictionary
	dict.Reset()

	compBuf := make([]byte, ring.PacketSize)
	for {
		read, err := r.ringReader.ReadCompressed(compBuf)
		if err != nil {
			return err
		}
		if read == 0 {
			break
		}

		decBuf := make([]byte, ring.PacketSize*decompressionExpansionFactor)
		written, consumed := lzss.Decompress(&dict, decBuf, compBuf[:read])
		dict.Reset()

		if consumed < read {
			r.ringReader.Rewind(read - consumed)
			if consumed == 0 {
				break
			}
		}
		r.decoded = append(r.decoded, decBuf[:written]...)
	}
	r.drained = true
	return nil
}

// Next decodes as many complete lines as fit in dst from the backlog of
// decompressed bytes, returning the number of bytes written. Call it
// repeatedly with fresh buffers to walk the whole log; it returns io.EOF
// once everything has been decoded, or ErrDecodeBufferTooSmall if dst
// cannot hold even the next single line.
func (r *Reader) Next(dst []byte) (int, error) {
	if err := r.drainAll(); err != nil {
		return 0, err
	}
	if len(r.decoded) == 0 {
		return 0, io.EOF
	}

	n, unused := r.registry.Decode(dst, r.decoded)
	consumed := len(r.decoded) - unused
	r.decoded = r.decoded[consumed:]

	if n == 0 {
		if len(r.decoded) > 0 {
			return 0, ErrDecodeBufferTooSmall
		}
		return 0, io.EOF
	}
	return n, nil
}
