package replay

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/duel/internal/core/duel"
	"github.com/zeusync/duel/internal/core/palette"
	"github.com/zeusync/duel/pkg/generic"
)

var buffers = generic.NewPool(func() *[]byte {
	b := make([]byte, 0, 256)
	return &b
}).WithReset(func(b *[]byte) *[]byte {
	*b = (*b)[:0]
	return b
})

// digester folds snapshots into a running xxhash. Pawn IDs are random per
// run and left out; positions and colours are hashed by their bit pattern.
type digester struct {
	h   *xxhash.Digest
	buf *[]byte
}

func newDigester() *digester {
	return &digester{h: xxhash.New(), buf: buffers.Get()}
}

func (d *digester) add(s duel.Snapshot) {
	b := (*d.buf)[:0]
	b = binary.LittleEndian.AppendUint64(b, s.Tick)
	b = append(b, s.State...)
	b = append(b, s.Active...)
	b = append(b, s.Winner...)
	for _, life := range s.Lives {
		b = binary.LittleEndian.AppendUint32(b, uint32(int32(life)))
	}
	b = binary.LittleEndian.AppendUint32(b, uint32(s.Step))
	for _, p := range s.Pawns {
		b = append(b, p.Side...)
		b = appendFloat(b, p.X)
		b = appendFloat(b, p.Y)
		b = appendFloat(b, p.Radius)
		b = appendColor(b, p.Color)
		if p.Dying {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	}
	_, _ = d.h.Write(b)
	*d.buf = b
}

func (d *digester) sum() uint64 {
	return d.h.Sum64()
}

// release returns the scratch buffer to the pool. add must not be called
// afterwards. Repeat calls are no-ops.
func (d *digester) release() {
	if d.buf != nil {
		buffers.Put(d.buf)
		d.buf = nil
	}
}

func appendFloat(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
}

func appendColor(b []byte, c palette.Color) []byte {
	return appendFloat(appendFloat(appendFloat(appendFloat(b, c.R), c.G), c.B), c.A)
}
