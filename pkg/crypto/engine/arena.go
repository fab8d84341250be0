package engine

import (
	"encoding/binary"
)

// Arena layout. Offsets are fixed regardless of key size.
const (
	encKeysOffset   = 0x0000
	decKeysOffset   = 0x0400
	sboxOffset      = 0x0800
	invSBoxOffset   = 0x0c00
	encTablesOffset = 0x1000
	decTablesOffset = 0x2000
	dataOffset      = 0x3000

	zoneSize  = 0x0400
	tableSize = 256 * 4

	// MaxScheduleWords is the schedule length of a 256-bit key, 4*(14+1).
	MaxScheduleWords = 60
)

// Words is a view of big-endian 32-bit words over a byte zone of the arena.
type Words []byte

// At returns word i.
func (w Words) At(i int) uint32 {
	return binary.BigEndian.Uint32(w[i<<2:])
}

func (w Words) set(i int, v uint32) {
	binary.BigEndian.PutUint32(w[i<<2:], v)
}

// Len returns the number of words in the view.
func (w Words) Len() int { return len(w) / 4 }

// Arena is the single contiguous buffer an Engine works over. The key
// schedules, substitution boxes and round tables live at fixed offsets in
// front of the caller's data region.
type Arena struct {
	buf []byte
}

// newArena allocates an arena with a data region of dataSize bytes and copies
// the shared lookup tables into their zones.
func newArena(t *Tables, dataSize int) *Arena {
	a := &Arena{buf: make([]byte, dataOffset+dataSize)}

	copy(a.buf[sboxOffset:], t.SBox[:])
	copy(a.buf[invSBoxOffset:], t.InvSBox[:])
	for n := 0; n < 4; n++ {
		enc, dec := a.table(encTablesOffset, n), a.table(decTablesOffset, n)
		for x := 0; x < 256; x++ {
			enc.set(x, t.Enc[n][x])
			dec.set(x, t.Dec[n][x])
		}
	}

	return a
}

// EncKeys returns the encryption key schedule zone.
func (a *Arena) EncKeys() Words {
	return Words(a.buf[encKeysOffset : encKeysOffset+MaxScheduleWords*4])
}

// DecKeys returns the decryption key schedule zone.
func (a *Arena) DecKeys() Words {
	return Words(a.buf[decKeysOffset : decKeysOffset+MaxScheduleWords*4])
}

// SBox returns the substitution box zone.
func (a *Arena) SBox() []byte {
	return a.buf[sboxOffset : sboxOffset+256]
}

// InvSBox returns the inverse substitution box zone.
func (a *Arena) InvSBox() []byte {
	return a.buf[invSBoxOffset : invSBoxOffset+256]
}

// EncTable returns encryption round table n (0..3).
func (a *Arena) EncTable(n int) Words {
	return a.table(encTablesOffset, n)
}

// DecTable returns decryption round table n (0..3).
func (a *Arena) DecTable(n int) Words {
	return a.table(decTablesOffset, n)
}

func (a *Arena) table(base, n int) Words {
	off := base + n*zoneSize
	return Words(a.buf[off : off+tableSize])
}

// Data returns the caller's data region. Offsets passed to Process and
// FlushState are relative to its start.
func (a *Arena) Data() []byte {
	return a.buf[dataOffset:]
}

// readBlock loads four big-endian words from the data region at pos.
func (a *Arena) readBlock(pos int) (x0, x1, x2, x3 uint32) {
	b := a.Data()[pos : pos+BlockSize]
	return binary.BigEndian.Uint32(b[0:]),
		binary.BigEndian.Uint32(b[4:]),
		binary.BigEndian.Uint32(b[8:]),
		binary.BigEndian.Uint32(b[12:])
}

// writeBlock stores four words big-endian into the data region at pos.
func (a *Arena) writeBlock(pos int, x [4]uint32) {
	b := a.Data()[pos : pos+BlockSize]
	binary.BigEndian.PutUint32(b[0:], x[0])
	binary.BigEndian.PutUint32(b[4:], x[1])
	binary.BigEndian.PutUint32(b[8:], x[2])
	binary.BigEndian.PutUint32(b[12:], x[3])
}
