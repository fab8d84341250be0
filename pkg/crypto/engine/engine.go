// Package engine implements a table-driven AES core with ECB, CBC, CFB, OFB
// and CTR chaining over a fixed-layout arena.
//
// An Engine owns one arena and one pair of chaining registers: the state
// register S holds the last block produced, the feedback register T holds the
// IV, the previous ciphertext or the counter depending on the mode. The
// registers persist across Process calls until SetState, SetIV or Reset.
// An Engine must not be used from several goroutines at once; the lookup
// tables it is built from are immutable and may be shared freely.
package engine

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Davincible/aesengine/pkg/secure"
)

// BlockSize is the AES block size in bytes.
const BlockSize = 16

// Errors returned by the engine. Every check runs before the arena or the
// registers are touched, so a failed call leaves the engine unchanged.
var (
	ErrInvalidKeySize  = errors.New("invalid key size")
	ErrInvalidMode     = errors.New("invalid cipher mode")
	ErrUnaligned       = errors.New("position is not aligned to the block size")
	ErrOutOfRange      = errors.New("range exceeds the data region")
	ErrInvalidDataSize = errors.New("data region size must be a positive multiple of the block size")
	ErrNoKey           = errors.New("no key has been set")
	ErrKeyMismatch     = errors.New("key size does not match the loaded key")
)

// KeySize is the key length in 32-bit words.
type KeySize int

const (
	KeySize128 KeySize = 4
	KeySize192 KeySize = 6
	KeySize256 KeySize = 8
)

// KeySizeOf maps a key length in bytes to its KeySize.
func KeySizeOf(n int) (KeySize, error) {
	switch n {
	case 16:
		return KeySize128, nil
	case 24:
		return KeySize192, nil
	case 32:
		return KeySize256, nil
	default:
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidKeySize, n)
	}
}

// Valid reports whether ks is one of the supported key sizes.
func (ks KeySize) Valid() bool {
	return ks == KeySize128 || ks == KeySize192 || ks == KeySize256
}

// Rounds returns the number of inner table rounds; the final S-box round
// is not counted.
func (ks KeySize) Rounds() int { return int(ks) + 5 }

// ScheduleWords returns the length of the expanded key schedule.
func (ks KeySize) ScheduleWords() int { return 4*int(ks) + 28 }

// Bits returns the key length in bits.
func (ks KeySize) Bits() int { return int(ks) * 32 }

func (ks KeySize) String() string {
	if !ks.Valid() {
		return fmt.Sprintf("keysize(%d)", int(ks))
	}
	return fmt.Sprintf("AES-%d", ks.Bits())
}

// Engine is one cipher session: an arena plus the S and T registers.
type Engine struct {
	arena *Arena
	ks    KeySize

	// zone views, resolved once
	encKeys, decKeys Words
	sbox, invSBox    []byte
	enc, dec         [4]Words

	state    [4]uint32
	feedback [4]uint32
}

// New creates an Engine over the shared default tables with a data region
// of dataSize bytes.
func New(dataSize int) (*Engine, error) {
	return NewWithTables(DefaultTables(), dataSize)
}

// NewWithTables creates an Engine whose arena is filled from t.
func NewWithTables(t *Tables, dataSize int) (*Engine, error) {
	if dataSize <= 0 || dataSize%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDataSize, dataSize)
	}

	a := newArena(t, dataSize)
	e := &Engine{
		arena:   a,
		encKeys: a.EncKeys(),
		decKeys: a.DecKeys(),
		sbox:    a.SBox(),
		invSBox: a.InvSBox(),
	}
	for n := 0; n < 4; n++ {
		e.enc[n] = a.EncTable(n)
		e.dec[n] = a.DecTable(n)
	}
	return e, nil
}

// Arena exposes the engine's arena.
func (e *Engine) Arena() *Arena { return e.arena }

// Data returns the data region of the arena.
func (e *Engine) Data() []byte { return e.arena.Data() }

// KeySize returns the size of the loaded key, or 0 if none is loaded.
func (e *Engine) KeySize() KeySize { return e.ks }

// SetState overwrites the S register.
func (e *Engine) SetState(x0, x1, x2, x3 uint32) {
	e.state = [4]uint32{x0, x1, x2, x3}
}

// SetIV overwrites the T register.
func (e *Engine) SetIV(x0, x1, x2, x3 uint32) {
	e.feedback = [4]uint32{x0, x1, x2, x3}
}

// SetIVBytes loads a 16-byte big-endian IV or initial counter into T.
func (e *Engine) SetIVBytes(iv []byte) error {
	if len(iv) != BlockSize {
		return fmt.Errorf("iv must be %d bytes, got %d", BlockSize, len(iv))
	}
	e.SetIV(
		binary.BigEndian.Uint32(iv[0:]),
		binary.BigEndian.Uint32(iv[4:]),
		binary.BigEndian.Uint32(iv[8:]),
		binary.BigEndian.Uint32(iv[12:]),
	)
	return nil
}

// State returns the S register.
func (e *Engine) State() [4]uint32 { return e.state }

// IV returns the T register.
func (e *Engine) IV() [4]uint32 { return e.feedback }

// FlushState writes S big-endian into the data region at pos and returns 16.
func (e *Engine) FlushState(pos int) (int, error) {
	if err := e.checkRange(pos, BlockSize); err != nil {
		return 0, err
	}
	e.arena.writeBlock(pos, e.state)
	return BlockSize, nil
}

// Process transforms the data region in place, one 16-byte block at a time,
// starting at pos. A trailing partial block is left untouched. It returns the
// number of bytes processed. Nothing is modified when an error is returned.
func (e *Engine) Process(ks KeySize, mode Mode, pos, length int) (int, error) {
	if !ks.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidKeySize, ks)
	}
	if e.ks == 0 {
		return 0, ErrNoKey
	}
	if ks != e.ks {
		return 0, fmt.Errorf("%w: got %d words, loaded %d", ErrKeyMismatch, ks, e.ks)
	}
	if !mode.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMode, mode)
	}
	if err := e.checkRange(pos, length); err != nil {
		return 0, err
	}

	r := ks.Rounds()
	processed := 0
	for length >= BlockSize {
		x0, x1, x2, x3 := e.arena.readBlock(pos)
		e.step(mode, r, [4]uint32{x0, x1, x2, x3})
		e.arena.writeBlock(pos, e.state)

		processed += BlockSize
		pos += BlockSize
		length -= BlockSize
	}
	return processed, nil
}

// ProcessBytes runs buf through the data region in chunks using the loaded
// key, writing the result back into buf. Only whole blocks are processed.
func (e *Engine) ProcessBytes(mode Mode, buf []byte) (int, error) {
	if e.ks == 0 {
		return 0, ErrNoKey
	}

	data := e.Data()
	processed := 0
	for len(buf)-processed >= BlockSize {
		chunk := buf[processed:]
		if len(chunk) > len(data) {
			chunk = chunk[:len(data)]
		}
		chunk = chunk[:len(chunk)-len(chunk)%BlockSize]

		copy(data, chunk)
		n, err := e.Process(e.ks, mode, 0, len(chunk))
		if err != nil {
			return processed, err
		}
		copy(chunk, data[:n])
		processed += n
	}
	return processed, nil
}

// Reset wipes both key schedules and the chaining registers.
func (e *Engine) Reset() {
	secure.Zero(e.encKeys)
	secure.Zero(e.decKeys)
	e.state = [4]uint32{}
	e.feedback = [4]uint32{}
	e.ks = 0
}

func (e *Engine) checkRange(pos, length int) error {
	if pos < 0 || length < 0 {
		return fmt.Errorf("%w: pos %d, length %d", ErrOutOfRange, pos, length)
	}
	if pos%BlockSize != 0 {
		return fmt.Errorf("%w: %d", ErrUnaligned, pos)
	}
	if pos+length > len(e.Data()) {
		return fmt.Errorf("%w: %d+%d > %d", ErrOutOfRange, pos, length, len(e.Data()))
	}
	return nil
}
