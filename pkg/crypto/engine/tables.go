package engine

import (
	"sync"

	"github.com/Davincible/aesengine/pkg/crypto/gf"
)

// Tables holds the key-independent lookup structures of the cipher: the
// S-box, its inverse and four rotated round tables per direction.
// Tables are never modified after NewTables returns.
type Tables struct {
	SBox    [256]byte
	InvSBox [256]byte
	Enc     [4][256]uint32
	Dec     [4][256]uint32
}

var (
	tablesOnce    sync.Once
	defaultTables *Tables
)

// DefaultTables returns the process-wide tables built over gf.Default().
func DefaultTables() *Tables {
	tablesOnce.Do(func() {
		defaultTables = NewTables(gf.Default())
	})
	return defaultTables
}

// NewTables derives all lookup tables from the field f.
func NewTables(f *gf.Field) *Tables {
	t := &Tables{}

	for i := 0; i < 256; i++ {
		a := byte(i)
		s := sboxValue(f, a)

		t.SBox[a] = s
		t.InvSBox[s] = a

		// MixColumns column {2,1,1,3}·s
		t.Enc[0][a] = uint32(f.Mul(2, s))<<24 | uint32(s)<<16 | uint32(s)<<8 | uint32(f.Mul(3, s))
		// InvMixColumns column {14,9,13,11}·a, indexed by the substituted byte
		t.Dec[0][s] = uint32(f.Mul(14, a))<<24 | uint32(f.Mul(9, a))<<16 | uint32(f.Mul(13, a))<<8 | uint32(f.Mul(11, a))
	}

	for n := 1; n < 4; n++ {
		for x := 0; x < 256; x++ {
			t.Enc[n][x] = rotr8(t.Enc[n-1][x])
			t.Dec[n][x] = rotr8(t.Dec[n-1][x])
		}
	}

	return t
}

// sboxValue applies the affine transform to the multiplicative inverse of a.
func sboxValue(f *gf.Field, a byte) byte {
	x := f.Inv(a)
	s := x
	for c := 0; c < 4; c++ {
		s = s<<1 | s>>7
		x ^= s
	}
	return x ^ 0x63
}

func rotr8(w uint32) uint32 { return w>>8 | w<<24 }
