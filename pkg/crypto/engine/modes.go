package engine

import (
	"fmt"
	"strings"
)

// Mode selects how Process chains blocks. The numeric values are fixed.
type Mode int

const (
	ECBEncrypt Mode = iota
	ECBDecrypt
	CBCEncrypt
	CBCDecrypt
	CFBEncrypt
	CFBDecrypt
	OFB
	CTR
)

var modeNames = [...]string{
	ECBEncrypt: "ecb-encrypt",
	ECBDecrypt: "ecb-decrypt",
	CBCEncrypt: "cbc-encrypt",
	CBCDecrypt: "cbc-decrypt",
	CFBEncrypt: "cfb-encrypt",
	CFBDecrypt: "cfb-decrypt",
	OFB:        "ofb",
	CTR:        "ctr",
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= ECBEncrypt && m <= CTR
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode is the inverse of Mode.String.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
}

// step advances the chaining registers by one block x. The produced block is
// left in S, which Process then writes back over x.
//
//	mode     S             T afterwards
//	ECB-enc  E(x)          unchanged
//	ECB-dec  D(x)          unchanged
//	CBC-enc  E(T^x)        S
//	CBC-dec  D(x)^T        x
//	CFB-enc  E(T)^x        S
//	CFB-dec  E(T)^x        x
//	OFB      E(T)^x        E(T)
//	CTR      E(T)^x        T+1
func (e *Engine) step(mode Mode, r int, x [4]uint32) {
	switch mode {
	case ECBEncrypt:
		e.state = e.encrypt(r, x)
	case ECBDecrypt:
		e.state = e.decrypt(r, x)
	case CBCEncrypt:
		e.state = e.encrypt(r, xor(e.feedback, x))
		e.feedback = e.state
	case CBCDecrypt:
		// T is read before it is replaced by this block's ciphertext
		e.state = xor(e.decrypt(r, x), e.feedback)
		e.feedback = x
	case CFBEncrypt:
		e.state = xor(e.encrypt(r, e.feedback), x)
		e.feedback = e.state
	case CFBDecrypt:
		e.state = xor(e.encrypt(r, e.feedback), x)
		e.feedback = x
	case OFB:
		e.feedback = e.encrypt(r, e.feedback)
		e.state = xor(e.feedback, x)
	case CTR:
		e.state = xor(e.encrypt(r, e.feedback), x)
		e.feedback = increment(e.feedback)
	}
}

func xor(a, b [4]uint32) [4]uint32 {
	return [4]uint32{a[0] ^ b[0], a[1] ^ b[1], a[2] ^ b[2], a[3] ^ b[3]}
}

// increment adds one to the low word of the counter. A wrap of the low word
// carries into word 2 only; word 2 itself wraps without touching words 0 and 1.
func increment(c [4]uint32) [4]uint32 {
	c[3]++
	if c[3] == 0 {
		c[2]++
	}
	return c
}

// Inverse returns the mode that undoes m. OFB and CTR are their own inverse.
func (m Mode) Inverse() Mode {
	switch m {
	case ECBEncrypt:
		return ECBDecrypt
	case ECBDecrypt:
		return ECBEncrypt
	case CBCEncrypt:
		return CBCDecrypt
	case CBCDecrypt:
		return CBCEncrypt
	case CFBEncrypt:
		return CFBDecrypt
	case CFBDecrypt:
		return CFBEncrypt
	}
	return m
}

// Chained reports whether m reads or writes the T register.
func (m Mode) Chained() bool {
	return m.Valid() && m != ECBEncrypt && m != ECBDecrypt
}

// Decrypting reports whether m is the decrypt half of ECB, CBC or CFB.
func (m Mode) Decrypting() bool {
	return m == ECBDecrypt || m == CBCDecrypt || m == CFBDecrypt
}
