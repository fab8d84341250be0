// Package gf implements GF(2^8) arithmetic over the Rijndael polynomial
// x^8 + x^4 + x^3 + x + 1 (0x11B) using exponentiation and logarithm tables
// for the generator 3.
package gf

import (
	"errors"
	"sync"
)

const (
	// Rijndael polynomial: x^8 + x^4 + x^3 + x + 1
	rijndaelPoly = 0x11B

	// Order of the multiplicative group.
	order = 255
)

// ErrDivideByZero is returned by Div when the divisor is 0.
var ErrDivideByZero = errors.New("gf: division by zero")

// Field holds the exp/log tables for generator 3. A Field is immutable after
// New returns and may be shared between goroutines.
type Field struct {
	exp [256]byte
	log [256]byte
}

var (
	defaultOnce  sync.Once
	defaultField *Field
)

// Default returns the process-wide field, building it on first use.
func Default() *Field {
	defaultOnce.Do(func() {
		defaultField = New()
	})
	return defaultField
}

// New builds the exp and log tables by stepping through the powers of 3.
func New() *Field {
	f := &Field{}

	a := byte(1)
	for c := 0; c < order; c++ {
		f.exp[c] = a
		f.log[a] = byte(c)

		// a*3 = a*2 ^ a
		a = mulBy2(a) ^ a
	}
	f.exp[order] = f.exp[0]
	// log(0) is undefined; Mul and Inv special-case zero operands
	f.log[0] = 0

	return f
}

// mulBy2 multiplies by x (2) modulo the Rijndael polynomial
func mulBy2(a byte) byte {
	if a&0x80 == 0 {
		return a << 1
	}
	return (a << 1) ^ byte(rijndaelPoly&0xFF)
}

// Exp returns 3^i.
func (f *Field) Exp(i int) byte {
	return f.exp[((i%order)+order)%order]
}

// Log returns the discrete logarithm of a to base 3. Log(0) is 0 by convention.
func (f *Field) Log(a byte) byte {
	return f.log[a]
}

// Mul multiplies a and b. The result is 0 if either operand is 0.
func (f *Field) Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[(int(f.log[a])+int(f.log[b]))%order]
}

// Inv returns the multiplicative inverse of a. The inverse of 0 is defined
// as 0, which is what the AES S-box construction expects.
func (f *Field) Inv(a byte) byte {
	if a == 0 {
		return 0
	}
	return f.exp[order-int(f.log[a])]
}

// Div returns a / b.
func (f *Field) Div(a, b byte) (byte, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == 0 {
		return 0, nil
	}
	return f.exp[(int(f.log[a])-int(f.log[b])+order)%order], nil
}

// Add adds a and b, which in characteristic 2 is XOR.
func Add(a, b byte) byte {
	return a ^ b
}
