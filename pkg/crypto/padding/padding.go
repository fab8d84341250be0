// Package padding implements block padding schemes used ahead of the
// block-mode ciphers.
package padding

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPadding = errors.New("invalid padding")

// Padding extends data to a whole number of blocks and strips it again.
type Padding interface {
	Pad(data []byte, blockSize int) []byte
	Unpad(data []byte, blockSize int) ([]byte, error)
	Name() string
}

var (
	PKCS7 Padding = pkcs7{}
	None  Padding = none{}
)

// ByName resolves "pkcs7" or "none". An empty name selects PKCS7.
func ByName(name string) (Padding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pkcs7", "pkcs#7":
		return PKCS7, nil
	case "none":
		return None, nil
	default:
		return nil, fmt.Errorf("unknown padding %q", name)
	}
}

type pkcs7 struct{}

func (pkcs7) Name() string { return "pkcs7" }

// Pad always appends between 1 and blockSize bytes, so block-aligned input
// gains a full block.
func (pkcs7) Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func (pkcs7) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: length %d is not a positive multiple of %d", ErrInvalidPadding, len(data), blockSize)
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: pad byte %#x", ErrInvalidPadding, n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}

type none struct{}

func (none) Name() string { return "none" }

func (none) Pad(data []byte, blockSize int) []byte {
	return append([]byte(nil), data...)
}

func (none) Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrInvalidPadding, len(data), blockSize)
	}
	return data, nil
}
