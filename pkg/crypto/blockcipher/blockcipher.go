// Package blockcipher wraps the table-driven engine with key handling,
// padding and IV management for whole messages.
package blockcipher

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Davincible/aesengine/pkg/crypto/engine"
	"github.com/Davincible/aesengine/pkg/crypto/padding"
	"github.com/Davincible/aesengine/pkg/secure"
)

const (
	BlockSize = engine.BlockSize

	// chunkSize is the data region handed to each engine.
	chunkSize = 4096
)

var (
	ErrKeyRequired  = errors.New("key required")
	ErrDataRequired = errors.New("data required")
	ErrIVRequired   = errors.New("iv required")
	ErrNoIV         = errors.New("ecb mode takes no iv")
	ErrUnaligned    = errors.New("data is not a multiple of the block size")
	ErrShortMessage = errors.New("sealed message is shorter than its iv")
)

// Options configures a Cipher. Mode names the encryption direction; the
// decrypt variants are accepted and mapped to it. Padding applies to ECB and
// CBC only and defaults to PKCS7.
type Options struct {
	Mode    engine.Mode
	Padding padding.Padding
	IV      []byte
}

// Cipher encrypts and decrypts whole messages with one key. It is safe for
// concurrent use.
type Cipher struct {
	mu   sync.Mutex
	eng  *engine.Engine
	mode engine.Mode
	pad  padding.Padding
	iv   []byte
}

// New loads key into a fresh engine.
func New(key []byte, opts Options) (*Cipher, error) {
	if len(key) == 0 {
		return nil, ErrKeyRequired
	}

	mode := opts.Mode
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", engine.ErrInvalidMode, mode)
	}
	if mode.Decrypting() {
		mode = mode.Inverse()
	}

	if opts.IV != nil {
		if !mode.Chained() {
			return nil, ErrNoIV
		}
		if len(opts.IV) != BlockSize {
			return nil, fmt.Errorf("iv must be %d bytes, got %d", BlockSize, len(opts.IV))
		}
	}

	pad := opts.Padding
	if pad == nil {
		pad = padding.PKCS7
	}

	eng, err := engine.New(chunkSize)
	if err != nil {
		return nil, err
	}
	if err := eng.SetKeyBytes(key); err != nil {
		return nil, fmt.Errorf("failed to set key: %w", err)
	}

	return &Cipher{
		eng:  eng,
		mode: mode,
		pad:  pad,
		iv:   append([]byte(nil), opts.IV...),
	}, nil
}

// Mode returns the encryption-direction mode.
func (c *Cipher) Mode() engine.Mode { return c.mode }

// KeySize returns the size of the loaded key.
func (c *Cipher) KeySize() engine.KeySize { return c.eng.KeySize() }

// Encrypt encrypts plaintext under the configured IV.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	if plaintext == nil {
		return nil, ErrDataRequired
	}
	iv, err := c.configuredIV()
	if err != nil {
		return nil, err
	}
	return c.encrypt(iv, plaintext)
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if ciphertext == nil {
		return nil, ErrDataRequired
	}
	iv, err := c.configuredIV()
	if err != nil {
		return nil, err
	}
	return c.decrypt(iv, ciphertext)
}

// Seal encrypts plaintext under a fresh random IV and prepends the IV.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	if plaintext == nil {
		return nil, ErrDataRequired
	}
	if !c.mode.Chained() {
		return nil, ErrNoIV
	}

	iv, err := secure.SecureRandom(BlockSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}
	ct, err := c.encrypt(iv, plaintext)
	if err != nil {
		return nil, err
	}
	return append(iv, ct...), nil
}

// Open reverses Seal.
func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	if sealed == nil {
		return nil, ErrDataRequired
	}
	if !c.mode.Chained() {
		return nil, ErrNoIV
	}
	if len(sealed) < BlockSize {
		return nil, ErrShortMessage
	}
	return c.decrypt(sealed[:BlockSize], sealed[BlockSize:])
}

// Close wipes the key schedule. The Cipher is unusable afterwards.
func (c *Cipher) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eng.Reset()
}

func (c *Cipher) configuredIV() ([]byte, error) {
	if !c.mode.Chained() {
		return nil, nil
	}
	if c.iv == nil {
		return nil, ErrIVRequired
	}
	return c.iv, nil
}

func (c *Cipher) padded() bool {
	return c.mode == engine.ECBEncrypt || c.mode == engine.CBCEncrypt
}

func (c *Cipher) encrypt(iv, plaintext []byte) ([]byte, error) {
	if c.padded() {
		buf := c.pad.Pad(plaintext, BlockSize)
		if len(buf)%BlockSize != 0 {
			return nil, fmt.Errorf("%w: %d bytes with %s padding", ErrUnaligned, len(plaintext), c.pad.Name())
		}
		if err := c.run(c.mode, iv, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	return c.stream(c.mode, iv, plaintext)
}

func (c *Cipher) decrypt(iv, ciphertext []byte) ([]byte, error) {
	if c.padded() {
		if len(ciphertext)%BlockSize != 0 {
			return nil, fmt.Errorf("%w: %d bytes", ErrUnaligned, len(ciphertext))
		}
		buf := append([]byte(nil), ciphertext...)
		if err := c.run(c.mode.Inverse(), iv, buf); err != nil {
			return nil, err
		}
		return c.pad.Unpad(buf, BlockSize)
	}
	return c.stream(c.mode.Inverse(), iv, ciphertext)
}

// stream handles CFB, OFB and CTR. A trailing partial block is run as a
// zero-filled block and the output cut back to the input length.
func (c *Cipher) stream(mode engine.Mode, iv, in []byte) ([]byte, error) {
	n := len(in)
	buf := make([]byte, n+(BlockSize-n%BlockSize)%BlockSize)
	copy(buf, in)
	if err := c.run(mode, iv, buf); err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (c *Cipher) run(mode engine.Mode, iv, buf []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if iv != nil {
		if err := c.eng.SetIVBytes(iv); err != nil {
			return err
		}
	}
	if _, err := c.eng.ProcessBytes(mode, buf); err != nil {
		return fmt.Errorf("%s failed: %w", mode, err)
	}
	return nil
}

// EncryptBytes is a one-shot Encrypt that wipes the key schedule afterwards.
func EncryptBytes(data, key []byte, opts Options) ([]byte, error) {
	if data == nil {
		return nil, ErrDataRequired
	}
	c, err := New(key, opts)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Encrypt(data)
}

// DecryptBytes is a one-shot Decrypt that wipes the key schedule afterwards.
func DecryptBytes(data, key []byte, opts Options) ([]byte, error) {
	if data == nil {
		return nil, ErrDataRequired
	}
	c, err := New(key, opts)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Decrypt(data)
}
