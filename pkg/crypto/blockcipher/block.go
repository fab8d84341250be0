package blockcipher

import (
	"crypto/cipher"
	"fmt"
	"sync"

	"github.com/Davincible/aesengine/pkg/crypto/engine"
)

type block struct {
	mu  sync.Mutex
	eng *engine.Engine
	ks  engine.KeySize
}

// NewBlock returns a crypto/cipher.Block backed by the engine, so it can be
// driven by the standard library modes.
func NewBlock(key []byte) (cipher.Block, error) {
	if len(key) == 0 {
		return nil, ErrKeyRequired
	}
	eng, err := engine.New(BlockSize)
	if err != nil {
		return nil, err
	}
	if err := eng.SetKeyBytes(key); err != nil {
		return nil, fmt.Errorf("failed to set key: %w", err)
	}
	return &block{eng: eng, ks: eng.KeySize()}, nil
}

func (b *block) BlockSize() int { return BlockSize }

func (b *block) Encrypt(dst, src []byte) { b.crypt(engine.ECBEncrypt, dst, src) }

func (b *block) Decrypt(dst, src []byte) { b.crypt(engine.ECBDecrypt, dst, src) }

func (b *block) crypt(mode engine.Mode, dst, src []byte) {
	if len(src) < BlockSize {
		panic("blockcipher: input not full block")
	}
	if len(dst) < BlockSize {
		panic("blockcipher: output not full block")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	data := b.eng.Data()
	copy(data, src[:BlockSize])
	if _, err := b.eng.Process(b.ks, mode, 0, BlockSize); err != nil {
		panic("blockcipher: " + err.Error())
	}
	copy(dst, data)
}
