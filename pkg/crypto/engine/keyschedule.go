package engine

import (
	"encoding/binary"
	"fmt"

	"github.com/Davincible/aesengine/pkg/secure"
)

// SetKey expands key into the encryption and decryption schedules. key must
// hold at least ks words; any further words are ignored. On error neither
// schedule is touched.
func (e *Engine) SetKey(ks KeySize, key ...uint32) error {
	if !ks.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidKeySize, ks)
	}
	if len(key) < int(ks) {
		return fmt.Errorf("%w: need %d key words, got %d", ErrInvalidKeySize, ks, len(key))
	}

	secure.Zero(e.encKeys)
	secure.Zero(e.decKeys)

	n := e.expandEncryption(ks, key)
	e.expandDecryption(n)

	e.ks = ks
	return nil
}

// SetKeyBytes loads a 16, 24 or 32 byte key.
func (e *Engine) SetKeyBytes(key []byte) error {
	ks, err := KeySizeOf(len(key))
	if err != nil {
		return err
	}

	var w [8]uint32
	for i := 0; i < int(ks); i++ {
		w[i] = binary.BigEndian.Uint32(key[4*i:])
	}
	return e.SetKey(ks, w[:]...)
}

// expandEncryption writes the encryption schedule and returns its length.
func (e *Engine) expandEncryption(ks KeySize, key []uint32) int {
	ek := e.encKeys
	nk := int(ks)
	n := ks.ScheduleWords()

	for i := 0; i < nk; i++ {
		ek.set(i, key[i])
	}

	rcon := byte(1)
	for i := nk; i < n; i++ {
		k := ek.At(i - 1)
		if i%nk == 0 || (nk == 8 && i%nk == 4) {
			k = e.subWord(k)
		}
		if i%nk == 0 {
			k = k<<8 ^ k>>24 ^ uint32(rcon)<<24
			rcon = xtime(rcon)
		}
		ek.set(i, ek.At(i-nk)^k)
	}

	return n
}

// expandDecryption derives the decryption schedule from the first n words of
// the encryption schedule. Rounds are taken in reverse order, and within a
// round words 1 and 3 trade places to match the swapped input of decrypt.
// The first and last rounds are copied as is; interior rounds go through
// InvMixColumns by way of the decryption tables.
func (e *Engine) expandDecryption(n int) {
	ek, dk := e.encKeys, e.decKeys
	s := e.sbox

	for j := 0; j < n; j += 4 {
		for jj := 0; jj < 4; jj++ {
			k := ek.At(n - (4 + j) + (4-jj)%4)
			if j < 4 || j >= n-4 {
				dk.set(j+jj, k)
				continue
			}
			dk.set(j+jj, e.dec[0].At(int(s[k>>24]))^
				e.dec[1].At(int(s[k>>16&0xff]))^
				e.dec[2].At(int(s[k>>8&0xff]))^
				e.dec[3].At(int(s[k&0xff])))
		}
	}
}

// subWord applies the S-box to each byte of w.
func (e *Engine) subWord(w uint32) uint32 {
	s := e.sbox
	return uint32(s[w>>24])<<24 |
		uint32(s[w>>16&0xff])<<16 |
		uint32(s[w>>8&0xff])<<8 |
		uint32(s[w&0xff])
}

// xtime multiplies by x modulo 0x11B.
func xtime(b byte) byte {
	if b&0x80 != 0 {
		return b<<1 ^ 0x1b
	}
	return b << 1
}
