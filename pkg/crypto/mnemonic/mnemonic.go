// Package mnemonic turns BIP-39 phrases into AES keys and back.
package mnemonic

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/Davincible/aesengine/pkg/secure"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
)

const (
	MinEntropyBits = 128
	MaxEntropyBits = 256

	// DeriveIterations is the PBKDF2 work factor applied on top of the
	// BIP-39 seed.
	DeriveIterations = 100000
)

var deriveSalt = []byte("aesengine-key-v1")

type Mnemonic struct {
	words []string
}

// NewMnemonic generates a fresh phrase carrying entropyBits of entropy.
func NewMnemonic(entropyBits int) (*Mnemonic, error) {
	if entropyBits < MinEntropyBits || entropyBits > MaxEntropyBits {
		return nil, fmt.Errorf("entropy bits must be between %d and %d", MinEntropyBits, MaxEntropyBits)
	}
	if entropyBits%32 != 0 {
		return nil, fmt.Errorf("entropy bits must be a multiple of 32")
	}

	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer secure.Zero(entropy)

	return FromKey(entropy)
}

// FromWords parses and checksums a phrase. Runs of whitespace are collapsed.
func FromWords(words string) (*Mnemonic, error) {
	fields := strings.Fields(strings.ToLower(words))
	if !bip39.IsMnemonicValid(strings.Join(fields, " ")) {
		return nil, fmt.Errorf("invalid mnemonic phrase")
	}
	return &Mnemonic{words: fields}, nil
}

// FromKey encodes raw key material as a phrase. AES keys of 16, 24 and 32
// bytes give 12, 18 and 24 words.
func FromKey(key []byte) (*Mnemonic, error) {
	if len(key) < 16 || len(key) > 32 || len(key)%4 != 0 {
		return nil, fmt.Errorf("key must be 16 to 32 bytes in steps of 4, got %d", len(key))
	}

	phrase, err := bip39.NewMnemonic(key)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key: %w", err)
	}
	return &Mnemonic{words: strings.Fields(phrase)}, nil
}

func (m *Mnemonic) Words() string {
	return strings.Join(m.words, " ")
}

func (m *Mnemonic) WordList() []string {
	result := make([]string, len(m.words))
	copy(result, m.words)
	return result
}

func (m *Mnemonic) WordCount() int {
	return len(m.words)
}

// Key returns the entropy the phrase encodes, i.e. the inverse of FromKey.
func (m *Mnemonic) Key() ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(m.Words())
	if err != nil {
		return nil, fmt.Errorf("failed to get entropy from mnemonic: %w", err)
	}
	return entropy, nil
}

// Seed returns the BIP-39 seed for passphrase.
func (m *Mnemonic) Seed(passphrase string) []byte {
	return bip39.NewSeed(m.Words(), passphrase)
}

// DeriveKey stretches the BIP-39 seed into an AES key of keyBytes bytes.
// Different passphrases give unrelated keys.
func (m *Mnemonic) DeriveKey(passphrase string, keyBytes int) ([]byte, error) {
	if keyBytes != 16 && keyBytes != 24 && keyBytes != 32 {
		return nil, fmt.Errorf("key length must be 16, 24 or 32 bytes, got %d", keyBytes)
	}

	seed := m.Seed(passphrase)
	defer secure.Zero(seed)

	return pbkdf2.Key(seed, deriveSalt, DeriveIterations, keyBytes, sha256.New), nil
}

// EntropyBitsFromWordCount maps 12..24 words to the entropy they carry.
func EntropyBitsFromWordCount(wordCount int) (int, error) {
	switch wordCount {
	case 12:
		return 128, nil
	case 15:
		return 160, nil
	case 18:
		return 192, nil
	case 21:
		return 224, nil
	case 24:
		return 256, nil
	default:
		return 0, fmt.Errorf("invalid word count: %d", wordCount)
	}
}

// SecureCompareWords compares two phrases word by word without an early exit.
func SecureCompareWords(a, b string) bool {
	aWords := strings.Fields(a)
	bWords := strings.Fields(b)

	if len(aWords) != len(bWords) {
		return false
	}

	match := true
	for i := range aWords {
		if !secure.ConstantTimeCompare([]byte(aWords[i]), []byte(bWords[i])) {
			match = false
		}
	}
	return match
}
