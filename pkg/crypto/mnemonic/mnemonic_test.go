package mnemonic

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

const abandon = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewMnemonic(t *testing.T) {
	tests := []struct {
		name        string
		entropyBits int
		wantWords   int
		wantError   bool
	}{
		{"128 bits (12 words)", 128, 12, false},
		{"160 bits (15 words)", 160, 15, false},
		{"192 bits (18 words)", 192, 18, false},
		{"256 bits (24 words)", 256, 24, false},
		{"Invalid: 64 bits", 64, 0, true},
		{"Invalid: 512 bits", 512, 0, true},
		{"Invalid: 129 bits", 129, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMnemonic(tt.entropyBits)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWords, m.WordCount())
			assert.True(t, bip39.IsMnemonicValid(m.Words()))
		})
	}
}

func TestFromWords(t *testing.T) {
	m, err := FromWords(abandon)
	require.NoError(t, err)
	assert.Equal(t, 12, m.WordCount())
	assert.Equal(t, abandon, m.Words())

	messy := "  ABANDON abandon\tabandon abandon abandon abandon abandon abandon abandon abandon abandon   about\n"
	m, err = FromWords(messy)
	require.NoError(t, err)
	assert.Equal(t, abandon, m.Words())

	_, err = FromWords(strings.Repeat("invalid ", 12))
	assert.Error(t, err)

	_, err = FromWords(strings.Replace(abandon, "about", "above", 1))
	assert.Error(t, err, "checksum mismatch")
}

func TestFromKeyRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		wantWords int
		wantError bool
	}{
		{"AES-128", 16, 12, false},
		{"AES-192", 24, 18, false},
		{"AES-256", 32, 24, false},
		{"Invalid: 15 bytes", 15, 0, true},
		{"Invalid: 18 bytes", 18, 0, true},
		{"Invalid: 33 bytes", 33, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := bytes.Repeat([]byte{0xA5}, tt.size)
			m, err := FromKey(key)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWords, m.WordCount())

			back, err := m.Key()
			require.NoError(t, err)
			assert.Equal(t, key, back)
		})
	}
}

func TestZeroKeyPhrase(t *testing.T) {
	m, err := FromKey(make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, abandon, m.Words())
}

func TestSeed(t *testing.T) {
	m, err := FromWords(abandon)
	require.NoError(t, err)

	assert.Equal(t, bip39.NewSeed(abandon, ""), m.Seed(""))

	// BIP-39 reference vector
	want := "c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04"
	assert.Equal(t, want, hex.EncodeToString(m.Seed("TREZOR")))
}

func TestDeriveKey(t *testing.T) {
	m, err := FromWords(abandon)
	require.NoError(t, err)

	for _, n := range []int{16, 24, 32} {
		key, err := m.DeriveKey("pass", n)
		require.NoError(t, err)
		assert.Len(t, key, n)
	}

	a, err := m.DeriveKey("pass", 32)
	require.NoError(t, err)
	b, err := m.DeriveKey("pass", 32)
	require.NoError(t, err)
	c, err := m.DeriveKey("other", 32)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	short, err := m.DeriveKey("pass", 16)
	require.NoError(t, err)
	assert.Equal(t, a[:16], short, "pbkdf2 output is a prefix of the longer key")

	_, err = m.DeriveKey("pass", 20)
	assert.Error(t, err)
}

func TestEntropyBitsFromWordCount(t *testing.T) {
	tests := []struct {
		wordCount int
		wantBits  int
		wantError bool
	}{
		{12, 128, false},
		{15, 160, false},
		{18, 192, false},
		{21, 224, false},
		{24, 256, false},
		{13, 0, true},
		{0, 0, true},
	}

	for _, tt := range tests {
		bits, err := EntropyBitsFromWordCount(tt.wordCount)
		if tt.wantError {
			assert.Error(t, err, "%d words", tt.wordCount)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.wantBits, bits)
	}
}

func TestSecureCompareWords(t *testing.T) {
	tests := []struct {
		name  string
		a     string
		b     string
		equal bool
	}{
		{"equal", abandon, abandon, true},
		{"different last word", abandon, strings.Replace(abandon, "about", "above", 1), false},
		{"different word count", "abandon abandon abandon", "abandon abandon", false},
		{"extra spaces", "abandon  abandon", "abandon abandon", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, SecureCompareWords(tt.a, tt.b))
		})
	}
}

func TestWordListImmutability(t *testing.T) {
	m, err := NewMnemonic(128)
	require.NoError(t, err)

	words := m.WordList()
	original := append([]string(nil), words...)
	words[0] = "modified"

	assert.Equal(t, original, m.WordList())
}

func BenchmarkDeriveKey(b *testing.B) {
	m, err := NewMnemonic(256)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.DeriveKey("passphrase", 32); err != nil {
			b.Fatal(err)
		}
	}
}
