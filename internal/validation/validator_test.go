package validation

import (
	"strings"
	"testing"

	"github.com/Davincible/aesengine/pkg/crypto/engine"
	"github.com/Davincible/aesengine/pkg/crypto/padding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHex(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"00ff", false},
		{" DEADbeef ", false},
		{"", true},
		{"abc", true},
		{"zz", true},
	}

	for _, tt := range tests {
		err := ValidateHex(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "%q", tt.input)
		} else {
			assert.NoError(t, err, "%q", tt.input)
		}
	}
}

func TestParseKey(t *testing.T) {
	for _, n := range []int{16, 24, 32} {
		key, err := ParseKey(strings.Repeat("ab", n))
		require.NoError(t, err)
		assert.Len(t, key, n)
	}

	_, err := ParseKey(strings.Repeat("ab", 20))
	assert.ErrorIs(t, err, engine.ErrInvalidKeySize)

	_, err = ParseKey("xyz")
	assert.Error(t, err)
}

func TestParseIV(t *testing.T) {
	iv, err := ParseIV("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	assert.Equal(t, byte(0x0f), iv[15])

	_, err = ParseIV("0001")
	assert.Error(t, err)
	_, err = ParseIV("")
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    engine.Mode
		wantErr bool
	}{
		{"ecb", engine.ECBEncrypt, false},
		{"CBC", engine.CBCEncrypt, false},
		{"cfb", engine.CFBEncrypt, false},
		{"cbc-decrypt", engine.CBCEncrypt, false},
		{"ofb", engine.OFB, false},
		{" ctr ", engine.CTR, false},
		{"gcm", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, engine.ErrInvalidMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePadding(t *testing.T) {
	p, err := ParsePadding("none")
	require.NoError(t, err)
	assert.Equal(t, padding.None, p)

	_, err = ParsePadding("iso10126")
	assert.Error(t, err)
}

func TestValidateKeyBits(t *testing.T) {
	assert.NoError(t, ValidateKeyBits(128))
	assert.NoError(t, ValidateKeyBits(192))
	assert.NoError(t, ValidateKeyBits(256))
	assert.Error(t, ValidateKeyBits(64))
}

func TestValidateMnemonic(t *testing.T) {
	valid := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	assert.NoError(t, ValidateMnemonic(valid))
	assert.Error(t, ValidateMnemonic(""))
	assert.Error(t, ValidateMnemonic("abandon abandon"))
	assert.Error(t, ValidateMnemonic(strings.Replace(valid, "about", "Ab0ut", 1)))
	assert.Error(t, ValidateMnemonic(strings.Replace(valid, "about", "ab", 1)))
}

func TestValidatePassphrase(t *testing.T) {
	assert.NoError(t, ValidatePassphrase("", 0))
	assert.NoError(t, ValidatePassphrase("long enough", 8))
	assert.Error(t, ValidatePassphrase("short", 8))
	assert.Error(t, ValidatePassphrase(strings.Repeat("x", 257), 0))
	assert.Error(t, ValidatePassphrase("nul\x00byte", 0))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "a\nb\nc", SanitizeInput("  a \r\n b\r c  "))
}
