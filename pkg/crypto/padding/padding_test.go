package padding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPKCS7Pad(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantLen int
		wantPad byte
	}{
		{"empty", []byte{}, 16, 16},
		{"one byte", []byte{0x01}, 16, 15},
		{"fifteen bytes", bytes.Repeat([]byte{0xAA}, 15), 16, 1},
		{"aligned gains a block", bytes.Repeat([]byte{0xAA}, 16), 32, 16},
		{"two blocks plus three", bytes.Repeat([]byte{0xAA}, 35), 48, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := PKCS7.Pad(tt.input, 16)
			require.Len(t, out, tt.wantLen)
			assert.Equal(t, tt.input, out[:len(tt.input)])
			for _, b := range out[len(tt.input):] {
				assert.Equal(t, tt.wantPad, b)
			}

			back, err := PKCS7.Unpad(out, 16)
			require.NoError(t, err)
			assert.Equal(t, len(tt.input), len(back))
		})
	}
}

func TestPKCS7PadNil(t *testing.T) {
	out := PKCS7.Pad(nil, 16)
	assert.Equal(t, bytes.Repeat([]byte{16}, 16), out)

	back, err := PKCS7.Unpad(out, 16)
	require.NoError(t, err)
	assert.Empty(t, back)
}

func TestPKCS7PadDoesNotAliasInput(t *testing.T) {
	buf := make([]byte, 5, 64)
	out := PKCS7.Pad(buf, 16)
	out[0] = 0xFF
	assert.Zero(t, buf[0])
	assert.Zero(t, buf[:6][5])
}

func TestPKCS7UnpadRejects(t *testing.T) {
	valid := PKCS7.Pad([]byte("hello"), 16)

	badByte := append([]byte(nil), valid...)
	badByte[len(badByte)-3] ^= 1

	zero := append([]byte(nil), valid...)
	zero[len(zero)-1] = 0

	tooLarge := append([]byte(nil), valid...)
	tooLarge[len(tooLarge)-1] = 17

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"unaligned", valid[:15]},
		{"inconsistent pad bytes", badByte},
		{"zero pad", zero},
		{"pad larger than block", tooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PKCS7.Unpad(tt.data, 16)
			assert.ErrorIs(t, err, ErrInvalidPadding)
		})
	}
}

func TestNone(t *testing.T) {
	data := bytes.Repeat([]byte{7}, 32)
	assert.Equal(t, data, None.Pad(data, 16))

	out, err := None.Unpad(data, 16)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	_, err = None.Unpad(data[:20], 16)
	assert.ErrorIs(t, err, ErrInvalidPadding)
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Padding
		wantErr bool
	}{
		{"", PKCS7, false},
		{"pkcs7", PKCS7, false},
		{" PKCS#7 ", PKCS7, false},
		{"none", None, false},
		{"zero", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ByName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func BenchmarkPKCS7(b *testing.B) {
	data := make([]byte, 1000)
	for i := 0; i < b.N; i++ {
		if _, err := PKCS7.Unpad(PKCS7.Pad(data, 16), 16); err != nil {
			b.Fatal(err)
		}
	}
}
