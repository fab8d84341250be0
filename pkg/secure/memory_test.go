package secure

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureBytes(t *testing.T) {
	size := 32
	sb := NewSecureBytes(size)
	assert.Equal(t, size, sb.Len())

	key := []byte("0123456789abcdef0123456789abcdef")
	sb.Set(key)
	assert.Equal(t, key, sb.Get())

	sb.Clear()
	for _, b := range sb.Get() {
		assert.Equal(t, byte(0), b)
	}

	sb.Destroy()
	assert.Equal(t, 0, sb.Len())
}

func TestFromBytesCopies(t *testing.T) {
	original := []byte("sixteen byte key")
	sb := FromBytes(original)

	original[0] = 0xFF
	assert.Equal(t, []byte("sixteen byte key"), sb.Get())

	sb.Destroy()
}

func TestSecureBytesResize(t *testing.T) {
	sb := NewSecureBytes(16)

	long := bytes.Repeat([]byte{0x42}, 32)
	sb.Set(long)
	assert.Equal(t, 32, sb.Len())
	assert.Equal(t, long, sb.Get())
}

func TestZero(t *testing.T) {
	data := []byte("round keys to be wiped")
	Zero(data)
	assert.Equal(t, make([]byte, len(data)), data)

	Zero(nil)
}

func TestConstantTimeCompare(t *testing.T) {
	a := []byte("test data")
	assert.True(t, ConstantTimeCompare(a, []byte("test data")))
	assert.False(t, ConstantTimeCompare(a, []byte("different")))
	assert.False(t, ConstantTimeCompare(a, []byte("test dat")))
	assert.False(t, ConstantTimeCompare(a, []byte{}))
}

func TestSecureRandom(t *testing.T) {
	for _, size := range []int{16, 24, 32} {
		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			data, err := SecureRandom(size)
			require.NoError(t, err)
			assert.Len(t, data, size)

			data2, err := SecureRandom(size)
			require.NoError(t, err)
			assert.NotEqual(t, data, data2)
		})
	}

	data, err := SecureRandom(0)
	assert.NoError(t, err)
	assert.Empty(t, data)

	_, err = SecureRandom(-1)
	assert.Error(t, err)
}

func TestSecureBytesThreadSafety(t *testing.T) {
	sb := FromBytes([]byte("concurrent test data"))
	defer sb.Destroy()

	done := make(chan bool, 2)

	go func() {
		for i := 0; i < 100; i++ {
			assert.NotNil(t, sb.Get())
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			sb.Set([]byte("updated data"))
		}
		done <- true
	}()

	<-done
	<-done
}

func BenchmarkZero(b *testing.B) {
	data := make([]byte, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Zero(data)
	}
}
