package secure

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"runtime"
	"sync"
)

// SecureBytes holds key material that is wiped on Clear and Destroy.
type SecureBytes struct {
	data []byte
	mu   sync.RWMutex
}

func NewSecureBytes(size int) *SecureBytes {
	return &SecureBytes{
		data: make([]byte, size),
	}
}

func FromBytes(data []byte) *SecureBytes {
	sb := &SecureBytes{
		data: make([]byte, len(data)),
	}
	copy(sb.data, data)
	return sb
}

func (sb *SecureBytes) Set(data []byte) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if len(data) != len(sb.data) {
		Zero(sb.data)
		sb.data = make([]byte, len(data))
	}
	copy(sb.data, data)
}

// Get returns a copy; callers should Zero it when done.
func (sb *SecureBytes) Get() []byte {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	result := make([]byte, len(sb.data))
	copy(result, sb.data)
	return result
}

func (sb *SecureBytes) Len() int {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return len(sb.data)
}

func (sb *SecureBytes) Clear() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	Zero(sb.data)
}

func (sb *SecureBytes) Destroy() {
	sb.Clear()

	sb.mu.Lock()
	sb.data = nil
	sb.mu.Unlock()
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

func ConstantTimeCompare(x, y []byte) bool {
	if len(x) != len(y) {
		return false
	}
	return subtle.ConstantTimeCompare(x, y) == 1
}

// SecureRandom returns size bytes from crypto/rand.
func SecureRandom(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid length: %d", size)
	}
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		Zero(b)
		return nil, fmt.Errorf("failed to generate secure random bytes: %w", err)
	}
	return b, nil
}
