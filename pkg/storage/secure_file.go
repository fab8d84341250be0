package storage

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Davincible/aesengine/pkg/crypto/blockcipher"
	"github.com/Davincible/aesengine/pkg/crypto/engine"
	"github.com/Davincible/aesengine/pkg/crypto/padding"
	"github.com/Davincible/aesengine/pkg/secure"
	"golang.org/x/crypto/pbkdf2"
)

const (
	EnvelopeVersion = 1
	SaltSize        = 32
	KeySize         = 32
	Iterations      = 100000
)

var (
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrUnsupported      = errors.New("unsupported envelope")
	ErrDecryptionFailed = errors.New("failed to decrypt: wrong password or corrupted file")
)

// SecureStorage keeps one passphrase-protected blob in a file. The envelope
// carries no MAC; a wrong password shows up as a padding failure.
type SecureStorage struct {
	filepath string
	mode     engine.Mode
}

// Envelope is the on-disk JSON form.
type Envelope struct {
	Version    int    `json:"version"`
	Mode       string `json:"mode"`
	Salt       []byte `json:"salt"`
	IV         []byte `json:"iv"`
	Ciphertext []byte `json:"ciphertext"`
}

// NewSecureStorage stores under CBC with PKCS7 padding.
func NewSecureStorage(filepath string) *SecureStorage {
	return &SecureStorage{
		filepath: filepath,
		mode:     engine.CBCEncrypt,
	}
}

// WithMode selects the chaining mode for subsequent saves. Loads always
// follow the mode recorded in the envelope.
func (s *SecureStorage) WithMode(mode engine.Mode) (*SecureStorage, error) {
	if !mode.Chained() {
		return nil, fmt.Errorf("%w: %s needs no iv and is not supported", ErrUnsupported, mode)
	}
	return &SecureStorage{filepath: s.filepath, mode: mode}, nil
}

func (s *SecureStorage) Path() string { return s.filepath }

func (s *SecureStorage) Save(data []byte, password []byte) error {
	if len(password) == 0 {
		return ErrEmptyPassword
	}
	if data == nil {
		data = []byte{}
	}

	salt, err := secure.SecureRandom(SaltSize)
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	iv, err := secure.SecureRandom(blockcipher.BlockSize)
	if err != nil {
		return fmt.Errorf("failed to generate iv: %w", err)
	}

	key := deriveKey(password, salt)
	defer secure.Zero(key)

	ciphertext, err := blockcipher.EncryptBytes(data, key, blockcipher.Options{
		Mode:    s.mode,
		Padding: padding.PKCS7,
		IV:      iv,
	})
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	jsonData, err := json.Marshal(Envelope{
		Version:    EnvelopeVersion,
		Mode:       s.mode.String(),
		Salt:       salt,
		IV:         iv,
		Ciphertext: ciphertext,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	dir := filepath.Dir(s.filepath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(s.filepath, jsonData, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	slog.Debug("vault saved", "path", s.filepath, "mode", s.mode.String(), "bytes", len(data))
	return nil
}

func (s *SecureStorage) Load(password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}

	jsonData, err := os.ReadFile(s.filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(jsonData, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if env.Version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupported, env.Version)
	}
	mode, err := engine.ParseMode(env.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if !mode.Chained() {
		return nil, fmt.Errorf("%w: mode %s", ErrUnsupported, mode)
	}

	key := deriveKey(password, env.Salt)
	defer secure.Zero(key)

	plaintext, err := blockcipher.DecryptBytes(env.Ciphertext, key, blockcipher.Options{
		Mode:    mode,
		Padding: padding.PKCS7,
		IV:      env.IV,
	})
	if err != nil {
		if errors.Is(err, padding.ErrInvalidPadding) {
			return nil, ErrDecryptionFailed
		}
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

func (s *SecureStorage) Exists() bool {
	_, err := os.Stat(s.filepath)
	return err == nil
}

// Delete overwrites the file with random bytes before removing it.
func (s *SecureStorage) Delete() error {
	info, err := os.Stat(s.filepath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat file for secure deletion: %w", err)
	}

	noise, err := secure.SecureRandom(int(info.Size()))
	if err != nil {
		return fmt.Errorf("failed to overwrite file: %w", err)
	}
	if err := os.WriteFile(s.filepath, noise, 0600); err != nil {
		return fmt.Errorf("failed to overwrite file: %w", err)
	}

	return os.Remove(s.filepath)
}

func deriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New)
}
