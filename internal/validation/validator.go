package validation

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/Davincible/aesengine/pkg/crypto/engine"
	"github.com/Davincible/aesengine/pkg/crypto/padding"
)

var hexPattern = regexp.MustCompile(`^[0-9a-fA-F]+$`)

func ValidateHex(input string) error {
	input = strings.TrimSpace(input)
	if len(input) == 0 {
		return fmt.Errorf("hex string cannot be empty")
	}

	if len(input)%2 != 0 {
		return fmt.Errorf("hex string must have even length")
	}

	if !hexPattern.MatchString(input) {
		return fmt.Errorf("invalid hex characters")
	}

	return nil
}

// ParseKey decodes a hex AES key of 128, 192 or 256 bits.
func ParseKey(input string) ([]byte, error) {
	if err := ValidateHex(input); err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}

	key, _ := hex.DecodeString(strings.TrimSpace(input))
	if _, err := engine.KeySizeOf(len(key)); err != nil {
		return nil, fmt.Errorf("key must be 32, 48 or 64 hex characters (got %d): %w", 2*len(key), err)
	}
	return key, nil
}

// ParseIV decodes a hex IV or initial counter of exactly one block.
func ParseIV(input string) ([]byte, error) {
	if err := ValidateHex(input); err != nil {
		return nil, fmt.Errorf("invalid iv: %w", err)
	}

	iv, _ := hex.DecodeString(strings.TrimSpace(input))
	if len(iv) != engine.BlockSize {
		return nil, fmt.Errorf("iv must be %d hex characters (got %d)", 2*engine.BlockSize, 2*len(iv))
	}
	return iv, nil
}

// ParseMode accepts a mode by its engine name or by its family ("cbc"), and
// returns the encryption-direction mode.
func ParseMode(name string) (engine.Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "ecb", "cbc", "cfb":
		name += "-encrypt"
	}

	mode, err := engine.ParseMode(name)
	if err != nil {
		return 0, fmt.Errorf("mode must be one of ecb, cbc, cfb, ofb, ctr: %w", err)
	}
	if mode.Decrypting() {
		mode = mode.Inverse()
	}
	return mode, nil
}

func ParsePadding(name string) (padding.Padding, error) {
	p, err := padding.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("padding must be pkcs7 or none: %w", err)
	}
	return p, nil
}

func ValidateKeyBits(bits int) error {
	switch bits {
	case 128, 192, 256:
		return nil
	default:
		return fmt.Errorf("key size must be 128, 192 or 256 bits (got %d)", bits)
	}
}

func ValidateMnemonic(words string) error {
	words = strings.TrimSpace(words)
	if words == "" {
		return fmt.Errorf("mnemonic cannot be empty")
	}

	wordList := strings.Fields(words)
	wordCount := len(wordList)

	if !ValidateWordCount(wordCount) {
		return fmt.Errorf("mnemonic must have 12, 15, 18, 21, or 24 words (got %d)", wordCount)
	}

	for i, word := range wordList {
		if len(word) < 3 || len(word) > 8 {
			return fmt.Errorf("word %d has invalid length: %s", i+1, word)
		}

		for _, ch := range word {
			if ch < 'a' || ch > 'z' {
				return fmt.Errorf("word %d contains invalid characters: %s", i+1, word)
			}
		}
	}

	return nil
}

// ValidatePassphrase rejects passphrases shorter than minLength runes, longer
// than 256 bytes, or containing NUL.
func ValidatePassphrase(passphrase string, minLength int) error {
	if len([]rune(passphrase)) < minLength {
		return fmt.Errorf("passphrase must be at least %d characters", minLength)
	}

	if len(passphrase) > 256 {
		return fmt.Errorf("passphrase too long (max 256 characters)")
	}

	for i, ch := range passphrase {
		if ch == 0 {
			return fmt.Errorf("passphrase contains null character at position %d", i)
		}
	}

	return nil
}

func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	lines := strings.Split(input, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	return strings.Join(lines, "\n")
}

func ValidateWordCount(count int) bool {
	validCounts := []int{12, 15, 18, 21, 24}
	for _, valid := range validCounts {
		if count == valid {
			return true
		}
	}
	return false
}
