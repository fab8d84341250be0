package engine

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// Vector is a known-answer test: Plaintext run through Mode under Key and IV
// must give Ciphertext, and the inverse mode must give Plaintext back.
type Vector struct {
	Name       string
	Mode       Mode
	Key        string
	IV         string
	Plaintext  string
	Ciphertext string
}

const (
	sp80038aKey       = "2b7e151628aed2a6abf7158809cf4f3c"
	sp80038aIV        = "000102030405060708090a0b0c0d0e0f"
	sp80038aPlaintext = "6bc1bee22e409f96e93d7e117393172a" +
		"ae2d8a571e03ac9c9eb76fac45af8e51" +
		"30c81c46a35ce411e5fbc1191a0a52ef" +
		"f69f2445df4f9b17ad2b417be66c3710"
)

// Vectors are taken from FIPS-197 appendices B and C and from
// NIST SP 800-38A appendix F.
var Vectors = []Vector{
	{
		Name:       "AES-128 zero key",
		Mode:       ECBEncrypt,
		Key:        "00000000000000000000000000000000",
		Plaintext:  "00000000000000000000000000000000",
		Ciphertext: "66e94bd4ef8a2c3b884cfa59ca342b2e",
	},
	{
		Name:       "FIPS-197 B",
		Mode:       ECBEncrypt,
		Key:        "2b7e151628aed2a6abf7158809cf4f3c",
		Plaintext:  "3243f6a8885a308d313198a2e0370734",
		Ciphertext: "3925841d02dc09fbdc118597196a0b32",
	},
	{
		Name:       "FIPS-197 C.1 AES-128",
		Mode:       ECBEncrypt,
		Key:        "000102030405060708090a0b0c0d0e0f",
		Plaintext:  "00112233445566778899aabbccddeeff",
		Ciphertext: "69c4e0d86a7b0430d8cdb78070b4c55a",
	},
	{
		Name:       "FIPS-197 C.2 AES-192",
		Mode:       ECBEncrypt,
		Key:        "000102030405060708090a0b0c0d0e0f1011121314151617",
		Plaintext:  "00112233445566778899aabbccddeeff",
		Ciphertext: "dda97ca4864cdfe06eaf70a0ec0d7191",
	},
	{
		Name:       "FIPS-197 C.3 AES-256",
		Mode:       ECBEncrypt,
		Key:        "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		Plaintext:  "00112233445566778899aabbccddeeff",
		Ciphertext: "8ea2b7ca516745bfeafc49904b496089",
	},
	{
		Name:      "SP 800-38A F.1.1 ECB-AES128",
		Mode:      ECBEncrypt,
		Key:       sp80038aKey,
		Plaintext: sp80038aPlaintext,
		Ciphertext: "3ad77bb40d7a3660a89ecaf32466ef97" +
			"f5d3d58503b9699de785895a96fdbaaf" +
			"43b1cd7f598ece23881b00e3ed030688" +
			"7b0c785e27e8ad3f8223207104725dd4",
	},
	{
		Name:      "SP 800-38A F.2.1 CBC-AES128",
		Mode:      CBCEncrypt,
		Key:       sp80038aKey,
		IV:        sp80038aIV,
		Plaintext: sp80038aPlaintext,
		Ciphertext: "7649abac8119b246cee98e9b12e9197d" +
			"5086cb9b507219ee95db113a917678b2" +
			"73bed6b8e3c1743b7116e69e22229516" +
			"3ff1caa1681fac09120eca307586e1a7",
	},
	{
		Name:      "SP 800-38A F.3.13 CFB128-AES128",
		Mode:      CFBEncrypt,
		Key:       sp80038aKey,
		IV:        sp80038aIV,
		Plaintext: sp80038aPlaintext,
		Ciphertext: "3b3fd92eb72dad20333449f8e83cfb4a" +
			"c8a64537a0b3a93fcde3cdad9f1ce58b" +
			"26751f67a3cbb140b1808cf187a4f4df" +
			"c04b05357c5d1c0eeac4c66f9ff7f2e6",
	},
	{
		Name:      "SP 800-38A F.4.1 OFB-AES128",
		Mode:      OFB,
		Key:       sp80038aKey,
		IV:        sp80038aIV,
		Plaintext: sp80038aPlaintext,
		Ciphertext: "3b3fd92eb72dad20333449f8e83cfb4a" +
			"7789508d16918f03f53c52dac54ed825" +
			"9740051e9c5fecf64344f7a82260edcc" +
			"304c6528f659c77866a510d9c1d6ae5e",
	},
	{
		Name:      "SP 800-38A F.5.1 CTR-AES128",
		Mode:      CTR,
		Key:       sp80038aKey,
		IV:        "f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff",
		Plaintext: sp80038aPlaintext,
		Ciphertext: "874d6191b620e3261bef6864990db6ce" +
			"9806f66b7970fdff8617187bb9fffdff" +
			"5ae4df3edbd5d35e5b4f09020db03eab" +
			"1e031dda2fbe03d1792170a0f3009cee",
	},
}

// Run checks v against a fresh engine built over t.
func (v Vector) Run(t *Tables) error {
	key, err := hex.DecodeString(v.Key)
	if err != nil {
		return fmt.Errorf("%s: bad key: %w", v.Name, err)
	}
	pt, err := hex.DecodeString(v.Plaintext)
	if err != nil {
		return fmt.Errorf("%s: bad plaintext: %w", v.Name, err)
	}
	ct, err := hex.DecodeString(v.Ciphertext)
	if err != nil {
		return fmt.Errorf("%s: bad ciphertext: %w", v.Name, err)
	}
	var iv []byte
	if v.IV != "" {
		if iv, err = hex.DecodeString(v.IV); err != nil {
			return fmt.Errorf("%s: bad iv: %w", v.Name, err)
		}
	}

	e, err := NewWithTables(t, len(pt))
	if err != nil {
		return fmt.Errorf("%s: %w", v.Name, err)
	}
	if err := e.SetKeyBytes(key); err != nil {
		return fmt.Errorf("%s: %w", v.Name, err)
	}

	got, err := v.apply(e, v.Mode, iv, pt)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, ct) {
		return fmt.Errorf("%s: %s = %x, want %x", v.Name, v.Mode, got, ct)
	}

	got, err = v.apply(e, v.Mode.Inverse(), iv, ct)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, pt) {
		return fmt.Errorf("%s: %s = %x, want %x", v.Name, v.Mode.Inverse(), got, pt)
	}
	return nil
}

func (v Vector) apply(e *Engine, mode Mode, iv, in []byte) ([]byte, error) {
	e.SetIV(0, 0, 0, 0)
	if iv != nil {
		if err := e.SetIVBytes(iv); err != nil {
			return nil, fmt.Errorf("%s: %w", v.Name, err)
		}
	}
	out := append([]byte(nil), in...)
	if _, err := e.ProcessBytes(mode, out); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", v.Name, mode, err)
	}
	return out, nil
}

// SelfTest runs every entry of Vectors over the default tables.
func SelfTest() error {
	var errs []error
	for _, v := range Vectors {
		if err := v.Run(DefaultTables()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
