package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Davincible/aesengine/internal/validation"
	"github.com/Davincible/aesengine/pkg/config"
	"github.com/Davincible/aesengine/pkg/crypto/mnemonic"
	"github.com/Davincible/aesengine/pkg/secure"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassphrase prompts on the command's output and reads one line. When
// input is an interactive terminal the line is not echoed.
func readPassphrase(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		passBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		defer secure.Zero(passBytes)
		return string(passBytes), nil
	}

	pass, err := readLine(in)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return pass, nil
}

// readLine reads up to and including the next newline one byte at a time, so
// whatever follows the line is left in r for the caller.
func readLine(r io.Reader) (string, error) {
	var line []byte
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n == 1 {
			if b[0] == '\n' {
				break
			}
			line = append(line, b[0])
		}
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return "", io.ErrUnexpectedEOF
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(string(line), "\r"), nil
}

// loadConfig returns the user's configuration, or the defaults when it
// cannot be loaded.
func loadConfig() *config.Config {
	cm, err := config.NewConfigManager()
	if err != nil {
		slog.Warn("using default configuration", "error", err)
		return config.DefaultConfig()
	}
	slog.Debug("loaded configuration", "path", cm.Path())
	return cm.GetConfig()
}

// wiper zeroes key material once a command is done with it, unless the
// configuration turns wiping off.
type wiper bool

func newWiper(cfg *config.Config) wiper {
	return wiper(cfg.Security.WipeMemory)
}

func (w wiper) zero(b []byte) {
	if w {
		secure.Zero(b)
	}
}

func (w wiper) release(sb *secure.SecureBytes) {
	if w {
		sb.Destroy()
	}
}

// keySource collects the flags that can supply a key.
type keySource struct {
	key              string
	mnemonic         string
	passphrase       string
	passphrasePrompt bool
	bits             int
}

func (k *keySource) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&k.key, "key", "k", "", "Key as hex, or as the BIP-39 words printed by 'keygen --words'")
	cmd.Flags().StringVar(&k.mnemonic, "mnemonic", "", "Derive the key from a BIP-39 mnemonic")
	cmd.Flags().StringVar(&k.passphrase, "passphrase", "", "Passphrase mixed into the mnemonic derivation")
	cmd.Flags().BoolVar(&k.passphrasePrompt, "passphrase-prompt", false, "Prompt for the mnemonic passphrase")
	cmd.Flags().IntVar(&k.bits, "bits", 0, "Key size in bits for mnemonic derivation (128, 192, 256)")
	cmd.MarkFlagsMutuallyExclusive("key", "mnemonic")
	cmd.MarkFlagsMutuallyExclusive("passphrase", "passphrase-prompt")
}

// resolve turns the flags into key material.
func (k *keySource) resolve(cmd *cobra.Command, cfg *config.Config) (*secure.SecureBytes, error) {
	wipe := newWiper(cfg)

	switch {
	case k.key != "":
		if strings.Contains(strings.TrimSpace(k.key), " ") {
			m, err := mnemonic.FromWords(k.key)
			if err != nil {
				return nil, fmt.Errorf("invalid key words: %w", err)
			}
			raw, err := m.Key()
			if err != nil {
				return nil, err
			}
			defer wipe.zero(raw)
			if err := validation.ValidateKeyBits(8 * len(raw)); err != nil {
				return nil, err
			}
			return secure.FromBytes(raw), nil
		}

		raw, err := validation.ParseKey(k.key)
		if err != nil {
			return nil, err
		}
		defer wipe.zero(raw)
		return secure.FromBytes(raw), nil

	case k.mnemonic != "":
		m, err := mnemonic.FromWords(k.mnemonic)
		if err != nil {
			return nil, fmt.Errorf("invalid mnemonic: %w", err)
		}

		bits := k.bits
		if bits == 0 {
			bits = cfg.Defaults.KeyBits
		}
		if err := validation.ValidateKeyBits(bits); err != nil {
			return nil, err
		}

		passphrase := k.passphrase
		if k.passphrasePrompt {
			if passphrase, err = readPassphrase(cmd, "Enter mnemonic passphrase: "); err != nil {
				return nil, err
			}
		}
		if passphrase != "" {
			if err := validation.ValidatePassphrase(passphrase, cfg.Security.MinPassphraseLength); err != nil {
				return nil, err
			}
		}

		raw, err := m.DeriveKey(passphrase, bits/8)
		if err != nil {
			return nil, err
		}
		defer wipe.zero(raw)
		slog.Debug("derived key from mnemonic", "words", m.WordCount(), "bits", bits)
		return secure.FromBytes(raw), nil

	default:
		return nil, fmt.Errorf("a key is required: pass --key or --mnemonic")
	}
}

// readInput returns --text, the --input file, or all of stdin, in that order.
func readInput(cmd *cobra.Command, text, input string, armored bool) ([]byte, error) {
	var data []byte
	var err error

	switch {
	case text != "":
		data = []byte(text)
	case input != "":
		data, err = os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
	default:
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	}

	if !armored {
		return data, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return decoded, nil
}

// writeOutput writes data to the --output file or stdout, base64 encoded
// when armor is set.
func writeOutput(cmd *cobra.Command, output string, data []byte, armor bool, perm os.FileMode) error {
	if armor {
		data = []byte(base64.StdEncoding.EncodeToString(data) + "\n")
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(output, data, perm); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
