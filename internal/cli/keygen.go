package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Davincible/aesengine/internal/validation"
	"github.com/Davincible/aesengine/pkg/crypto/mnemonic"
	"github.com/Davincible/aesengine/pkg/secure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type KeyInfo struct {
	Bits       int    `json:"bits"`
	Key        string `json:"key"`
	Words      string `json:"words,omitempty"`
	Mnemonic   string `json:"mnemonic,omitempty"`
	Passphrase bool   `json:"passphrase,omitempty"`
}

func NewKeygenCommand() *cobra.Command {
	var (
		bits             int
		useMnemonic      bool
		wordCount        int
		showWords        bool
		passphrasePrompt bool
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random AES key or a key mnemonic",
		Long: `Generate a new AES key.

By default a random key is printed as hex. With --words the same key is also
printed as BIP-39 words, which 'encrypt --key' accepts in place of hex.

With --mnemonic a fresh BIP-39 mnemonic is generated and the key derived from
it (and an optional passphrase) is printed; 'encrypt --mnemonic' derives the
same key.`,
		Example: `  # 256-bit key as hex
  aesengine keygen

  # 128-bit key with its word form
  aesengine keygen --bits 128 --words

  # New 24-word mnemonic and its derived key, as JSON
  aesengine keygen --mnemonic --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			wipe := newWiper(cfg)
			if bits == 0 {
				bits = cfg.Defaults.KeyBits
			}
			if err := validation.ValidateKeyBits(bits); err != nil {
				return err
			}

			info := KeyInfo{Bits: bits}

			if useMnemonic {
				if wordCount == 0 {
					wordCount = cfg.Defaults.WordSize
				}
				entropyBits, err := mnemonic.EntropyBitsFromWordCount(wordCount)
				if err != nil {
					return err
				}
				m, err := mnemonic.NewMnemonic(entropyBits)
				if err != nil {
					return fmt.Errorf("failed to generate mnemonic: %w", err)
				}

				var passphrase string
				if passphrasePrompt {
					if passphrase, err = readPassphrase(cmd, "Enter mnemonic passphrase: "); err != nil {
						return err
					}
					if err := validation.ValidatePassphrase(passphrase, cfg.Security.MinPassphraseLength); err != nil {
						return err
					}
				}

				key, err := m.DeriveKey(passphrase, bits/8)
				if err != nil {
					return err
				}
				defer wipe.zero(key)

				info.Key = hex.EncodeToString(key)
				info.Mnemonic = m.Words()
				info.Passphrase = passphrase != ""
			} else {
				key, err := secure.SecureRandom(bits / 8)
				if err != nil {
					return err
				}
				defer wipe.zero(key)

				info.Key = hex.EncodeToString(key)
				if showWords {
					m, err := mnemonic.FromKey(key)
					if err != nil {
						return err
					}
					info.Words = m.Words()
				}
			}

			if jsonOutput(cmd) {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(info)
			}
			return outputKeygenText(cmd, info)
		},
	}

	cmd.Flags().IntVarP(&bits, "bits", "b", 0, "Key size in bits: 128, 192 or 256 (default from config)")
	cmd.Flags().BoolVar(&useMnemonic, "mnemonic", false, "Generate a BIP-39 mnemonic and derive the key from it")
	cmd.Flags().IntVarP(&wordCount, "words-count", "w", 0, "Mnemonic length: 12, 15, 18, 21 or 24 words")
	cmd.Flags().BoolVar(&showWords, "words", false, "Also print the key as BIP-39 words")
	cmd.Flags().BoolVar(&passphrasePrompt, "passphrase-prompt", false, "Prompt for a passphrase to mix into the mnemonic")
	cmd.MarkFlagsMutuallyExclusive("mnemonic", "words")

	return cmd
}

func outputKeygenText(cmd *cobra.Command, info KeyInfo) error {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan)
	red := color.New(color.FgRed, color.Bold)

	green.Fprintf(out, "=== NEW AES-%d KEY ===\n", info.Bits)
	fmt.Fprintln(out)
	cyan.Fprintln(out, "Key (hex):")
	fmt.Fprintf(out, "  %s\n", info.Key)

	if info.Words != "" {
		fmt.Fprintln(out)
		cyan.Fprintln(out, "Key (words):")
		printWords(cmd, info.Words)
	}

	if info.Mnemonic != "" {
		fmt.Fprintln(out)
		cyan.Fprintln(out, "Mnemonic:")
		printWords(cmd, info.Mnemonic)
		if info.Passphrase {
			fmt.Fprintln(out, "  (key also depends on the passphrase you entered)")
		}
	}

	fmt.Fprintln(out)
	red.Fprintln(out, "⚠️  Anyone holding this key can decrypt your data. Store it offline.")
	return nil
}

// printWords prints a phrase four words per line.
func printWords(cmd *cobra.Command, phrase string) {
	words := strings.Fields(phrase)
	for k := 0; k < len(words); k += 4 {
		end := k + 4
		if end > len(words) {
			end = len(words)
		}
		fmt.Fprint(cmd.OutOrStdout(), " ")
		for i := k; i < end; i++ {
			fmt.Fprintf(cmd.OutOrStdout(), " %2d. %-9s", i+1, words[i])
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
}
