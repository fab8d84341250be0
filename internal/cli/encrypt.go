package cli

import (
	"fmt"
	"log/slog"

	"github.com/Davincible/aesengine/internal/validation"
	"github.com/Davincible/aesengine/pkg/config"
	"github.com/Davincible/aesengine/pkg/crypto/blockcipher"
	"github.com/Davincible/aesengine/pkg/crypto/engine"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// cryptFlags are shared by encrypt and decrypt.
type cryptFlags struct {
	keySource
	mode    string
	padding string
	iv      string
	input   string
	output  string
	text    string
	armor   bool
}

func (f *cryptFlags) register(cmd *cobra.Command) {
	f.keySource.register(cmd)
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "Cipher mode: ecb, cbc, cfb, ofb, ctr (default from config)")
	cmd.Flags().StringVar(&f.padding, "padding", "", "Padding for ecb and cbc: pkcs7 or none (default from config)")
	cmd.Flags().StringVar(&f.iv, "iv", "", "IV or initial counter as 32 hex characters; when omitted a random IV is prefixed to the ciphertext")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input file (default stdin)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default stdout)")
}

// cipher builds the wrapper from flags, falling back to the config.
func (f *cryptFlags) cipher(cmd *cobra.Command, cfg *config.Config) (*blockcipher.Cipher, bool, error) {
	modeName := f.mode
	if modeName == "" {
		modeName = cfg.Defaults.Mode
	}
	mode, err := validation.ParseMode(modeName)
	if err != nil {
		return nil, false, err
	}

	padName := f.padding
	if padName == "" {
		padName = cfg.Defaults.Padding
	}
	pad, err := validation.ParsePadding(padName)
	if err != nil {
		return nil, false, err
	}

	opts := blockcipher.Options{Mode: mode, Padding: pad}
	sealed := false
	if f.iv != "" {
		if !mode.Chained() {
			return nil, false, fmt.Errorf("--iv has no meaning in %s mode", mode)
		}
		if opts.IV, err = validation.ParseIV(f.iv); err != nil {
			return nil, false, err
		}
	} else {
		sealed = mode.Chained()
	}

	key, err := f.resolve(cmd, cfg)
	if err != nil {
		return nil, false, err
	}
	wipe := newWiper(cfg)
	defer wipe.release(key)

	raw := key.Get()
	defer wipe.zero(raw)

	c, err := blockcipher.New(raw, opts)
	if err != nil {
		return nil, false, err
	}

	slog.Debug("cipher ready", "mode", mode.String(), "key", c.KeySize().String(), "padding", pad.Name(), "random_iv", sealed)
	return c, sealed, nil
}

func NewEncryptCommand() *cobra.Command {
	var f cryptFlags

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt files or text with AES",
		Long: `Encrypt files or text with the table-driven AES engine.

Keys are 128, 192 or 256 bits, given as hex, as the word form printed by
'keygen --words', or derived from a BIP-39 mnemonic and optional passphrase.

Without --iv, chained modes (cbc, cfb, ofb, ctr) draw a random IV and write it
in front of the ciphertext; 'decrypt' reads it back. The output carries no
authentication tag: tampering is not detected.`,
		Example: `  # Encrypt a file with a hex key
  aesengine encrypt -k 000102030405060708090a0b0c0d0e0f -i plan.txt -o plan.enc

  # Encrypt text in CTR mode, base64 output
  aesengine encrypt --mode ctr -k $KEY --text "my secret" --armor

  # Derive the key from a mnemonic and prompt for its passphrase
  aesengine encrypt --mnemonic "abandon ... about" --passphrase-prompt -i file.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			c, sealed, err := f.cipher(cmd, cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			plaintext, err := readInput(cmd, f.text, f.input, false)
			if err != nil {
				return err
			}

			var ciphertext []byte
			if sealed {
				ciphertext, err = c.Seal(plaintext)
			} else {
				ciphertext, err = c.Encrypt(plaintext)
			}
			if err != nil {
				return fmt.Errorf("encryption failed: %w", err)
			}

			if err := writeOutput(cmd, f.output, ciphertext, f.armored(cmd, cfg), 0600); err != nil {
				return err
			}
			if f.output != "" {
				green := color.New(color.FgGreen, color.Bold)
				green.Fprintf(cmd.ErrOrStderr(), "✅ Encrypted %d bytes to: %s (%s, %s)\n",
					len(plaintext), f.output, c.KeySize(), modeLabel(c.Mode()))
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.text, "text", "", "Text to encrypt directly")
	cmd.Flags().BoolVar(&f.armor, "armor", false, "Output as base64 encoded text (default from config)")

	return cmd
}

func NewDecryptCommand() *cobra.Command {
	var f cryptFlags

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt files or text encrypted by 'encrypt'",
		Long: `Decrypt data produced by the 'encrypt' command. Pass the same key, mode
and padding. If encryption used --iv, pass the same --iv; otherwise the IV is
read from the front of the ciphertext.`,
		Example: `  # Decrypt a file
  aesengine decrypt -k 000102030405060708090a0b0c0d0e0f -i plan.enc -o plan.txt

  # Decrypt base64 from stdin
  cat secret.b64 | aesengine decrypt --mode ctr -k $KEY --armor`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			c, sealed, err := f.cipher(cmd, cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			ciphertext, err := readInput(cmd, f.text, f.input, f.armored(cmd, cfg))
			if err != nil {
				return err
			}

			var plaintext []byte
			if sealed {
				plaintext, err = c.Open(ciphertext)
			} else {
				plaintext, err = c.Decrypt(ciphertext)
			}
			if err != nil {
				return fmt.Errorf("decryption failed: %w", err)
			}

			if err := writeOutput(cmd, f.output, plaintext, false, 0600); err != nil {
				return err
			}
			if f.output != "" {
				green := color.New(color.FgGreen, color.Bold)
				green.Fprintf(cmd.ErrOrStderr(), "✅ Decrypted to: %s\n", f.output)
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&f.armor, "armor", false, "Input is base64 encoded (default from config)")

	return cmd
}

// armored reports whether data is base64: the --armor flag when given,
// otherwise the configured default.
func (f *cryptFlags) armored(cmd *cobra.Command, cfg *config.Config) bool {
	if cmd.Flags().Changed("armor") {
		return f.armor
	}
	return cfg.Defaults.Armor
}

// modeLabel prints a mode by family, e.g. "CBC".
func modeLabel(m engine.Mode) string {
	switch m {
	case engine.ECBEncrypt, engine.ECBDecrypt:
		return "ECB"
	case engine.CBCEncrypt, engine.CBCDecrypt:
		return "CBC"
	case engine.CFBEncrypt, engine.CFBDecrypt:
		return "CFB"
	case engine.OFB:
		return "OFB"
	case engine.CTR:
		return "CTR"
	}
	return m.String()
}
