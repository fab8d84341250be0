package cli

import (
	"fmt"
	"log/slog"

	"github.com/Davincible/aesengine/pkg/crypto/engine"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// LogLevel is the level of the process-wide slog handler. It follows the
// configured verbosity; --verbose lowers it to Debug.
var LogLevel = new(slog.LevelVar)

func init() {
	LogLevel.Set(slog.LevelWarn)
}

// logLevel maps the configured verbosity to a slog level.
func logLevel(verbosity string) slog.Level {
	switch verbosity {
	case "quiet":
		return slog.LevelError
	case "verbose":
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}

// NewRootCommand assembles the aesengine command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aesengine",
		Short: "Table-driven AES with ECB, CBC, CFB, OFB and CTR modes",
		Long: `aesengine encrypts and decrypts data with a table-driven AES engine.

Features:
- AES-128, AES-192 and AES-256
- ECB, CBC, CFB, OFB and CTR chaining
- PKCS#7 padding for ECB and CBC
- Keys as hex, BIP-39 words, or derived from a mnemonic
- Passphrase-protected vault file
- Built-in FIPS-197 / SP 800-38A self test

Ciphertexts are not authenticated.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			LogLevel.Set(logLevel(cfg.UI.Verbosity))
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				LogLevel.Set(slog.LevelDebug)
			}

			noColor, _ := cmd.Flags().GetBool("no-color")
			if noColor || !cfg.UI.UseColor {
				color.NoColor = true
			}

			if cfg.Security.SelfTestOnStart && cmd.Name() != "selftest" {
				if err := engine.SelfTest(); err != nil {
					return fmt.Errorf("engine self test failed: %w", err)
				}
				slog.Debug("engine self test passed")
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		NewEncryptCommand(),
		NewDecryptCommand(),
		NewKeygenCommand(),
		NewInspectCommand(),
		NewSelftestCommand(),
		NewVaultCommand(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	return rootCmd
}
