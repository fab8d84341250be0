package cli

import (
	"fmt"
	"os"

	"github.com/Davincible/aesengine/internal/validation"
	"github.com/Davincible/aesengine/pkg/config"
	"github.com/Davincible/aesengine/pkg/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewVaultCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Keep a passphrase-protected blob on disk",
		Long: `Seal data into a passphrase-protected file and open it again.

The key is derived from the passphrase with PBKDF2-SHA256 and a random salt;
the data is encrypted with the AES engine (CBC with PKCS#7 by default). The
file carries no authentication tag: in CBC a wrong passphrase is reported as a
decryption failure, in the stream modes it yields garbage.`,
	}

	cmd.PersistentFlags().StringVar(&path, "path", "", "Vault file (default from config)")

	cmd.AddCommand(
		newVaultSealCommand(&path),
		newVaultOpenCommand(&path),
		newVaultDeleteCommand(&path),
	)

	return cmd
}

func openVault(path string, cfg *config.Config) (*storage.SecureStorage, error) {
	if path == "" {
		path = cfg.Storage.VaultPath
	}
	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	return storage.NewSecureStorage(path), nil
}

func newVaultSealCommand(path *string) *cobra.Command {
	var (
		input string
		text  string
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt data into the vault file",
		Example: `  aesengine vault seal -i notes.txt
  aesengine vault seal --text "pin 1234" --path ./pin.vault --mode ctr`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			s, err := openVault(*path, cfg)
			if err != nil {
				return err
			}

			if mode == "" {
				mode = cfg.Storage.VaultMode
			}
			m, err := validation.ParseMode(mode)
			if err != nil {
				return err
			}
			if s, err = s.WithMode(m); err != nil {
				return err
			}

			// the passphrase line comes first when both arrive on stdin
			password, err := readPassphrase(cmd, "Enter vault passphrase: ")
			if err != nil {
				return err
			}
			if err := validation.ValidatePassphrase(password, cfg.Security.MinPassphraseLength); err != nil {
				return err
			}

			data, err := readInput(cmd, text, input, false)
			if err != nil {
				return err
			}

			if err := s.Save(data, []byte(password)); err != nil {
				return err
			}

			green := color.New(color.FgGreen, color.Bold)
			green.Fprintf(cmd.ErrOrStderr(), "✅ Sealed %d bytes into %s\n", len(data), s.Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "File to seal (default stdin)")
	cmd.Flags().StringVar(&text, "text", "", "Text to seal directly")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Cipher mode: cbc, cfb, ofb, ctr (default from config)")

	return cmd
}

func newVaultOpenCommand(path *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Decrypt the vault file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openVault(*path, loadConfig())
			if err != nil {
				return err
			}
			if !s.Exists() {
				return fmt.Errorf("no vault at %s", s.Path())
			}

			password, err := readPassphrase(cmd, "Enter vault passphrase: ")
			if err != nil {
				return err
			}

			data, err := s.Load([]byte(password))
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data, false, 0600)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func newVaultDeleteCommand(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Overwrite and remove the vault file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openVault(*path, loadConfig())
			if err != nil {
				return err
			}
			if err := s.Delete(); err != nil {
				return err
			}
			if _, err := os.Stat(s.Path()); err == nil {
				return fmt.Errorf("vault still present at %s", s.Path())
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %s\n", s.Path())
			return nil
		},
	}
}
