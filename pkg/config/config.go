// Package config provides configuration management for the aesengine CLI
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Davincible/aesengine/pkg/crypto/engine"
	"github.com/Davincible/aesengine/pkg/crypto/padding"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "AESENGINE_CONFIG"

// Config represents the main configuration structure
type Config struct {
	Version  string          `json:"version"`
	Defaults DefaultSettings `json:"defaults"`
	Security SecurityConfig  `json:"security"`
	UI       UIConfig        `json:"ui"`
	Storage  StorageConfig   `json:"storage"`
}

// DefaultSettings holds the values encrypt/decrypt fall back to when a flag
// is not given
type DefaultSettings struct {
	Mode     string `json:"mode"`     // encryption-direction mode name
	Padding  string `json:"padding"`  // pkcs7 or none
	KeyBits  int    `json:"key_bits"` // 128, 192 or 256
	Armor    bool   `json:"armor"`    // base64 output
	WordSize int    `json:"word_size"`
}

// SecurityConfig contains security-related settings
type SecurityConfig struct {
	MinPassphraseLength int  `json:"min_passphrase_length"`
	WipeMemory          bool `json:"wipe_memory"`
	SelfTestOnStart     bool `json:"self_test_on_start"`
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor  bool   `json:"use_color"`
	Verbosity string `json:"verbosity"` // quiet, normal, verbose
}

// StorageConfig contains vault settings
type StorageConfig struct {
	VaultPath string `json:"vault_path"`
	VaultMode string `json:"vault_mode"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			Mode:     engine.CBCEncrypt.String(),
			Padding:  padding.PKCS7.Name(),
			KeyBits:  256,
			Armor:    false,
			WordSize: 24,
		},
		Security: SecurityConfig{
			MinPassphraseLength: 8,
			WipeMemory:          true,
			SelfTestOnStart:     false,
		},
		UI: UIConfig{
			UseColor:  true,
			Verbosity: "normal",
		},
		Storage: StorageConfig{
			VaultPath: "~/.aesengine/vault.json",
			VaultMode: engine.CBCEncrypt.String(),
		},
	}
}

// Validate checks that every named mode, padding and size is usable.
func (c *Config) Validate() error {
	var errs []error

	mode, err := engine.ParseMode(c.Defaults.Mode)
	if err != nil {
		errs = append(errs, fmt.Errorf("defaults.mode: %w", err))
	} else if mode.Decrypting() {
		errs = append(errs, fmt.Errorf("defaults.mode: %s is a decrypt mode", mode))
	}

	if _, err := padding.ByName(c.Defaults.Padding); err != nil {
		errs = append(errs, fmt.Errorf("defaults.padding: %w", err))
	}

	switch c.Defaults.KeyBits {
	case 128, 192, 256:
	default:
		errs = append(errs, fmt.Errorf("defaults.key_bits must be 128, 192 or 256 (got %d)", c.Defaults.KeyBits))
	}

	switch c.Defaults.WordSize {
	case 12, 18, 24:
	default:
		errs = append(errs, fmt.Errorf("defaults.word_size must be 12, 18 or 24 (got %d)", c.Defaults.WordSize))
	}

	if c.Security.MinPassphraseLength < 0 {
		errs = append(errs, fmt.Errorf("security.min_passphrase_length cannot be negative"))
	}

	switch c.UI.Verbosity {
	case "quiet", "normal", "verbose":
	default:
		errs = append(errs, fmt.Errorf("ui.verbosity must be quiet, normal or verbose (got %q)", c.UI.Verbosity))
	}

	vaultMode, err := engine.ParseMode(c.Storage.VaultMode)
	if err != nil {
		errs = append(errs, fmt.Errorf("storage.vault_mode: %w", err))
	} else if !vaultMode.Chained() {
		errs = append(errs, fmt.Errorf("storage.vault_mode: %s takes no iv", vaultMode))
	}

	return errors.Join(errs...)
}

// ConfigManager manages configuration loading and saving
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager loads the config from the default location, writing the
// defaults there if no file exists yet.
func NewConfigManager() (*ConfigManager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerAt(configPath)
}

// NewConfigManagerAt is NewConfigManager with an explicit path.
func NewConfigManagerAt(configPath string) (*ConfigManager, error) {
	cm := &ConfigManager{configPath: configPath}

	err := cm.LoadConfig()
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		cm.config = DefaultConfig()
		if err := cm.SaveConfig(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	default:
		return nil, err
	}

	return cm, nil
}

// LoadConfig loads the configuration from disk. Fields missing from the file
// keep their defaults.
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cm.configPath, err)
	}

	cm.config = config
	return nil
}

// SaveConfig saves the configuration to disk
func (cm *ConfigManager) SaveConfig() error {
	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config
}

// SetConfig validates and replaces the configuration
func (cm *ConfigManager) SetConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	cm.config = config
	return nil
}

// Path returns the file the manager reads and writes.
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

// VaultPath returns Storage.VaultPath with a leading ~ expanded.
func (cm *ConfigManager) VaultPath() (string, error) {
	return ExpandHome(cm.config.Storage.VaultPath)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if len(path) < 2 || path[:2] != "~/" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// getConfigPath returns the configuration file path
func getConfigPath() (string, error) {
	if customPath := os.Getenv(EnvConfigPath); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "aesengine", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "aesengine", "config.json"), nil
}
