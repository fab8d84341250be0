package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "cbc-encrypt", cfg.Defaults.Mode)
	assert.Equal(t, "pkcs7", cfg.Defaults.Padding)
	assert.Equal(t, 256, cfg.Defaults.KeyBits)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"unknown mode", func(c *Config) { c.Defaults.Mode = "gcm" }, "defaults.mode"},
		{"decrypt mode", func(c *Config) { c.Defaults.Mode = "cbc-decrypt" }, "decrypt mode"},
		{"bad padding", func(c *Config) { c.Defaults.Padding = "zero" }, "defaults.padding"},
		{"bad key bits", func(c *Config) { c.Defaults.KeyBits = 512 }, "key_bits"},
		{"bad word size", func(c *Config) { c.Defaults.WordSize = 15 }, "word_size"},
		{"negative passphrase", func(c *Config) { c.Security.MinPassphraseLength = -1 }, "min_passphrase_length"},
		{"bad verbosity", func(c *Config) { c.UI.Verbosity = "loud" }, "ui.verbosity"},
		{"ecb vault", func(c *Config) { c.Storage.VaultMode = "ecb-encrypt" }, "takes no iv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := DefaultConfig()
	cfg.Defaults.Mode = "ctr"
	cfg.Storage.VaultMode = "ofb"
	assert.NoError(t, cfg.Validate())
}

func TestManagerCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cm.GetConfig())
	assert.Equal(t, path, cm.Path())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestManagerPersistsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Defaults.Mode = "ofb"
	cfg.Defaults.Armor = true
	require.NoError(t, cm.SetConfig(cfg))
	require.NoError(t, cm.SaveConfig())

	again, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, "ofb", again.GetConfig().Defaults.Mode)
	assert.True(t, again.GetConfig().Defaults.Armor)

	bad := DefaultConfig()
	bad.Defaults.KeyBits = 7
	assert.Error(t, cm.SetConfig(bad))
	assert.Equal(t, "ofb", cm.GetConfig().Defaults.Mode)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"defaults":{"mode":"ctr"}}`), 0600))

	cm, err := NewConfigManagerAt(path)
	require.NoError(t, err)
	assert.Equal(t, "ctr", cm.GetConfig().Defaults.Mode)
	assert.Equal(t, "pkcs7", cm.GetConfig().Defaults.Padding)
	assert.Equal(t, 256, cm.GetConfig().Defaults.KeyBits)
}

func TestInvalidFileIsAnError(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{"), 0600))
	_, err := NewConfigManagerAt(garbage)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"defaults":{"mode":"xts"}}`), 0600))
	_, err = NewConfigManagerAt(invalid)
	assert.ErrorContains(t, err, "defaults.mode")
}

func TestConfigPathResolution(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.json")
	path, err := getConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", path)

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err = getConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "aesengine", "config.json"), path)

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/tester")
	path, err = getConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "aesengine", "config.json"), path)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	got, err := ExpandHome("~/.aesengine/vault.json")
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.aesengine/vault.json", got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = ExpandHome("~")
	require.NoError(t, err)
	assert.Equal(t, "~", got)
}
