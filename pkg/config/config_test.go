package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"too many slots", func(c *Config) { c.Widget.DefaultSlots = 8 }, "default_slots"},
		{"too few slots", func(c *Config) { c.Widget.DefaultSlots = 2 }, "default_slots"},
		{"bad endpoint", func(c *Config) { c.Widget.Endpoint = "not a url" }, "endpoint"},
		{"bad host", func(c *Config) { c.Server.Host = "localhost" }, "host"},
		{"no wordlist", func(c *Config) { c.Dict.WordList = "" }, "wordlist"},
		{"zero burst", func(c *Config) { c.Server.RateBurst = 0 }, "rate_burst"},
		{"max below min", func(c *Config) { c.Dict.MinLength = 5; c.Dict.MaxLength = 3 }, "max_length"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[server]
host = "0.0.0.0:9000"
rate_limit = 2.5

[widget]
default_slots = 6
msgpack = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Host)
	assert.Equal(t, 2.5, cfg.Server.RateLimit)
	assert.Equal(t, 6, cfg.Widget.DefaultSlots)
	assert.True(t, cfg.Widget.Msgpack)
	assert.Equal(t, DefaultConfig().Dict, cfg.Dict)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// A type mismatch fails typed decoding; the other sections survive.
	path := writeConfig(t, t.TempDir(), `
[server]
host = "127.0.0.1:7000"
max_results = "lots"

[dict]
wordlist = "list.txt"
min_length = 3
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Host)
	assert.Equal(t, DefaultConfig().Server.MaxResults, cfg.Server.MaxResults)
	assert.Equal(t, "list.txt", cfg.Dict.WordList)
	assert.Equal(t, 3, cfg.Dict.MinLength)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[[[ nope")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvWordList, "/tmp/words.txt")
	t.Setenv(EnvHost, "127.0.0.1:1234")
	t.Setenv(EnvEndpoint, "")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "/tmp/words.txt", cfg.Dict.WordList)
	assert.Equal(t, "127.0.0.1:1234", cfg.Server.Host)
	assert.Equal(t, DefaultConfig().Widget.Endpoint, cfg.Widget.Endpoint, "empty values are ignored")
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[widget]\ndefault_slots = 12\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadResolvesDictionaryNextToConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.txt"), []byte("cat\n"), 0o644))
	path := writeConfig(t, dir, "[dict]\nwordlist = \"mine.txt\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mine.txt"), cfg.Dict.WordList)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[cli]\ndefault_limit = 7\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 7, cfg.CLI.DefaultLimit)
}

func TestRebuildConfigFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[cli]\ndefault_limit = 7\n")
	written, err := RebuildConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().CLI.DefaultLimit, cfg.CLI.DefaultLimit)
}

func TestWatchReloads(t *testing.T) {
	ReloadDelay = 10 * time.Millisecond
	dir := t.TempDir()
	path := writeConfig(t, dir, "[cli]\ndefault_limit = 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var limit atomic.Int64
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config) {
			limit.Store(int64(cfg.CLI.DefaultLimit))
		})
	}()

	// The watcher registers asynchronously; keep rewriting until a reload lands.
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("[cli]\ndefault_limit = 9\n"), 0o644)
		return limit.Load() == 9
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
