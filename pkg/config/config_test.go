package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeahead", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
max_limit = 10

[weights]
trigram = 200.0

[spell]
dictionaries = ["a.txt", "b.bin"]
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Server.MaxLimit)
	assert.Equal(t, 3, cfg.Server.DefaultLimit)
	assert.Equal(t, 200.0, cfg.ModelWeights().Trigram)
	assert.Equal(t, 10.0, cfg.ModelWeights().Bigram)
	assert.Equal(t, []string{"a.txt", "b.bin"}, cfg.Spell.Dictionaries)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
max_limit = 7

[weights]
trigram = "lots"
completion_pool = 50

[spell]
exhaustive = false
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Server.MaxLimit)
	assert.Equal(t, 100.0, cfg.Weights.Trigram)
	assert.Equal(t, 50, cfg.EngineWeights().CompletionPool)
	assert.False(t, cfg.SpellOptions().Exhaustive)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[[ not toml"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	limit := 12
	require.NoError(t, cfg.Update(path, &limit, nil, nil))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Server.MaxLimit)
	assert.Equal(t, 512, loaded.Server.MaxInput)
}

func TestLoadConfigResetsNonPositiveLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
max_limit = 0
default_limit = -2
max_input = -1

[weights]
completion_pool = -10
max_alternatives = -1

[cli]
default_limit = 0
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	def := DefaultConfig()
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Weights.CompletionPool, cfg.Weights.CompletionPool)
	assert.Equal(t, def.Weights.MaxAlternatives, cfg.Weights.MaxAlternatives)
	assert.Equal(t, def.CLI.DefaultLimit, cfg.CLI.DefaultLimit)
}

func TestLoadConfigKeepsZeroAlternatives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[weights]\nmax_alternatives = 0\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.EngineWeights().MaxAlternatives)
}

func TestLoadConfigWeightOrdering(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		trigram float64
		best    float64
	}{
		{"backoff inverted", "[weights]\ntrigram = 1.0\nbigram = 10.0\n", 100, 50},
		{"unigram not positive", "[weights]\nunigram = 0.0\n", 100, 50},
		{"best below alternative", "[weights]\nbest_correction = 5.0\n", 100, 50},
		{"negative bonus", "[weights]\ncompletion_bonus = -1.0\n", 100, 50},
		{"valid custom", "[weights]\ntrigram = 300.0\nbest_correction = 80.0\n", 300, 80},
		{"partial file inverted", "[weights]\ntrigram = 2.0\nbigram = \"x\"\n", 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))

			cfg, err := LoadConfig(path)
			require.NoError(t, err)
			mw, ew := cfg.ModelWeights(), cfg.EngineWeights()
			assert.Equal(t, tt.trigram, mw.Trigram)
			assert.Equal(t, tt.best, ew.BestCorrection)
			assert.Greater(t, mw.Trigram, mw.Bigram)
			assert.Greater(t, mw.Bigram, mw.Unigram)
			assert.Greater(t, ew.BestCorrection, ew.AlternativeCorrection)
		})
	}
}

func TestUpdateResetsNonPositiveLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	zero := 0
	require.NoError(t, cfg.Update(path, &zero, nil, nil))
	assert.Equal(t, 64, cfg.Server.MaxLimit)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 64, loaded.Server.MaxLimit)
}

func TestLoadConfigWithPriorityCustom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan *Config, 4)
	require.NoError(t, Watch(ctx, path, func(c *Config) { changes <- c }))

	cfg := DefaultConfig()
	cfg.Server.MaxLimit = 9
	require.NoError(t, SaveConfig(cfg, path))

	select {
	case got := <-changes:
		assert.Equal(t, 9, got.Server.MaxLimit)
	case <-time.After(3 * time.Second):
		t.Fatal("config change not observed")
	}
}
