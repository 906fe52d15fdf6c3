/*
Package config manages the TOML config for typeahead services.
*/
package config

import (
	"path/filepath"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/ngram"
	"github.com/bastiangx/typeahead/pkg/spell"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server"`
	HTTP    HTTPConfig    `toml:"http"`
	Model   ModelConfig   `toml:"model"`
	Weights WeightsConfig `toml:"weights"`
	Spell   SpellConfig   `toml:"spell"`
	CLI     CliConfig     `toml:"cli"`
}

// ServerConfig has request limits shared by the IPC and HTTP servers.
type ServerConfig struct {
	MaxLimit     int `toml:"max_limit"`
	DefaultLimit int `toml:"default_limit"`
	MaxInput     int `toml:"max_input"`
}

// HTTPConfig holds the HTTP listener options.
type HTTPConfig struct {
	Addr         string `toml:"addr"`
	ReadTimeout  int    `toml:"read_timeout"`
	WriteTimeout int    `toml:"write_timeout"`
}

// ModelConfig points at the trained model store.
type ModelConfig struct {
	Path      string `toml:"path"`
	CacheSize int    `toml:"cache_size"`
}

// WeightsConfig holds every scoring constant.
type WeightsConfig struct {
	Trigram               float64 `toml:"trigram"`
	Bigram                float64 `toml:"bigram"`
	Unigram               float64 `toml:"unigram"`
	BestCorrection        float64 `toml:"best_correction"`
	AlternativeCorrection float64 `toml:"alternative_correction"`
	CompletionBonus       float64 `toml:"completion_bonus"`
	CompletionPool        int     `toml:"completion_pool"`
	MaxAlternatives       int     `toml:"max_alternatives"`
}

// SpellConfig holds corrector options and extra vocabulary sources.
type SpellConfig struct {
	Depth         int      `toml:"depth"`
	MinLength     int      `toml:"min_length"`
	MaxCandidates int      `toml:"max_candidates"`
	Exhaustive    bool     `toml:"exhaustive"`
	Dictionaries  []string `toml:"dictionaries"`
	UserWords     string   `toml:"user_words"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() string {
	return filepath.Join(utils.ConfigDir(), "config.toml")
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [ConfigDir]/typeahead/config.toml, created when missing
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if utils.FileExists(customConfigPath) {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s. Trying default path...", customConfigPath)
		}
	}

	defaultPath := GetDefaultConfigPath()
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	mw := ngram.DefaultWeights()
	ew := suggest.DefaultWeights()
	so := spell.DefaultOptions()

	return &Config{
		Server: ServerConfig{
			MaxLimit:     64,
			DefaultLimit: 3,
			MaxInput:     512,
		},
		HTTP: HTTPConfig{
			Addr:         "127.0.0.1:8000",
			ReadTimeout:  5,
			WriteTimeout: 10,
		},
		Model: ModelConfig{
			Path:      filepath.Join(utils.ConfigDir(), "model.db"),
			CacheSize: ngram.DefaultCacheSize,
		},
		Weights: WeightsConfig{
			Trigram:               mw.Trigram,
			Bigram:                mw.Bigram,
			Unigram:               mw.Unigram,
			BestCorrection:        ew.BestCorrection,
			AlternativeCorrection: ew.AlternativeCorrection,
			CompletionBonus:       ew.CompletionBonus,
			CompletionPool:        ew.CompletionPool,
			MaxAlternatives:       ew.MaxAlternatives,
		},
		Spell: SpellConfig{
			Depth:         so.Depth,
			MinLength:     so.MinLength,
			MaxCandidates: so.MaxCandidates,
			Exhaustive:    so.Exhaustive,
			UserWords:     filepath.Join(utils.ConfigDir(), "words.txt"),
		},
		CLI: CliConfig{
			DefaultLimit: 5,
		},
	}
}

// ModelWeights returns the backoff weights for the n-gram model.
func (c *Config) ModelWeights() ngram.Weights {
	return ngram.Weights{Trigram: c.Weights.Trigram, Bigram: c.Weights.Bigram, Unigram: c.Weights.Unigram}
}

// EngineWeights returns the fusion weights for the suggestion engine.
func (c *Config) EngineWeights() suggest.Weights {
	return suggest.Weights{
		BestCorrection:        c.Weights.BestCorrection,
		AlternativeCorrection: c.Weights.AlternativeCorrection,
		CompletionBonus:       c.Weights.CompletionBonus,
		CompletionPool:        c.Weights.CompletionPool,
		MaxAlternatives:       c.Weights.MaxAlternatives,
	}
}

// SpellOptions returns the corrector options.
func (c *Config) SpellOptions() spell.Options {
	return spell.Options{
		Depth:         c.Spell.Depth,
		MinLength:     c.Spell.MinLength,
		MaxCandidates: c.Spell.MaxCandidates,
		Exhaustive:    c.Spell.Exhaustive,
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that fails to decode as a whole is
// read again section by section, keeping every value that parses.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	config.validate()
	return config, nil
}

// validate replaces values the services cannot run with by their defaults.
// Non-positive limits are reset one by one. Weights whose ordering is broken
// are reset as a group: trigram > bigram > unigram > 0 for the model, and
// best_correction > alternative_correction > 0 with a non-negative bonus for fusion.
func (c *Config) validate() {
	def := DefaultConfig()

	positive := []struct {
		name string
		val  *int
		def  int
	}{
		{"server.max_limit", &c.Server.MaxLimit, def.Server.MaxLimit},
		{"server.default_limit", &c.Server.DefaultLimit, def.Server.DefaultLimit},
		{"server.max_input", &c.Server.MaxInput, def.Server.MaxInput},
		{"http.read_timeout", &c.HTTP.ReadTimeout, def.HTTP.ReadTimeout},
		{"http.write_timeout", &c.HTTP.WriteTimeout, def.HTTP.WriteTimeout},
		{"weights.completion_pool", &c.Weights.CompletionPool, def.Weights.CompletionPool},
		{"spell.depth", &c.Spell.Depth, def.Spell.Depth},
		{"spell.max_candidates", &c.Spell.MaxCandidates, def.Spell.MaxCandidates},
		{"cli.default_limit", &c.CLI.DefaultLimit, def.CLI.DefaultLimit},
	}
	for _, p := range positive {
		if *p.val <= 0 {
			log.Warnf("Invalid %s = %d, using %d", p.name, *p.val, p.def)
			*p.val = p.def
		}
	}

	if c.Weights.MaxAlternatives < 0 {
		log.Warnf("Invalid weights.max_alternatives = %d, using %d", c.Weights.MaxAlternatives, def.Weights.MaxAlternatives)
		c.Weights.MaxAlternatives = def.Weights.MaxAlternatives
	}
	if c.Spell.MinLength < 0 {
		log.Warnf("Invalid spell.min_length = %d, using %d", c.Spell.MinLength, def.Spell.MinLength)
		c.Spell.MinLength = def.Spell.MinLength
	}

	w := &c.Weights
	if !(w.Trigram > w.Bigram && w.Bigram > w.Unigram && w.Unigram > 0) {
		log.Warnf("Backoff weights must satisfy trigram > bigram > unigram > 0 (got %g, %g, %g), using defaults",
			w.Trigram, w.Bigram, w.Unigram)
		w.Trigram, w.Bigram, w.Unigram = def.Weights.Trigram, def.Weights.Bigram, def.Weights.Unigram
	}
	if !(w.BestCorrection > w.AlternativeCorrection && w.AlternativeCorrection > 0 && w.CompletionBonus >= 0) {
		log.Warnf("Fusion weights must satisfy best_correction > alternative_correction > 0 and completion_bonus >= 0 (got %g, %g, %g), using defaults",
			w.BestCorrection, w.AlternativeCorrection, w.CompletionBonus)
		w.BestCorrection = def.Weights.BestCorrection
		w.AlternativeCorrection = def.Weights.AlternativeCorrection
		w.CompletionBonus = def.Weights.CompletionBonus
	}
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "http"); ok {
		extractHTTPConfig(section, &config.HTTP)
	}
	if section, ok := utils.ExtractSection(tempConfig, "model"); ok {
		extractModelConfig(section, &config.Model)
	}
	if section, ok := utils.ExtractSection(tempConfig, "weights"); ok {
		extractWeightsConfig(section, &config.Weights)
	}
	if section, ok := utils.ExtractSection(tempConfig, "spell"); ok {
		extractSpellConfig(section, &config.Spell)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_input"); ok {
		server.MaxInput = val
	}
}

func extractHTTPConfig(data map[string]any, h *HTTPConfig) {
	if val, ok := utils.ExtractString(data, "addr"); ok {
		h.Addr = val
	}
	if val, ok := utils.ExtractInt64(data, "read_timeout"); ok {
		h.ReadTimeout = val
	}
	if val, ok := utils.ExtractInt64(data, "write_timeout"); ok {
		h.WriteTimeout = val
	}
}

func extractModelConfig(data map[string]any, m *ModelConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		m.Path = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		m.CacheSize = val
	}
}

func extractWeightsConfig(data map[string]any, w *WeightsConfig) {
	floats := map[string]*float64{
		"trigram":                &w.Trigram,
		"bigram":                 &w.Bigram,
		"unigram":                &w.Unigram,
		"best_correction":        &w.BestCorrection,
		"alternative_correction": &w.AlternativeCorrection,
		"completion_bonus":       &w.CompletionBonus,
	}
	for key, dst := range floats {
		if val, ok := utils.ExtractFloat(data, key); ok {
			*dst = val
		}
	}
	if val, ok := utils.ExtractInt64(data, "completion_pool"); ok {
		w.CompletionPool = val
	}
	if val, ok := utils.ExtractInt64(data, "max_alternatives"); ok {
		w.MaxAlternatives = val
	}
}

func extractSpellConfig(data map[string]any, s *SpellConfig) {
	if val, ok := utils.ExtractInt64(data, "depth"); ok {
		s.Depth = val
	}
	if val, ok := utils.ExtractInt64(data, "min_length"); ok {
		s.MinLength = val
	}
	if val, ok := utils.ExtractInt64(data, "max_candidates"); ok {
		s.MaxCandidates = val
	}
	if val, ok := utils.ExtractBool(data, "exhaustive"); ok {
		s.Exhaustive = val
	}
	if val, ok := utils.ExtractStringSlice(data, "dictionaries"); ok {
		s.Dictionaries = val
	}
	if val, ok := utils.ExtractString(data, "user_words"); ok {
		s.UserWords = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return GetDefaultConfigPath()
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server limits and saves to file. Non-positive limits fall back to the defaults.
func (c *Config) Update(configPath string, maxLimit, defaultLimit, maxInput *int) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if defaultLimit != nil {
		server.DefaultLimit = *defaultLimit
	}
	if maxInput != nil {
		server.MaxInput = *maxInput
	}
	c.validate()
	return SaveConfig(c, configPath)
}
