package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/ngram"
	"github.com/bastiangx/typeahead/pkg/spell"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
)

// modelOptions maps the config onto model options.
func modelOptions(cfg *config.Config) []ngram.Option {
	return []ngram.Option{
		ngram.WithWeights(cfg.ModelWeights()),
		ngram.WithCacheSize(cfg.Model.CacheSize),
	}
}

// buildEngine loads the model, seeds the corrector and joins them.
// A missing model gives an empty engine, a corrupt one is an error.
func buildEngine(cfg *config.Config) (*suggest.Engine, error) {
	start := time.Now()

	model, err := ngram.Load(cfg.Model.Path, modelOptions(cfg)...)
	switch {
	case errors.Is(err, ngram.ErrModelNotFound):
		log.Warnf("No model at %s, starting empty. Run `%s train` first.", cfg.Model.Path, AppName)
		model = ngram.NewModel(modelOptions(cfg)...)
	case err != nil:
		return nil, err
	}
	log.Debugf("Model: %s", model)

	corrector := spell.New(cfg.SpellOptions())
	corrector.Seed(model.UnigramCounts())

	for _, src := range cfg.Spell.Dictionaries {
		words, err := loadDictionary(utils.ResolveDataPath(src))
		if err != nil {
			log.Warnf("Skipping dictionary %s: %v", src, err)
			continue
		}
		corrector.Seed(words)
		log.Debugf("Seeded %s words from %s", utils.FormatWithCommas(len(words)), src)
	}

	if cfg.Spell.UserWords != "" {
		words, err := dictionary.LoadOptional(cfg.Spell.UserWords)
		if err != nil {
			log.Warnf("Skipping user words %s: %v", cfg.Spell.UserWords, err)
		} else {
			corrector.Seed(words)
		}
	}

	log.Debugf("Engine ready in %v with %s known words", time.Since(start), utils.FormatWithCommas(corrector.Size()))
	return suggest.NewEngine(model, corrector, cfg.EngineWeights()), nil
}

func loadDictionary(path string) (dictionary.Words, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	if info.IsDir() {
		return dictionary.LoadDir(path)
	}
	return dictionary.LoadFile(path)
}
