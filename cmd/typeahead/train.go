package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/bastiangx/typeahead/pkg/ngram"
	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	trainOut   string
	exportDict string
)

var trainCmd = &cobra.Command{
	Use:   "train <corpus>",
	Short: "Train a model from a corpus with one sentence per line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := appConfig.Model.Path
		if trainOut != "" {
			out = trainOut
		}
		model, err := trainModel(args[0], !debugMode)
		if err != nil {
			return err
		}
		if err := model.Save(out); err != nil {
			return err
		}
		log.Infof("Saved %s to %s", model, out)

		if exportDict != "" {
			path, err := writeVocabulary(exportDict, model)
			if err != nil {
				return err
			}
			log.Infof("Wrote vocabulary chunk %s", path)
		}
		return nil
	},
}

func init() {
	trainCmd.Flags().StringVarP(&trainOut, "output", "o", "", "Where to save the model (default: [model].path)")
	trainCmd.Flags().StringVar(&exportDict, "export-dict", "", "Also write the vocabulary as a dict_0001.bin chunk into this directory")
}

// trainModel counts the corpus at path, drawing a progress bar when showBar is set.
func trainModel(path string, showBar bool) (*ngram.Model, error) {
	start := time.Now()
	model := ngram.NewModel(modelOptions(appConfig)...)
	defer func() { log.Debugf("Trained in %v", time.Since(start)) }()

	if !showBar {
		return model, model.TrainFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat corpus: %w", err)
	}

	bar := progressbar.DefaultBytes(info.Size(), "training")
	defer bar.Finish()
	if err := model.Train(io.TeeReader(f, bar)); err != nil {
		return nil, err
	}
	return model, nil
}

func writeVocabulary(dir string, model *ngram.Model) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "dict_0001.bin")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := dictionary.WriteChunk(f, model.UnigramCounts()); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
