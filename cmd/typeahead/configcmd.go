package main

import (
	"fmt"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	setMaxLimit     int
	setDefaultLimit int
	setMaxInput     int
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the active config or change the server limits",
	Long: "Without flags, prints the active config. With flags, saves new request limits; " +
		"running servers pick them up without a restart.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxLimit, defaultLimit, maxInput *int
		if cmd.Flags().Changed("max-limit") {
			maxLimit = &setMaxLimit
		}
		if cmd.Flags().Changed("default-limit") {
			defaultLimit = &setDefaultLimit
		}
		if cmd.Flags().Changed("max-input") {
			maxInput = &setMaxInput
		}

		path := config.GetActiveConfigPath(activePath)
		if maxLimit != nil || defaultLimit != nil || maxInput != nil {
			if err := appConfig.Update(path, maxLimit, defaultLimit, maxInput); err != nil {
				return fmt.Errorf("update config: %w", err)
			}
			log.Infof("Saved %s", path)
		}

		s := appConfig.Server
		fmt.Printf("config:  %s\n", path)
		fmt.Printf("model:   %s\n", appConfig.Model.Path)
		fmt.Printf("server:  max_limit=%d default_limit=%d max_input=%d\n", s.MaxLimit, s.DefaultLimit, s.MaxInput)
		fmt.Printf("http:    %s\n", appConfig.HTTP.Addr)
		w := appConfig.Weights
		fmt.Printf("weights: trigram=%g bigram=%g unigram=%g best=%g alternative=%g bonus=%g\n",
			w.Trigram, w.Bigram, w.Unigram, w.BestCorrection, w.AlternativeCorrection, w.CompletionBonus)
		fmt.Printf("spell:   depth=%d min_length=%d dictionaries=%v\n",
			appConfig.Spell.Depth, appConfig.Spell.MinLength, appConfig.Spell.Dictionaries)
		return nil
	},
}

func init() {
	configCmd.Flags().IntVar(&setMaxLimit, "max-limit", 0, "Largest number of suggestions a request may ask for")
	configCmd.Flags().IntVar(&setDefaultLimit, "default-limit", 0, "Number of suggestions when a request gives none")
	configCmd.Flags().IntVar(&setMaxInput, "max-input", 0, "Longest accepted text in characters")
}
