// Copyright 2025 The Typeahead Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the typeahead trainer, servers and interactive CLI.

Note: This is a BETA release. APIs and functionality may rapidly change.

Typeahead predicts the next word, or completes the word being typed, from a
trigram language model with backoff to bigrams and unigrams. Typed text is
spell corrected first, and corrections are fused with model completions into
one ranked list.

# Usage

Train a model from a corpus with one sentence per line:

	typeahead train corpus.txt

Serve suggestions over msgpack IPC on stdin/stdout:

	typeahead serve

Serve the JSON API, or try it in a terminal:

	typeahead http --addr 127.0.0.1:8000
	typeahead repl -n 5

# Configuration

A TOML config is created with defaults on first run:

	[server]
	max_limit = 64
	default_limit = 3
	max_input = 512

	[weights]
	trigram = 100.0
	bigram = 10.0
	unigram = 1.0

	[spell]
	depth = 2
	dictionaries = ["data/"]

The servers watch the file and apply new request limits without a restart.
Weights, spell options and the model path are read at startup.

# Model

The model is a bbolt file holding msgpack encoded unigram, bigram and trigram
tables. A missing model is not an error: the servers start with an empty model
and answer with empty lists. A corrupt model stops startup.

Use -d for debug logs with timings.
*/
package main

import (
	"os"
)

const (
	Version = "0.1.0-beta"
	AppName = "typeahead"
	gh      = "https://github.com/bastiangx/typeahead"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
