// Package cli handles interactive input for trying suggestions in a terminal.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var wordStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})

var correctedStyle = lipgloss.NewStyle().Italic(true).
	Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

var dimStyle = lipgloss.NewStyle().Faint(true)

// InputHandler reads typed text line by line and prints what the engine suggests.
// Terminals trim trailing spaces, so a line ending in "_" is read as ending in a space.
// ":add word" adds a word to the vocabulary.
type InputHandler struct {
	engine *suggest.Engine
	limit  int
	in     io.Reader
	out    io.Writer
	onAdd  func(word string) error
}

// NewInputHandler creates a handler that asks engine for limit suggestions per line.
// onAdd runs for every ":add" command and may be nil.
func NewInputHandler(engine *suggest.Engine, limit int, in io.Reader, out io.Writer, onAdd func(string) error) *InputHandler {
	if onAdd == nil {
		onAdd = func(word string) error {
			engine.AddWord(word)
			return nil
		}
	}
	return &InputHandler{engine: engine, limit: limit, in: in, out: out, onAdd: onAdd}
}

// Start runs the loop until the input ends.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, "typeahead repl: type text and press enter, end a line with _ for a trailing space (Ctrl+D to exit)")
	reader := bufio.NewReader(h.in)

	for {
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		if line != "" {
			h.handleLine(strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(h.out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (h *InputHandler) handleLine(line string) {
	if word, ok := strings.CutPrefix(line, ":add "); ok {
		word = strings.TrimSpace(word)
		if err := h.onAdd(word); err != nil {
			log.Errorf("Could not add %q: %v", word, err)
			return
		}
		fmt.Fprintf(h.out, "added %s\n", wordStyle.Render(word))
		return
	}

	text := line
	if strings.HasSuffix(text, "_") {
		text = strings.TrimSuffix(text, "_") + " "
	}

	start := time.Now()
	result, err := h.engine.GetSuggestions(text, h.limit)
	if err != nil {
		log.Errorf("Suggest failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for %q", time.Since(start), text)

	if strings.TrimSpace(text) != "" && result.Corrected != strings.Join(strings.Fields(text), " ") {
		fmt.Fprintf(h.out, "corrected: %s\n", correctedStyle.Render(result.Corrected))
	}
	if len(result.Suggestions) == 0 {
		fmt.Fprintln(h.out, dimStyle.Render("no suggestions"))
		return
	}
	for i, s := range result.Suggestions {
		fmt.Fprintf(h.out, "%2d. %-24s %s\n", i+1, wordStyle.Render(s.Word), dimStyle.Render(fmt.Sprintf("%.3f", s.Score)))
	}
}
