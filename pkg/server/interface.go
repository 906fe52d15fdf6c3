/*
Package server exposes the suggestion engine over msgpack IPC and HTTP.

# IPC

The IPC server reads a stream of msgpack maps from stdin and writes one msgpack map per
request to stdout. Every request carries an id that is echoed back.

A suggestion request holds the raw typed text and an optional limit:

	{"id": "req_001", "t": "i love p", "k": 3}

The response carries the corrected text, the ranked suggestions, their count and the
time taken in microseconds:

	{"id": "req_001", "c": "i love p", "s": [{"w": "pizza", "s": 83.3}, {"w": "pasta", "s": 10.1}], "n": 2, "t": 145}

The "a" field selects other actions:

	{"id": "w_001", "a": "add_word", "w": "typeahead"}
	{"id": "h_001", "a": "health"}

Failures answer with {"id", "e", "code"}: 400 for a malformed request, 413 when the
text exceeds max_input and 503 when no model is loaded.

The server writes {"status": "ready"} once it starts and returns when stdin closes.
*/
package server

import "github.com/bastiangx/typeahead/pkg/suggest"

// Request actions.
const (
	ActionSuggest = "suggest"
	ActionAddWord = "add_word"
	ActionHealth  = "health"
)

// Request is one IPC message. An empty action means suggest.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Text   string `msgpack:"t,omitempty"`
	Limit  int    `msgpack:"k,omitempty"`
	Word   string `msgpack:"w,omitempty"`
}

// SuggestResponse answers a suggest request.
type SuggestResponse struct {
	ID          string               `msgpack:"id"`
	Corrected   string               `msgpack:"c"`
	Suggestions []suggest.Suggestion `msgpack:"s"`
	Count       int                  `msgpack:"n"`
	TimeTaken   int64                `msgpack:"t"`
}

// StatusResponse answers health and add_word requests and announces readiness.
type StatusResponse struct {
	ID     string         `msgpack:"id,omitempty"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"code"`
}
