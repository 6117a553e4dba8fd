/*
Package server implements msgpack IPC over stdin/stdout for a loaded word
chain model.

The server writes a ready message on start, then reads a stream of msgpack
requests and answers each one synchronously, in order. Every request carries
an ID and an action:

	{"id": "r1", "action": "rank",  "seed": "the", "k": 5}
	{"id": "r2", "action": "chain", "seed": "the", "k": 8, "mode": "one"}
	{"id": "r3", "action": "words", "p": "th", "k": 10}
	{"id": "r4", "action": "health"}

Rank responses list the seed's successors most probable first, with a
1-based rank and the observed count:

	{"id": "r1", "seed": "the", "s": [{"w": "cat", "r": 1, "n": 3}], "c": 1, "t": 12}

Timings are in microseconds. Failed requests get an ErrorResponse with an
HTTP-like code: 400 for bad requests, 500 for internal failures.

An omitted k falls back to the configured defaults and is capped at
server.max_k. Seeds and prefixes go through the same normalizer as the
training text.
*/
package server

// Request is the union of all request fields; Action selects which apply.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`
	Seed   string `msgpack:"seed,omitempty"`
	K      *int   `msgpack:"k,omitempty"`
	Mode   string `msgpack:"mode,omitempty"`
	Prefix string `msgpack:"p,omitempty"`
}

// RankedWord is one ranked successor.
type RankedWord struct {
	Word  string `msgpack:"w"`
	Rank  uint16 `msgpack:"r"`
	Count int    `msgpack:"n"`
}

// RankResponse answers a rank request.
type RankResponse struct {
	ID         string       `msgpack:"id"`
	Seed       string       `msgpack:"seed"`
	Successors []RankedWord `msgpack:"s"`
	Count      int          `msgpack:"c"`
	TimeTaken  int64        `msgpack:"t"`
}

// ChainResponse answers a chain request.
type ChainResponse struct {
	ID        string   `msgpack:"id"`
	Words     []string `msgpack:"w"`
	Mode      string   `msgpack:"mode"`
	TimeTaken int64    `msgpack:"t"`
}

// WordsResponse lists known predecessors under a prefix.
type WordsResponse struct {
	ID    string   `msgpack:"id"`
	Words []string `msgpack:"w"`
	Count int      `msgpack:"c"`
}

// StatusResponse carries ready and health replies.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
