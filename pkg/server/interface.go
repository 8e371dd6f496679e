/*
Package server exposes the word search engine to clients.

Two transports are provided. The HTTP service answers

	GET /api/search?letters=tca&template=c..

with a JSON array of words, most frequent first, or with a msgpack array when
the request carries "Accept: application/msgpack". It also serves /healthz
and, when enabled, Prometheus metrics on /metrics.

# IPC

The IPC server speaks msgpack over stdin/stdout so that an editor plugin or
another process can embed the engine without a network port. The stream is a
plain sequence of msgpack maps. The server first writes

	{"status": "ready"}

and then answers each request in order. A search request looks like

	{"id": "req_001", "l": "tca", "t": "c..", "n": 10}

where "n" (limit) is optional. The response carries the words, their count and
the time taken in microseconds:

	{"id": "req_001", "w": ["cat"], "c": 1, "t": 48}

Requests with "a": "stats" return engine statistics and "a": "ping" returns a
status. Failed requests are answered with

	{"id": "req_001", "e": "invalid query: missing letters", "c": 400}
*/
package server

// MIMEMsgpack is the content type used for msgpack bodies.
const MIMEMsgpack = "application/msgpack"

// IPC actions.
const (
	ActionSearch = "search"
	ActionStats  = "stats"
	ActionPing   = "ping"
)

// IPCRequest is any message read from the IPC stream. Action defaults to search.
type IPCRequest struct {
	ID       string `msgpack:"id"`
	Action   string `msgpack:"a,omitempty"`
	Letters  string `msgpack:"l"`
	Template string `msgpack:"t"`
	Limit    int    `msgpack:"n,omitempty"`
}

// SearchResponse answers a search request.
type SearchResponse struct {
	ID        string   `msgpack:"id"`
	Words     []string `msgpack:"w"`
	Count     int      `msgpack:"c"`
	TimeTaken int64    `msgpack:"t"`
}

// StatsResponse answers a stats request.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"s"`
}

// StatusResponse is the ready signal and the answer to ping.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// IPCError holds basic error information for a failed request.
type IPCError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// ErrorResponse is the JSON body of a failed HTTP request.
type ErrorResponse struct {
	Error  string `json:"error" msgpack:"error"`
	Status int    `json:"status" msgpack:"status"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Words  int    `json:"words"`
}
