// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordscape word finder: a search service, an IPC
server and an interactive terminal widget.

Given a bank of letters and a template, wordscape lists the dictionary words
that fit the template using only letters from the bank. Each bank letter can
be used once. Template positions holding a-z must match exactly, any other
character (conventionally '.') matches any letter.

# Usage

Serve the search API on the configured host:

	wordscape serve

Answer a single query and exit:

	wordscape find -l tca -t c..

Start the line-mode finder for testing and debugging:

	wordscape find

Open the terminal widget against a running service, or against an
in-process dictionary:

	wordscape widget
	wordscape widget --local -w /usr/share/dict/words

# Configuration

Runtime configuration is a TOML file, by default
~/.config/wordscape/config.toml, created with defaults when missing:

	[server]
	host = "localhost:8080"
	rate_limit = 50.0
	rate_burst = 100
	enable_cache = true
	cache_size = 1024
	metrics = true

	[dict]
	wordlist = "words.txt"
	freqlist = ""
	min_length = 1

	[widget]
	endpoint = "http://localhost:8080/"
	default_slots = 4

Relative dictionary paths are looked up next to the config file and then
next to the executable. WORDSCAPE_WORDLIST, WORDSCAPE_FREQLIST,
WORDSCAPE_HOST and WORDSCAPE_ENDPOINT override file values. The serve
command watches the file and applies limit and dictionary changes without
a restart.

# HTTP API

	GET /api/search?letters=tca&template=c..

returns a JSON array of words ranked by frequency, or a MessagePack array
when the request sends Accept: application/msgpack. Bad parameters get a
400 with {"error": "...", "status": 400}. /healthz and /metrics report
liveness and Prometheus metrics.

# IPC Protocol

The ipc command speaks MessagePack over stdin/stdout. It first writes
{"status": "ready"}, then answers each request in order:

	{"id": "r1", "l": "tca", "t": "c..", "n": 10}
	{"id": "r1", "w": ["cat"], "c": 1, "t": 42}

Errors carry a code: {"id": "r1", "e": "...", "c": 400}. The "a" (action) field
selects "search" (default), "stats" or "ping".

# Flags

Every command accepts:

	-c, --config string     config file path
	-w, --wordlist string   word list, overrides [dict] wordlist
	    --freqlist string   frequency list, overrides [dict] freqlist
	-d, --debug             debug logging with timestamps
	    --log-json          JSON log lines

Logs go to stderr, stdout is kept for results and IPC payloads.
*/
package main

import (
	"os"

	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordscape"
	gh      = "https://github.com/bastiangx/wordscape"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
