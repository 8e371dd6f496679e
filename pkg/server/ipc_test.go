package server

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func encodeAll(t *testing.T, msgs ...any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, m := range msgs {
		require.NoError(t, enc.Encode(m))
	}
	return &buf
}

func TestIPCServe(t *testing.T) {
	in := encodeAll(t,
		IPCRequest{ID: "1", Letters: "tca", Template: "..."},
		IPCRequest{ID: "2", Letters: "tca", Template: "...", Limit: 1},
		IPCRequest{ID: "3", Letters: "", Template: "..."},
		IPCRequest{ID: "4", Action: ActionPing},
		IPCRequest{ID: "5", Action: "shrug"},
		IPCRequest{ID: "6", Action: ActionStats},
	)
	var out bytes.Buffer

	s := NewIPCServer(testEngine(t), in, &out)
	require.NoError(t, s.Serve(context.Background()))

	dec := msgpack.NewDecoder(&out)

	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)

	var first SearchResponse
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, []string{"cat", "act", "tac"}, first.Words)
	assert.Equal(t, 3, first.Count)

	var limited SearchResponse
	require.NoError(t, dec.Decode(&limited))
	assert.Equal(t, []string{"cat"}, limited.Words)

	var invalid IPCError
	require.NoError(t, dec.Decode(&invalid))
	assert.Equal(t, "3", invalid.ID)
	assert.Equal(t, 400, invalid.Code)
	assert.Contains(t, invalid.Error, "missing letters")

	var pong StatusResponse
	require.NoError(t, dec.Decode(&pong))
	assert.Equal(t, StatusResponse{ID: "4", Status: "ok"}, pong)

	var unknown IPCError
	require.NoError(t, dec.Decode(&unknown))
	assert.Equal(t, "5", unknown.ID)
	assert.Contains(t, unknown.Error, "unknown action")

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, 4, stats.Stats["totalWords"])
}

func TestIPCMalformedRequestKeepsStream(t *testing.T) {
	in := encodeAll(t,
		"not a map",
		IPCRequest{ID: "ok", Letters: "tca", Template: "c.."},
	)
	var out bytes.Buffer
	require.NoError(t, NewIPCServer(testEngine(t), in, &out).Serve(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))

	var bad IPCError
	require.NoError(t, dec.Decode(&bad))
	assert.Equal(t, 400, bad.Code)

	var resp SearchResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, []string{"cat"}, resp.Words)
}
