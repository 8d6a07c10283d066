package qmp

import (
	"bufio"
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer accepts exactly one connection, sends the greeting, then
// runs handle in a goroutine to drive the rest of the session.
func fakeServer(t *testing.T, handle func(enc *json.Encoder, dec *bufio.Reader)) string {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "mon")

	ln, err := net.Listen("unix", sockPath)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		enc := json.NewEncoder(conn)
		r := bufio.NewReader(conn)

		enc.Encode(map[string]interface{}{"QMP": map[string]interface{}{"version": "1.0"}})

		// capabilities negotiation
		var req map[string]interface{}
		dec := json.NewDecoder(r)
		dec.Decode(&req)
		enc.Encode(map[string]interface{}{"return": map[string]interface{}{}})

		handle(enc, r)
	}()

	return sockPath
}

func TestDialHandshake(t *testing.T) {
	sock := fakeServer(t, func(enc *json.Encoder, r *bufio.Reader) {})

	conn, err := Dial(sock)
	require.NoError(t, err)
	defer conn.Close()
}

func TestEventFilteringResolvesOnOneSendCommand(t *testing.T) {
	sock := fakeServer(t, func(enc *json.Encoder, r *bufio.Reader) {
		dec := json.NewDecoder(r)
		var req map[string]interface{}
		dec.Decode(&req)

		// event first, then the actual return: the client's single
		// Command call must resolve to the return, not the event.
		enc.Encode(map[string]interface{}{
			"event":     "STOP",
			"timestamp": map[string]interface{}{"seconds": 1, "microseconds": 0},
		})
		enc.Encode(map[string]interface{}{"return": map[string]interface{}{}})
	})

	conn, err := Dial(sock)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Command("system_reset", nil, nil)
	require.NoError(t, err)

	select {
	case ev := <-conn.Events():
		assert.Equal(t, "STOP", ev.Event)
	case <-time.After(time.Second):
		t.Fatal("expected the discarded event to still reach the async channel")
	}
}

func TestCommandSurfacesErrorReturn(t *testing.T) {
	sock := fakeServer(t, func(enc *json.Encoder, r *bufio.Reader) {
		dec := json.NewDecoder(r)
		var req map[string]interface{}
		dec.Decode(&req)
		enc.Encode(map[string]interface{}{
			"error": map[string]interface{}{"class": "GenericError", "desc": "nope"},
		})
	})

	conn, err := Dial(sock)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Command("system_reset", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "GenericError: nope", err.Error())
}

func TestRunJobPollsUntilConcludedThenDismisses(t *testing.T) {
	polls := 0
	sock := fakeServer(t, func(enc *json.Encoder, r *bufio.Reader) {
		dec := json.NewDecoder(r)

		var cmd map[string]interface{}
		dec.Decode(&cmd) // snapshot-save
		enc.Encode(map[string]interface{}{"return": map[string]interface{}{}})

		for {
			dec.Decode(&cmd) // query-jobs
			polls++
			if polls < 2 {
				enc.Encode(map[string]interface{}{"return": []map[string]interface{}{
					{"id": "snapshot", "type": "snapshot-save", "status": "running"},
				}})
				continue
			}
			enc.Encode(map[string]interface{}{"return": []map[string]interface{}{
				{"id": "snapshot", "type": "snapshot-save", "status": "concluded"},
			}})
			break
		}

		dec.Decode(&cmd) // job-dismiss
		enc.Encode(map[string]interface{}{"return": map[string]interface{}{}})

		dec.Decode(&cmd) // query-jobs after dismiss
		enc.Encode(map[string]interface{}{"return": []map[string]interface{}{}})
	})

	conn, err := Dial(sock)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.RunJob("snapshot-save", "snapshot", map[string]interface{}{"tag": "[EMU-Suspend]"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, polls, 2)
}
