package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func TestDecoder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Parallel()

		d := NewDecoder()

		msg1 := `{"jsonrpc":"2.0","method":"initialize","id":1,"params":null}`
		require.NoErrorf(t, d.Feed(frame(t, "Content-Length:  %d \r\n\r\n%s", len(msg1), msg1)), "feed msg1")

		msgs, err := d.Drain()
		require.NoErrorf(t, err, "drain msg1")
		require.EqualValuesf(t, len(msgs), 1, "want exactly one message drained")
		assert.EqualValuesf(t, string(msgs[0]), msg1, "decoded msg1")

		// Content-Type before Content-Length is valid per spec; unknown headers are skipped.
		msg2 := `{"jsonrpc":"2.0","method":"shutdown","id":2}`
		require.NoErrorf(t, d.Feed(frame(t,
			"Content-Type: application/vscode-jsonrpc; charset=utf-8\r\nX-Custom: v\r\nContent-Length: %d\r\n\r\n%s",
			len(msg2), msg2)), "feed msg2")
		msgs, err = d.Drain()
		require.NoErrorf(t, err, "drain msg2")
		require.EqualValuesf(t, len(msgs), 1, "want exactly one message drained")
		assert.EqualValuesf(t, string(msgs[0]), msg2, "decoded msg2")

		// Content-Length: 0 frames an empty payload, which is not a JSON value.
		require.NoErrorf(t, d.Feed([]byte("Content-Length: 0\r\n\r\n")), "feed empty payload")
		msgs, err = d.Drain()
		assertDecodeErrorKind(t, err, InvalidJSON)
		assert.EqualValuesf(t, len(msgs), 0, "no message drained from an empty payload")
	})

	t.Run("ArbitraryChunking", func(t *testing.T) {
		t.Parallel()

		d := NewDecoder()
		msg := `{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{}}`
		whole := frame(t, "Content-Length: %d\r\n\r\n%s", len(msg), msg)

		for i := range whole {
			require.NoErrorf(t, d.Feed(whole[i:i+1]), "feed byte %d", i)
			msgs, err := d.Drain()
			require.NoErrorf(t, err, "drain after byte %d", i)
			if i < len(whole)-1 {
				assert.EqualValuesf(t, len(msgs), 0, "no message should be complete yet at byte %d", i)
			} else {
				require.EqualValuesf(t, len(msgs), 1, "message should be complete at last byte")
				assert.EqualValuesf(t, string(msgs[0]), msg, "decoded message")
			}
		}
	})

	t.Run("TwoMessagesOneFeed", func(t *testing.T) {
		t.Parallel()

		d := NewDecoder()
		msg1 := `{"jsonrpc":"2.0","method":"a","params":{}}`
		msg2 := `{"jsonrpc":"2.0","method":"b","params":{}}`
		both := append(frame(t, "Content-Length: %d\r\n\r\n%s", len(msg1), msg1),
			frame(t, "Content-Length: %d\r\n\r\n%s", len(msg2), msg2)...)

		require.NoErrorf(t, d.Feed(both), "feed both messages")
		msgs, err := d.Drain()
		require.NoErrorf(t, err, "drain both messages")
		require.EqualValuesf(t, len(msgs), 2, "want two messages drained")
		assert.EqualValuesf(t, string(msgs[0]), msg1, "decoded msg1")
		assert.EqualValuesf(t, string(msgs[1]), msg2, "decoded msg2")
	})

	t.Run("Errors", func(t *testing.T) {
		t.Parallel()

		t.Run("MissingContentLength", func(t *testing.T) {
			t.Parallel()
			d := NewDecoder()
			require.NoErrorf(t, d.Feed([]byte("Content-Type: application/json\r\n\r\n")), "feed")
			_, err := d.Drain()
			assertDecodeErrorKind(t, err, MissingContentLength)
		})

		t.Run("InvalidHeaderLine", func(t *testing.T) {
			t.Parallel()
			d := NewDecoder()
			require.NoErrorf(t, d.Feed([]byte("not-a-header-line\r\n\r\n")), "feed")
			_, err := d.Drain()
			assertDecodeErrorKind(t, err, MalformedHeader)
		})

		t.Run("InvalidContentLengthValue", func(t *testing.T) {
			t.Parallel()
			d := NewDecoder()
			require.NoErrorf(t, d.Feed([]byte("Content-Length: notanumber\r\n\r\n")), "feed")
			_, err := d.Drain()
			assertDecodeErrorKind(t, err, MalformedHeader)
		})

		t.Run("NegativeContentLength", func(t *testing.T) {
			t.Parallel()
			d := NewDecoder()
			require.NoErrorf(t, d.Feed([]byte("Content-Length: -1\r\n\r\n")), "feed")
			_, err := d.Drain()
			assertDecodeErrorKind(t, err, MalformedHeader)
		})

		t.Run("ContentLengthExceedsCap", func(t *testing.T) {
			t.Parallel()
			d := NewDecoder()
			d.SetMaxContentLength(10)
			require.NoErrorf(t, d.Feed([]byte("Content-Length: 11\r\n\r\n")), "feed")
			_, err := d.Drain()
			assertDecodeErrorKind(t, err, MalformedHeader)
		})

		t.Run("InvalidJSON", func(t *testing.T) {
			t.Parallel()
			d := NewDecoder()
			payload := "not json"
			require.NoErrorf(t, d.Feed(frame(t, "Content-Length: %d\r\n\r\n%s", len(payload), payload)), "feed")
			_, err := d.Drain()
			assertDecodeErrorKind(t, err, InvalidJSON)
		})

		t.Run("PoisonedAfterError", func(t *testing.T) {
			t.Parallel()
			d := NewDecoder()
			require.NoErrorf(t, d.Feed([]byte("bad header\r\n\r\n")), "feed")
			_, err1 := d.Drain()
			require.Errorf(t, err1, "want first drain to fail")

			err2 := d.Feed([]byte("Content-Length: 2\r\n\r\n{}"))
			require.Errorf(t, err2, "want feed to return the poison error")
			assert.EqualValuesf(t, err2, err1, "poison error must be stable across calls")

			_, err3 := d.Drain()
			require.Errorf(t, err3, "want second drain to fail")
			assert.EqualValuesf(t, err3, err1, "poison error must be stable across calls")
		})

		t.Run("HeaderBlockTooLarge", func(t *testing.T) {
			t.Parallel()
			d := NewDecoder()
			var huge []byte
			for len(huge) < maxHeaderBlockLength+100 {
				huge = append(huge, []byte("X-Pad: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\r\n")...)
			}
			require.NoErrorf(t, d.Feed(huge), "feed oversized header block")
			_, err := d.Drain()
			assertDecodeErrorKind(t, err, MalformedHeader)
		})
	})
}

func TestEncoder(t *testing.T) {
	t.Parallel()

	e := NewEncoder()
	out, err := e.Encode(map[string]any{"jsonrpc": "2.0", "method": "initialized"})
	require.NoErrorf(t, err, "encode")

	d := NewDecoder()
	require.NoErrorf(t, d.Feed(out), "feed encoded bytes back into a decoder")
	msgs, err := d.Drain()
	require.NoErrorf(t, err, "drain")
	require.EqualValuesf(t, len(msgs), 1, "want exactly one message round-tripped")

	var got map[string]any
	require.NoErrorf(t, json.Unmarshal(msgs[0], &got), "unmarshal round-tripped message")
	assert.EqualValuesf(t, got["method"], "initialized", "round-tripped method")

	assert.Falsef(t, strings.Contains(string(out), "Content-Type"), "encoder must never emit Content-Type")
}

func frame(t *testing.T, format string, args ...any) []byte {
	t.Helper()
	return []byte(fmt.Sprintf(format, args...))
}

func assertDecodeErrorKind(t *testing.T, err error, kind DecodeErrorKind) {
	t.Helper()
	require.Errorf(t, err, "want a decode error")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("want *DecodeError, got %T: %v", err, err)
	}
	assert.EqualValuesf(t, de.Kind, kind, "decode error kind")
}
