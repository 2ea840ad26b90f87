package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamServer upgrades one connection and feeds it scripted frames.
func streamServer(t *testing.T, frames []string, hold bool) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		for _, f := range frames {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(f)))
		}
		if hold {
			// Keep the connection open until the client goes away.
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStreamDeliversSnapshotsAndTrades(t *testing.T) {
	t.Parallel()

	frames := []string{
		`{"type": "heartbeat"}`,
		`{"type": "status", "status": {"running": true, "state": "long", "equity": 10100}}`,
		`{"type": "trade", "trade": {"side": "buy", "qty": 0.01, "price": 65000, "fee": 0.65}}`,
	}
	srv := streamServer(t, frames, true)
	defer srv.Close()

	s, err := DialStream(context.Background(), wsURL(srv), zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	select {
	case snap := <-s.Snapshots():
		assert.True(t, snap.Running)
		assert.Equal(t, StateLong, snap.State)
		assert.InDelta(t, 10100, snap.Equity, 1e-9)
		assert.False(t, snap.Time.IsZero(), "pushed snapshot gets stamped")
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}

	select {
	case trade := <-s.Trades():
		assert.Equal(t, Buy, trade.Side)
		assert.InDelta(t, 0.01, trade.Quantity, 1e-9)
		assert.False(t, trade.Time.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no trade delivered")
	}
}

func TestStreamSkipsMalformedAndInvalidFrames(t *testing.T) {
	t.Parallel()

	frames := []string{
		`this is not json`,
		`{"type": "status", "status": {"state": "sideways"}}`,
		`{"type": "status"}`,
		`{"type": "status", "status": {"running": true, "state": "flat", "equity": 9950}}`,
	}
	srv := streamServer(t, frames, true)
	defer srv.Close()

	s, err := DialStream(context.Background(), wsURL(srv), zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	select {
	case snap := <-s.Snapshots():
		// Only the final, valid frame comes through.
		assert.InDelta(t, 9950, snap.Equity, 1e-9)
	case <-time.After(2 * time.Second):
		t.Fatal("valid snapshot not delivered")
	}
}

func TestStreamReportsTerminalError(t *testing.T) {
	t.Parallel()

	srv := streamServer(t, nil, false) // server closes immediately
	defer srv.Close()

	s, err := DialStream(context.Background(), wsURL(srv), zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	select {
	case err := <-s.Errs():
		assert.ErrorIs(t, err, ErrTransient)
	case <-time.After(2 * time.Second):
		t.Fatal("stream death not reported")
	}
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	srv := streamServer(t, nil, true)
	defer srv.Close()

	s, err := DialStream(context.Background(), wsURL(srv), zerolog.Nop())
	require.NoError(t, err)

	s.Close()
	s.Close()
}

func TestDialStreamFailureIsTransient(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := DialStream(ctx, "ws://192.0.2.1:1/ws", zerolog.Nop())
	require.Error(t, err)
}
