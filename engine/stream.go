package engine

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	streamReadLimit    = 1 << 20
	streamReadTimeout  = 60 * time.Second
	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 20 * time.Second
)

// StreamMessage is the envelope the engine pushes over its websocket.
// Unknown types and heartbeats are ignored by the reader.
type StreamMessage struct {
	Type   string          `json:"type"` // "status", "trade", "heartbeat"
	Status *StatusSnapshot `json:"status,omitempty"`
	Trade  *TradeRecord    `json:"trade,omitempty"`
}

// Stream is a persistent push subscription to the engine. It is an
// optional transport: consumers fall back to polling when the stream
// errors, so a Stream never reconnects on its own.
type Stream struct {
	url string
	log zerolog.Logger

	conn      *websocket.Conn
	snapshots chan StatusSnapshot
	trades    chan TradeRecord
	errs      chan error

	done      chan struct{}
	closeOnce sync.Once
}

// DialStream connects to the engine's push channel at url
// (e.g. "ws://host:8000/ws").
func DialStream(ctx context.Context, url string, log zerolog.Logger) (*Stream, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, wrapTransport("dial stream", err)
	}

	s := &Stream{
		url:       url,
		log:       log,
		conn:      conn,
		snapshots: make(chan StatusSnapshot, 16),
		trades:    make(chan TradeRecord, 64),
		errs:      make(chan error, 1),
		done:      make(chan struct{}),
	}

	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamReadTimeout))
	})

	go s.readLoop()
	go s.pingLoop()

	return s, nil
}

// Snapshots delivers pushed status snapshots. The channel is never
// closed; select against Errs to detect stream death.
func (s *Stream) Snapshots() <-chan StatusSnapshot { return s.snapshots }

// Trades delivers pushed trade executions.
func (s *Stream) Trades() <-chan TradeRecord { return s.trades }

// Errs delivers the terminal stream error, at most one.
func (s *Stream) Errs() <-chan error { return s.errs }

// Close tears the subscription down. Safe to call more than once; no
// message is delivered after Close returns.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

func (s *Stream) readLoop() {
	defer s.conn.Close()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			case s.errs <- wrapTransport("read stream", err):
			}
			return
		}

		var msg StreamMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			// A bad frame is a protocol fault but not fatal to the
			// subscription; log and keep reading.
			s.log.Warn().Err(err).Str("url", s.url).Msg("discarding malformed stream message")
			continue
		}

		switch strings.ToLower(msg.Type) {
		case "status":
			if msg.Status == nil {
				continue
			}
			snap := *msg.Status
			if snap.Time.IsZero() {
				snap.Time = time.Now().UTC()
			}
			if err := snap.Validate(); err != nil {
				s.log.Warn().Err(err).Msg("discarding invalid pushed snapshot")
				continue
			}
			s.deliverSnapshot(snap)
		case "trade":
			if msg.Trade == nil {
				continue
			}
			trade := *msg.Trade
			if trade.Time.IsZero() {
				trade.Time = time.Now().UTC()
			}
			s.deliverTrade(trade)
		default:
			// heartbeat or future message type
		}
	}
}

func (s *Stream) deliverSnapshot(snap StatusSnapshot) {
	select {
	case s.snapshots <- snap:
	case <-s.done:
	}
}

func (s *Stream) deliverTrade(trade TradeRecord) {
	select {
	case s.trades <- trade:
	case <-s.done:
	}
}

func (s *Stream) pingLoop() {
	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
