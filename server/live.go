package server

import (
	"errors"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zephyrtronium/formula"
)

// LiveRequest is one message on the live endpoint.
type LiveRequest struct {
	// ID is echoed in the response so that clients can discard answers to
	// stale keystrokes.
	ID string `json:"id"`
	formula.Request
}

// LiveResponse answers a LiveRequest. Exactly one of Outcome and Error is set.
type LiveResponse struct {
	ID      string           `json:"id"`
	Outcome *formula.Outcome `json:"outcome,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// handleLive validates each message of a WebSocket connection and answers in
// order.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()
	// Live sessions outlast the server's request timeouts.
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})
	conn.SetReadLimit(s.bodyLimit())
	s.metrics.RecordLiveOpen()
	defer s.metrics.RecordLiveClose()

	s.logger.Debug().Str("remote", r.RemoteAddr).Msg("live connection established")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				s.metrics.RecordRejected()
				s.logger.Debug().Int64("limit", s.bodyLimit()).Msg("live message too large")
				return
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Msg("live read error")
			}
			return
		}

		var req LiveRequest
		var resp LiveResponse
		if err := json.Unmarshal(data, &req); err != nil {
			resp.Error = "invalid message: " + err.Error()
		} else {
			resp.ID = req.ID
			out, err := s.validate(r.Context(), req.Request)
			if err != nil {
				resp.Error = err.Error()
			} else {
				resp.Outcome = &out
			}
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Debug().Err(err).Msg("live write error")
			return
		}
	}
}
