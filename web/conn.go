package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/brensch/snekrush/session"
)

const writeWait = 5 * time.Second

// inbound is a client message: {"cmd":"up"}.
type inbound struct {
	Cmd string `json:"cmd"`
}

// outbound is a server message. Type is "snapshot" or "error".
type outbound struct {
	Type     string            `json:"type"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Events   []string          `json:"events,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		s.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	seed := s.nextSeed()
	log := s.log.With("conn", id)

	sess, err := session.New(s.cfg.Settings, seed)
	if err != nil {
		log.Error("starting session", "err", err)
		_ = write(conn, outbound{Type: "error", Error: err.Error()})
		return
	}

	s.conns.Add(1)
	defer s.conns.Add(-1)
	log.Info("player connected", "remote", r.RemoteAddr, "seed", seed)

	cmds := make(chan session.Command, 16)
	done := make(chan struct{})
	go readCommands(conn, cmds, done, log)

	if err := s.play(r.Context(), conn, sess, cmds, done, log); err != nil {
		log.Warn("connection ended", "err", err)
	}
	log.Info("player disconnected", "games", sess.Games(), "best", sess.Best())
}

// readCommands is the only reader of conn. Messages that do not parse into
// a known command are dropped; so are commands arriving faster than the
// game loop takes them.
func readCommands(conn *websocket.Conn, cmds chan<- session.Command, done chan<- struct{}, log *slog.Logger) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read ended", "err", err)
			}
			return
		}
		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		cmd, ok := session.ParseCommand(msg.Cmd)
		if !ok {
			continue
		}
		select {
		case cmds <- cmd:
		default:
		}
	}
}

// play owns sess for the life of the connection and is the only writer to
// conn. A snapshot goes out whenever something visible changed.
func (s *Server) play(ctx context.Context, conn *websocket.Conn, sess *session.Session, cmds <-chan session.Command, done <-chan struct{}, log *slog.Logger) error {
	ticker := time.NewTicker(s.cfg.Frame)
	defer ticker.Stop()

	snap := sess.Snapshot()
	if err := write(conn, outbound{Type: "snapshot", Snapshot: &snap}); err != nil {
		return err
	}
	lastRemaining := snap.RemainingSec
	last := time.Now()

	for {
		changed := false
		select {
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return nil
		case <-done:
			return nil
		case cmd := <-cmds:
			changed = sess.Apply(cmd)
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			changed = sess.Advance(dt) > 0
		}

		events := sess.Events()
		logEvents(log, events)

		snap := sess.Snapshot()
		if !changed && len(events) == 0 && snap.RemainingSec == lastRemaining {
			continue
		}
		lastRemaining = snap.RemainingSec

		out := outbound{Type: "snapshot", Snapshot: &snap}
		for _, e := range events {
			out.Events = append(out.Events, e.Kind.String())
		}
		if err := write(conn, out); err != nil {
			return err
		}
	}
}

func write(conn *websocket.Conn, v outbound) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func logEvents(log *slog.Logger, events []session.Event) {
	for _, e := range events {
		switch e.Kind {
		case session.EventGameOver:
			log.Info("game over", "cause", string(e.Cause), "score", e.Score, "tick", e.Tick)
		case session.EventBoardFull:
			log.Warn("board full, food not replaced", "food", e.Food.String(), "score", e.Score, "tick", e.Tick)
		case session.EventAte:
			log.Debug("ate", "food", e.Food.String(), "points", e.Points, "score", e.Score)
		case session.EventSpeed:
			log.Debug("speed changed", "interval", e.Interval)
		default:
			log.Debug(e.Kind.String(), "tick", e.Tick)
		}
	}
}
