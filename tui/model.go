// Package tui plays a session in the terminal with bubbletea.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/snekrush/session"
)

// Frame is the redraw period. The session decides how many rule ticks fit
// into each frame.
const Frame = 16 * time.Millisecond

// Sounder reacts to session events. sound.Player implements it.
type Sounder interface {
	Play(e session.Event)
}

// TickMsg drives Session.Advance.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(Frame, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Model is the bubbletea model. All session access happens in Update, which
// bubbletea runs on a single goroutine.
type Model struct {
	sess  *session.Session
	sound Sounder
	log   *slog.Logger

	last     time.Time
	width    int
	height   int
	quitting bool
}

type Option func(*Model)

func WithSound(s Sounder) Option {
	return func(m *Model) { m.sound = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.log = l }
}

func New(sess *session.Session, opts ...Option) Model {
	m := Model{sess: sess, log: slog.Default()}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" || key == "esc" {
			m.quitting = true
			return m, tea.Quit
		}
		if cmd := KeyCommand(key); cmd != session.CmdNone {
			m.sess.Apply(cmd)
			m.drain()
		}
	case TickMsg:
		now := time.Time(msg)
		if !m.last.IsZero() {
			m.sess.Advance(now.Sub(m.last))
			m.drain()
		}
		m.last = now
		return m, tickCmd()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Model) drain() {
	for _, e := range m.sess.Events() {
		if m.sound != nil {
			m.sound.Play(e)
		}
		switch e.Kind {
		case session.EventGameOver:
			m.log.Info("game over", "cause", string(e.Cause), "score", e.Score, "best", m.sess.Best())
		case session.EventBoardFull:
			m.log.Warn("board full, food not replaced", "food", e.Food.String(), "score", e.Score)
		case session.EventReset:
			m.log.Info("new game", "game", m.sess.Games())
		default:
			m.log.Debug(e.Kind.String(), "tick", e.Tick, "score", e.Score)
		}
	}
}

// Run blocks until the player quits or ctx is cancelled.
func Run(ctx context.Context, sess *session.Session, opts ...Option) error {
	p := tea.NewProgram(New(sess, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
