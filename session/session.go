// Package session drives one game over time.
//
// A Session owns the game state, the Running/Paused/Over state machine and
// a fixed-timestep accumulator that turns arbitrary frame deltas into rule
// ticks. It is not safe for concurrent use: adapters must touch a session
// from a single goroutine.
package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brensch/snekrush/game"
	"github.com/brensch/snekrush/rules"
)

// DefaultMaxFrame caps a single Advance so a stalled caller (suspended
// laptop, blocked terminal) does not replay seconds of ticks at once.
const DefaultMaxFrame = time.Second

// Phase is the session state machine.
type Phase uint8

const (
	Running Phase = iota
	Paused
	Over
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Over:
		return "over"
	default:
		return "unknown"
	}
}

// Session is a single player's game plus its clock.
type Session struct {
	settings rules.Settings
	rng      *rand.Rand
	seed     int64
	maxFrame time.Duration

	state *game.GameState
	phase Phase

	// elapsed is alive time: it only grows while Running.
	elapsed  time.Duration
	moveAcc  time.Duration
	driftAcc time.Duration

	best   int
	games  int
	events []Event
}

// New validates settings and starts the first game. The seed fixes every
// random draw the session makes, so equal seeds and inputs replay equally.
func New(settings rules.Settings, seed int64) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		settings: settings,
		rng:      rand.New(rand.NewSource(seed)),
		seed:     seed,
		maxFrame: DefaultMaxFrame,
	}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetMaxFrame overrides DefaultMaxFrame. Non-positive values disable the cap.
func (s *Session) SetMaxFrame(d time.Duration) {
	s.maxFrame = d
}

func (s *Session) start() error {
	state, err := rules.NewGame(s.settings, s.rng)
	if err != nil {
		return fmt.Errorf("starting game %d: %w", s.games+1, err)
	}
	s.state = state
	s.phase = Running
	s.elapsed = 0
	s.moveAcc = 0
	s.driftAcc = 0
	s.games++
	return nil
}

// Reset discards every entity and starts a fresh game in Running. The best
// score survives.
func (s *Session) Reset() error {
	if err := s.start(); err != nil {
		return err
	}
	s.emit(Event{Kind: EventReset})
	return nil
}

// Apply routes a command through the state machine. Direction commands only
// count while Running, reset only once the game is over. It reports whether
// the command changed anything.
func (s *Session) Apply(cmd Command) bool {
	switch cmd {
	case CmdUp, CmdDown, CmdLeft, CmdRight:
		return s.ChangeDirection(cmd.Direction())
	case CmdPause:
		return s.TogglePause()
	case CmdReset:
		if s.phase != Over {
			return false
		}
		return s.Reset() == nil
	default:
		return false
	}
}

// ChangeDirection buffers a turn for the next tick.
func (s *Session) ChangeDirection(d game.Direction) bool {
	if s.phase != Running {
		return false
	}
	return s.state.Snake.ChangeDirection(d)
}

// TogglePause flips Running and Paused. Over ignores it.
func (s *Session) TogglePause() bool {
	switch s.phase {
	case Running:
		s.phase = Paused
		s.emit(Event{Kind: EventPause})
	case Paused:
		s.phase = Running
		s.emit(Event{Kind: EventResume})
	default:
		return false
	}
	return true
}

// Advance feeds dt of real time into the simulation and returns how many
// rule ticks ran. Nothing moves unless the session is Running. Per call:
// the countdown is checked first, then obstacles drift on their own timer,
// then the snake steps as often as the accumulated time allows at the
// current interval. A frame that crosses the time limit ends the game
// without running the moves that fell due earlier in that frame.
func (s *Session) Advance(dt time.Duration) int {
	if s.phase != Running || dt <= 0 {
		return 0
	}
	if s.maxFrame > 0 && dt > s.maxFrame {
		dt = s.maxFrame
	}

	s.elapsed += dt
	if s.elapsed >= s.settings.TimeLimit {
		s.elapsed = s.settings.TimeLimit
		s.timeout()
		return 0
	}

	if every := s.settings.ObstacleEvery; every > 0 {
		s.driftAcc += dt
		for s.driftAcc >= every {
			s.driftAcc -= every
			s.state, _ = rules.DriftObstacles(s.state, s.rng)
		}
	}

	s.moveAcc += dt
	ticks := 0
	for s.moveAcc >= s.state.Interval {
		s.moveAcc -= s.state.Interval
		next, out := rules.Step(s.state, s.rng, s.settings)
		s.state = next
		ticks++
		s.record(out)
		if out.Over {
			break
		}
	}
	return ticks
}

func (s *Session) record(out rules.Outcome) {
	if out.Ate != nil {
		if s.state.Score > s.best {
			s.best = s.state.Score
		}
		s.emit(Event{Kind: EventAte, Food: out.Ate.Kind, Points: out.Ate.Kind.Points()})
		if !out.Respawned {
			s.emit(Event{Kind: EventBoardFull, Food: out.Ate.Kind})
		}
	}
	if out.IntervalChanged {
		s.emit(Event{Kind: EventSpeed, Interval: s.state.Interval})
	}
	if out.Over {
		s.phase = Over
		s.moveAcc = 0
		s.emit(Event{Kind: EventGameOver, Cause: out.Cause})
	}
}

func (s *Session) timeout() {
	next := s.state.Clone()
	next.Over = true
	next.Cause = game.CauseTimeout
	s.state = next
	s.record(rules.Outcome{Over: true, Cause: game.CauseTimeout})
}

func (s *Session) emit(e Event) {
	e.Tick = s.state.Tick
	e.Score = s.state.Score
	s.events = append(s.events, e)
}

// Events drains everything that happened since the last call.
func (s *Session) Events() []Event {
	out := s.events
	s.events = nil
	return out
}

// Phase returns the current state machine phase.
func (s *Session) Phase() Phase { return s.phase }

// State returns a copy of the current game state.
func (s *Session) State() *game.GameState { return s.state.Clone() }

// Settings returns the ruleset the session was built with.
func (s *Session) Settings() rules.Settings { return s.settings }

// Seed returns the seed passed to New.
func (s *Session) Seed() int64 { return s.seed }

// Elapsed is the alive time of the current game.
func (s *Session) Elapsed() time.Duration { return s.elapsed }

// Remaining is the countdown left, never negative.
func (s *Session) Remaining() time.Duration {
	if r := s.settings.TimeLimit - s.elapsed; r > 0 {
		return r
	}
	return 0
}

// Best is the highest score seen since the session was created.
func (s *Session) Best() int { return s.best }

// Games counts games started, including the current one.
func (s *Session) Games() int { return s.games }
