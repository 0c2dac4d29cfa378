package session

import (
	"time"

	"github.com/brensch/snekrush/game"
)

// EventKind labels something that happened during Advance or Apply.
type EventKind uint8

const (
	EventAte EventKind = iota + 1
	EventSpeed
	EventGameOver
	EventReset
	EventPause
	EventResume
	// EventBoardFull means an eaten food could not be replaced because no
	// cell was free. The board carries one fewer food from then on.
	EventBoardFull
)

func (k EventKind) String() string {
	switch k {
	case EventAte:
		return "ate"
	case EventSpeed:
		return "speed"
	case EventGameOver:
		return "game_over"
	case EventReset:
		return "reset"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventBoardFull:
		return "board_full"
	default:
		return "unknown"
	}
}

// Event is one entry drained by Session.Events.
type Event struct {
	Kind  EventKind
	Tick  int64
	Score int

	Food     game.FoodKind // EventAte, EventBoardFull
	Points   int           // EventAte
	Interval time.Duration // EventSpeed
	Cause    game.Cause    // EventGameOver
}

// Cell is a board coordinate as sent to renderers.
type Cell struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// FoodView is a food item as sent to renderers.
type FoodView struct {
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Kind   string `json:"kind"`
	Points int    `json:"points"`
}

// Snapshot is the read-only per-frame view handed to the UI adapters.
type Snapshot struct {
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
	Wrap   bool  `json:"wrap"`

	// Snake is head first. A head that left the board is omitted.
	Snake     []Cell     `json:"snake"`
	Direction string     `json:"direction"`
	Food      []FoodView `json:"food"`
	Obstacles []Cell     `json:"obstacles"`

	Score int   `json:"score"`
	Best  int   `json:"best"`
	Tick  int64 `json:"tick"`
	Games int   `json:"games"`

	ElapsedMs    int64 `json:"elapsedMs"`
	RemainingSec int   `json:"remainingSec"`
	IntervalMs   int64 `json:"intervalMs"`
	// Speed is BaseInterval / Interval: 1 at the start, above 1 as the
	// snake speeds up.
	Speed float64 `json:"speed"`

	Phase  string `json:"phase"`
	Paused bool   `json:"paused"`
	Over   bool   `json:"over"`
	Cause  string `json:"cause,omitempty"`
}

// Snapshot renders the current state for display.
func (s *Session) Snapshot() Snapshot {
	st := s.state
	snap := Snapshot{
		Width:     st.Grid.Width,
		Height:    st.Grid.Height,
		Wrap:      st.Grid.Wrap,
		Snake:     make([]Cell, 0, len(st.Snake.Body)),
		Direction: st.Snake.Direction.String(),
		Food:      make([]FoodView, 0, len(st.Food)),
		Obstacles: make([]Cell, 0, len(st.Obstacles)),
		Score:     st.Score,
		Best:      s.best,
		Tick:      st.Tick,
		Games:     s.games,
		ElapsedMs: s.elapsed.Milliseconds(),
		// Whole seconds left, counted down as the player sees them.
		RemainingSec: max(0, int((s.settings.TimeLimit-s.elapsed.Truncate(time.Second))/time.Second)),
		IntervalMs:   st.Interval.Milliseconds(),
		Phase:        s.phase.String(),
		Paused:       s.phase == Paused,
		Over:         s.phase == Over,
		Cause:        string(st.Cause),
	}
	if st.Interval > 0 {
		snap.Speed = float64(s.settings.BaseInterval) / float64(st.Interval)
	}

	for _, p := range st.Snake.Body {
		if st.Grid.Contains(p) {
			snap.Snake = append(snap.Snake, Cell{X: p.X, Y: p.Y})
		}
	}
	for _, f := range st.Food {
		snap.Food = append(snap.Food, FoodView{X: f.X, Y: f.Y, Kind: f.Kind.String(), Points: f.Kind.Points()})
	}
	for _, o := range st.Obstacles {
		snap.Obstacles = append(snap.Obstacles, Cell{X: o.X, Y: o.Y})
	}
	return snap
}
