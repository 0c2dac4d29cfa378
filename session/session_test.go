package session

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/brensch/snekrush/game"
	"github.com/brensch/snekrush/rules"
)

// quietSettings is the default ruleset with nothing on the board but the snake.
func quietSettings() rules.Settings {
	s := rules.DefaultSettings()
	s.Food = rules.FoodSettings{}
	s.Obstacles = 0
	return s
}

func newSession(t *testing.T, settings rules.Settings) *Session {
	t.Helper()
	s, err := New(settings, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func advanceN(s *Session, n int, dt time.Duration) int {
	ticks := 0
	for i := 0; i < n; i++ {
		ticks += s.Advance(dt)
	}
	return ticks
}

func TestNew_StartsRunning(t *testing.T) {
	s := newSession(t, rules.DefaultSettings())
	if s.Phase() != Running {
		t.Fatalf("phase=%s want=running", s.Phase())
	}
	st := s.State()
	if st.Score != 0 || st.Snake.Len() != 3 || s.Elapsed() != 0 || st.Over {
		t.Fatalf("bad initial state score=%d len=%d elapsed=%s", st.Score, st.Snake.Len(), s.Elapsed())
	}
	if s.Games() != 1 {
		t.Fatalf("games=%d want=1", s.Games())
	}
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	settings := rules.DefaultSettings()
	settings.MinInterval = 0
	if _, err := New(settings, 1); !errors.Is(err, rules.ErrInvalidSettings) {
		t.Fatalf("err=%v want ErrInvalidSettings", err)
	}

	settings = rules.DefaultSettings()
	settings.Width, settings.Height = 5, 5
	settings.Obstacles = 30
	if _, err := New(settings, 1); !errors.Is(err, rules.ErrBoardFull) {
		t.Fatalf("err=%v want ErrBoardFull", err)
	}
}

func TestAdvance_FixedTimestep(t *testing.T) {
	s := newSession(t, quietSettings())

	if n := s.Advance(100 * time.Millisecond); n != 0 {
		t.Fatalf("ticks=%d want=0", n)
	}
	if n := s.Advance(100 * time.Millisecond); n != 0 {
		t.Fatalf("ticks=%d want=0", n)
	}
	if n := s.Advance(50 * time.Millisecond); n != 1 {
		t.Fatalf("ticks=%d want=1", n)
	}
	if n := s.Advance(600 * time.Millisecond); n != 2 {
		t.Fatalf("ticks=%d want=2", n)
	}
	if got := s.State().Tick; got != 3 {
		t.Fatalf("tick=%d want=3", got)
	}
	if s.Elapsed() != 850*time.Millisecond {
		t.Fatalf("elapsed=%s want=850ms", s.Elapsed())
	}
}

func TestAdvance_ClampsLongFrames(t *testing.T) {
	s := newSession(t, quietSettings())
	if n := s.Advance(time.Hour); n != 4 {
		t.Fatalf("ticks=%d want=4", n)
	}
	if s.Elapsed() != DefaultMaxFrame {
		t.Fatalf("elapsed=%s want=%s", s.Elapsed(), DefaultMaxFrame)
	}
}

func TestAdvance_FiveTicksRight(t *testing.T) {
	s := newSession(t, quietSettings())
	advanceN(s, 5, 250*time.Millisecond)

	st := s.State()
	if head := st.Snake.Head(); head != (game.Point{X: 15, Y: 10}) {
		t.Fatalf("head=%v want=(15,10)", head)
	}
	if st.Snake.Len() != 3 || st.Score != 0 {
		t.Fatalf("len=%d score=%d want 3/0", st.Snake.Len(), st.Score)
	}
}

func TestAdvance_EatEmitsEventAndTracksBest(t *testing.T) {
	s := newSession(t, quietSettings())
	s.state.Food = []game.Food{{Point: game.Point{X: 11, Y: 10}, Kind: game.Red}}

	s.Advance(250 * time.Millisecond)

	st := s.State()
	if st.Score != 10 || st.Snake.Len() != 4 {
		t.Fatalf("score=%d len=%d want 10/4", st.Score, st.Snake.Len())
	}
	if s.Best() != 10 {
		t.Fatalf("best=%d want=10", s.Best())
	}
	events := s.Events()
	if len(events) != 1 || events[0].Kind != EventAte || events[0].Points != 10 || events[0].Food != game.Red {
		t.Fatalf("events=%+v", events)
	}
	if again := s.Events(); len(again) != 0 {
		t.Fatalf("events not drained: %+v", again)
	}
}

func TestAdvance_FullBoardEmitsEvent(t *testing.T) {
	settings := quietSettings()
	settings.Width, settings.Height = 5, 5
	s := newSession(t, settings)

	meal := game.Point{X: 3, Y: 2}
	s.state.Food = []game.Food{{Point: meal, Kind: game.Yellow}}
	for i := 0; i < s.state.Grid.Cells(); i++ {
		p := s.state.Grid.At(i)
		if p == meal || s.state.Snake.Occupies(p, 0) {
			continue
		}
		s.state.Obstacles = append(s.state.Obstacles, game.Obstacle{Point: p})
	}

	s.Advance(250 * time.Millisecond)

	if s.Phase() != Running || s.State().Score != 20 {
		t.Fatalf("phase=%s score=%d want running/20", s.Phase(), s.State().Score)
	}
	if n := len(s.State().Food); n != 0 {
		t.Fatalf("food=%d want=0", n)
	}
	events := s.Events()
	if len(events) != 2 || events[0].Kind != EventAte || events[1].Kind != EventBoardFull {
		t.Fatalf("events=%+v want [ate board_full]", events)
	}
	if events[1].Food != game.Yellow || events[1].Kind.String() != "board_full" {
		t.Fatalf("board full event=%+v", events[1])
	}
}

func TestPause_FreezesSimulation(t *testing.T) {
	s := newSession(t, quietSettings())
	s.Advance(100 * time.Millisecond)

	if !s.Apply(CmdPause) || s.Phase() != Paused {
		t.Fatalf("pause failed, phase=%s", s.Phase())
	}
	before := s.State()
	if n := s.Advance(5 * time.Second); n != 0 {
		t.Fatalf("ticks while paused=%d", n)
	}
	if s.Elapsed() != 100*time.Millisecond {
		t.Fatalf("elapsed moved while paused: %s", s.Elapsed())
	}
	if s.Apply(CmdUp) {
		t.Fatalf("direction accepted while paused")
	}
	if after := s.State(); after.Tick != before.Tick || after.Snake.Pending != before.Snake.Pending {
		t.Fatalf("state changed while paused")
	}
	if !s.Snapshot().Paused {
		t.Fatalf("snapshot not paused")
	}

	if !s.Apply(CmdPause) || s.Phase() != Running {
		t.Fatalf("resume failed, phase=%s", s.Phase())
	}
	if n := s.Advance(150 * time.Millisecond); n != 1 {
		t.Fatalf("ticks after resume=%d want=1", n)
	}

	kinds := []EventKind{}
	for _, e := range s.Events() {
		kinds = append(kinds, e.Kind)
	}
	if len(kinds) != 2 || kinds[0] != EventPause || kinds[1] != EventResume {
		t.Fatalf("events=%v want [pause resume]", kinds)
	}
}

func TestAdvance_TimeoutEndsGame(t *testing.T) {
	settings := quietSettings()
	settings.TimeLimit = 2 * time.Second
	s := newSession(t, settings)

	advanceN(s, 3, 500*time.Millisecond)
	if s.Phase() != Running {
		t.Fatalf("phase=%s want=running at 1.5s", s.Phase())
	}
	s.Advance(500 * time.Millisecond)

	if s.Phase() != Over {
		t.Fatalf("phase=%s want=over", s.Phase())
	}
	st := s.State()
	if !st.Over || st.Cause != game.CauseTimeout {
		t.Fatalf("over=%v cause=%s want timeout", st.Over, st.Cause)
	}
	if s.Remaining() != 0 || s.Snapshot().RemainingSec != 0 {
		t.Fatalf("remaining=%s", s.Remaining())
	}
}

func TestOver_IsTerminalUntilReset(t *testing.T) {
	settings := quietSettings()
	settings.Width, settings.Height = 5, 5
	s := newSession(t, settings)

	// Head starts at (2,2) heading right: (3,2), (4,2), then the wall.
	advanceN(s, 3, 250*time.Millisecond)
	if s.Phase() != Over || s.State().Cause != game.CauseWall {
		t.Fatalf("phase=%s cause=%s want over/wall", s.Phase(), s.State().Cause)
	}

	frozen := s.State()
	if n := s.Advance(250 * time.Millisecond); n != 0 {
		t.Fatalf("ticks after game over=%d", n)
	}
	if s.Apply(CmdPause) || s.Apply(CmdLeft) {
		t.Fatalf("command accepted after game over")
	}
	if s.State().Tick != frozen.Tick {
		t.Fatalf("state moved after game over")
	}

	if !s.Apply(CmdReset) {
		t.Fatalf("reset refused after game over")
	}
	if s.Phase() != Running || s.Elapsed() != 0 || s.State().Over {
		t.Fatalf("reset did not restart: phase=%s", s.Phase())
	}
}

func TestApply_ResetIgnoredWhileRunning(t *testing.T) {
	s := newSession(t, quietSettings())
	s.Advance(500 * time.Millisecond)
	if s.Apply(CmdReset) {
		t.Fatalf("reset accepted mid-game")
	}
	if s.State().Tick != 2 {
		t.Fatalf("tick=%d want=2", s.State().Tick)
	}
}

func TestReset_RestoresInitialConfiguration(t *testing.T) {
	s := newSession(t, rules.DefaultSettings())
	s.state.Score = 70
	s.best = 70
	s.Apply(CmdUp)
	s.Advance(750 * time.Millisecond)
	s.Apply(CmdPause)

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	st := s.State()
	want := []game.Point{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}}
	for i := range want {
		if st.Snake.Body[i] != want[i] {
			t.Fatalf("body[%d]=%v want=%v", i, st.Snake.Body[i], want[i])
		}
	}
	if st.Snake.Direction != game.Right || st.Score != 0 || st.Tick != 0 {
		t.Fatalf("dir=%s score=%d tick=%d", st.Snake.Direction, st.Score, st.Tick)
	}
	if s.Elapsed() != 0 || s.Phase() != Running {
		t.Fatalf("elapsed=%s phase=%s", s.Elapsed(), s.Phase())
	}
	if s.Best() < 70 {
		t.Fatalf("best=%d want>=70", s.Best())
	}
	if len(st.Food) != rules.DefaultFoodSettings.Total() || len(st.Obstacles) != 10 {
		t.Fatalf("food=%d obstacles=%d", len(st.Food), len(st.Obstacles))
	}
	if s.Games() != 2 {
		t.Fatalf("games=%d want=2", s.Games())
	}
}

func TestAdvance_ObstaclesDriftOnTimer(t *testing.T) {
	settings := quietSettings()
	s := newSession(t, settings)
	for x := int32(0); x < 20; x += 2 {
		s.state.Obstacles = append(s.state.Obstacles, game.Obstacle{Point: game.Point{X: x, Y: 1}})
	}
	initial := s.State().Obstacles

	advanceN(s, 7, 250*time.Millisecond)
	for i, o := range s.State().Obstacles {
		if o != initial[i] {
			t.Fatalf("obstacle %d moved before the drift interval", i)
		}
	}

	s.Advance(250 * time.Millisecond)
	moved := 0
	for i, o := range s.State().Obstacles {
		if o != initial[i] {
			moved++
		}
	}
	if moved == 0 {
		t.Fatalf("no obstacle drifted after %s", settings.ObstacleEvery)
	}
}

func TestSameSeedReplaysIdentically(t *testing.T) {
	a, _ := New(rules.DefaultSettings(), 77)
	b, _ := New(rules.DefaultSettings(), 77)
	inputs := []Command{CmdUp, CmdNone, CmdLeft, CmdNone, CmdDown, CmdRight, CmdNone, CmdUp}
	for i := 0; i < 40; i++ {
		cmd := inputs[i%len(inputs)]
		a.Apply(cmd)
		b.Apply(cmd)
		a.Advance(130 * time.Millisecond)
		b.Advance(130 * time.Millisecond)
	}
	ja, _ := json.Marshal(a.Snapshot())
	jb, _ := json.Marshal(b.Snapshot())
	if string(ja) != string(jb) {
		t.Fatalf("replays diverged:\n%s\n%s", ja, jb)
	}
}

func TestSnapshot_ReflectsState(t *testing.T) {
	s := newSession(t, rules.DefaultSettings())
	s.Advance(1500 * time.Millisecond)

	snap := s.Snapshot()
	if snap.Width != 20 || snap.Height != 20 {
		t.Fatalf("size=%dx%d", snap.Width, snap.Height)
	}
	if len(snap.Food) != 10 || len(snap.Obstacles) != 10 {
		t.Fatalf("food=%d obstacles=%d", len(snap.Food), len(snap.Obstacles))
	}
	if snap.RemainingSec != 119 {
		t.Fatalf("remaining=%d want=119", snap.RemainingSec)
	}
	if snap.Phase != s.Phase().String() {
		t.Fatalf("phase=%s want=%s", snap.Phase, s.Phase())
	}
	if snap.IntervalMs != s.State().Interval.Milliseconds() || snap.Speed < 1 {
		t.Fatalf("interval=%d speed=%f", snap.IntervalMs, snap.Speed)
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"snake", "food", "obstacles", "score", "remainingSec", "paused", "over"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("snapshot json missing %q: %s", key, raw)
		}
	}
}

func TestParseCommand(t *testing.T) {
	cases := map[string]Command{
		"up":      CmdUp,
		" Down ":  CmdDown,
		"LEFT":    CmdLeft,
		"right":   CmdRight,
		"pause":   CmdPause,
		"reset":   CmdReset,
		"jump":    CmdNone,
		"":        CmdNone,
		"upwards": CmdNone,
	}
	for in, want := range cases {
		got, ok := ParseCommand(in)
		if got != want || ok != (want != CmdNone) {
			t.Fatalf("ParseCommand(%q)=%v,%v want=%v", in, got, ok, want)
		}
	}
	if CmdLeft.Direction() != game.Left || CmdPause.Direction() != game.None {
		t.Fatalf("command directions wrong")
	}
}
