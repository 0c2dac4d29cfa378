// Package game defines the core game state types for snekrush.
//
// These types hold the minimal state needed for rules evaluation and for
// rendering a frame. The state is designed to be cheaply clonable so the
// rules package can treat every tick as a pure transition.
package game

import "time"

// Point is a board coordinate.
// Coordinates follow screen conventions: (0,0) is top-left and Y grows downward.
type Point struct {
	X int32
	Y int32
}

// Add returns p moved by (dx, dy).
func (p Point) Add(dx, dy int32) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Obstacle is a blocking cell. Obstacles drift when the ruleset enables it.
type Obstacle struct {
	Point
}

// Cause records why a game ended.
type Cause string

const (
	CauseNone     Cause = ""
	CauseWall     Cause = "wall"
	CauseSelf     Cause = "self"
	CauseObstacle Cause = "obstacle"
	CauseTimeout  Cause = "timeout"
)

// GameState is the complete state needed for rules + rendering.
type GameState struct {
	Grid      Grid
	Snake     Snake
	Food      []Food
	Obstacles []Obstacle

	Score int
	Tick  int64

	// Interval is the current time between snake moves.
	Interval time.Duration
	// SpeedBase is the score at which speed scaling last restarted.
	// Slow food moves it up to the current score.
	SpeedBase int

	Over  bool
	Cause Cause
}

// Clone performs a deep copy of the game state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}

	out := &GameState{
		Grid:      s.Grid,
		Snake:     s.Snake.Clone(),
		Score:     s.Score,
		Tick:      s.Tick,
		Interval:  s.Interval,
		SpeedBase: s.SpeedBase,
		Over:      s.Over,
		Cause:     s.Cause,
	}

	if len(s.Food) > 0 {
		out.Food = make([]Food, len(s.Food))
		copy(out.Food, s.Food)
	}

	if len(s.Obstacles) > 0 {
		out.Obstacles = make([]Obstacle, len(s.Obstacles))
		copy(out.Obstacles, s.Obstacles)
	}

	return out
}

// FoodAt returns the index of the food at p, or -1.
func (s *GameState) FoodAt(p Point) int {
	for i, f := range s.Food {
		if f.Point == p {
			return i
		}
	}
	return -1
}

// ObstacleAt returns the index of the obstacle at p, or -1.
func (s *GameState) ObstacleAt(p Point) int {
	for i, o := range s.Obstacles {
		if o.Point == p {
			return i
		}
	}
	return -1
}

// Occupied reports whether any live entity (snake segment, food, obstacle)
// sits on p.
func (s *GameState) Occupied(p Point) bool {
	return s.Snake.Occupies(p, 0) || s.FoodAt(p) >= 0 || s.ObstacleAt(p) >= 0
}

// OccupancySet returns every occupied cell keyed by Grid.Index.
func (s *GameState) OccupancySet() map[int]struct{} {
	occupied := make(map[int]struct{}, len(s.Snake.Body)+len(s.Food)+len(s.Obstacles))
	for _, p := range s.Snake.Body {
		occupied[s.Grid.Index(p)] = struct{}{}
	}
	for _, f := range s.Food {
		occupied[s.Grid.Index(f.Point)] = struct{}{}
	}
	for _, o := range s.Obstacles {
		occupied[s.Grid.Index(o.Point)] = struct{}{}
	}
	return occupied
}
