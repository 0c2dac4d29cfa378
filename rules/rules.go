package rules

import (
	"math/rand"

	"github.com/brensch/snekrush/game"
)

// Outcome describes what a single Step did.
type Outcome struct {
	// Ate is the food consumed this tick, if any.
	Ate *game.Food
	// Respawned is false when the eaten food could not be replaced.
	Respawned bool
	Over      bool
	Cause     game.Cause
	// IntervalChanged is set when the tick interval moved (either way).
	IntervalChanged bool
}

// NewGame builds a fresh board: the snake centred and heading right, then
// the configured food, then obstacles, all on distinct cells.
// ErrBoardFull means the settings ask for more entities than the grid holds.
func NewGame(settings Settings, rng *rand.Rand) (*game.GameState, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	grid := settings.Grid()
	state := &game.GameState{
		Grid:     grid,
		Snake:    game.NewSnake(grid.Center(), game.Right, settings.SnakeLength),
		Interval: settings.BaseInterval,
	}

	sp := newSpawner(state, rng, 0x464F4F445F494E49) // "FOOD_INI" salt
	if err := spawnInitialFood(state, sp, settings.Food); err != nil {
		return nil, err
	}
	if err := spawnObstacles(state, sp, settings.Obstacles); err != nil {
		return nil, err
	}
	return state, nil
}

// Step advances the game by one tick and returns the next state. The input
// state is not modified. Order within a tick:
//
//  1. the snake advances along its buffered direction
//  2. wall, self and obstacle collisions end the game
//  3. food is eaten (score, growth, same-kind respawn)
//  4. the interval follows the score curve
//  5. slow food restarts the curve at the current score
//
// A state that is already over is returned unchanged.
func Step(state *game.GameState, rng *rand.Rand, settings Settings) (*game.GameState, Outcome) {
	if state == nil {
		return nil, Outcome{}
	}
	if state.Over {
		return state, Outcome{Over: true, Cause: state.Cause}
	}

	next := state.Clone()
	next.Tick++

	head, vacated := next.Snake.Advance(next.Grid)

	if cause := collision(next, head); cause != game.CauseNone {
		next.Over = true
		next.Cause = cause
		return next, Outcome{Over: true, Cause: cause}
	}

	var out Outcome
	if i := next.FoodAt(head); i >= 0 {
		eaten := next.Food[i]
		next.Score += eaten.Kind.Points()
		next.Snake.Grow(vacated)
		next.Food = append(next.Food[:i], next.Food[i+1:]...)

		if rng == nil {
			rng = deterministicRand(next, 0x454154) // "EAT" salt
		}
		out.Respawned = replaceFood(next, rng, eaten.Kind)
		out.Ate = &eaten
	}

	prev := next.Interval
	next.Interval = SpeedInterval(settings, next.Score, next.SpeedBase)

	if out.Ate != nil && out.Ate.Kind.Slows() {
		next.SpeedBase = next.Score
		next.Interval = settings.BaseInterval
	}
	out.IntervalChanged = next.Interval != prev

	return next, out
}

// collision reports what the head hit after a move, if anything.
func collision(state *game.GameState, head game.Point) game.Cause {
	if !state.Grid.Contains(head) {
		return game.CauseWall
	}
	if state.Snake.Occupies(head, 1) {
		return game.CauseSelf
	}
	if state.ObstacleAt(head) >= 0 {
		return game.CauseObstacle
	}
	return game.CauseNone
}

// SafeDirections returns the directions that do not end the game on the next
// tick, never including the reverse of the current direction.
func SafeDirections(state *game.GameState) []game.Direction {
	if state == nil || state.Over || len(state.Snake.Body) == 0 {
		return []game.Direction{}
	}

	head := state.Snake.Head()
	reverse := state.Snake.Direction.Opposite()
	dirs := make([]game.Direction, 0, len(game.Directions))
	for _, d := range game.Directions {
		if d == reverse {
			continue
		}
		if isSafe(state, state.Grid.Step(head, d)) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func isSafe(state *game.GameState, p game.Point) bool {
	// 1. Check bounds
	if !state.Grid.Contains(p) {
		return false
	}

	// 2. Check the body. The tail vacates before the collision check, and
	// food never sits on the snake, so the tail cell is always free.
	body := state.Snake.Body
	if len(body) > 1 {
		body = body[:len(body)-1]
	}
	for _, bp := range body {
		if bp == p {
			return false
		}
	}

	// 3. Check obstacles
	return state.ObstacleAt(p) < 0
}
