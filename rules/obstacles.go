package rules

import (
	"fmt"
	"math/rand"

	"github.com/brensch/snekrush/game"
)

func spawnObstacles(state *game.GameState, sp *spawner, count int) error {
	for i := 0; i < count; i++ {
		p, ok := sp.take()
		if !ok {
			return fmt.Errorf("placing obstacle %d of %d: %w", i+1, count, ErrBoardFull)
		}
		state.Obstacles = append(state.Obstacles, game.Obstacle{Point: p})
	}
	return nil
}

// DriftObstacles gives every obstacle one chance to take a random orthogonal
// step. A step is kept only if the destination is on the board (obstacles
// never wrap) and free of snake, food and other obstacles; otherwise the
// obstacle stays put. Obstacles move in order, each seeing the ones before
// it at their new cells.
//
// Returns the next state and how many obstacles moved.
func DriftObstacles(state *game.GameState, rng *rand.Rand) (*game.GameState, int) {
	if state == nil || state.Over || len(state.Obstacles) == 0 {
		return state, 0
	}

	next := state.Clone()
	if rng == nil {
		rng = deterministicRand(next, 0x4452494654) // "DRIFT" salt
	}

	moved := 0
	for i := range next.Obstacles {
		d := game.Directions[rng.Intn(len(game.Directions))]
		dx, dy := d.Delta()
		dest := next.Obstacles[i].Add(dx, dy)
		if !next.Grid.Contains(dest) || next.Occupied(dest) {
			continue
		}
		next.Obstacles[i].Point = dest
		moved++
	}
	return next, moved
}
