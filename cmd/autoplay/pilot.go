package main

import (
	"github.com/brensch/snekrush/game"
	"github.com/brensch/snekrush/rules"
)

// choose is a greedy autopilot: among the moves that survive the next tick,
// head for the closest food, breaking ties toward roomier cells and then
// toward higher-value food. With no safe move it keeps going straight.
func choose(state *game.GameState) game.Direction {
	safe := rules.SafeDirections(state)
	if len(safe) == 0 {
		return state.Snake.Direction
	}

	target, ok := nearestFood(state)
	head := state.Snake.Head()

	best := safe[0]
	bestDist, bestRoom := -1, -1
	for _, d := range safe {
		next := state.Grid.Step(head, d)
		dist := 0
		if ok {
			dist = distance(state.Grid, next, target.Point)
		}
		room := freeNeighbours(state, next)
		if bestDist < 0 || dist < bestDist || (dist == bestDist && room > bestRoom) {
			best, bestDist, bestRoom = d, dist, room
		}
	}
	return best
}

func nearestFood(state *game.GameState) (game.Food, bool) {
	head := state.Snake.Head()
	var (
		best  game.Food
		found bool
		bestD int
	)
	for _, f := range state.Food {
		d := distance(state.Grid, head, f.Point)
		if !found || d < bestD || (d == bestD && f.Kind.Points() > best.Kind.Points()) {
			best, bestD, found = f, d, true
		}
	}
	return best, found
}

// distance is Manhattan distance, measured the short way round on a
// wrapping grid.
func distance(g game.Grid, a, b game.Point) int {
	dx := abs(int(a.X - b.X))
	dy := abs(int(a.Y - b.Y))
	if g.Wrap {
		dx = min(dx, int(g.Width)-dx)
		dy = min(dy, int(g.Height)-dy)
	}
	return dx + dy
}

func freeNeighbours(state *game.GameState, p game.Point) int {
	n := 0
	for _, d := range game.Directions {
		q := state.Grid.Step(p, d)
		if !state.Grid.Contains(q) || state.ObstacleAt(q) >= 0 || state.Snake.Occupies(q, 0) {
			continue
		}
		n++
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
