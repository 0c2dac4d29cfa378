package rules

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/brensch/snekrush/game"
)

// Placement never retries: we enumerate the free cells and draw uniformly
// from them, so a nearly full board costs one scan instead of an unbounded
// rejection loop.
//
// The rng parameter lets callers choose:
// - a seeded source for reproducible games and tests, or
// - nil, which derives a deterministic source from the state itself.

// spawner hands out distinct free cells from a single scan of the board.
type spawner struct {
	rng       *rand.Rand
	available []game.Point
}

func newSpawner(state *game.GameState, rng *rand.Rand, salt uint64) *spawner {
	if rng == nil {
		rng = deterministicRand(state, salt)
	}
	return &spawner{rng: rng, available: freeCells(state)}
}

// take removes and returns one random free cell.
func (sp *spawner) take() (game.Point, bool) {
	if len(sp.available) == 0 {
		return game.Point{}, false
	}
	i := sp.rng.Intn(len(sp.available))
	p := sp.available[i]
	// remove chosen slot
	sp.available[i] = sp.available[len(sp.available)-1]
	sp.available = sp.available[:len(sp.available)-1]
	return p, true
}

// freeCells lists every on-board cell not covered by the snake, food or an
// obstacle, in row-major order.
func freeCells(state *game.GameState) []game.Point {
	grid := state.Grid
	if grid.Width <= 0 || grid.Height <= 0 {
		return nil
	}

	occupied := state.OccupancySet()
	available := make([]game.Point, 0, max(grid.Cells()-len(occupied), 0))
	for y := int32(0); y < grid.Height; y++ {
		for x := int32(0); x < grid.Width; x++ {
			p := game.Point{X: x, Y: y}
			if _, ok := occupied[grid.Index(p)]; ok {
				continue
			}
			available = append(available, p)
		}
	}
	return available
}

// PlaceRandom draws one free cell uniformly. It returns ErrBoardFull when
// nothing is free.
func PlaceRandom(state *game.GameState, rng *rand.Rand) (game.Point, error) {
	p, ok := newSpawner(state, rng, 0x504C414345).take() // "PLACE" salt
	if !ok {
		return game.Point{}, ErrBoardFull
	}
	return p, nil
}

// spawnInitialFood fills the board with the configured count of each kind.
func spawnInitialFood(state *game.GameState, sp *spawner, settings FoodSettings) error {
	for _, kind := range game.FoodKinds {
		want := settings.Count(kind)
		for i := 0; i < want; i++ {
			p, ok := sp.take()
			if !ok {
				return fmt.Errorf("placing %s food %d of %d: %w", kind, i+1, want, ErrBoardFull)
			}
			state.Food = append(state.Food, game.Food{Point: p, Kind: kind})
		}
	}
	return nil
}

// replaceFood spawns one food of kind somewhere free. A full board leaves
// the food missing rather than blocking the tick.
func replaceFood(state *game.GameState, rng *rand.Rand, kind game.FoodKind) bool {
	p, err := PlaceRandom(state, rng)
	if err != nil {
		return false
	}
	state.Food = append(state.Food, game.Food{Point: p, Kind: kind})
	return true
}

func deterministicRand(state *game.GameState, salt uint64) *rand.Rand {
	seed := int64(deterministicU64Fast(state, salt))
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

func deterministicU64Fast(state *game.GameState, salt uint64) uint64 {
	// Cheap mix of tick + board size + head + score + entity counts.
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(uint32(state.Grid.Width))|(uint64(uint32(state.Grid.Height))<<32))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(state.Tick))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], salt)
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(state.Score)<<16|uint64(len(state.Food))<<8|uint64(len(state.Obstacles)))
	_, _ = h.Write(buf[:])

	if len(state.Snake.Body) > 0 {
		head := state.Snake.Body[0]
		binary.LittleEndian.PutUint64(buf[:], (uint64(uint32(head.X))<<32)|uint64(uint32(head.Y)))
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}
