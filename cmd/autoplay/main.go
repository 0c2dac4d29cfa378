package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/brensch/snekrush/game"
	"github.com/brensch/snekrush/logging"
	"github.com/brensch/snekrush/rules"
	"github.com/brensch/snekrush/session"
)

// progress is one tick as printed by -progress.
type progress struct {
	Game  int
	Tick  int64
	Score int
	Len   int
	Head  game.Point
	Move  game.Direction
}

// result sums up one finished game.
type result struct {
	Score int
	Len   int
	Ticks int64
	Cause game.Cause
}

func main() {
	games := flag.Int("games", 5, "Number of games to play")
	seed := flag.Int64("seed", 1, "Seed of the first game; game n uses seed+n")
	grid := flag.Int("grid", 20, "Board width and height in cells")
	wrap := flag.Bool("wrap", false, "Wrap around the edges")
	timeLimit := flag.Duration("time-limit", rules.DefaultSettings().TimeLimit, "Game length in simulated time")
	obstacles := flag.Int("obstacles", rules.DefaultSettings().Obstacles, "Number of obstacles")
	showProgress := flag.Bool("progress", false, "Print every tick")
	logFormat := flag.String("log-format", string(logging.FormatPretty), "Log format: pretty or json")
	flag.Parse()

	logger, closeLog, err := logging.Setup(logging.Options{Format: logging.Format(*logFormat), Level: "info"})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()

	if *grid < 5 || *grid > rules.MaxSide {
		logger.Error("invalid grid", "grid", *grid, "max", rules.MaxSide)
		os.Exit(2)
	}
	settings := rules.DefaultSettings()
	settings.Width, settings.Height = int32(*grid), int32(*grid)
	settings.Wrap = *wrap
	settings.TimeLimit = *timeLimit
	settings.Obstacles = *obstacles

	var onProgress func(progress)
	if *showProgress {
		onProgress = func(p progress) {
			fmt.Printf("  Game %d | Tick %4d | score %4d | len %3d | head (%2d,%2d) → %s\n",
				p.Game, p.Tick, p.Score, p.Len, p.Head.X, p.Head.Y, p.Move)
		}
	}

	total, best := 0, 0
	for g := 0; g < *games; g++ {
		res, err := playGame(settings, *seed+int64(g), g+1, onProgress)
		if err != nil {
			logger.Error("game failed", "game", g+1, "err", err)
			os.Exit(1)
		}
		logger.Info("game complete",
			"game", g+1,
			"score", res.Score,
			"length", res.Len,
			"ticks", res.Ticks,
			"cause", string(res.Cause),
		)
		total += res.Score
		best = max(best, res.Score)
	}

	if *games > 0 {
		fmt.Println()
		fmt.Println("═══════════════════════════════════════════════════════════════")
		fmt.Printf("  %d games, best %d, mean %.1f\n", *games, best, float64(total)/float64(*games))
		fmt.Println("═══════════════════════════════════════════════════════════════")
		fmt.Println()
	}
}

// playGame runs one session to the end in simulated time, feeding it
// exactly one move interval per step.
func playGame(settings rules.Settings, seed int64, n int, onProgress func(progress)) (result, error) {
	sess, err := session.New(settings, seed)
	if err != nil {
		return result{}, fmt.Errorf("game %d: %w", n, err)
	}

	for sess.Phase() == session.Running {
		state := sess.State()
		move := choose(state)
		sess.ChangeDirection(move)
		if sess.Advance(state.Interval) > 0 && onProgress != nil {
			after := sess.State()
			onProgress(progress{
				Game:  n,
				Tick:  after.Tick,
				Score: after.Score,
				Len:   after.Snake.Len(),
				Head:  after.Snake.Head(),
				Move:  move,
			})
		}
		sess.Events()
	}

	final := sess.State()
	return result{
		Score: final.Score,
		Len:   final.Snake.Len(),
		Ticks: final.Tick,
		Cause: final.Cause,
	}, nil
}
