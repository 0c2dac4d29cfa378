package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/brensch/snekrush/game"
)

var (
	// ErrBoardFull is returned when an entity cannot be placed because no
	// free cell is left.
	ErrBoardFull = errors.New("rules: no free cell left on the board")
	// ErrInvalidSettings wraps every Settings.Validate failure.
	ErrInvalidSettings = errors.New("rules: invalid settings")
)

// FoodSettings holds how many of each food kind stay on the board.
// A consumed food is immediately replaced by one of the same kind.
type FoodSettings struct {
	Red    int
	Yellow int
	Blue   int
}

// Count returns the configured count for kind.
func (f FoodSettings) Count(kind game.FoodKind) int {
	switch kind {
	case game.Red:
		return f.Red
	case game.Yellow:
		return f.Yellow
	case game.Blue:
		return f.Blue
	default:
		return 0
	}
}

// Total is the number of food items on a fresh board.
func (f FoodSettings) Total() int {
	return f.Red + f.Yellow + f.Blue
}

// Settings is the full ruleset for one game.
type Settings struct {
	Width  int32
	Height int32
	// Wrap makes the board edges connect instead of killing the snake.
	Wrap bool

	SnakeLength int
	Food        FoodSettings
	Obstacles   int
	// ObstacleEvery is how often every obstacle attempts a random step.
	// Zero keeps obstacles static.
	ObstacleEvery time.Duration

	// TimeLimit is the countdown budget of alive time.
	TimeLimit time.Duration

	// Speed curve: Interval = max(MinInterval, BaseInterval - steps*IntervalStep)
	// where steps = (Score - SpeedBase) / ScoreStep.
	BaseInterval time.Duration
	MinInterval  time.Duration
	IntervalStep time.Duration
	ScoreStep    int
}

// MaxSide bounds the board's width and height.
const MaxSide = 256

// DefaultFoodSettings is 6 red, 2 yellow and 2 blue.
var DefaultFoodSettings = FoodSettings{Red: 6, Yellow: 2, Blue: 2}

// DefaultSettings is the classic 20x20 two minute game.
func DefaultSettings() Settings {
	return Settings{
		Width:         20,
		Height:        20,
		SnakeLength:   3,
		Food:          DefaultFoodSettings,
		Obstacles:     10,
		ObstacleEvery: 2 * time.Second,
		TimeLimit:     120 * time.Second,
		BaseInterval:  250 * time.Millisecond,
		MinInterval:   250 * time.Millisecond * 2 / 3,
		IntervalStep:  10 * time.Millisecond,
		ScoreStep:     30,
	}
}

// Grid returns the board described by s.
func (s Settings) Grid() game.Grid {
	return game.Grid{Width: s.Width, Height: s.Height, Wrap: s.Wrap}
}

// Validate reports configurations that cannot produce a playable game.
func (s Settings) Validate() error {
	switch {
	case s.Width < 5 || s.Height < 5:
		return fmt.Errorf("%w: grid %dx%d is smaller than 5x5", ErrInvalidSettings, s.Width, s.Height)
	case s.Width > MaxSide || s.Height > MaxSide:
		return fmt.Errorf("%w: grid %dx%d is larger than %dx%d", ErrInvalidSettings, s.Width, s.Height, MaxSide, MaxSide)
	case s.SnakeLength < 1:
		return fmt.Errorf("%w: snake length %d", ErrInvalidSettings, s.SnakeLength)
	case s.SnakeLength > int(s.Width)/2+1:
		return fmt.Errorf("%w: snake length %d does not fit a %d wide grid", ErrInvalidSettings, s.SnakeLength, s.Width)
	case s.Food.Red < 0 || s.Food.Yellow < 0 || s.Food.Blue < 0:
		return fmt.Errorf("%w: negative food count %+v", ErrInvalidSettings, s.Food)
	case s.Obstacles < 0:
		return fmt.Errorf("%w: negative obstacle count %d", ErrInvalidSettings, s.Obstacles)
	case s.ObstacleEvery < 0:
		return fmt.Errorf("%w: negative obstacle interval %s", ErrInvalidSettings, s.ObstacleEvery)
	case s.TimeLimit <= 0:
		return fmt.Errorf("%w: time limit %s", ErrInvalidSettings, s.TimeLimit)
	case s.MinInterval <= 0:
		return fmt.Errorf("%w: minimum interval %s must be positive", ErrInvalidSettings, s.MinInterval)
	case s.BaseInterval < s.MinInterval:
		return fmt.Errorf("%w: base interval %s below minimum %s", ErrInvalidSettings, s.BaseInterval, s.MinInterval)
	case s.IntervalStep < 0:
		return fmt.Errorf("%w: negative interval step %s", ErrInvalidSettings, s.IntervalStep)
	case s.ScoreStep <= 0:
		return fmt.Errorf("%w: score step %d must be positive", ErrInvalidSettings, s.ScoreStep)
	}
	return nil
}

// SpeedInterval maps cumulative score onto the tick interval. It is
// non-increasing in score and never drops below MinInterval.
func SpeedInterval(s Settings, score, speedBase int) time.Duration {
	progress := score - speedBase
	if progress < 0 || s.ScoreStep <= 0 {
		progress = 0
	}
	steps := progress / s.ScoreStep

	// Saturate before multiplying so huge scores cannot overflow.
	if s.IntervalStep > 0 {
		maxSteps := int((s.BaseInterval-s.MinInterval)/s.IntervalStep) + 1
		if steps > maxSteps {
			steps = maxSteps
		}
	}

	interval := s.BaseInterval - time.Duration(steps)*s.IntervalStep
	if interval < s.MinInterval {
		interval = s.MinInterval
	}
	return interval
}
