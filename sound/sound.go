// Package sound plays short tones for game events.
package sound

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/brensch/snekrush/game"
	"github.com/brensch/snekrush/session"
)

const sampleRate = beep.SampleRate(44100)

type note struct {
	freq float64
	dur  time.Duration
}

var eatNotes = map[game.FoodKind][]note{
	game.Red:    {{660, 60 * time.Millisecond}},
	game.Yellow: {{880, 50 * time.Millisecond}, {1320, 60 * time.Millisecond}},
	game.Blue:   {{440, 120 * time.Millisecond}},
}

var gameOverNotes = []note{
	{440, 150 * time.Millisecond},
	{330, 150 * time.Millisecond},
	{220, 300 * time.Millisecond},
}

// Tone returns the sound for e, or nil if the event is silent.
func Tone(e session.Event) beep.Streamer {
	switch e.Kind {
	case session.EventAte:
		return sequence(eatNotes[e.Food])
	case session.EventGameOver:
		return sequence(gameOverNotes)
	default:
		return nil
	}
}

func sequence(notes []note) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		sine, err := generators.SineTone(sampleRate, n.freq)
		if err != nil {
			continue
		}
		parts = append(parts, beep.Take(sampleRate.N(n.dur), sine))
	}
	if len(parts) == 0 {
		return nil
	}
	return beep.Seq(parts...)
}

// Player mixes event tones into the speaker. A Player that is disabled or
// failed to open the audio device drops everything silently, so callers
// never need to check.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	volume  float64
	enabled bool
	ready   bool
	log     *slog.Logger
}

// New returns a player at volume (0..1]. Nothing touches the audio device
// until Init.
func New(enabled bool, volume float64, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{
		mixer:   &beep.Mixer{},
		volume:  volume,
		enabled: enabled,
		log:     log,
	}
}

// Init opens the speaker. Failure disables the player and is returned so
// the caller can log it; the game carries on without sound.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled || p.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		p.enabled = false
		return fmt.Errorf("opening speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.ready = true
	return nil
}

// Play queues the tone for e.
func (p *Player) Play(e session.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled || !p.ready {
		return
	}
	s := Tone(e)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(withVolume(s, p.volume))
	speaker.Unlock()
	p.log.Debug("sound", "event", e.Kind.String())
}

// Close silences the mixer and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.ready = false
}

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
