package audio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// ErrUnknownSound is returned for a sound without a cue.
var ErrUnknownSound = errors.New("unknown sound")

type wave uint8

const (
	sine wave = iota
	square
)

type note struct {
	freq float64
	dur  time.Duration
	wave wave
}

var cues = map[labyrinth.Sound][]note{
	labyrinth.SoundMove: {{freq: 660, dur: 40 * time.Millisecond}},
	labyrinth.SoundHit:  {{freq: 140, dur: 150 * time.Millisecond, wave: square}},
	labyrinth.SoundWin: {
		{freq: 523.25, dur: 110 * time.Millisecond},
		{freq: 659.25, dur: 110 * time.Millisecond},
		{freq: 783.99, dur: 220 * time.Millisecond},
	},
	labyrinth.SoundLose: {
		{freq: 392, dur: 160 * time.Millisecond, wave: square},
		{freq: 330, dur: 160 * time.Millisecond, wave: square},
		{freq: 262, dur: 320 * time.Millisecond, wave: square},
	},
}

// Cue builds the streamer played for sound.
func Cue(sound labyrinth.Sound, rate beep.SampleRate) (beep.Streamer, error) {
	notes, ok := cues[sound]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSound, sound)
	}

	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		var s beep.Streamer
		switch n.wave {
		case square:
			s = &squareWave{freq: n.freq, rate: rate}
		default:
			tone, err := generators.SineTone(rate, n.freq)
			if err != nil {
				return nil, err
			}
			s = tone
		}
		parts = append(parts, beep.Take(rate.N(n.dur), s))
	}
	return &effects.Volume{Streamer: beep.Seq(parts...), Base: 2, Volume: -2}, nil
}

// squareWave is an endless square oscillator.
type squareWave struct {
	freq  float64
	phase float64
	rate  beep.SampleRate
}

func (o *squareWave) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		val := -1.0
		if o.phase < 0.5 {
			val = 1.0
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
	}
	return len(samples), true
}

func (o *squareWave) Err() error { return nil }
