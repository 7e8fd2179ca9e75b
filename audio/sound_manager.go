// Package audio plays the short tones that accompany moves, hits, wins and losses.
package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned when playing before Initialize.
var ErrNotInitialized = errors.New("audio is not initialized")

// SoundManager mixes game cues on the system speaker.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewSoundManager() *SoundManager {
	return &SoundManager{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker. Calling it again is a no-op.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Play queues the cue of sound. SoundNone plays nothing.
func (sm *SoundManager) Play(sound labyrinth.Sound) error {
	if sound == labyrinth.SoundNone {
		return nil
	}
	cue, err := Cue(sound, sampleRate)
	if err != nil {
		return err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return ErrNotInitialized
	}
	speaker.Lock()
	sm.mixer.Add(cue)
	speaker.Unlock()
	return nil
}

// Close drops queued cues and releases the speaker.
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	sm.initialized = false
}

// Silent drops every sound. It stands in when no audio device is available.
type Silent struct{}

func (Silent) Play(labyrinth.Sound) error { return nil }
