package labyrinth

import (
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// Level and round parameters.
const (
	MinLevel = 1
	MaxLevel = 3

	targetsToWinFinalLevel = 2

	baseLives      = 3
	finalLevelLife = 2

	baseTime    = 60 // seconds at level 1
	timePerStep = 10 // seconds removed per level
	minTime     = 30
)

// Status is the lifecycle state of a round.
type Status uint8

const (
	StatusLoading Status = iota
	StatusError
	StatusInProgress
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusInProgress:
		return "in_progress"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	}
	return "unknown"
}

// Terminal reports whether the status accepts no further moves or ticks.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Reason explains a lost round.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonOutOfLives  Reason = "out of lives"
	ReasonTimeExpired Reason = "time expired"
)

// Round is one play-through of a level. Round values are never mutated in place once
// handed out: transitions build a new Round and share only immutable parts (grid, targets).
type Round struct {
	Level          int
	Grid           *Grid
	Start          Position
	Player         Position
	Targets        map[TargetID]Target
	ActiveTargetID TargetID
	FoundTargets   mapset.Set[TargetID] // Only used at the final level.
	Lives          int
	TimeRemaining  int // Seconds.
	Status         Status
	Reason         Reason
	Locked         bool   // A replay is driving the player.
	Diagnostic     string // Load failure description.
	Notice         Notice
}

// ActiveTarget returns the target the player is looking for.
func (r Round) ActiveTarget() (Target, bool) {
	t, ok := r.Targets[r.ActiveTargetID]
	return t, ok && r.ActiveTargetID != ""
}

// Found returns the found target ids in sorted order.
func (r Round) Found() []TargetID {
	ids := make([]TargetID, 0, r.FoundTargets.Size())
	r.FoundTargets.Each(func(id TargetID) {
		ids = append(ids, id)
	})
	slices.Sort(ids)
	return ids
}

// State is the session: the current round plus what survives across rounds.
type State struct {
	Score            int
	MaxLevelUnlocked int
	Round            Round
}

// NewState returns a fresh session waiting for its first level.
func NewState() State {
	return State{
		MaxLevelUnlocked: MinLevel,
		Round:            Round{Level: MinLevel, Status: StatusLoading},
	}
}

// ClampLevel forces a difficulty into MinLevel..MaxLevel.
func ClampLevel(level int) int {
	return max(MinLevel, min(MaxLevel, level))
}

// StartingLives is the life budget of a level.
func StartingLives(level int) int {
	if level >= MaxLevel {
		return finalLevelLife
	}
	return baseLives
}

// StartingTime is the timer budget of a level in seconds.
func StartingTime(level int) int {
	return max(minTime, baseTime-(level-1)*timePerStep)
}

// Machine holds the round transitions. Its methods never mutate their input State.
type Machine struct {
	choose func(n int) int // Uniform index in [0, n).
}

// NewMachine returns a machine drawing targets with choose. A nil choose uses math/rand/v2.
func NewMachine(choose func(n int) int) *Machine {
	if choose == nil {
		choose = rand.IntN
	}
	return &Machine{choose: choose}
}

// pick draws one id uniformly among eligible ids, iterated in sorted order so that an
// injected chooser is reproducible.
func (m *Machine) pick(eligible []TargetID) TargetID {
	slices.Sort(eligible)
	return eligible[m.choose(len(eligible))]
}

// BeginLoad discards the current round and marks the session as loading level.
func (m *Machine) BeginLoad(s State, level int) State {
	level = ClampLevel(level)
	s.Round = Round{
		Level:  level,
		Status: StatusLoading,
		Notice: Notice{Key: NoticeLoading, Args: []any{level}},
	}
	return s
}

// LoadLevel installs a new round built from layout. An invalid layout yields an Error round.
func (m *Machine) LoadLevel(s State, level int, layout Layout) (State, []Event) {
	level = ClampLevel(level)
	if err := layout.Validate(level); err != nil {
		return m.FailLoad(s, level, err)
	}

	active := m.pick(slices.Collect(maps.Keys(layout.Targets)))
	target := layout.Targets[active]
	s.Round = Round{
		Level:          level,
		Grid:           layout.Grid,
		Start:          layout.Start,
		Player:         layout.Start,
		Targets:        layout.Targets,
		ActiveTargetID: active,
		FoundTargets:   mapset.New[TargetID](),
		Lives:          StartingLives(level),
		TimeRemaining:  StartingTime(level),
		Status:         StatusInProgress,
		Notice:         Notice{Key: NoticeFindTarget, Args: []any{target.NameLocal, target.NameAlt}},
	}
	return s, []Event{{Kind: EventLoaded}}
}

// FailLoad replaces the round with an Error round for level. Retrying means loading again.
func (m *Machine) FailLoad(s State, level int, err error) (State, []Event) {
	level = ClampLevel(level)
	s.Round = Round{
		Level:      level,
		Status:     StatusError,
		Diagnostic: err.Error(),
		Notice:     Notice{Key: NoticeLoadFailed, Args: []any{err.Error()}},
	}
	return s, []Event{{Kind: EventLoadFailed}}
}

// ApplyTick spends one second of the round timer.
func (m *Machine) ApplyTick(s State) (State, []Event) {
	r := s.Round
	if r.Status != StatusInProgress {
		return s, nil
	}

	r.TimeRemaining--
	if r.TimeRemaining > 0 {
		s.Round = r
		return s, []Event{{Kind: EventTick}}
	}

	r.TimeRemaining = 0
	s.Round = lose(r, ReasonTimeExpired, NoticeTimeExpired)
	return s, []Event{{Kind: EventTick}, {Kind: EventLost, Sound: SoundLose}}
}

// CanAdvance reports whether the round is won and the next level is unlocked.
func (s State) CanAdvance() bool {
	r := s.Round
	return r.Status == StatusWon && r.Level < MaxLevel && s.MaxLevelUnlocked > r.Level
}

// ResetSession clears the score for a new game. Unlocked levels are kept.
func (m *Machine) ResetSession(s State) State {
	s.Score = 0
	return s
}

func lose(r Round, reason Reason, key NoticeKey) Round {
	r.Status = StatusLost
	r.Reason = reason
	r.Locked = false
	r.Notice = Notice{Key: key}
	return r
}
