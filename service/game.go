package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
)

// Game-related errors.
var (
	ErrMissingMazeSource = errors.New("maze source is required")
	ErrMissingPathSource = errors.New("path source is required")
	ErrMissingLogger     = errors.New("logger is required")
	ErrGameStopped       = errors.New("game is stopped")
	ErrLoadFailed        = errors.New("level could not be loaded")
	ErrCannotAdvance     = errors.New("next level is not unlocked")
	ErrUnreachable       = errors.New("no path to the target")
	ErrReplayRejected    = errors.New("replay rejected")
	ErrStaleRound        = errors.New("round changed while the path was computed")
)

// Game timing defaults.
const (
	defaultTickInterval       = time.Second
	defaultReplayStepInterval = 300 * time.Millisecond
)

// GameConfig holds the collaborators of a Game.
type GameConfig struct {
	Mazes              i.MazeSource
	Paths              i.PathSource
	Sounds             i.SoundPlayer      // Optional.
	Machine            *labyrinth.Machine // Optional, defaults to random target draws.
	Logger             general_i.Logger
	TickInterval       time.Duration // Timer period, one second of round time per tick.
	ReplayStepInterval time.Duration // Pause between two replay steps.
}

// replayEvent is one replay step tagged with the round and replay it belongs to.
type replayEvent struct {
	epoch  uint64
	replay uint64
	step   labyrinth.ReplayStep
}

// Game owns the state of one player session. Every mutation runs on the event loop
// goroutine started by Start: player commands, timer ticks and replay steps are all
// received there, so no handler sees a half-applied transition.
type Game struct {
	machine      *labyrinth.Machine
	mazes        i.MazeSource
	paths        i.PathSource
	sounds       i.SoundPlayer
	logger       general_i.Logger
	tickInterval time.Duration
	stepInterval time.Duration

	// Owned by the event loop.
	state        labyrinth.State
	epoch        uint64 // Bumped whenever the round is replaced.
	replayID     uint64
	cancelTimer  context.CancelFunc
	cancelReplay context.CancelFunc

	actions  chan func()
	ticks    chan uint64
	steps    chan replayEvent
	stop     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once

	snapshot    labyrinth.State
	subscribers map[int]chan struct{}
	nextSub     int
	sync.RWMutex
}

// NewGame creates a Game waiting for its first level.
func NewGame(c *GameConfig) (*Game, error) {
	if c.Mazes == nil {
		return nil, ErrMissingMazeSource
	}
	if c.Paths == nil {
		return nil, ErrMissingPathSource
	}
	if c.Logger == nil {
		return nil, ErrMissingLogger
	}

	g := &Game{
		machine:      c.Machine,
		mazes:        c.Mazes,
		paths:        c.Paths,
		sounds:       c.Sounds,
		logger:       c.Logger,
		tickInterval: c.TickInterval,
		stepInterval: c.ReplayStepInterval,
		state:        labyrinth.NewState(),
		actions:      make(chan func()),
		ticks:        make(chan uint64),
		steps:        make(chan replayEvent),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		subscribers:  make(map[int]chan struct{}),
	}
	if g.machine == nil {
		g.machine = labyrinth.NewMachine(nil)
	}
	if g.tickInterval <= 0 {
		g.tickInterval = defaultTickInterval
	}
	if g.stepInterval <= 0 {
		g.stepInterval = defaultReplayStepInterval
	}
	g.snapshot = g.state
	return g, nil
}

// Start runs the event loop until Stop is called.
func (g *Game) Start() {
	g.started.Store(true)
	defer close(g.done)
	for {
		select {
		case <-g.stop:
			g.cancelTasks()
			return
		case action := <-g.actions:
			action()
		case epoch := <-g.ticks:
			// A move pending at the same instant as a tick is applied first.
			g.drainActions()
			g.handleTick(epoch)
		case ev := <-g.steps:
			g.handleStep(ev)
		}
	}
}

// Stop cancels the timer and any replay, then ends the event loop.
func (g *Game) Stop() {
	g.stopOnce.Do(func() {
		close(g.stop)
	})
	if g.started.Load() {
		<-g.done
	}
}

func (g *Game) drainActions() {
	for {
		select {
		case action := <-g.actions:
			action()
		default:
			return
		}
	}
}

// do runs fn on the event loop and waits for it to finish.
func (g *Game) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case g.actions <- func() { fn(); close(finished) }:
	case <-g.done:
		return ErrGameStopped
	case <-g.stop:
		return ErrGameStopped
	}
	<-finished
	return nil
}

// LoadLevel replaces the current round with a fresh round of the given level.
func (g *Game) LoadLevel(ctx context.Context, level int) (labyrinth.State, error) {
	return g.load(ctx, func() (int, error) {
		return labyrinth.ClampLevel(level), nil
	})
}

// RestartLevel reloads the current level. Score and unlocked levels are kept.
func (g *Game) RestartLevel(ctx context.Context) (labyrinth.State, error) {
	return g.load(ctx, func() (int, error) {
		return g.state.Round.Level, nil
	})
}

// AdvanceLevel loads the next level. It leaves the state untouched unless the current
// round is won and the next level is unlocked.
func (g *Game) AdvanceLevel(ctx context.Context) (labyrinth.State, error) {
	return g.load(ctx, func() (int, error) {
		if !g.state.CanAdvance() {
			return 0, ErrCannotAdvance
		}
		return g.state.Round.Level + 1, nil
	})
}

// RestartGame clears the score and loads the first level.
func (g *Game) RestartGame(ctx context.Context) (labyrinth.State, error) {
	return g.load(ctx, func() (int, error) {
		g.state = g.machine.ResetSession(g.state)
		return labyrinth.MinLevel, nil
	})
}

// load cancels the running round, fetches the layout outside the event loop and installs
// the new round unless another load superseded it meanwhile.
func (g *Game) load(ctx context.Context, levelOf func() (int, error)) (labyrinth.State, error) {
	var (
		level    int
		epoch    uint64
		guardErr error
	)
	err := g.do(func() {
		level, guardErr = levelOf()
		if guardErr != nil {
			return
		}
		g.replaceRound()
		epoch = g.epoch
		g.apply(g.machine.BeginLoad(g.state, level), nil)
	})
	if err != nil {
		return g.Snapshot(), err
	}
	if guardErr != nil {
		return g.Snapshot(), guardErr
	}

	layout, fetchErr := g.mazes.Fetch(ctx, level)

	var result labyrinth.State
	err = g.do(func() {
		if g.epoch != epoch {
			result = g.state
			return
		}
		if fetchErr != nil {
			g.apply(g.machine.FailLoad(g.state, level, fetchErr))
		} else {
			g.apply(g.machine.LoadLevel(g.state, level, layout))
		}
		if g.state.Round.Status == labyrinth.StatusInProgress {
			g.startTimer()
		}
		result = g.state
	})
	if err != nil {
		return g.Snapshot(), err
	}

	if result.Round.Status == labyrinth.StatusError {
		g.logger.Warning(fmt.Sprintf("loading level %d: %s", level, result.Round.Diagnostic))
		return result, fmt.Errorf("%w: %s", ErrLoadFailed, result.Round.Diagnostic)
	}
	g.logger.Info(fmt.Sprintf("loaded level %d, looking for %s", level, result.Round.ActiveTargetID))
	return result, nil
}

// Move applies a move signal. Moves during a replay or after the round ended are dropped.
func (g *Game) Move(dir labyrinth.Direction) labyrinth.State {
	var result labyrinth.State
	err := g.do(func() {
		g.apply(g.machine.Move(g.state, dir))
		result = g.state
	})
	if err != nil {
		return g.Snapshot()
	}
	return result
}

// Replay asks the path source for a path to the active target and animates it. An
// unreachable target returns ErrUnreachable and leaves the round untouched.
func (g *Game) Replay(ctx context.Context, algorithm string) (labyrinth.State, error) {
	var (
		current labyrinth.State
		epoch   uint64
	)
	if err := g.do(func() {
		current = g.state
		epoch = g.epoch
	}); err != nil {
		return g.Snapshot(), err
	}

	r := current.Round
	target, ok := r.ActiveTarget()
	switch {
	case r.Status != labyrinth.StatusInProgress || !ok:
		return current, fmt.Errorf("%w: %w", ErrReplayRejected, labyrinth.ErrNotInProgress)
	case r.Locked:
		return current, fmt.Errorf("%w: %w", ErrReplayRejected, labyrinth.ErrLocked)
	}

	path, err := g.paths.FindPath(ctx, i.PathRequest{
		TargetID:  target.ID,
		Algorithm: algorithm,
		From:      r.Player,
		Goal:      target.Position,
		Grid:      r.Grid,
	})
	if err != nil {
		return current, fmt.Errorf("finding path to %s: %w", target.ID, err)
	}
	if len(path) == 0 {
		return current, ErrUnreachable
	}

	var (
		result   labyrinth.State
		startErr error
	)
	err = g.do(func() {
		if g.epoch != epoch {
			result, startErr = g.state, ErrStaleRound
			return
		}
		next, replay, err := g.machine.StartReplay(g.state, path, strings.ToUpper(algorithm))
		if err != nil {
			result, startErr = g.state, fmt.Errorf("%w: %w", ErrReplayRejected, err)
			return
		}
		g.apply(next, nil)
		g.startReplay(replay)
		result = g.state
	})
	if err != nil {
		return g.Snapshot(), err
	}
	if startErr == nil {
		g.logger.Info(fmt.Sprintf("replaying %d steps to %s with %s", len(path), target.ID, algorithm))
	}
	return result, startErr
}

// Snapshot returns the latest published state.
func (g *Game) Snapshot() labyrinth.State {
	g.RLock()
	defer g.RUnlock()
	return g.snapshot
}

// Subscribe returns a channel signalled after every state change. Signals coalesce:
// a slow reader sees the latest Snapshot, not every intermediate one.
func (g *Game) Subscribe() (<-chan struct{}, func()) {
	g.Lock()
	defer g.Unlock()

	id := g.nextSub
	g.nextSub++
	ch := make(chan struct{}, 1)
	g.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			g.Lock()
			defer g.Unlock()
			delete(g.subscribers, id)
		})
	}
}

// apply installs a new state, fires its side effects and publishes it.
func (g *Game) apply(next labyrinth.State, events []labyrinth.Event) {
	before := g.state.Round.Status
	g.state = next

	for _, e := range events {
		if e.Sound != labyrinth.SoundNone {
			g.play(e.Sound)
		}
	}

	if g.state.Round.Status != labyrinth.StatusInProgress {
		g.cancelTasks()
	}
	if after := g.state.Round.Status; after != before && after.Terminal() {
		g.logger.Info(fmt.Sprintf("round at level %d ended: %s %s (score %d)", g.state.Round.Level, after, g.state.Round.Reason, g.state.Score))
	}
	g.publish()
}

func (g *Game) publish() {
	g.Lock()
	defer g.Unlock()
	g.snapshot = g.state
	for _, ch := range g.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (g *Game) play(sound labyrinth.Sound) {
	if g.sounds == nil {
		return
	}
	go func() {
		if err := g.sounds.Play(sound); err != nil {
			g.logger.Warning(fmt.Sprintf("playing %s sound: %s", sound, err))
		}
	}()
}

// replaceRound invalidates every task scheduled for the current round.
func (g *Game) replaceRound() {
	g.cancelTasks()
	g.epoch++
}

func (g *Game) cancelTasks() {
	if g.cancelTimer != nil {
		g.cancelTimer()
		g.cancelTimer = nil
	}
	if g.cancelReplay != nil {
		g.cancelReplay()
		g.cancelReplay = nil
		g.state = g.machine.EndReplay(g.state)
	}
}

func (g *Game) startTimer() {
	ctx, cancel := context.WithCancel(context.Background())
	g.cancelTimer = cancel
	go g.runTimer(ctx, g.epoch)
}

func (g *Game) runTimer(ctx context.Context, epoch uint64) {
	ticker := time.NewTicker(g.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case g.ticks <- epoch:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (g *Game) handleTick(epoch uint64) {
	if epoch != g.epoch {
		return
	}
	g.apply(g.machine.ApplyTick(g.state))
}

func (g *Game) startReplay(replay *labyrinth.Replay) {
	ctx, cancel := context.WithCancel(context.Background())
	g.replayID++
	g.cancelReplay = cancel
	go g.runReplay(ctx, g.epoch, g.replayID, replay)
}

func (g *Game) runReplay(ctx context.Context, epoch, id uint64, replay *labyrinth.Replay) {
	for {
		step, ok := replay.Next()
		if !ok {
			return
		}
		select {
		case g.steps <- replayEvent{epoch: epoch, replay: id, step: step}:
		case <-ctx.Done():
			return
		}
		if step.Final {
			return
		}

		pause := time.NewTimer(g.stepInterval)
		select {
		case <-pause.C:
		case <-ctx.Done():
			pause.Stop()
			return
		}
	}
}

func (g *Game) handleStep(ev replayEvent) {
	if ev.epoch != g.epoch || ev.replay != g.replayID || g.cancelReplay == nil {
		return
	}
	if ev.step.Final {
		g.cancelReplay()
		g.cancelReplay = nil
	}
	g.apply(g.machine.AdvanceReplayStep(g.state, ev.step))
}
