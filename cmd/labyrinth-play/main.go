// Command labyrinth-play runs the family labyrinth in a terminal, with the game engine
// in process.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/beka-birhanu/family-labyrinth/audio"
	"github.com/beka-birhanu/family-labyrinth/i18n"
	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"github.com/beka-birhanu/family-labyrinth/mazesource"
	"github.com/beka-birhanu/family-labyrinth/pathsource"
	"github.com/beka-birhanu/family-labyrinth/service"
	"github.com/beka-birhanu/family-labyrinth/service/i"
	gamepb "github.com/beka-birhanu/vinom-common/gameencoder"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	maze "github.com/beka-birhanu/wilson-maze"
	"github.com/gdamore/tcell/v2"
	"github.com/gookit/color"
	"golang.org/x/term"
)

type options struct {
	level   int
	lang    string
	mute    bool
	mazeURL string
	pathURL string
	logFile string
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("labyrinth-play", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&o.level, "level", labyrinth.MinLevel, "difficulty to start at (1-3)")
	fs.StringVar(&o.lang, "lang", i18n.DefaultLanguage, "language of the messages")
	fs.BoolVar(&o.mute, "mute", false, "disable sounds")
	fs.StringVar(&o.mazeURL, "maze-url", "", "remote maze source; empty generates mazes locally")
	fs.StringVar(&o.pathURL, "path-url", "", "remote path source; empty solves locally")
	fs.StringVar(&o.logFile, "log", "", "write logs to this file")
	err := fs.Parse(args)
	return o, err
}

func newLogger(path string) (general_i.Logger, func(), error) {
	if path == "" {
		l, err := logger.New("GAME", "", io.Discard)
		return l, func() {}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	l, err := logger.New("GAME", "", f)
	return l, func() { _ = f.Close() }, err
}

func newGame(o options, log general_i.Logger, sounds i.SoundPlayer) (*service.Game, error) {
	var mazes i.MazeSource
	if o.mazeURL != "" {
		mazes = mazesource.NewHTTPClient(o.mazeURL, nil)
	} else {
		generator, err := mazesource.NewWilson(&mazesource.WilsonConfig{
			MazeFactory: maze.New,
			Encoder:     &gamepb.Protobuf{},
			Logger:      log,
		})
		if err != nil {
			return nil, err
		}
		mazes = generator
	}

	var paths i.PathSource = pathsource.Solver{}
	if o.pathURL != "" {
		paths = pathsource.NewHTTPClient(o.pathURL, nil)
	}

	return service.NewGame(&service.GameConfig{
		Mazes:  mazes,
		Paths:  paths,
		Sounds: sounds,
		Logger: log,
	})
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "labyrinth-play needs an interactive terminal")
		os.Exit(1)
	}

	if err := run(o); err != nil {
		color.Style{color.FgRed, color.OpBold}.Println(err.Error())
		os.Exit(1)
	}
}

func run(o options) error {
	log, closeLog, err := newLogger(o.logFile)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()

	catalog, err := i18n.New(o.lang)
	if err != nil {
		return err
	}

	var sounds i.SoundPlayer = audio.Silent{}
	if !o.mute {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			log.Warning(fmt.Sprintf("audio disabled: %s", err))
		} else {
			defer sm.Close()
			sounds = sm
		}
	}

	game, err := newGame(o, log, sounds)
	if err != nil {
		return err
	}
	go game.Start()
	defer game.Stop()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}

	final := play(screen, game, catalog, o.level)
	screen.Fini()

	summary := color.Style{color.FgGreen, color.OpBold}
	summary.Printf("Score: %d, highest level unlocked: %d\n", final.Score, final.MaxLevelUnlocked)
	return nil
}

// play runs the input loop until the player quits and returns the last state.
func play(screen tcell.Screen, game *service.Game, catalog *i18n.Catalog, level int) labyrinth.State {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, unsubscribe := game.Subscribe()
	defer unsubscribe()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	flashes := make(chan string, 4)
	background := func(fn func() error) {
		go func() {
			msg := ""
			if err := fn(); err != nil {
				msg = describe(catalog, err)
			}
			notify(ctx, flashes, msg)
		}()
	}
	load := func(fn func(context.Context) (labyrinth.State, error)) {
		background(func() error {
			_, err := fn(ctx)
			return err
		})
	}

	load(func(ctx context.Context) (labyrinth.State, error) { return game.LoadLevel(ctx, level) })

	flash := ""
	redraw := func() {
		s := game.Snapshot()
		screen.Clear()
		draw(screen, s, catalog.Notice(s.Round.Notice), flash)
		screen.Show()
	}
	redraw()

	for {
		select {
		case <-updates:
		case flash = <-flashes:
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				action, dir := keyFor(ev.Key(), ev.Rune())
				if action != actionNone {
					flash = ""
				}
				switch action {
				case actionQuit:
					return game.Snapshot()
				case actionMove:
					game.Move(dir)
				case actionReplay:
					flash = catalog.Get(labyrinth.NoticeThinking)
					background(func() error {
						_, err := game.Replay(ctx, pathsource.BFS)
						return err
					})
				case actionRestartLevel:
					load(game.RestartLevel)
				case actionNextLevel:
					load(game.AdvanceLevel)
				case actionRestartGame:
					load(game.RestartGame)
				}
			}
		}
		redraw()
	}
}

// notify hands msg to the input loop, or drops it once the loop has returned.
func notify(ctx context.Context, out chan<- string, msg string) bool {
	select {
	case out <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

// describe turns a command error into a line for the player.
func describe(catalog *i18n.Catalog, err error) string {
	switch {
	case errors.Is(err, service.ErrUnreachable):
		return catalog.Get(labyrinth.NoticeUnreachable)
	case errors.Is(err, service.ErrLoadFailed):
		return "" // The round notice already explains it.
	}
	return err.Error()
}
