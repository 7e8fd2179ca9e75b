package mazesource

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/beka-birhanu/family-labyrinth/labyrinth"
	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var defaultLevels []byte

// ErrUnknownLevel is returned for a level missing from the tuning table.
var ErrUnknownLevel = errors.New("level is not configured")

// Range is an inclusive count range.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// LevelConfig tunes the generator for one difficulty.
type LevelConfig struct {
	Level   int   `yaml:"level"`
	Cells   int   `yaml:"cells"`   // Maze side in cells.
	MinPath int   `yaml:"minPath"` // Shortest path to every target, start and target included.
	Targets Range `yaml:"targets"`
	Hazards Range `yaml:"hazards"`
}

// Levels maps a difficulty to its tuning.
type Levels map[int]LevelConfig

type levelsFile struct {
	Levels []LevelConfig `yaml:"levels"`
}

// DefaultLevels returns the embedded tuning table.
func DefaultLevels() (Levels, error) {
	return ParseLevels(defaultLevels)
}

// ParseLevels reads a tuning table and checks every entry.
func ParseLevels(data []byte) (Levels, error) {
	var f levelsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing levels: %w", err)
	}

	levels := make(Levels, len(f.Levels))
	for _, lc := range f.Levels {
		if err := lc.validate(); err != nil {
			return nil, fmt.Errorf("level %d: %w", lc.Level, err)
		}
		levels[lc.Level] = lc
	}
	for level := labyrinth.MinLevel; level <= labyrinth.MaxLevel; level++ {
		if _, ok := levels[level]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, level)
		}
	}
	return levels, nil
}

func (lc LevelConfig) validate() error {
	switch {
	case lc.Cells < 2:
		return errors.New("a maze needs at least 2 cells per side")
	case lc.MinPath < 1:
		return errors.New("minPath must be positive")
	case lc.Targets.Min < 1 || lc.Targets.Max < lc.Targets.Min:
		return errors.New("invalid target range")
	case lc.Targets.Max > len(Family):
		return fmt.Errorf("at most %d targets", len(Family))
	case lc.Hazards.Min < 0 || lc.Hazards.Max < lc.Hazards.Min:
		return errors.New("invalid hazard range")
	case lc.Level >= labyrinth.MaxLevel && lc.Targets.Min < 2:
		return errors.New("the final level needs at least 2 targets")
	}
	return nil
}
