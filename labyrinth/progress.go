package labyrinth

import (
	"maps"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// reachTarget credits the active target. Levels below the last end the round at once;
// the last level needs two distinct members found before it is won.
func (m *Machine) reachTarget(s State, winKey NoticeKey, extra ...any) (State, []Event) {
	r := s.Round
	target, _ := r.ActiveTarget()

	if r.Level < MaxLevel {
		s.Score++
		s.MaxLevelUnlocked = max(s.MaxLevelUnlocked, min(MaxLevel, r.Level+1))
		r.Status = StatusWon
		r.Locked = false
		r.Notice = Notice{Key: winKey, Args: append([]any{target.NameLocal}, extra...)}
		s.Round = r
		return s, []Event{{Kind: EventWon, Sound: SoundWin}}
	}

	if r.FoundTargets.Has(target.ID) {
		return s, nil
	}

	found := cloneFound(r.FoundTargets)
	found.Put(target.ID)
	r.FoundTargets = found
	s.Score++

	if found.Size() < targetsToWinFinalLevel {
		var remaining []TargetID
		for id := range maps.Keys(r.Targets) {
			if !found.Has(id) {
				remaining = append(remaining, id)
			}
		}
		if len(remaining) > 0 {
			r.ActiveTargetID = m.pick(remaining)
		}
		r.Notice = Notice{Key: NoticeFoundFirst, Args: []any{target.NameLocal}}
		s.Round = r
		return s, []Event{{Kind: EventTargetFound, Sound: SoundWin}}
	}

	s.MaxLevelUnlocked = max(s.MaxLevelUnlocked, MaxLevel)
	r.Status = StatusWon
	r.Locked = false
	r.Notice = Notice{Key: NoticeAllLevelsDone}
	s.Round = r
	return s, []Event{{Kind: EventWon, Sound: SoundWin}}
}

func cloneFound(src mapset.Set[TargetID]) mapset.Set[TargetID] {
	dst := mapset.New[TargetID]()
	src.Each(func(id TargetID) {
		dst.Put(id)
	})
	return dst
}

// Remaining lists the targets not found yet, sorted.
func (r Round) Remaining() []TargetID {
	var ids []TargetID
	for _, id := range slices.Sorted(maps.Keys(r.Targets)) {
		if !r.FoundTargets.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}
