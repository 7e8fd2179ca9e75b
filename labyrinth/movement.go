package labyrinth

// Life costs of a move attempt.
const (
	bumpCost   = 1 // out of bounds or wall
	hazardCost = 2
)

// Move applies one move signal. It is a no-op unless the round is in progress and no
// replay holds the lock.
//
//	out of bounds -> -1 life, player stays
//	wall          -> -1 life, player stays
//	hazard        -> -2 lives, player moves
//	open          -> player moves
//
// A move that empties the lives ends the round before any target check.
func (m *Machine) Move(s State, dir Direction) (State, []Event) {
	r := s.Round
	if r.Status != StatusInProgress || r.Locked {
		return s, nil
	}

	candidate := r.Player.Add(dir.Offset())
	switch {
	case !r.Grid.InBounds(candidate):
		s.Round = hurt(r, bumpCost, NoticeLeftGrid)
		return s, hurtEvents(EventBumped, s.Round)
	case r.Grid.At(candidate) == Wall:
		s.Round = hurt(r, bumpCost, NoticeWall)
		return s, hurtEvents(EventBumped, s.Round)
	case r.Grid.At(candidate) == Hazard:
		r.Player = candidate
		s.Round = hurt(r, hazardCost, NoticeHazard)
		events := hurtEvents(EventHazard, s.Round)
		if s.Round.Status != StatusInProgress {
			return s, events
		}
		var found []Event
		s, found = m.arrive(s, NoticeWon)
		return s, append(events, found...)
	}

	r.Player = candidate
	s.Round = r
	events := []Event{{Kind: EventMoved, Sound: SoundMove}}
	var found []Event
	s, found = m.arrive(s, NoticeWon)
	return s, append(events, found...)
}

// arrive runs the win check for the player's current cell.
func (m *Machine) arrive(s State, winKey NoticeKey, extra ...any) (State, []Event) {
	target, ok := s.Round.ActiveTarget()
	if !ok || target.Position != s.Round.Player {
		return s, nil
	}
	return m.reachTarget(s, winKey, extra...)
}

// hurt removes cost lives, never going below zero, and ends the round when none are left.
func hurt(r Round, cost int, key NoticeKey) Round {
	r.Lives = max(0, r.Lives-cost)
	if r.Lives == 0 {
		return lose(r, ReasonOutOfLives, NoticeOutOfLives)
	}
	r.Notice = Notice{Key: key, Args: []any{r.Lives}}
	return r
}

func hurtEvents(kind EventKind, r Round) []Event {
	events := []Event{{Kind: kind, Sound: SoundHit}}
	if r.Status == StatusLost {
		events = append(events, Event{Kind: EventLost, Sound: SoundLose})
	}
	return events
}
