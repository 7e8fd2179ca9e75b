package labyrinth

// Sound identifies an audio hook cue.
type Sound string

// Audio cues emitted by transitions.
const (
	SoundNone Sound = ""
	SoundMove Sound = "move"
	SoundHit  Sound = "hit"
	SoundWin  Sound = "win"
	SoundLose Sound = "lose"
)

// EventKind names what a transition did.
type EventKind uint8

const (
	EventLoaded EventKind = iota
	EventLoadFailed
	EventMoved
	EventBumped
	EventHazard
	EventTargetFound
	EventWon
	EventLost
	EventTick
	EventReplayStep
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventLoadFailed:
		return "load-failed"
	case EventMoved:
		return "moved"
	case EventBumped:
		return "bumped"
	case EventHazard:
		return "hazard"
	case EventTargetFound:
		return "target-found"
	case EventWon:
		return "won"
	case EventLost:
		return "lost"
	case EventTick:
		return "tick"
	case EventReplayStep:
		return "replay-step"
	}
	return "unknown"
}

// Event is a side effect a transition asks its host to perform. Sound playback is
// fire-and-forget and never feeds back into the state.
type Event struct {
	Kind  EventKind
	Sound Sound
}

// NoticeKey is a catalog key for a user-facing message.
type NoticeKey string

// Notice keys. The comment lists the arguments each one carries.
const (
	NoticeNone          NoticeKey = ""
	NoticeLoading       NoticeKey = "loading"         // level
	NoticeLoadFailed    NoticeKey = "load_failed"     // diagnostic
	NoticeFindTarget    NoticeKey = "find_target"     // local name, alt name
	NoticeLeftGrid      NoticeKey = "left_grid"       // lives left
	NoticeWall          NoticeKey = "wall"            // lives left
	NoticeHazard        NoticeKey = "hazard"          // lives left
	NoticeOutOfLives    NoticeKey = "out_of_lives"    //
	NoticeTimeExpired   NoticeKey = "time_expired"    //
	NoticeFoundFirst    NoticeKey = "found_first"     // local name
	NoticeWon           NoticeKey = "won"             // local name
	NoticeReplayWon     NoticeKey = "replay_won"      // local name, algorithm label
	NoticeAllLevelsDone NoticeKey = "all_levels_done" //
	NoticeThinking      NoticeKey = "thinking"        //
	NoticeUnreachable   NoticeKey = "unreachable"     //
)

// Notice is the message shown for the latest transition.
type Notice struct {
	Key  NoticeKey
	Args []any
}
