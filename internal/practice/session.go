package practice

import (
	"math/rand"
	"time"

	"github.com/example/linguist/pkg/models"
)

// State is the phase of a practice session
type State int

const (
	// Setup waits for a mode and filter
	Setup State = iota
	// InProgress asks the sampled items one by one
	InProgress
	// Finished holds the final score
	Finished
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return "setup"
	}
}

// Result is the outcome of a finished session
type Result struct {
	Score int
	Total int
}

// Session drives one quiz from setup to the final score.
// It is not safe for concurrent use.
type Session struct {
	rnd *rand.Rand

	state    State
	mode     Mode
	filter   Filter
	items    []models.Vocab
	modes    []Mode // concrete mode per item
	cursor   int
	revealed bool
	score    int
}

// NewSession creates a session in the Setup state.
// A nil rnd seeds a new generator from the clock.
func NewSession(rnd *rand.Rand) *Session {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{rnd: rnd}
}

// Start samples a quiz from vocabs and moves to InProgress.
// ErrEmptyPool leaves the session in Setup.
func (s *Session) Start(vocabs []models.Vocab, filter Filter, mode Mode) error {
	items, err := Sample(Select(vocabs, filter), MaxQuizSize, s.rnd)
	if err != nil {
		return err
	}

	modes := make([]Mode, len(items))
	for i := range items {
		modes[i] = mode
		if mode == ModeRandom {
			modes[i] = concreteModes[s.rnd.Intn(len(concreteModes))]
		}
	}

	s.state = InProgress
	s.mode = mode
	s.filter = filter
	s.items = items
	s.modes = modes
	s.cursor = 0
	s.revealed = false
	s.score = 0
	return nil
}

// State returns the current phase
func (s *Session) State() State {
	return s.state
}

// Mode returns the mode chosen at start
func (s *Session) Mode() Mode {
	return s.mode
}

// Filter returns the filter used to build the quiz
func (s *Session) Filter() Filter {
	return s.filter
}

// Items returns the sampled quiz
func (s *Session) Items() []models.Vocab {
	return s.items
}

// Revealed reports whether the current answer is shown
func (s *Session) Revealed() bool {
	return s.revealed
}

// Current returns the card at the cursor. ok is false outside InProgress.
func (s *Session) Current() (card Card, ok bool) {
	if s.state != InProgress {
		return Card{}, false
	}
	return NewCard(s.items[s.cursor], s.modes[s.cursor]), true
}

// Progress returns the 1-based position, the quiz length and the running score
func (s *Session) Progress() (position, total, score int) {
	if s.state == Setup {
		return 0, 0, 0
	}
	position = s.cursor + 1
	if s.state == Finished {
		position = len(s.items)
	}
	return position, len(s.items), s.score
}

// Reveal shows the answer of the current item. It returns false outside InProgress.
func (s *Session) Reveal() bool {
	if s.state != InProgress {
		return false
	}
	s.revealed = true
	return true
}

// Grade records the learner's own verdict on the revealed item and advances.
// It is a no-op until the answer was revealed. The return value reports
// whether the session is finished.
func (s *Session) Grade(correct bool) bool {
	if s.state != InProgress || !s.revealed {
		return s.state == Finished
	}
	if correct {
		s.score++
	}
	if s.cursor+1 < len(s.items) {
		s.cursor++
		s.revealed = false
		return false
	}
	s.state = Finished
	s.revealed = false
	return true
}

// Result returns the score. ok is false until the session is finished.
func (s *Session) Result() (res Result, ok bool) {
	if s.state != Finished {
		return Result{}, false
	}
	return Result{Score: s.score, Total: len(s.items)}, true
}

// Reset discards the session and returns to Setup
func (s *Session) Reset() {
	rnd := s.rnd
	*s = Session{rnd: rnd}
}
