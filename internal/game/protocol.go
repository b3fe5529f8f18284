package game

import (
	"errors"
	"fmt"
)

// Wire format, both directions, no framing beyond fixed field sizes:
//
//	status (server -> client): [budget u8][board u8 x len(word)]
//	guess  (client -> server): [char u8]
const (
	// Placeholder marks a position of the board that is not revealed yet.
	Placeholder byte = '_'

	// BudgetLost is sent as the final budget when the guesses ran out.
	BudgetLost byte = 0
	// BudgetWon is sent as the final budget when the board is solved.
	BudgetWon byte = 255

	// MaxWordLen keeps the initial budget below the win sentinel.
	MaxWordLen = 254
)

type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
	StateClosed  State = "closed"
)

// Outcome classifies a single guess.
type Outcome int

const (
	Miss Outcome = iota
	Hit
	Repeat
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Repeat:
		return "repeat"
	default:
		return "miss"
	}
}

var (
	// ErrPeerClosed means the peer went away cleanly between two messages.
	ErrPeerClosed = errors.New("peer closed connection")
	// ErrShortRead means the stream ended in the middle of a field.
	ErrShortRead = errors.New("short read")
	// ErrInvalidWord is returned for secret words that cannot be played.
	ErrInvalidWord = errors.New("invalid secret word")
)

// ValidateWord reports whether word can be used as a secret word.
func ValidateWord(word string) error {
	switch {
	case word == "":
		return fmt.Errorf("%w: empty", ErrInvalidWord)
	case len(word) > MaxWordLen:
		return fmt.Errorf("%w: %d bytes, max %d", ErrInvalidWord, len(word), MaxWordLen)
	}
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c == Placeholder {
			return fmt.Errorf("%w: contains placeholder %q", ErrInvalidWord, Placeholder)
		}
		if c < 0x21 || c > 0x7e {
			return fmt.Errorf("%w: non-printable byte 0x%02x at %d", ErrInvalidWord, c, i)
		}
	}
	return nil
}
