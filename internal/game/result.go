package game

import (
	"context"
	"errors"
	"time"
)

// OutcomeAborted is recorded for sessions that ended before a win or a loss.
const OutcomeAborted = "aborted"

// Result is the serializable summary of a finished session. It is recorded for
// reporting only and is never used to resume a game.
type Result struct {
	SessionID string `json:"sessionId"`
	Remote    string `json:"remote"`
	Transport string `json:"transport"` // tcp|ws

	WordLen int    `json:"wordLen"`
	Outcome string `json:"outcome"` // won|lost|aborted
	Budget  int    `json:"budget"`  // last budget before the sentinel

	Rounds  int `json:"rounds"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Repeats int `json:"repeats"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// ResultRecorder stores finished sessions.
type ResultRecorder interface {
	Record(ctx context.Context, r Result) error
}

func (s *Session) resultFor(outcome string) Result {
	return Result{
		SessionID:  s.id,
		Remote:     s.remote,
		Transport:  s.transport,
		WordLen:    s.board.Len(),
		Outcome:    outcome,
		Budget:     int(s.budget),
		Rounds:     s.rounds,
		Hits:       s.hits,
		Misses:     s.misses,
		Repeats:    s.repeats,
		StartedAt:  s.startedAt,
		FinishedAt: time.Now(),
	}
}

// Recorders fans a result out to every non-nil recorder and joins their errors.
func Recorders(rs ...ResultRecorder) ResultRecorder {
	out := make(multiRecorder, 0, len(rs))
	for _, r := range rs {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

type multiRecorder []ResultRecorder

func (m multiRecorder) Record(ctx context.Context, r Result) error {
	var errs []error
	for _, rec := range m {
		if err := rec.Record(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
