// Package confirm implements the overwrite confirmation protocol shared by
// batch operations: one session is threaded through a whole batch so that a
// "yes to all" or "no to all" answer short-circuits the remaining per-item
// prompts, while a plain yes or no keeps per-item granularity.
package confirm

import (
	"context"
	"errors"
	"sync"
)

// Choice is the set of answers to the overwrite question.
type Choice int

const (
	// Unset means the user has not been asked yet.
	Unset Choice = iota
	Yes
	YesToAll
	No
	NoToAll
	Cancel
)

func (c Choice) String() string {
	switch c {
	case Yes:
		return "yes"
	case YesToAll:
		return "yes to all"
	case No:
		return "no"
	case NoToAll:
		return "no to all"
	case Cancel:
		return "cancel"
	default:
		return "unset"
	}
}

// ErrCancelled is used when the user aborted the operation instead of
// answering the overwrite question.
var ErrCancelled = errors.New("confirm: cancelled by user")

// Prompter asks the user whether the given target may be overwritten.
type Prompter interface {
	ConfirmOverwrite(ctx context.Context, target string) (Choice, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, target string) (Choice, error)

// ConfirmOverwrite calls f.
func (f PrompterFunc) ConfirmOverwrite(ctx context.Context, target string) (Choice, error) {
	return f(ctx, target)
}

// ExistsFunc is the stat-equivalent probe checking whether a target address
// currently exists. The probe differs per batch: a download probes the real
// file system, a rename probes the virtual one.
type ExistsFunc func(ctx context.Context, target string) (bool, error)

// Session is the transient state of one batch operation. It must not be
// reused across batches.
type Session struct {
	mu       sync.Mutex
	choice   Choice
	prompter Prompter
	exists   ExistsFunc
}

// NewSession returns a session asking the given prompter about targets for
// which the probe reports existence.
func NewSession(prompter Prompter, exists ExistsFunc) *Session {
	return &Session{prompter: prompter, exists: exists}
}

// Confirm reports whether the target may be written. A target that does not
// exist never requires confirmation and never changes the session state.
// For an existing target, a previous "to all" answer or a cancellation is
// honored without prompting; otherwise the user is asked and the answer
// recorded.
func (s *Session) Confirm(ctx context.Context, target string) (bool, error) {
	exists, err := s.exists(ctx, target)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.choice {
	case YesToAll:
		return true, nil
	case NoToAll, Cancel:
		return false, nil
	}

	choice, err := s.prompter.ConfirmOverwrite(ctx, target)
	if err != nil {
		s.choice = Cancel
		return false, err
	}
	if choice == Unset {
		// an aborted prompt counts as a cancellation
		choice = Cancel
	}
	s.choice = choice
	return choice == Yes || choice == YesToAll, nil
}

// Cancel forces the session into the cancelled state; all subsequent and
// in-flight Confirm calls on existing targets return false without
// prompting.
func (s *Session) Cancel() {
	s.mu.Lock()
	s.choice = Cancel
	s.mu.Unlock()
}

// Choice returns the last recorded answer.
func (s *Session) Choice() Choice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.choice
}

// Aborted reports whether the session reached a state that drops the rest
// of the batch: "no to all" or a cancellation.
func (s *Session) Aborted() bool {
	c := s.Choice()
	return c == NoToAll || c == Cancel
}
