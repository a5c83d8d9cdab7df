package judge

import "gitlab.com/ticket-raiser/judge/internal/domain"

// Fold reduces an ordered stream of test case outcomes to a verdict.
// The status only moves up the severity order and stops changing once a
// terminal status is reached.
type Fold struct {
	status  domain.Status
	passed  int
	stopped bool
}

func NewFold() *Fold {
	return &Fold{status: domain.StatusAccepted}
}

// Observe folds one outcome and reports whether judging must stop
func (f *Fold) Observe(outcome domain.JudgeOutcome) bool {
	if f.stopped {
		return true
	}

	next := outcomeStatus(outcome)
	if next == domain.StatusAccepted {
		f.passed++
	}
	if next.Severity() > f.status.Severity() {
		f.status = next
	}
	if next.IsTerminal() {
		f.stopped = true
	}
	return f.stopped
}

func (f *Fold) Status() domain.Status {
	return f.status
}

func (f *Fold) Passed() int {
	return f.passed
}

// outcomeStatus maps a single outcome to the status it contributes.
// Order matters: a pass is counted before anything else is considered.
func outcomeStatus(outcome domain.JudgeOutcome) domain.Status {
	switch {
	case outcome.Passed:
		return domain.StatusAccepted
	case outcome.TimedOut:
		return domain.StatusTimeLimitExceeded
	case outcome.Failed():
		return domain.StatusRuntimeError
	default:
		return domain.StatusWrongAnswer
	}
}

// Reduce folds a complete outcome sequence, ignoring everything after the
// first terminal outcome.
func Reduce(outcomes []domain.JudgeOutcome) (domain.Status, int) {
	fold := NewFold()
	for _, outcome := range outcomes {
		if fold.Observe(outcome) {
			break
		}
	}
	return fold.Status(), fold.Passed()
}
