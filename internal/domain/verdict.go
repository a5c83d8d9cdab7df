package domain

// Status represents the judging status of a submission
type Status string

const (
	StatusPending           Status = "PENDING"
	StatusAccepted          Status = "ACCEPTED"
	StatusWrongAnswer       Status = "WRONG_ANSWER"
	StatusRuntimeError      Status = "RUNTIME_ERROR"
	StatusTimeLimitExceeded Status = "TIME_LIMIT_EXCEEDED"
)

// Severity orders final statuses: ACCEPTED < WRONG_ANSWER < RUNTIME_ERROR < TIME_LIMIT_EXCEEDED.
// PENDING and unknown values rank below ACCEPTED.
func (s Status) Severity() int {
	switch s {
	case StatusAccepted:
		return 1
	case StatusWrongAnswer:
		return 2
	case StatusRuntimeError:
		return 3
	case StatusTimeLimitExceeded:
		return 4
	default:
		return 0
	}
}

// IsTerminal reports whether judging stops once this status is reached
func (s Status) IsTerminal() bool {
	return s == StatusRuntimeError || s == StatusTimeLimitExceeded
}

// Verdict is the aggregated result of judging a submission
type Verdict struct {
	Status      Status         `json:"status"`
	PassedCount int            `json:"passed_count"`
	TotalCount  int            `json:"total_count"`
	Outcomes    []JudgeOutcome `json:"-"`
}
