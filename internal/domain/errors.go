package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrProblemNotFound    = errors.New("problem not found")
	ErrNoTestCases        = errors.New("problem has no test cases")
	ErrInvalidTimeLimit   = errors.New("problem time limit must be positive")
	ErrMalformedQueueItem = errors.New("malformed queue item")
)

// IsPrecondition reports whether err means the submission cannot be judged
// at all, so no verdict should be written.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrProblemNotFound) ||
		errors.Is(err, ErrNoTestCases) ||
		errors.Is(err, ErrInvalidTimeLimit)
}

// ParseSubmissionID decodes a queue item into a submission id
func ParseSubmissionID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedQueueItem, raw)
	}
	return id, nil
}
