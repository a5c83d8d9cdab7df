package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusSeverityOrder(t *testing.T) {
	order := []Status{StatusPending, StatusAccepted, StatusWrongAnswer, StatusRuntimeError, StatusTimeLimitExceeded}
	for i := 1; i < len(order); i++ {
		if order[i-1].Severity() >= order[i].Severity() {
			t.Fatalf("expected %s < %s", order[i-1], order[i])
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	cases := map[Status]bool{
		StatusAccepted:          false,
		StatusWrongAnswer:       false,
		StatusRuntimeError:      true,
		StatusTimeLimitExceeded: true,
	}
	for status, want := range cases {
		if got := status.IsTerminal(); got != want {
			t.Fatalf("%s: expected terminal=%v, got %v", status, want, got)
		}
	}
	if StatusPending.IsTerminal() {
		t.Fatal("PENDING must not be terminal")
	}
}

func TestIsPrecondition(t *testing.T) {
	wrapped := fmt.Errorf("load problem 3: %w", ErrProblemNotFound)
	if !IsPrecondition(wrapped) {
		t.Fatal("expected wrapped ErrProblemNotFound to be a precondition failure")
	}
	if !IsPrecondition(ErrNoTestCases) {
		t.Fatal("expected ErrNoTestCases to be a precondition failure")
	}
	if IsPrecondition(errors.New("connection reset")) {
		t.Fatal("expected infrastructure error not to be a precondition failure")
	}
}

func TestParseSubmissionID(t *testing.T) {
	cases := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "1", want: 1},
		{raw: " 99\n", want: 99},
		{raw: "0", wantErr: true},
		{raw: "-4", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "1.5", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseSubmissionID(tc.raw)
		if tc.wantErr {
			if !errors.Is(err, ErrMalformedQueueItem) {
				t.Fatalf("ParseSubmissionID(%q): expected ErrMalformedQueueItem, got %v", tc.raw, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseSubmissionID(%q): expected %d, got %d (%v)", tc.raw, tc.want, got, err)
		}
	}
}

func TestJudgeOutcomeFailed(t *testing.T) {
	if (JudgeOutcome{ErrorType: ErrorTypeWrongAnswer}).Failed() {
		t.Fatal("wrong answer is not a failed run")
	}
	if !(JudgeOutcome{TimedOut: true}).Failed() {
		t.Fatal("timeout is a failed run")
	}
	if !(JudgeOutcome{Error: "boom"}).Failed() {
		t.Fatal("runtime error is a failed run")
	}
}
