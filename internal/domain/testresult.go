package domain

import "time"

// ErrorType classifies a failed sandbox run. It is telemetry only and
// never changes the verdict.
type ErrorType string

const (
	ErrorTypeNone              ErrorType = ""
	ErrorTypeTimeout           ErrorType = "TIMEOUT"
	ErrorTypeRuntime           ErrorType = "RUNTIME"
	ErrorTypeWrongAnswer       ErrorType = "WRONG_ANSWER"
	ErrorTypeSyntaxError       ErrorType = "SYNTAX_ERROR"
	ErrorTypeNameError         ErrorType = "NAME_ERROR"
	ErrorTypeTypeError         ErrorType = "TYPE_ERROR"
	ErrorTypeValueError        ErrorType = "VALUE_ERROR"
	ErrorTypeIndexError        ErrorType = "INDEX_ERROR"
	ErrorTypeZeroDivisionError ErrorType = "ZERO_DIVISION"
)

// JudgeOutcome is the result of running a submission against one test case
type JudgeOutcome struct {
	Passed       bool          `json:"passed"`
	ActualOutput string        `json:"actual_output"`
	Error        string        `json:"error,omitempty"`
	ErrorType    ErrorType     `json:"error_type,omitempty"`
	TimedOut     bool          `json:"timed_out"`
	Duration     time.Duration `json:"duration"`
}

// Failed reports whether the run ended abnormally (timeout or runtime error).
// A wrong answer is not a failure of the run itself.
func (o JudgeOutcome) Failed() bool {
	return o.TimedOut || o.Error != ""
}
