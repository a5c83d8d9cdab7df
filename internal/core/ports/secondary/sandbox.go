package secondary

import (
	"context"

	"gitlab.com/ticket-raiser/judge/internal/domain"
)

type SandboxRunner interface {
	// Run executes code in an isolated sandbox with input on stdin and compares
	// its output with expectedOutput. Every failure is reported in the outcome.
	Run(ctx context.Context, code, input, expectedOutput string, timeLimitMs int) domain.JudgeOutcome
}
