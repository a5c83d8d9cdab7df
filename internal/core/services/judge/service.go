package judge

import (
	"context"

	"gitlab.com/ticket-raiser/judge/internal/domain"
)

// IJudgeService judges submissions against their problem's test cases
type IJudgeService interface {
	// Judge runs the submission against testCases in order and reduces the
	// outcomes to one verdict. It fails only on precondition errors.
	Judge(ctx context.Context, submission *domain.Submission, problem *domain.Problem, testCases []*domain.TestCase) (*domain.Verdict, error)

	// JudgeSubmission loads a submission with its problem and test cases and judges it
	JudgeSubmission(ctx context.Context, submissionID int64) (*domain.Verdict, error)
}
