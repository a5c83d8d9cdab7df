package judge

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/secondary"
	"gitlab.com/ticket-raiser/judge/internal/domain"
)

var _ IJudgeService = (*JudgeService)(nil)

// JudgeService implements the IJudgeService interface
type JudgeService struct {
	submissionRepo secondary.SubmissionRepository
	problemRepo    secondary.ProblemRepository
	runner         secondary.SandboxRunner
	logger         primary.Logger
}

// NewJudgeService creates a new judge service
func NewJudgeService(
	submissionRepo secondary.SubmissionRepository,
	problemRepo secondary.ProblemRepository,
	runner secondary.SandboxRunner,
	logger primary.Logger,
) *JudgeService {
	return &JudgeService{
		submissionRepo: submissionRepo,
		problemRepo:    problemRepo,
		runner:         runner,
		logger:         logger,
	}
}

func (s *JudgeService) JudgeSubmission(ctx context.Context, submissionID int64) (*domain.Verdict, error) {
	submission, err := s.submissionRepo.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission %d: %w", submissionID, err)
	}
	if submission == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrSubmissionNotFound, submissionID)
	}

	problem, err := s.problemRepo.GetProblem(ctx, submission.ProblemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem %d: %w", submission.ProblemID, err)
	}
	if problem == nil {
		return nil, fmt.Errorf("%w: %d", domain.ErrProblemNotFound, submission.ProblemID)
	}

	testCases, err := s.problemRepo.GetTestCases(ctx, problem.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases of problem %d: %w", problem.ID, err)
	}

	return s.Judge(ctx, submission, problem, testCases)
}

func (s *JudgeService) Judge(ctx context.Context, submission *domain.Submission, problem *domain.Problem, testCases []*domain.TestCase) (*domain.Verdict, error) {
	if len(testCases) == 0 {
		return nil, fmt.Errorf("%w: problem %d", domain.ErrNoTestCases, problem.ID)
	}
	if problem.TimeLimitMs <= 0 {
		return nil, fmt.Errorf("%w: problem %d has %dms", domain.ErrInvalidTimeLimit, problem.ID, problem.TimeLimitMs)
	}

	s.logger.Info("Judging submission",
		"submission_id", submission.ID,
		"problem_id", problem.ID,
		"test_cases", len(testCases),
		"time_limit_ms", problem.TimeLimitMs,
	)

	start := time.Now()
	fold := NewFold()
	verdict := &domain.Verdict{
		TotalCount: len(testCases),
		Outcomes:   make([]domain.JudgeOutcome, 0, len(testCases)),
	}

	for i, testCase := range testCases {
		outcome := s.runner.Run(ctx, submission.Code, testCase.InputData, testCase.ExpectedOutput, problem.TimeLimitMs)
		verdict.Outcomes = append(verdict.Outcomes, outcome)

		s.logger.Debug("Test case finished",
			"submission_id", submission.ID,
			"index", i,
			"test_case_id", testCase.ID,
			"passed", outcome.Passed,
			"timed_out", outcome.TimedOut,
			"error_type", outcome.ErrorType,
			"duration", outcome.Duration,
		)

		if fold.Observe(outcome) {
			s.logger.Info("Stopping at terminal outcome",
				"submission_id", submission.ID,
				"index", i,
				"status", fold.Status(),
				"error", outcome.Error,
			)
			break
		}
	}

	verdict.Status = fold.Status()
	verdict.PassedCount = fold.Passed()

	s.logger.Info("Submission judged",
		"submission_id", submission.ID,
		"status", verdict.Status,
		"passed", verdict.PassedCount,
		"total", verdict.TotalCount,
		"duration", time.Since(start),
	)

	return verdict, nil
}
