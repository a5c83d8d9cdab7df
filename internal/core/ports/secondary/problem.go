package secondary

import (
	"context"

	"gitlab.com/ticket-raiser/judge/internal/domain"
)

type ProblemRepository interface {
	// GetProblem retrieves a problem by ID, nil when it does not exist
	GetProblem(ctx context.Context, problemID int64) (*domain.Problem, error)

	// GetTestCases retrieves all test cases of a problem in ascending ID order
	GetTestCases(ctx context.Context, problemID int64) ([]*domain.TestCase, error)
}
