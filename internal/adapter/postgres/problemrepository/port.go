package problemrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/ports/secondary"
	"gitlab.com/ticket-raiser/judge/internal/domain"
	querybuilder "gitlab.com/ticket-raiser/judge/internal/utils"
)

var _ secondary.ProblemRepository = (*ProblemRepository)(nil)

// ProblemRepository reads problems and their test cases from PostgreSQL
type ProblemRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

func NewProblemRepository(db *sqlx.DB, schema string, logger primary.Logger) *ProblemRepository {
	return &ProblemRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func (r *ProblemRepository) GetProblem(ctx context.Context, problemID int64) (*domain.Problem, error) {
	tbl := domain.GetProblemTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ID, tbl.Title, tbl.TimeLimitMs).
		From(tbl.TableName()).
		Where(tbl.ID+" = ?", problemID).
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var problem domain.Problem
	if err := r.db.GetContext(ctx, &problem, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get problem", "problem_id", problemID, "error", err)
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}

	return &problem, nil
}

// GetTestCases returns the test cases of a problem ordered by id, which is
// the order they were created in.
func (r *ProblemRepository) GetTestCases(ctx context.Context, problemID int64) ([]*domain.TestCase, error) {
	tbl := domain.GetTestCaseTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ID, tbl.ProblemID, tbl.InputData, tbl.ExpectedOutput, tbl.IsSample).
		From(tbl.TableName()).
		Where(tbl.ProblemID+" = ?", problemID).
		OrderBy(tbl.ID, true).
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	testCases := make([]*domain.TestCase, 0)
	if err := r.db.SelectContext(ctx, &testCases, query, args...); err != nil {
		r.logger.Error("Failed to get test cases", "problem_id", problemID, "error", err)
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}

	return testCases, nil
}
