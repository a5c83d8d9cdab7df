// Package submissionrepository stores submissions and their verdicts in PostgreSQL
package submissionrepository

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

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository implements the SubmissionRepository interface with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, schema string, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// GetSubmission retrieves a submission from PostgreSQL by ID
func (r *SubmissionRepository) GetSubmission(ctx context.Context, submissionID int64) (*domain.Submission, error) {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Select(tbl.ID, tbl.ProblemID, tbl.Code, tbl.Status, tbl.TestCasesPassed).
		From(tbl.TableName()).
		Where(tbl.ID+" = ?", submissionID).
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var submission domain.Submission
	var status sql.NullString
	var passed sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&submission.ID,
		&submission.ProblemID,
		&submission.Code,
		&status,
		&passed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get submission", "submission_id", submissionID, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	submission.Status = domain.StatusPending
	if status.Valid && status.String != "" {
		submission.Status = domain.Status(status.String)
	}
	if passed.Valid {
		submission.TestCasesPassed = int(passed.Int64)
	}

	return &submission, nil
}

// UpdateSubmissionResult writes the final status and passed count of a submission
func (r *SubmissionRepository) UpdateSubmissionResult(ctx context.Context, submissionID int64, status domain.Status, testCasesPassed int) error {
	tbl := domain.GetSubmissionTable()
	query, args := querybuilder.NewQueryBuilder(r.schema).
		Update(tbl.TableName()).
		Set(tbl.Status, string(status)).
		Set(tbl.TestCasesPassed, testCasesPassed).
		Where(tbl.ID+" = ?", submissionID).
		Build()
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update submission result", "submission_id", submissionID, "error", err)
		return fmt.Errorf("failed to update submission result: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Error checking rows affected", "error", err)
		return fmt.Errorf("error checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %d", domain.ErrSubmissionNotFound, submissionID)
	}

	return nil
}

func (r *SubmissionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
