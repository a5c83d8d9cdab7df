package problemrepository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

const (
	problemQuery   = "SELECT id, title, time_limit_ms FROM public.problems WHERE id = $1"
	testCasesQuery = "SELECT id, problem_id, input_data, expected_output, is_sample FROM public.test_cases WHERE problem_id = $1 ORDER BY id ASC"
)

func newTestRepo(t *testing.T) (*ProblemRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewProblemRepository(sqlx.NewDb(db, "postgres"), "public", nopLogger{}), mock
}

func TestGetProblem(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(problemQuery).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "time_limit_ms"}).AddRow(int64(3), "A+B", 1000))

	problem, err := repo.GetProblem(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if problem == nil || problem.TimeLimitMs != 1000 || problem.Title != "A+B" {
		t.Fatalf("unexpected problem: %+v", problem)
	}
}

func TestGetProblemNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(problemQuery).WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "time_limit_ms"}))

	problem, err := repo.GetProblem(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if problem != nil {
		t.Fatalf("expected nil problem, got %+v", problem)
	}
}

func TestGetTestCasesKeepsOrder(t *testing.T) {
	repo, mock := newTestRepo(t)
	rows := sqlmock.NewRows([]string{"id", "problem_id", "input_data", "expected_output", "is_sample"}).
		AddRow(int64(10), int64(3), "1 2", "3", true).
		AddRow(int64(11), int64(3), "5 5", "10", false).
		AddRow(int64(14), int64(3), "0 0", "0", false)
	mock.ExpectQuery(testCasesQuery).WithArgs(int64(3)).WillReturnRows(rows)

	cases, err := repo.GetTestCases(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 3 {
		t.Fatalf("expected 3 test cases, got %d", len(cases))
	}
	for i, want := range []int64{10, 11, 14} {
		if cases[i].ID != want {
			t.Fatalf("position %d: expected id %d, got %d", i, want, cases[i].ID)
		}
	}
	if !cases[0].IsSample || cases[1].ExpectedOutput != "10" {
		t.Fatalf("unexpected test case fields: %+v %+v", cases[0], cases[1])
	}
}

func TestGetTestCasesEmpty(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(testCasesQuery).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "problem_id", "input_data", "expected_output", "is_sample"}))

	cases, err := repo.GetTestCases(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 0 {
		t.Fatalf("expected no test cases, got %d", len(cases))
	}
}

func TestGetTestCasesError(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectQuery(testCasesQuery).WithArgs(int64(6)).WillReturnError(errors.New("boom"))

	if _, err := repo.GetTestCases(context.Background(), 6); err == nil {
		t.Fatal("expected error")
	}
}
