package domain

// Submission represents a user's source code queued for judging
type Submission struct {
	ID              int64  `db:"id"`
	ProblemID       int64  `db:"problem_id"`
	Code            string `db:"code"`
	Status          Status `db:"status"`
	TestCasesPassed int    `db:"test_cases_passed"`
}

type SubmissionTable struct {
	ID              string
	ProblemID       string
	Code            string
	Status          string
	TestCasesPassed string
}

func GetSubmissionTable() SubmissionTable {
	return SubmissionTable{
		ID:              "id",
		ProblemID:       "problem_id",
		Code:            "code",
		Status:          "status",
		TestCasesPassed: "test_cases_passed",
	}
}

func (SubmissionTable) TableName() string {
	return "submissions"
}
