package domain

// Problem holds the judging parameters of a problem.
// Only the fields the judge needs are loaded.
type Problem struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	TimeLimitMs int    `db:"time_limit_ms"`
}

type ProblemTable struct {
	ID          string
	Title       string
	TimeLimitMs string
}

func GetProblemTable() ProblemTable {
	return ProblemTable{
		ID:          "id",
		Title:       "title",
		TimeLimitMs: "time_limit_ms",
	}
}

func (ProblemTable) TableName() string {
	return "problems"
}
