package domain

// TestCase is one input/expected output pair of a problem.
// Test cases are judged in ascending ID order.
type TestCase struct {
	ID             int64  `db:"id"`
	ProblemID      int64  `db:"problem_id"`
	InputData      string `db:"input_data"`
	ExpectedOutput string `db:"expected_output"`
	IsSample       bool   `db:"is_sample"`
}

type TestCaseTable struct {
	ID             string
	ProblemID      string
	InputData      string
	ExpectedOutput string
	IsSample       string
}

func GetTestCaseTable() TestCaseTable {
	return TestCaseTable{
		ID:             "id",
		ProblemID:      "problem_id",
		InputData:      "input_data",
		ExpectedOutput: "expected_output",
		IsSample:       "is_sample",
	}
}

func (TestCaseTable) TableName() string {
	return "test_cases"
}
